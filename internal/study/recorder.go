package study

import (
	"context"
	"log/slog"
	"time"

	"github.com/at-ishikawa/quizgpt/internal/studyset"
)

// CardStore is the part of studyset.Repository a study session writes to.
type CardStore interface {
	UpdateCardField(ctx context.Context, ownerID, setID, cardID string, field studyset.CardField, value any) error
	TouchSet(ctx context.Context, ownerID, setID string, studiedAt time.Time) error
}

// Recorder writes study side effects for one set. Failures are logged and never
// interrupt the session.
type Recorder struct {
	store   CardStore
	ownerID string
	setID   string
	now     func() time.Time
}

// NewRecorder returns a Recorder. A nil store records nothing.
func NewRecorder(store CardStore, ownerID, setID string) *Recorder {
	return &Recorder{
		store:   store,
		ownerID: ownerID,
		setID:   setID,
		now:     time.Now,
	}
}

func (r *Recorder) RecordMastery(ctx context.Context, cardID string, level studyset.MasteryLevel) {
	if r == nil || r.store == nil {
		return
	}
	if err := r.store.UpdateCardField(ctx, r.ownerID, r.setID, cardID, studyset.CardFieldMasteryLevel, level); err != nil {
		slog.Default().Warn("failed to update mastery level",
			"setID", r.setID,
			"cardID", cardID,
			"mastery", level,
			"error", err,
		)
	}
}

func (r *Recorder) RecordStudied(ctx context.Context) {
	if r == nil || r.store == nil {
		return
	}
	if err := r.store.TouchSet(ctx, r.ownerID, r.setID, r.now()); err != nil {
		slog.Default().Warn("failed to update last studied time",
			"setID", r.setID,
			"error", err,
		)
	}
}
