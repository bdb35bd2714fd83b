package studyset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/at-ishikawa/quizgpt/internal/database"
)

// Repository defines operations for managing sets and their cards.
// Every operation is scoped to the owner of the set.
type Repository interface {
	FindSets(ctx context.Context, ownerID string) ([]Set, error)
	FindSet(ctx context.Context, ownerID, setID string) (*Set, error)
	CreateSet(ctx context.Context, set *Set) error
	UpdateSet(ctx context.Context, ownerID, setID, title, description string) error
	UpdateSetStarred(ctx context.Context, ownerID, setID string, starred bool) error
	TouchSet(ctx context.Context, ownerID, setID string, studiedAt time.Time) error
	DeleteSet(ctx context.Context, ownerID, setID string) error

	FindCards(ctx context.Context, ownerID, setID string) ([]Card, error)
	CreateCards(ctx context.Context, ownerID, setID string, cards []Card) error
	UpdateCardField(ctx context.Context, ownerID, setID, cardID string, field CardField, value any) error
	DeleteCard(ctx context.Context, ownerID, setID, cardID string) error
}

const (
	idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	idLength   = 21
)

// NewID returns a new identifier for a set or a card.
// IDs are alphanumeric so that they never look like a command line flag.
func NewID() (string, error) {
	id, err := gonanoid.Generate(idAlphabet, idLength)
	if err != nil {
		return "", fmt.Errorf("gonanoid.Generate() > %w", err)
	}
	return id, nil
}

// prepareSet fills the identity and the creation time of a new set.
func prepareSet(set *Set, now time.Time) error {
	if set.ID == "" {
		id, err := NewID()
		if err != nil {
			return err
		}
		set.ID = id
	}
	if set.CreatedAt.IsZero() {
		set.CreatedAt = now
	}
	return nil
}

// prepareCards fills identities, creation times and the default mastery level of new cards.
func prepareCards(setID string, cards []Card, now time.Time) error {
	for i := range cards {
		if cards[i].ID == "" {
			id, err := NewID()
			if err != nil {
				return err
			}
			cards[i].ID = id
		}
		cards[i].SetID = setID
		if cards[i].MasteryLevel == "" {
			cards[i].MasteryLevel = MasteryNotStudied
		}
		if cards[i].CreatedAt.IsZero() {
			cards[i].CreatedAt = now
		}
	}
	return nil
}

// normalizeFieldValue checks that value has the type the field stores.
func normalizeFieldValue(field CardField, value any) (any, error) {
	switch field {
	case CardFieldQuestion, CardFieldAnswer, CardFieldQuestionImageURI, CardFieldAnswerImageURI:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("field %s requires a string, got %T", field, value)
		}
		return s, nil
	case CardFieldMasteryLevel:
		switch v := value.(type) {
		case MasteryLevel:
			return ParseMasteryLevel(string(v))
		case string:
			return ParseMasteryLevel(v)
		}
		return nil, fmt.Errorf("field %s requires a mastery level, got %T", field, value)
	case CardFieldStarred:
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("field %s requires a bool, got %T", field, value)
		}
		return b, nil
	}
	return nil, fmt.Errorf("unknown card field: %q", field)
}

// DBRepository implements Repository using sqlx.
type DBRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db, now: time.Now}
}

// FindSets returns the sets of an owner, newest first.
func (r *DBRepository) FindSets(ctx context.Context, ownerID string) ([]Set, error) {
	var sets []Set
	if err := r.db.SelectContext(ctx, &sets,
		"SELECT * FROM quiz_sets WHERE owner_id = ? ORDER BY created_at DESC",
		ownerID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(quiz_sets) > %w", err)
	}
	return sets, nil
}

// FindSet returns a set or ErrNotFound.
func (r *DBRepository) FindSet(ctx context.Context, ownerID, setID string) (*Set, error) {
	var set Set
	err := r.db.GetContext(ctx, &set,
		"SELECT * FROM quiz_sets WHERE owner_id = ? AND id = ?",
		ownerID, setID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("set %s: %w", setID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(quiz_set) > %w", err)
	}
	return &set, nil
}

// CreateSet inserts a set, assigning its ID and creation time when empty.
func (r *DBRepository) CreateSet(ctx context.Context, set *Set) error {
	if err := prepareSet(set, r.now()); err != nil {
		return err
	}
	if _, err := r.db.NamedExecContext(ctx,
		`INSERT INTO quiz_sets (id, owner_id, title, description, is_ai_graded, is_starred, created_at, last_studied_at)
		VALUES (:id, :owner_id, :title, :description, :is_ai_graded, :is_starred, :created_at, :last_studied_at)`,
		set); err != nil {
		return fmt.Errorf("db.NamedExecContext(insert quiz_set) > %w", err)
	}
	return nil
}

func (r *DBRepository) UpdateSet(ctx context.Context, ownerID, setID, title, description string) error {
	return r.execAffectingSet(ctx, setID,
		"UPDATE quiz_sets SET title = ?, description = ? WHERE owner_id = ? AND id = ?",
		title, description, ownerID, setID)
}

func (r *DBRepository) UpdateSetStarred(ctx context.Context, ownerID, setID string, starred bool) error {
	return r.execAffectingSet(ctx, setID,
		"UPDATE quiz_sets SET is_starred = ? WHERE owner_id = ? AND id = ?",
		starred, ownerID, setID)
}

// TouchSet records when the set was last studied.
func (r *DBRepository) TouchSet(ctx context.Context, ownerID, setID string, studiedAt time.Time) error {
	return r.execAffectingSet(ctx, setID,
		"UPDATE quiz_sets SET last_studied_at = ? WHERE owner_id = ? AND id = ?",
		studiedAt, ownerID, setID)
}

func (r *DBRepository) execAffectingSet(ctx context.Context, setID string, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db.ExecContext(update quiz_set) > %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("result.RowsAffected() > %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("set %s: %w", setID, ErrNotFound)
	}
	return nil
}

// DeleteSet deletes a set together with its cards.
func (r *DBRepository) DeleteSet(ctx context.Context, ownerID, setID string) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM cards WHERE set_id IN (SELECT id FROM quiz_sets WHERE owner_id = ? AND id = ?)",
			ownerID, setID); err != nil {
			return fmt.Errorf("tx.ExecContext(delete cards) > %w", err)
		}
		result, err := tx.ExecContext(ctx,
			"DELETE FROM quiz_sets WHERE owner_id = ? AND id = ?",
			ownerID, setID)
		if err != nil {
			return fmt.Errorf("tx.ExecContext(delete quiz_set) > %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("result.RowsAffected() > %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("set %s: %w", setID, ErrNotFound)
		}
		return nil
	})
}

// FindCards returns the cards of a set in creation order.
func (r *DBRepository) FindCards(ctx context.Context, ownerID, setID string) ([]Card, error) {
	var cards []Card
	if err := r.db.SelectContext(ctx, &cards,
		`SELECT cards.* FROM cards
		INNER JOIN quiz_sets ON quiz_sets.id = cards.set_id
		WHERE quiz_sets.owner_id = ? AND cards.set_id = ?
		ORDER BY cards.created_at`,
		ownerID, setID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(cards) > %w", err)
	}
	return cards, nil
}

// CreateCards inserts cards into a set in a single transaction.
func (r *DBRepository) CreateCards(ctx context.Context, ownerID, setID string, cards []Card) error {
	if len(cards) == 0 {
		return nil
	}
	if err := prepareCards(setID, cards, r.now()); err != nil {
		return err
	}

	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		var count int
		if err := tx.GetContext(ctx, &count,
			"SELECT COUNT(*) FROM quiz_sets WHERE owner_id = ? AND id = ?",
			ownerID, setID); err != nil {
			return fmt.Errorf("tx.GetContext(count quiz_sets) > %w", err)
		}
		if count == 0 {
			return fmt.Errorf("set %s: %w", setID, ErrNotFound)
		}

		for _, card := range cards {
			if _, err := tx.NamedExecContext(ctx,
				`INSERT INTO cards (id, set_id, question, answer, question_image_uri, answer_image_uri, mastery_level, is_starred, created_at)
				VALUES (:id, :set_id, :question, :answer, :question_image_uri, :answer_image_uri, :mastery_level, :is_starred, :created_at)`,
				card); err != nil {
				return fmt.Errorf("tx.NamedExecContext(insert card %s) > %w", card.ID, err)
			}
		}
		return nil
	})
}

// UpdateCardField updates a single attribute of a card.
func (r *DBRepository) UpdateCardField(ctx context.Context, ownerID, setID, cardID string, field CardField, value any) error {
	normalized, err := normalizeFieldValue(field, value)
	if err != nil {
		return err
	}

	// field is one of the known column names after normalizeFieldValue
	query := fmt.Sprintf(
		"UPDATE cards SET %s = ? WHERE id = ? AND set_id = ? AND set_id IN (SELECT id FROM quiz_sets WHERE owner_id = ?)",
		field,
	)
	result, err := r.db.ExecContext(ctx, query, normalized, cardID, setID, ownerID)
	if err != nil {
		return fmt.Errorf("db.ExecContext(update card %s) > %w", field, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("result.RowsAffected() > %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("card %s: %w", cardID, ErrNotFound)
	}
	return nil
}

func (r *DBRepository) DeleteCard(ctx context.Context, ownerID, setID, cardID string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM cards WHERE id = ? AND set_id = ? AND set_id IN (SELECT id FROM quiz_sets WHERE owner_id = ?)",
		cardID, setID, ownerID)
	if err != nil {
		return fmt.Errorf("db.ExecContext(delete card) > %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("result.RowsAffected() > %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("card %s: %w", cardID, ErrNotFound)
	}
	return nil
}
