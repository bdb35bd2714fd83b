package study

import (
	"context"

	"github.com/at-ishikawa/quizgpt/internal/studyset"
)

// FlipSession is a flip-card session: the student reveals the answer and says
// whether they knew it.
type FlipSession struct {
	queue    Queue
	shuffler Shuffler
	recorder *Recorder
}

func NewFlipSession(cards []studyset.Card, starredOnly bool, shuffler Shuffler, recorder *Recorder) (*FlipSession, error) {
	queue, err := NewQueue(cards, starredOnly, shuffler)
	if err != nil {
		return nil, err
	}
	return &FlipSession{
		queue:    queue,
		shuffler: shuffler,
		recorder: recorder,
	}, nil
}

func (s *FlipSession) Queue() Queue {
	return s.queue
}

// Answer records whether the student knew the current card and marks its mastery level.
// The set is marked as studied when the last card is passed.
func (s *FlipSession) Answer(ctx context.Context, knewIt bool) {
	card, ok := s.queue.Current()
	if !ok {
		return
	}
	s.queue = s.queue.RecordResult(knewIt)

	level := studyset.MasteryNeedsImprovement
	if knewIt {
		level = studyset.MasteryMastered
	}
	s.recorder.RecordMastery(ctx, card.ID, level)
	if s.queue.IsComplete() {
		s.recorder.RecordStudied(ctx)
	}
}

func (s *FlipSession) Restart() {
	s.queue = s.queue.Restart(s.shuffler)
}
