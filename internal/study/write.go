package study

import (
	"context"

	"github.com/at-ishikawa/quizgpt/internal/grading"
	"github.com/at-ishikawa/quizgpt/internal/quiz"
	"github.com/at-ishikawa/quizgpt/internal/studyset"
)

// WriteState is a snapshot of a write mode session.
type WriteState struct {
	Current        studyset.Card
	HasCurrent     bool
	Remaining      int
	Total          int
	Progress       float64
	CorrectCount   int
	IncorrectCount int
	IsComplete     bool
}

// WriteResult is the grade of one typed answer.
type WriteResult struct {
	Card       studyset.Card
	UserAnswer string
	quiz.Verdict
}

// WriteSession is a write mode session: the student types the answer of each
// card and it is graded as a short answer.
type WriteSession struct {
	queue    Queue
	shuffler Shuffler
	grader   *grading.Grader
	recorder *Recorder

	correctCount   int
	incorrectCount int
}

func NewWriteSession(cards []studyset.Card, starredOnly bool, grader *grading.Grader, shuffler Shuffler, recorder *Recorder) (*WriteSession, error) {
	queue, err := NewQueue(cards, starredOnly, shuffler)
	if err != nil {
		return nil, err
	}
	return &WriteSession{
		queue:    queue,
		shuffler: shuffler,
		grader:   grader,
		recorder: recorder,
	}, nil
}

// Submit grades the answer to the current card and moves on.
// It returns false when the session is already complete.
func (s *WriteSession) Submit(ctx context.Context, userAnswer string) (WriteResult, bool) {
	card, ok := s.queue.Current()
	if !ok {
		return WriteResult{}, false
	}

	verdict := s.grader.ShortAnswer(ctx, card.Question, card.Answer, userAnswer)
	if verdict.IsCorrect {
		s.correctCount++
	} else {
		s.incorrectCount++
	}
	s.queue = s.queue.RecordResult(verdict.IsCorrect)
	if s.queue.IsComplete() {
		s.recorder.RecordStudied(ctx)
	}
	return WriteResult{Card: card, UserAnswer: userAnswer, Verdict: verdict}, true
}

// SetMastery lets the student mark a card after seeing the feedback.
func (s *WriteSession) SetMastery(ctx context.Context, cardID string, level studyset.MasteryLevel) {
	s.recorder.RecordMastery(ctx, cardID, level)
}

// Restart reshuffles every card and resets the counters.
func (s *WriteSession) Restart() {
	s.queue = s.queue.Restart(s.shuffler)
	s.correctCount = 0
	s.incorrectCount = 0
}

func (s *WriteSession) State() WriteState {
	current, hasCurrent := s.queue.Current()
	return WriteState{
		Current:        current,
		HasCurrent:     hasCurrent,
		Remaining:      s.queue.Len(),
		Total:          s.queue.Total(),
		Progress:       s.queue.Progress(),
		CorrectCount:   s.correctCount,
		IncorrectCount: s.incorrectCount,
		IsComplete:     s.queue.IsComplete(),
	}
}
