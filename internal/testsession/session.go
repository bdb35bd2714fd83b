// Package testsession runs an AI generated test: generation, pagination, grading per page and scoring.
package testsession

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/at-ishikawa/quizgpt/internal/grading"
	"github.com/at-ishikawa/quizgpt/internal/inference"
	"github.com/at-ishikawa/quizgpt/internal/prompt"
	"github.com/at-ishikawa/quizgpt/internal/quiz"
	"github.com/at-ishikawa/quizgpt/internal/studyset"
)

const (
	MessageAIDisabled     = "AI features are currently disabled."
	MessageEmptySet       = "Set has no cards."
	MessageNoStarredCards = "No starred cards found."
	MessageNoQuestionType = "Select at least one question type."
	MessageParseFailure   = "Failed to parse test data."
	messageAIErrorPrefix  = "AI Error: "
)

var (
	ErrNoQuestionType = errors.New("no question type selected")
	// ErrBusy is returned while a generation or a grading is in flight.
	ErrBusy = errors.New("test session is busy")
	// ErrStale is returned when the session was reset before the response arrived.
	// The response is discarded.
	ErrStale = errors.New("test session was reset")
	// ErrNotReady is returned when the session has no page to answer or submit.
	ErrNotReady = errors.New("test session is not ready")
)

// GenerationError is a failure of the generative model or of parsing its response.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return "generate test: " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Request configures one generated test.
type Request struct {
	Cards         []studyset.Card
	QuestionCount int
	ItemsPerPage  int
	QuestionTypes []quiz.QuestionType
	StarredOnly   bool
}

// Session is safe for concurrent use. Calls that need the generative model
// block until it answers, and other calls made meanwhile observe the loading
// or grading phase.
type Session struct {
	client inference.Client
	grader *grading.Grader

	mu         sync.Mutex
	state      State
	generation uint64
}

func New(client inference.Client) *Session {
	return &Session{
		client: client,
		grader: grading.NewGrader(client),
	}
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func (s *Session) isBusy() bool {
	return s.state.Phase == PhaseLoading || s.state.Phase == PhaseGrading
}

// Generate asks the model for a test over the selected cards.
// Every failure is also recorded in the state as a message for the student.
func (s *Session) Generate(ctx context.Context, request Request) error {
	s.mu.Lock()
	if s.isBusy() {
		s.mu.Unlock()
		return ErrBusy
	}

	text, err := s.prepare(request)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.generation++
	token := s.generation
	s.state = loadingState()
	s.mu.Unlock()

	reply, replyErr := s.client.Generate(ctx, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.generation {
		slog.Default().Debug("discard a generated test after reset", "generation", token)
		return ErrStale
	}

	questions, err := parseGenerated(reply, replyErr)
	if err != nil {
		message := MessageParseFailure
		if replyErr != nil && !errors.Is(replyErr, inference.ErrEmptyResponse) {
			message = messageAIErrorPrefix + replyErr.Error()
		}
		slog.Default().Warn("failed to generate a test", "error", err)
		s.state = failedState(message)
		return &GenerationError{Err: err}
	}
	s.state = readyState(questions, request.ItemsPerPage)
	return nil
}

// prepare validates the request and builds the prompt. Validation failures are
// recorded in the state. The caller holds the lock.
func (s *Session) prepare(request Request) (string, error) {
	if inference.IsDisabled(s.client) {
		s.state = failedState(MessageAIDisabled)
		return "", inference.ErrDisabled
	}

	cards, err := studyset.SelectCards(request.Cards, request.StarredOnly)
	if errors.Is(err, studyset.ErrNoStarredCards) {
		s.state = failedState(MessageNoStarredCards)
		return "", err
	}
	if err != nil {
		s.state = failedState(MessageEmptySet)
		return "", err
	}
	if len(request.QuestionTypes) == 0 {
		s.state = failedState(MessageNoQuestionType)
		return "", ErrNoQuestionType
	}

	text, err := prompt.TestGeneration(cards, max(request.QuestionCount, 1), request.QuestionTypes)
	if err != nil {
		s.state = failedState(err.Error())
		return "", fmt.Errorf("prompt.TestGeneration > %w", err)
	}
	return text, nil
}

func parseGenerated(reply string, replyErr error) ([]quiz.Question, error) {
	if replyErr != nil {
		return nil, fmt.Errorf("client.Generate > %w", replyErr)
	}
	questions, err := quiz.ParseQuestions(reply)
	if err != nil {
		return nil, fmt.Errorf("quiz.ParseQuestions > %w", err)
	}
	if len(questions) == 0 {
		return nil, &quiz.ParseError{Kind: quiz.ParseErrorInvalidJSON, Detail: "no questions"}
	}
	return questions, nil
}

// RecordAnswer stores the student's answer to a question without grading it.
// An index outside the questions is ignored.
func (s *Session) RecordAnswer(index int, answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isBusy() {
		return ErrBusy
	}
	if s.state.Phase != PhaseReady {
		return ErrNotReady
	}
	s.state = s.state.withAnswer(index, answer)
	return nil
}

// SubmitPage grades every question on the current page, then moves to the next
// page or completes the test.
func (s *Session) SubmitPage(ctx context.Context) error {
	s.mu.Lock()
	if s.isBusy() {
		s.mu.Unlock()
		return ErrBusy
	}
	if s.state.Phase != PhaseReady {
		s.mu.Unlock()
		return ErrNotReady
	}
	token := s.generation
	page := s.state.PageQuestions()
	s.state = s.state.grading()
	s.mu.Unlock()

	graded := make([]quiz.Question, 0, len(page))
	for _, question := range page {
		graded = append(graded, s.grader.Grade(ctx, question))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.generation {
		slog.Default().Debug("discard graded page after reset", "generation", token)
		return ErrStale
	}
	s.state = s.state.graded(graded)
	return nil
}

// Reset returns the session to idle. Responses still in flight are discarded.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.state = State{}
}
