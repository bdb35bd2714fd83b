package testsession

import (
	"github.com/at-ishikawa/quizgpt/internal/quiz"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseGrading
	PhaseComplete
	PhaseError
)

func (phase Phase) String() string {
	switch phase {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseGrading:
		return "grading"
	case PhaseComplete:
		return "complete"
	case PhaseError:
		return "error"
	}
	return "unknown"
}

// State is a snapshot of a test session. Transitions build a new State and
// leave the previous one untouched.
type State struct {
	Phase        Phase
	Questions    []quiz.Question
	ItemsPerPage int
	CurrentPage  int
	Score        int
	// Error is a message for the student, set in PhaseError.
	Error string
}

func (s State) IsLoading() bool {
	return s.Phase == PhaseLoading
}

func (s State) IsGrading() bool {
	return s.Phase == PhaseGrading
}

func (s State) IsComplete() bool {
	return s.Phase == PhaseComplete
}

// TotalPages is ceil(len(Questions) / ItemsPerPage).
func (s State) TotalPages() int {
	return totalPages(len(s.Questions), s.ItemsPerPage)
}

func totalPages(questionCount, itemsPerPage int) int {
	if questionCount == 0 {
		return 0
	}
	itemsPerPage = clampItemsPerPage(itemsPerPage, questionCount)
	return (questionCount + itemsPerPage - 1) / itemsPerPage
}

// PageBounds returns the half-open range of question indexes on the current page.
func (s State) PageBounds() (int, int) {
	start := s.CurrentPage * s.ItemsPerPage
	end := min(start+s.ItemsPerPage, len(s.Questions))
	if start > end {
		start = end
	}
	return start, end
}

// PageQuestions returns the questions on the current page.
func (s State) PageQuestions() []quiz.Question {
	start, end := s.PageBounds()
	return quiz.CloneQuestions(s.Questions[start:end])
}

func (s State) IsLastPage() bool {
	return s.CurrentPage+1 >= s.TotalPages()
}

func (s State) clone() State {
	s.Questions = quiz.CloneQuestions(s.Questions)
	return s
}

func clampItemsPerPage(itemsPerPage, questionCount int) int {
	if itemsPerPage > questionCount {
		itemsPerPage = questionCount
	}
	if itemsPerPage < 1 {
		itemsPerPage = 1
	}
	return itemsPerPage
}

func loadingState() State {
	return State{Phase: PhaseLoading}
}

func failedState(message string) State {
	return State{Phase: PhaseError, Error: message}
}

func readyState(questions []quiz.Question, itemsPerPage int) State {
	return State{
		Phase:        PhaseReady,
		Questions:    quiz.CloneQuestions(questions),
		ItemsPerPage: clampItemsPerPage(itemsPerPage, len(questions)),
	}
}

// withAnswer overwrites the answer of one question. Out of range indexes leave the state as is.
func (s State) withAnswer(index int, answer string) State {
	if index < 0 || index >= len(s.Questions) {
		return s
	}
	next := s.clone()
	next.Questions[index].UserAnswer = answer
	return next
}

func (s State) grading() State {
	next := s.clone()
	next.Phase = PhaseGrading
	return next
}

// graded commits the graded questions of the current page, then moves to the
// next page or completes the session with its score.
func (s State) graded(page []quiz.Question) State {
	next := s.clone()
	start, _ := next.PageBounds()
	copy(next.Questions[start:], quiz.CloneQuestions(page))

	if next.IsLastPage() {
		next.Phase = PhaseComplete
		next.Score = quiz.Score(next.Questions)
		return next
	}
	next.Phase = PhaseReady
	next.CurrentPage++
	return next
}
