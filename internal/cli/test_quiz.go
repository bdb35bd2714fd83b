package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/at-ishikawa/quizgpt/internal/quiz"
	"github.com/at-ishikawa/quizgpt/internal/study"
	"github.com/at-ishikawa/quizgpt/internal/studyset"
	"github.com/at-ishikawa/quizgpt/internal/testsession"
)

// optionLabel labels the i-th option A, B, C and so on. Options past Z are numbered.
func optionLabel(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprint(i + 1)
}

// TestQuizCLI runs a generated test page by page and shows the results.
type TestQuizCLI struct {
	*InteractiveQuizCLI
	session  *testsession.Session
	request  testsession.Request
	recorder *study.Recorder
}

func NewTestQuizCLI(stdin io.Reader, stdout io.Writer, session *testsession.Session, request testsession.Request, recorder *study.Recorder) *TestQuizCLI {
	return &TestQuizCLI{
		InteractiveQuizCLI: newInteractiveQuizCLI(stdin, stdout),
		session:            session,
		request:            request,
		recorder:           recorder,
	}
}

// Generate asks for the test. A failure is printed as the message of the session.
func (r *TestQuizCLI) Generate(ctx context.Context) error {
	r.println("Generating a test...")
	if err := r.session.Generate(ctx, r.request); err != nil {
		if message := r.session.State().Error; message != "" {
			_, _ = r.red.Fprintln(r.stdoutWriter, message)
		}
		return fmt.Errorf("session.Generate() > %w", err)
	}
	return nil
}

func (r *TestQuizCLI) Session(ctx context.Context) error {
	state := r.session.State()
	switch state.Phase {
	case testsession.PhaseReady:
	case testsession.PhaseComplete:
		if err := r.review(ctx, state); err != nil {
			return err
		}
		r.recorder.RecordStudied(ctx)
		return errEnd
	case testsession.PhaseError:
		return errors.New(state.Error)
	default:
		return errEnd
	}

	start, end := state.PageBounds()
	_, _ = r.faint.Fprintf(r.stdoutWriter, "Page %d/%d\n", state.CurrentPage+1, state.TotalPages())
	for i := start; i < end; i++ {
		question := state.Questions[i]
		r.printQuestion(i, question)
		answer, err := r.prompt("Your answer: ")
		if err != nil {
			return err
		}
		if err := r.session.RecordAnswer(i, answerFromInput(question, answer)); err != nil {
			return fmt.Errorf("session.RecordAnswer() > %w", err)
		}
	}

	r.println("Grading...")
	if err := r.session.SubmitPage(ctx); err != nil {
		return fmt.Errorf("session.SubmitPage() > %w", err)
	}
	graded := r.session.State()
	for i := start; i < end; i++ {
		question := graded.Questions[i]
		r.printf("%d. ", i+1)
		r.printVerdict(question.IsCorrect, question.Feedback)
	}
	r.println()
	return nil
}

func (r *TestQuizCLI) printQuestion(index int, question quiz.Question) {
	_, _ = r.faint.Fprintf(r.stdoutWriter, "%s / %s\n", question.Type.Label(), question.BloomLevel)
	_, _ = r.bold.Fprintf(r.stdoutWriter, "%d. %s\n", index+1, r.clean(question.Text))
	switch question.Type {
	case quiz.QuestionTypeMultipleChoice:
		for i, option := range question.Options {
			r.printf("   %s. %s\n", optionLabel(i), r.clean(option))
		}
	case quiz.QuestionTypeTrueFalse:
		r.println("   True / False")
	}
}

// review prints the score and every question, then lets the student update the
// mastery of the card behind each question.
func (r *TestQuizCLI) review(ctx context.Context, state testsession.State) error {
	_, _ = r.bold.Fprintf(r.stdoutWriter, "Score: %d / %d\n", state.Score, len(state.Questions))
	for i, question := range state.Questions {
		r.printf("Q%d: %s\n", i+1, r.clean(question.Text))
		r.printf("   Your answer: %s\n", question.UserAnswer)
		r.printVerdict(question.IsCorrect, question.Feedback)

		card, ok := findCard(r.request.Cards, question.Text)
		if !ok {
			continue
		}
		if err := askMastery(ctx, r.InteractiveQuizCLI, card.ID, r.recorder.RecordMastery); err != nil {
			return err
		}
	}
	return nil
}

// findCard finds the card a question was generated from by its text.
func findCard(cards []studyset.Card, questionText string) (studyset.Card, bool) {
	for _, card := range cards {
		if strings.EqualFold(strings.TrimSpace(card.Question), strings.TrimSpace(questionText)) {
			return card, true
		}
	}
	return studyset.Card{}, false
}

// answerFromInput turns an option label into the option text and t/f into True/False.
func answerFromInput(question quiz.Question, input string) string {
	switch question.Type {
	case quiz.QuestionTypeMultipleChoice:
		for i, option := range question.Options {
			if strings.EqualFold(input, optionLabel(i)) {
				return option
			}
		}
	case quiz.QuestionTypeTrueFalse:
		switch strings.ToLower(input) {
		case "t":
			return "True"
		case "f":
			return "False"
		}
	}
	return input
}
