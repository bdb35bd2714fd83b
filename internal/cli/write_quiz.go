package cli

import (
	"context"
	"io"
	"strings"

	"github.com/at-ishikawa/quizgpt/internal/study"
)

const quitCommand = ":q"

// WriteQuizCLI asks the student to type the answer of each card.
type WriteQuizCLI struct {
	*InteractiveQuizCLI
	session *study.WriteSession
}

func NewWriteQuizCLI(stdin io.Reader, stdout io.Writer, session *study.WriteSession) *WriteQuizCLI {
	return &WriteQuizCLI{
		InteractiveQuizCLI: newInteractiveQuizCLI(stdin, stdout),
		session:            session,
	}
}

func (r *WriteQuizCLI) Session(ctx context.Context) error {
	state := r.session.State()
	if state.IsComplete {
		r.printf("Done! Correct: %d, Incorrect: %d\n", state.CorrectCount, state.IncorrectCount)
		again, err := r.confirm("Study again?")
		if err != nil {
			return err
		}
		if !again {
			return errEnd
		}
		r.session.Restart()
		return nil
	}

	r.printProgress(state.Remaining, state.Total, state.Progress)
	_, _ = r.bold.Fprintln(r.stdoutWriter, state.Current.Question)
	answer, err := r.prompt("Answer (" + quitCommand + " to quit): ")
	if err != nil {
		return err
	}
	if answer == quitCommand {
		return errEnd
	}

	result, ok := r.session.Submit(ctx, answer)
	if !ok {
		return nil
	}
	r.printVerdict(result.IsCorrect, result.Feedback)
	if !result.IsCorrect {
		r.printf("   Answer: %s\n", r.italic.Sprint(result.Card.Answer))
	}
	if err := askMastery(ctx, r.InteractiveQuizCLI, result.Card.ID, r.session.SetMastery); err != nil {
		return err
	}
	r.println(strings.Repeat("-", 20))
	return nil
}
