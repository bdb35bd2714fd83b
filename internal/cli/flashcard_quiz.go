package cli

import (
	"context"
	"io"
	"strings"

	"github.com/at-ishikawa/quizgpt/internal/study"
	"github.com/at-ishikawa/quizgpt/internal/studyset"
)

// FlashcardQuizCLI shows each card, reveals its answer and asks whether the student knew it.
type FlashcardQuizCLI struct {
	*InteractiveQuizCLI
	session   *study.FlipSession
	assistant *study.Assistant
}

func NewFlashcardQuizCLI(stdin io.Reader, stdout io.Writer, session *study.FlipSession, assistant *study.Assistant) *FlashcardQuizCLI {
	return &FlashcardQuizCLI{
		InteractiveQuizCLI: newInteractiveQuizCLI(stdin, stdout),
		session:            session,
		assistant:          assistant,
	}
}

func (r *FlashcardQuizCLI) Session(ctx context.Context) error {
	queue := r.session.Queue()
	card, ok := queue.Current()
	if !ok {
		r.println("All cards reviewed!")
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

	r.printProgress(queue.Len(), queue.Total(), queue.Progress())
	_, _ = r.bold.Fprintln(r.stdoutWriter, card.Question)
	if _, err := r.prompt("Press Enter to show the answer"); err != nil {
		return err
	}
	_, _ = r.italic.Fprintln(r.stdoutWriter, card.Answer)

	for {
		answer, err := r.prompt("Did you know it? [y]es/[n]o/[m]nemonic/[e]xplain/[q]uit: ")
		if err != nil {
			return err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			r.session.Answer(ctx, true)
			r.println()
			return nil
		case "n", "no":
			r.session.Answer(ctx, false)
			r.println()
			return nil
		case "m":
			r.printAssistant(ctx, card, r.assistant.Mnemonic)
		case "e":
			r.printAssistant(ctx, card, r.assistant.Explain)
		case "q":
			return errEnd
		}
	}
}

func (r *FlashcardQuizCLI) printAssistant(ctx context.Context, card studyset.Card, generate func(ctx context.Context, question, answer string) string) {
	if r.assistant == nil {
		r.println("AI Disabled")
		return
	}
	r.println(r.clean(generate(ctx, card.Question, card.Answer)))
}
