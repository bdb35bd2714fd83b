package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/at-ishikawa/quizgpt/internal/studyset"
	"github.com/at-ishikawa/quizgpt/internal/tutor"
)

var tutorQuitCommands = []string{"/quit", "/exit", "/end"}

// TutorCLI is a chat with the tutor about a set.
type TutorCLI struct {
	*InteractiveQuizCLI
	session *tutor.Session
}

func NewTutorCLI(stdin io.Reader, stdout io.Writer, session *tutor.Session) *TutorCLI {
	return &TutorCLI{
		InteractiveQuizCLI: newInteractiveQuizCLI(stdin, stdout),
		session:            session,
	}
}

// Start opens the conversation and prints the greeting of the tutor.
func (r *TutorCLI) Start(ctx context.Context, cards []studyset.Card, studentName string, starredOnly bool) error {
	if err := r.session.Start(ctx, cards, studentName, starredOnly); err != nil {
		if message := r.session.State().Error; message != "" {
			_, _ = r.red.Fprintln(r.stdoutWriter, message)
		}
		return fmt.Errorf("session.Start() > %w", err)
	}
	r.printLastMessage()
	r.println("Type /quit to end the session.")
	return nil
}

func (r *TutorCLI) Session(ctx context.Context) error {
	text, err := r.prompt("You: ")
	if err != nil {
		if errors.Is(err, errEnd) {
			r.session.End()
		}
		return err
	}
	for _, command := range tutorQuitCommands {
		if strings.EqualFold(text, command) {
			r.session.End()
			return errEnd
		}
	}
	if text == "" {
		return nil
	}

	sendErr := r.session.SendMessage(ctx, text)
	if state := r.session.State(); state.Error != "" {
		_, _ = r.red.Fprintln(r.stdoutWriter, state.Error)
		return nil
	}
	if sendErr != nil {
		return fmt.Errorf("session.SendMessage() > %w", sendErr)
	}
	r.printLastMessage()
	return nil
}

func (r *TutorCLI) printLastMessage() {
	messages := r.session.State().Messages
	if len(messages) == 0 {
		return
	}
	last := messages[len(messages)-1]
	if last.IsUser {
		return
	}
	_, _ = r.green.Fprint(r.stdoutWriter, "Tutor: ")
	r.println(r.clean(last.Text))
}
