// Package cli runs study sessions interactively on a terminal.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/microcosm-cc/bluemonday"

	"github.com/at-ishikawa/quizgpt/internal/studyset"
)

var (
	errEnd = errors.New("end")
)

// InteractiveQuizCLI contains shared logic for interactive quiz CLIs
type InteractiveQuizCLI struct {
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	italic       *color.Color
	green        *color.Color
	red          *color.Color
	faint        *color.Color
	policy       *bluemonday.Policy
}

func newInteractiveQuizCLI(stdin io.Reader, stdout io.Writer) *InteractiveQuizCLI {
	if stdin == nil {
		stdin = os.Stdin
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	return &InteractiveQuizCLI{
		stdinReader:  bufio.NewReader(stdin),
		stdoutWriter: stdout,
		bold:         color.New(color.Bold),
		italic:       color.New(color.Italic),
		green:        color.New(color.FgGreen),
		red:          color.New(color.FgRed),
		faint:        color.New(color.Faint),
		policy:       bluemonday.StrictPolicy(),
	}
}

type Session interface {
	Session(ctx context.Context) error
}

func (cli *InteractiveQuizCLI) Run(ctx context.Context, session Session) error {
	ctx, cancel := signal.NotifyContext(
		ctx,
		os.Interrupt,
	)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)

	LOOP:
		for {
			select {
			case <-ctx.Done():
				break LOOP
			default:
			}

			if err := session.Session(ctx); err != nil {
				if errors.Is(err, errEnd) {
					break
				}
				errCh <- err
				break
			}
		}
	}()
	select {
	case <-ctx.Done():
		cli.println("Received interrupt signal, exiting...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error: %w", err)
		}
	}
	return nil
}

// readLine reads one trimmed line. The end of input is reported as errEnd.
func (cli *InteractiveQuizCLI) readLine() (string, error) {
	line, err := cli.stdinReader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && strings.TrimSpace(line) == "" {
			return "", errEnd
		}
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("error reading input: %w", err)
		}
	}
	return strings.TrimSpace(line), nil
}

func (cli *InteractiveQuizCLI) prompt(label string) (string, error) {
	_, _ = cli.bold.Fprint(cli.stdoutWriter, label)
	return cli.readLine()
}

// confirm asks a yes/no question. Anything but y or yes is a no.
func (cli *InteractiveQuizCLI) confirm(label string) (bool, error) {
	answer, err := cli.prompt(label + " (y/N): ")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

func (cli *InteractiveQuizCLI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(cli.stdoutWriter, format, args...)
}

func (cli *InteractiveQuizCLI) println(args ...any) {
	_, _ = fmt.Fprintln(cli.stdoutWriter, args...)
}

// clean strips any markup a model put in its reply before it is shown on a terminal.
func (cli *InteractiveQuizCLI) clean(text string) string {
	return strings.TrimSpace(html.UnescapeString(cli.policy.Sanitize(text)))
}

func (cli *InteractiveQuizCLI) printVerdict(isCorrect bool, feedback string) {
	if isCorrect {
		cli.printf("✅ ")
		_, _ = cli.green.Fprintln(cli.stdoutWriter, "Correct")
	} else {
		cli.printf("❌ ")
		_, _ = cli.red.Fprintln(cli.stdoutWriter, "Incorrect")
	}
	if feedback = cli.clean(feedback); feedback != "" {
		cli.printf("   %s\n", feedback)
	}
}

func (cli *InteractiveQuizCLI) printProgress(remaining, total int, progress float64) {
	_, _ = cli.faint.Fprintf(cli.stdoutWriter, "[%d/%d remaining, %.0f%% done]\n", remaining, total, progress*100)
}

// askMastery lets the student mark a card as still learning or mastered. Enter skips.
func askMastery(ctx context.Context, cli *InteractiveQuizCLI, cardID string, setMastery func(ctx context.Context, cardID string, level studyset.MasteryLevel)) error {
	answer, err := cli.prompt("Update mastery? [s]till learning/[m]astered/Enter to skip: ")
	if err != nil {
		return err
	}
	switch strings.ToLower(answer) {
	case "s":
		setMastery(ctx, cardID, studyset.MasteryNeedsImprovement)
	case "m":
		setMastery(ctx, cardID, studyset.MasteryMastered)
	}
	return nil
}
