package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/quizgpt/internal/cli"
	"github.com/at-ishikawa/quizgpt/internal/grading"
	"github.com/at-ishikawa/quizgpt/internal/study"
	"github.com/at-ishikawa/quizgpt/internal/tutor"
)

func newStudyCommand() *cobra.Command {
	var starredOnly bool
	command := &cobra.Command{
		Use:   "study <set-id>",
		Short: "Flip through the cards of a set; missed cards come back later",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			client, err := newInferenceClient(a.cfg)
			if err != nil {
				return err
			}
			defer closeInferenceClient(client)

			set, cards, err := a.loadSet(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			recorder := study.NewRecorder(a.repository, a.ownerID(), set.ID)
			session, err := study.NewFlipSession(cards, starredOnly, study.DefaultShuffler, recorder)
			if err != nil {
				return fmt.Errorf("NewFlipSession() > %w", err)
			}

			flashcardCLI := cli.NewFlashcardQuizCLI(cmd.InOrStdin(), cmd.OutOrStdout(), session, study.NewAssistant(client))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Studying %s with %d cards\n\n", set.Title, session.Queue().Total())
			return flashcardCLI.Run(cmd.Context(), flashcardCLI)
		},
	}
	command.Flags().BoolVar(&starredOnly, "starred", false, "Only study starred cards")
	return command
}

func newWriteCommand() *cobra.Command {
	var starredOnly bool
	command := &cobra.Command{
		Use:   "write <set-id>",
		Short: "Type the answer of each card and get it graded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			client, err := newInferenceClient(a.cfg)
			if err != nil {
				return err
			}
			defer closeInferenceClient(client)

			set, cards, err := a.loadSet(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			recorder := study.NewRecorder(a.repository, a.ownerID(), set.ID)
			session, err := study.NewWriteSession(cards, starredOnly, grading.NewGrader(client), study.DefaultShuffler, recorder)
			if err != nil {
				return fmt.Errorf("NewWriteSession() > %w", err)
			}

			writeCLI := cli.NewWriteQuizCLI(cmd.InOrStdin(), cmd.OutOrStdout(), session)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Write mode for %s with %d cards\n\n", set.Title, session.State().Total)
			return writeCLI.Run(cmd.Context(), writeCLI)
		},
	}
	command.Flags().BoolVar(&starredOnly, "starred", false, "Only study starred cards")
	return command
}

func newTutorCommand() *cobra.Command {
	var starredOnly bool
	var studentName string
	command := &cobra.Command{
		Use:   "tutor <set-id>",
		Short: "Chat with an AI tutor about a set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			client, err := newInferenceClient(a.cfg)
			if err != nil {
				return err
			}
			defer closeInferenceClient(client)

			_, cards, err := a.loadSet(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if studentName == "" {
				studentName = a.cfg.User.Name
			}

			tutorCLI := cli.NewTutorCLI(cmd.InOrStdin(), cmd.OutOrStdout(), tutor.New(client))
			if err := tutorCLI.Start(cmd.Context(), cards, studentName, starredOnly); err != nil {
				return err
			}
			return tutorCLI.Run(cmd.Context(), tutorCLI)
		},
	}
	command.Flags().BoolVar(&starredOnly, "starred", false, "Only tutor on starred cards")
	command.Flags().StringVar(&studentName, "name", "", "Name the tutor calls you (defaults to user.name)")
	return command
}

func newMnemonicCommand() *cobra.Command {
	return newAssistantCommand("mnemonic", "Make a memory aid for a card", (*study.Assistant).Mnemonic)
}

func newExplainCommand() *cobra.Command {
	return newAssistantCommand("explain", "Explain a card in simple words", (*study.Assistant).Explain)
}

func newAssistantCommand(use, short string, generate func(assistant *study.Assistant, ctx context.Context, question, answer string) string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <set-id> <card-id>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			client, err := newInferenceClient(a.cfg)
			if err != nil {
				return err
			}
			defer closeInferenceClient(client)

			card, err := a.findCard(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), generate(study.NewAssistant(client), cmd.Context(), card.Question, card.Answer))
			return nil
		},
	}
}
