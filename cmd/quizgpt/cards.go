package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/quizgpt/internal/studyset"
)

func newCardsCommand() *cobra.Command {
	cardsCommand := &cobra.Command{
		Use:   "cards",
		Short: "Manage cards of a set",
	}
	cardsCommand.AddCommand(
		newCardsAddCommand(),
		newCardsEditCommand(),
		newCardsStarCommand(),
		newCardsDeleteCommand(),
	)
	return cardsCommand
}

func newCardsAddCommand() *cobra.Command {
	var questionImage, answerImage string
	command := &cobra.Command{
		Use:   "add <set-id> <question> <answer>",
		Short: "Add a card unless the set already has the same question",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.TrimSpace(args[1])
			answer := strings.TrimSpace(args[2])
			if question == "" || answer == "" {
				return fmt.Errorf("question and answer are required")
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			_, cards, err := a.loadSet(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := studyset.CheckDuplicate(cards, question); err != nil {
				return err
			}
			card := studyset.Card{
				Question:         question,
				Answer:           answer,
				QuestionImageURI: questionImage,
				AnswerImageURI:   answerImage,
			}
			newCards := []studyset.Card{card}
			if err := a.repository.CreateCards(cmd.Context(), a.ownerID(), args[0], newCards); err != nil {
				return fmt.Errorf("CreateCards() > %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added card %s\n", newCards[0].ID)
			return nil
		},
	}
	command.Flags().StringVar(&questionImage, "question-image", "", "URI of an image shown with the question")
	command.Flags().StringVar(&answerImage, "answer-image", "", "URI of an image shown with the answer")
	return command
}

func newCardsEditCommand() *cobra.Command {
	var question, answer, questionImage, answerImage string
	command := &cobra.Command{
		Use:   "edit <set-id> <card-id>",
		Short: "Change the text or the images of a card",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			updates := []struct {
				flag  string
				field studyset.CardField
				value string
			}{
				{flag: "question", field: studyset.CardFieldQuestion, value: question},
				{flag: "answer", field: studyset.CardFieldAnswer, value: answer},
				{flag: "question-image", field: studyset.CardFieldQuestionImageURI, value: questionImage},
				{flag: "answer-image", field: studyset.CardFieldAnswerImageURI, value: answerImage},
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			changed := 0
			for _, update := range updates {
				if !cmd.Flags().Changed(update.flag) {
					continue
				}
				if err := a.repository.UpdateCardField(cmd.Context(), a.ownerID(), args[0], args[1], update.field, update.value); err != nil {
					return fmt.Errorf("UpdateCardField(%s) > %w", update.field, err)
				}
				changed++
			}
			if changed == 0 {
				return fmt.Errorf("nothing to change, pass --question, --answer, --question-image or --answer-image")
			}
			return nil
		},
	}
	flags := command.Flags()
	flags.StringVar(&question, "question", "", "New question")
	flags.StringVar(&answer, "answer", "", "New answer")
	flags.StringVar(&questionImage, "question-image", "", "New question image URI")
	flags.StringVar(&answerImage, "answer-image", "", "New answer image URI")
	return command
}

func newCardsStarCommand() *cobra.Command {
	var unstar bool
	command := &cobra.Command{
		Use:   "star <set-id> <card-id>",
		Short: "Star a card for starred-only sessions",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.repository.UpdateCardField(cmd.Context(), a.ownerID(), args[0], args[1], studyset.CardFieldStarred, !unstar); err != nil {
				return fmt.Errorf("UpdateCardField() > %w", err)
			}
			return nil
		},
	}
	command.Flags().BoolVar(&unstar, "unstar", false, "Remove the star instead")
	return command
}

func newCardsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <set-id> <card-id>",
		Short: "Delete a card",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.repository.DeleteCard(cmd.Context(), a.ownerID(), args[0], args[1]); err != nil {
				return fmt.Errorf("DeleteCard() > %w", err)
			}
			return nil
		},
	}
}
