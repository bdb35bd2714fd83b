package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/quizgpt/internal/statistics"
	"github.com/at-ishikawa/quizgpt/internal/studyset"
)

func newSetsCommand() *cobra.Command {
	setsCommand := &cobra.Command{
		Use:   "sets",
		Short: "Manage flashcard sets",
	}
	setsCommand.AddCommand(
		newSetsListCommand(),
		newSetsCreateCommand(),
		newSetsShowCommand(),
		newSetsRenameCommand(),
		newSetsStarCommand(),
		newSetsDeleteCommand(),
		newSetsImportCommand(),
	)
	return setsCommand
}

func newSetsListCommand() *cobra.Command {
	sortFlag := SortFlag(studyset.SortCreatedDesc)
	var query string
	command := &cobra.Command{
		Use:   "list",
		Short: "List sets, starred sets first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			sets, err := a.repository.FindSets(cmd.Context(), a.ownerID())
			if err != nil {
				return fmt.Errorf("FindSets() > %w", err)
			}
			sets = studyset.FilterAndSortSets(sets, query, studyset.SortOption(sortFlag))

			output := cmd.OutOrStdout()
			if len(sets) == 0 {
				_, _ = fmt.Fprintln(output, "No sets found.")
				return nil
			}
			for _, set := range sets {
				writeSetLine(output, set)
			}
			return nil
		},
	}
	flags := command.Flags()
	flags.Var(&sortFlag, "sort", fmt.Sprintf("Sort order of sets. Options: %v", studyset.AllSortOptions))
	flags.StringVarP(&query, "query", "q", "", "Only list sets whose title contains the query")
	return command
}

func writeSetLine(output io.Writer, set studyset.Set) {
	marker := " "
	if set.IsStarred {
		marker = "*"
	}
	kind := ""
	if set.IsAIGraded {
		kind = " [AI]"
	}
	_, _ = fmt.Fprintf(output, "%s %s\t%s%s\n", marker, set.ID, set.Title, kind)
}

func newSetsCreateCommand() *cobra.Command {
	var description string
	var aiGraded bool
	command := &cobra.Command{
		Use:   "create <title>",
		Short: "Create an empty set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(args[0])
			if title == "" {
				return fmt.Errorf("title is required")
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			set := studyset.Set{
				OwnerID:     a.ownerID(),
				Title:       title,
				Description: description,
				IsAIGraded:  aiGraded,
			}
			if err := a.repository.CreateSet(cmd.Context(), &set); err != nil {
				return fmt.Errorf("CreateSet() > %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created set %s\n", set.ID)
			return nil
		},
	}
	command.Flags().StringVar(&description, "description", "", "Description of the set")
	command.Flags().BoolVar(&aiGraded, "ai-graded", false, "Mark the set as graded by AI")
	return command
}

func newSetsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <set-id>",
		Short: "Show a set with its cards and mastery",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			set, cards, err := a.loadSet(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			output := cmd.OutOrStdout()
			writeSetLine(output, *set)
			if set.Description != "" {
				_, _ = fmt.Fprintln(output, set.Description)
			}
			stats := statistics.CalculateSetStatistics(*set, cards)
			_, _ = fmt.Fprintf(output, "Cards: %d (new %d, learning %d, mastered %d, starred %d)\n",
				stats.Total, stats.NotStudied, stats.NeedsImprovement, stats.Mastered, stats.Starred)
			for _, card := range cards {
				marker := " "
				if card.IsStarred {
					marker = "*"
				}
				_, _ = fmt.Fprintf(output, "%s %s\t%s\t%s\t%s\n", marker, card.ID, card.Question, card.Answer, card.MasteryLevel)
			}
			return nil
		},
	}
}

func newSetsRenameCommand() *cobra.Command {
	var description string
	command := &cobra.Command{
		Use:   "rename <set-id> <title>",
		Short: "Change the title and the description of a set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			set, err := a.repository.FindSet(cmd.Context(), a.ownerID(), args[0])
			if err != nil {
				return fmt.Errorf("FindSet(%s) > %w", args[0], err)
			}
			if !cmd.Flags().Changed("description") {
				description = set.Description
			}
			if err := a.repository.UpdateSet(cmd.Context(), a.ownerID(), set.ID, args[1], description); err != nil {
				return fmt.Errorf("UpdateSet() > %w", err)
			}
			return nil
		},
	}
	command.Flags().StringVar(&description, "description", "", "New description of the set")
	return command
}

func newSetsStarCommand() *cobra.Command {
	var unstar bool
	command := &cobra.Command{
		Use:   "star <set-id>",
		Short: "Star a set so that it is listed first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.repository.UpdateSetStarred(cmd.Context(), a.ownerID(), args[0], !unstar); err != nil {
				return fmt.Errorf("UpdateSetStarred() > %w", err)
			}
			return nil
		},
	}
	command.Flags().BoolVar(&unstar, "unstar", false, "Remove the star instead")
	return command
}

func newSetsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <set-id>",
		Short: "Delete a set and all of its cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.repository.DeleteSet(cmd.Context(), a.ownerID(), args[0]); err != nil {
				return fmt.Errorf("DeleteSet() > %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted set %s\n", args[0])
			return nil
		},
	}
}

func newSetsImportCommand() *cobra.Command {
	var delimiter string
	command := &cobra.Command{
		Use:   "import <set-id> [file]",
		Short: "Import term/definition lines into a set. Reads stdin without a file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text []byte
			var err error
			if len(args) == 2 {
				text, err = os.ReadFile(args[1])
				if err != nil {
					return fmt.Errorf("os.ReadFile(%s) > %w", args[1], err)
				}
			} else {
				text, err = io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("io.ReadAll() > %w", err)
				}
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			output := cmd.OutOrStdout()
			imported := studyset.ParseImport(string(text), delimiter)
			if len(imported) == 0 {
				_, _ = fmt.Fprintln(output, "Could not find any valid term/definition pairs.")
				return nil
			}
			cards := make([]studyset.Card, 0, len(imported))
			for _, card := range imported {
				cards = append(cards, studyset.Card{Question: card.Question, Answer: card.Answer})
			}
			if err := a.repository.CreateCards(cmd.Context(), a.ownerID(), args[0], cards); err != nil {
				return fmt.Errorf("CreateCards() > %w", err)
			}
			_, _ = fmt.Fprintf(output, "Successfully imported %d cards.\n", len(cards))
			return nil
		},
	}
	command.Flags().StringVarP(&delimiter, "delimiter", "d", studyset.DelimiterAuto, `Delimiter between a term and a definition. "auto" detects a tab or a comma`)
	return command
}
