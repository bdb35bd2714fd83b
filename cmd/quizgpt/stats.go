package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/quizgpt/internal/cli"
	"github.com/at-ishikawa/quizgpt/internal/config"
	"github.com/at-ishikawa/quizgpt/internal/statistics"
)

func newStatsCommand() *cobra.Command {
	var year, month int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the mastery of every set and when sets were studied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if month != 0 && year == 0 {
				return fmt.Errorf("--month requires --year to be specified")
			}
			if month < 0 || month > 12 {
				return fmt.Errorf("--month must be between 1 and 12")
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			sets, err := a.repository.FindSets(cmd.Context(), a.ownerID())
			if err != nil {
				return fmt.Errorf("FindSets() > %w", err)
			}
			var setsWithCards []statistics.SetWithCards
			for _, set := range sets {
				cards, err := a.repository.FindCards(cmd.Context(), a.ownerID(), set.ID)
				if err != nil {
					return fmt.Errorf("FindCards(%s) > %w", set.ID, err)
				}
				setsWithCards = append(setsWithCards, statistics.SetWithCards{Set: set, Cards: cards})
			}
			return cli.WriteStatistics(cmd.OutOrStdout(), statistics.CalculateStatistics(setsWithCards, year, month))
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Filter study periods by year (e.g., 2025)")
	cmd.Flags().IntVar(&month, "month", 0, "Filter study periods by month (1-12), requires --year")
	return cmd
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations when sets are stored in a database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Store.Type != config.StoreTypeDatabase {
				return fmt.Errorf("store.type is %q, migrations only apply to the database store", cfg.Store.Type)
			}
			// newRepository migrates the schema before returning
			_, closeRepository, err := newRepository(cfg)
			if err != nil {
				return err
			}
			closeRepository()
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date.")
			return nil
		},
	}
}
