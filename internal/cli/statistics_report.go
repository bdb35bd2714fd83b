package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/at-ishikawa/quizgpt/internal/statistics"
)

// WriteStatistics prints the mastery of every set followed by the study periods.
func WriteStatistics(output io.Writer, result statistics.StatisticsResult) error {
	writer := tabwriter.NewWriter(output, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(writer, "SET\tCARDS\tNEW\tLEARNING\tMASTERED\tSTARRED\tMASTERY")
	rows := append(append([]statistics.SetStatistics{}, result.Sets...), result.Aggregate)
	for _, row := range rows {
		_, _ = fmt.Fprintf(writer, "%s\t%d\t%d\t%d\t%d\t%d\t%.0f%%\n",
			row.Title, row.Total, row.NotStudied, row.NeedsImprovement, row.Mastered, row.Starred, row.MasteryRate()*100)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("writer.Flush() > %w", err)
	}

	if len(result.Periods) == 0 {
		return nil
	}
	_, _ = fmt.Fprintln(output)
	writer = tabwriter.NewWriter(output, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(writer, "PERIOD\tSETS STUDIED\tCARDS")
	for _, period := range result.Periods {
		_, _ = fmt.Fprintf(writer, "%s\t%d\t%d\n", period.Period, period.StudiedSets, period.StudiedCards)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("writer.Flush() > %w", err)
	}
	return nil
}
