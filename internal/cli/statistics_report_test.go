package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/quizgpt/internal/statistics"
)

func TestWriteStatistics(t *testing.T) {
	tests := []struct {
		name   string
		result statistics.StatisticsResult

		want string
	}{
		{
			name: "sets and periods",
			result: statistics.StatisticsResult{
				Sets: []statistics.SetStatistics{
					{Title: "Bio", Total: 4, NotStudied: 1, NeedsImprovement: 1, Mastered: 2, Starred: 1},
				},
				Periods: []statistics.PeriodStatistics{
					{Period: "2025-01", StudiedSets: 1, StudiedCards: 4},
				},
				Aggregate: statistics.SetStatistics{Title: "Total", Total: 4, NotStudied: 1, NeedsImprovement: 1, Mastered: 2, Starred: 1},
			},
			want: "SET    CARDS  NEW  LEARNING  MASTERED  STARRED  MASTERY\n" +
				"Bio    4      1    1         2         1        50%\n" +
				"Total  4      1    1         2         1        50%\n" +
				"\n" +
				"PERIOD   SETS STUDIED  CARDS\n" +
				"2025-01  1             4\n",
		},
		{
			name: "no sets",
			result: statistics.StatisticsResult{
				Aggregate: statistics.SetStatistics{Title: "Total"},
			},
			want: "SET    CARDS  NEW  LEARNING  MASTERED  STARRED  MASTERY\n" +
				"Total  0      0    0         0         0        0%\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteStatistics(&buf, tt.result))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
