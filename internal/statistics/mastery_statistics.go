package statistics

import (
	"fmt"
	"sort"

	"github.com/at-ishikawa/quizgpt/internal/studyset"
)

// SetStatistics holds the mastery breakdown of one set
type SetStatistics struct {
	SetID            string
	Title            string
	Total            int
	NotStudied       int
	NeedsImprovement int
	Mastered         int
	Starred          int
}

// MasteryRate is the share of mastered cards, 0 for an empty set.
func (s SetStatistics) MasteryRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Mastered) / float64(s.Total)
}

// PeriodStatistics counts sets last studied within a period ("2025-01")
type PeriodStatistics struct {
	Period       string
	StudiedSets  int
	StudiedCards int
}

// StatisticsResult holds per-set, per-period and aggregate statistics
type StatisticsResult struct {
	Sets      []SetStatistics
	Periods   []PeriodStatistics
	Aggregate SetStatistics
}

// SetWithCards pairs a set with its cards.
type SetWithCards struct {
	Set   studyset.Set
	Cards []studyset.Card
}

func CalculateSetStatistics(set studyset.Set, cards []studyset.Card) SetStatistics {
	stats := SetStatistics{
		SetID: set.ID,
		Title: set.Title,
		Total: len(cards),
	}
	for _, card := range cards {
		switch card.MasteryLevel {
		case studyset.MasteryMastered:
			stats.Mastered++
		case studyset.MasteryNeedsImprovement:
			stats.NeedsImprovement++
		default:
			stats.NotStudied++
		}
		if card.IsStarred {
			stats.Starred++
		}
	}
	return stats
}

// CalculateStatistics aggregates mastery over sets.
// It accepts optional year and month filters on the last studied date of a set (0 means no filter).
// The filters only apply to periods; mastery counts always cover every set.
func CalculateStatistics(sets []SetWithCards, year, month int) StatisticsResult {
	result := StatisticsResult{
		Aggregate: SetStatistics{Title: "Total"},
	}
	periods := make(map[string]*PeriodStatistics)

	for _, s := range sets {
		stats := CalculateSetStatistics(s.Set, s.Cards)
		result.Sets = append(result.Sets, stats)

		result.Aggregate.Total += stats.Total
		result.Aggregate.NotStudied += stats.NotStudied
		result.Aggregate.NeedsImprovement += stats.NeedsImprovement
		result.Aggregate.Mastered += stats.Mastered
		result.Aggregate.Starred += stats.Starred

		if s.Set.LastStudiedAt == nil || s.Set.LastStudiedAt.IsZero() {
			continue
		}
		studiedYear := s.Set.LastStudiedAt.Year()
		studiedMonth := int(s.Set.LastStudiedAt.Month())
		if !matchesFilter(studiedYear, studiedMonth, year, month) {
			continue
		}
		period := fmt.Sprintf("%d-%02d", studiedYear, studiedMonth)
		if periods[period] == nil {
			periods[period] = &PeriodStatistics{Period: period}
		}
		periods[period].StudiedSets++
		periods[period].StudiedCards += stats.Total
	}

	sort.SliceStable(result.Sets, func(i, j int) bool {
		return result.Sets[i].Title < result.Sets[j].Title
	})

	for _, p := range periods {
		result.Periods = append(result.Periods, *p)
	}
	// Sort periods in descending order (newest first)
	sort.Slice(result.Periods, func(i, j int) bool {
		return result.Periods[i].Period > result.Periods[j].Period
	})
	return result
}

func matchesFilter(studiedYear, studiedMonth, filterYear, filterMonth int) bool {
	if filterYear == 0 {
		return true
	}
	if studiedYear != filterYear {
		return false
	}
	if filterMonth == 0 {
		return true
	}
	return studiedMonth == filterMonth
}
