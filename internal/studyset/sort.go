package studyset

import (
	"fmt"
	"sort"
	"strings"
)

type SortOption string

const (
	SortCreatedDesc SortOption = "created-desc"
	SortCreatedAsc  SortOption = "created-asc"
	SortTitleAsc    SortOption = "title-asc"
	SortTitleDesc   SortOption = "title-desc"
)

var AllSortOptions = []SortOption{SortCreatedDesc, SortCreatedAsc, SortTitleAsc, SortTitleDesc}

func ParseSortOption(value string) (SortOption, error) {
	for _, option := range AllSortOptions {
		if string(option) == value {
			return option, nil
		}
	}
	return "", fmt.Errorf("invalid sort option %q, valid values are %v", value, AllSortOptions)
}

// FilterAndSortSets keeps sets whose title contains query (case-insensitive) and orders them.
// Starred sets always come first; the option orders sets within each group.
func FilterAndSortSets(sets []Set, query string, option SortOption) []Set {
	query = strings.ToLower(strings.TrimSpace(query))

	result := make([]Set, 0, len(sets))
	for _, set := range sets {
		if query != "" && !strings.Contains(strings.ToLower(set.Title), query) {
			continue
		}
		result = append(result, set)
	}

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.IsStarred != b.IsStarred {
			return a.IsStarred
		}
		switch option {
		case SortCreatedAsc:
			return a.CreatedAt.Before(b.CreatedAt)
		case SortTitleAsc:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case SortTitleDesc:
			return strings.ToLower(a.Title) > strings.ToLower(b.Title)
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
	return result
}
