// Package testutil provides shared test helpers for creating config files and set fixtures.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/quizgpt/internal/studyset"
)

// SetupTestConfig creates a minimal config file with a YAML store and a report directory.
// AI features are disabled so that tests never call a provider.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	dirs := []string{"sets", "reports"}
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, d), 0755))
	}

	configContent := fmt.Sprintf(`user:
  id: tester
  name: Tester
inference:
  enabled: false
store:
  type: yaml
  directory: %s
outputs:
  report_directory: %s
`,
		filepath.Join(tmpDir, "sets"),
		filepath.Join(tmpDir, "reports"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SetupTestConfigWithSQLite creates a config file storing sets in a sqlite database under tmpDir.
func SetupTestConfigWithSQLite(t *testing.T, tmpDir string) string {
	t.Helper()
	cfgPath := SetupTestConfig(t, tmpDir)

	content, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	updated := strings.Replace(string(content), "  type: yaml\n", "  type: database\n", 1)
	updated += fmt.Sprintf("database:\n  driver: sqlite3\n  path: %s\n", filepath.Join(tmpDir, "quizgpt.db"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(updated), 0644))
	return cfgPath
}

// SetOption configures optional fields when creating a set fixture.
type SetOption func(*studyset.Set)

// WithStarredSet stars the set.
func WithStarredSet() SetOption {
	return func(set *studyset.Set) {
		set.IsStarred = true
	}
}

// WithAIGrading marks the set as graded by AI.
func WithAIGrading() SetOption {
	return func(set *studyset.Set) {
		set.IsAIGraded = true
	}
}

// CreateSet creates a set with cards in a YAML store under directory and returns the stored set.
// Every second card is starred so that starred-only sessions have something to run over.
func CreateSet(t *testing.T, directory, ownerID, title string, cards []studyset.ImportedCard, opts ...SetOption) studyset.Set {
	t.Helper()

	set := studyset.Set{OwnerID: ownerID, Title: title}
	for _, opt := range opts {
		opt(&set)
	}

	ctx := context.Background()
	repository := studyset.NewYAMLRepository(directory)
	require.NoError(t, repository.CreateSet(ctx, &set))

	newCards := make([]studyset.Card, 0, len(cards))
	for i, card := range cards {
		newCards = append(newCards, studyset.Card{
			Question:  card.Question,
			Answer:    card.Answer,
			IsStarred: i%2 == 1,
		})
	}
	require.NoError(t, repository.CreateCards(ctx, ownerID, set.ID, newCards))
	return set
}

// ChemistryCards is a small card fixture.
var ChemistryCards = []studyset.ImportedCard{
	{Question: "H2O", Answer: "Water"},
	{Question: "NaCl", Answer: "Salt"},
	{Question: "CO2", Answer: "Carbon dioxide"},
}
