package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/quizgpt/internal/config"
	"github.com/at-ishikawa/quizgpt/internal/studyset"
)

func TestSetupTestConfig(t *testing.T) {
	tmpDir := t.TempDir()
	got := SetupTestConfig(t, tmpDir)

	want := filepath.Join(tmpDir, "config.yml")
	assert.Equal(t, want, got)

	for _, d := range []string{"sets", "reports"} {
		info, err := os.Stat(filepath.Join(tmpDir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}

	loader, err := config.NewConfigLoader(got)
	require.NoError(t, err)
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "tester", cfg.User.ID)
	assert.False(t, cfg.Inference.Enabled)
	assert.Equal(t, config.StoreTypeYAML, cfg.Store.Type)
	assert.Equal(t, filepath.Join(tmpDir, "sets"), cfg.Store.Directory)
	assert.Equal(t, filepath.Join(tmpDir, "reports"), cfg.Outputs.ReportDirectory)
}

func TestSetupTestConfigWithSQLite(t *testing.T) {
	tmpDir := t.TempDir()
	got := SetupTestConfigWithSQLite(t, tmpDir)

	loader, err := config.NewConfigLoader(got)
	require.NoError(t, err)
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StoreTypeDatabase, cfg.Store.Type)
	assert.Equal(t, config.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, filepath.Join(tmpDir, "quizgpt.db"), cfg.Database.Path)
}

func TestCreateSet(t *testing.T) {
	dir := t.TempDir()
	set := CreateSet(t, dir, "owner", "Chemistry", ChemistryCards, WithStarredSet(), WithAIGrading())

	assert.NotEmpty(t, set.ID)
	assert.True(t, set.IsStarred)
	assert.True(t, set.IsAIGraded)

	repository := studyset.NewYAMLRepository(dir)
	cards, err := repository.FindCards(context.Background(), "owner", set.ID)
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, "H2O", cards[0].Question)
	assert.False(t, cards[0].IsStarred)
	assert.True(t, cards[1].IsStarred)
	assert.Equal(t, studyset.MasteryNotStudied, cards[2].MasteryLevel)
}
