package studyset

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYAMLRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo := NewYAMLRepository(dir)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	set := &Set{OwnerID: "owner", Title: "Spanish", Description: "animals"}
	require.NoError(t, repo.CreateSet(ctx, set))
	require.NotEmpty(t, set.ID)
	assert.FileExists(t, filepath.Join(dir, "owner", set.ID+".yml"))

	cards := []Card{
		{Question: "dog", Answer: "perro"},
		{Question: "cat", Answer: "gato", IsStarred: true},
	}
	require.NoError(t, repo.CreateCards(ctx, "owner", set.ID, cards))

	got, err := repo.FindCards(ctx, "owner", set.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "dog", got[0].Question)
	assert.Equal(t, set.ID, got[0].SetID)
	assert.Equal(t, MasteryNotStudied, got[0].MasteryLevel)
	assert.True(t, got[1].IsStarred)

	require.NoError(t, repo.UpdateCardField(ctx, "owner", set.ID, got[0].ID, CardFieldMasteryLevel, MasteryMastered))
	require.NoError(t, repo.UpdateCardField(ctx, "owner", set.ID, got[1].ID, CardFieldStarred, false))
	require.NoError(t, repo.UpdateCardField(ctx, "owner", set.ID, got[1].ID, CardFieldAnswer, "gatito"))

	got, err = repo.FindCards(ctx, "owner", set.ID)
	require.NoError(t, err)
	assert.Equal(t, MasteryMastered, got[0].MasteryLevel)
	assert.False(t, got[1].IsStarred)
	assert.Equal(t, "gatito", got[1].Answer)

	err = repo.UpdateCardField(ctx, "owner", set.ID, "missing", CardFieldAnswer, "x")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.DeleteCard(ctx, "owner", set.ID, got[0].ID))
	got, err = repo.FindCards(ctx, "owner", set.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "cat", got[0].Question)

	studiedAt := now.Add(time.Hour)
	require.NoError(t, repo.TouchSet(ctx, "owner", set.ID, studiedAt))
	require.NoError(t, repo.UpdateSetStarred(ctx, "owner", set.ID, true))
	require.NoError(t, repo.UpdateSet(ctx, "owner", set.ID, "Spanish 1", "pets"))

	found, err := repo.FindSet(ctx, "owner", set.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spanish 1", found.Title)
	assert.Equal(t, "pets", found.Description)
	assert.True(t, found.IsStarred)
	require.NotNil(t, found.LastStudiedAt)
	assert.True(t, studiedAt.Equal(*found.LastStudiedAt))

	require.NoError(t, repo.DeleteSet(ctx, "owner", set.ID))
	_, err = repo.FindSet(ctx, "owner", set.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.FindCards(ctx, "owner", set.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestYAMLRepository_FindSets(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo := NewYAMLRepository(dir)

	sets, err := repo.FindSets(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, sets)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.CreateSet(ctx, &Set{ID: "old", OwnerID: "owner", Title: "Old", CreatedAt: base}))
	require.NoError(t, repo.CreateSet(ctx, &Set{ID: "new", OwnerID: "owner", Title: "New", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, repo.CreateSet(ctx, &Set{ID: "other", OwnerID: "someone", Title: "Other", CreatedAt: base}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "owner", "notes.txt"), []byte("ignored"), 0o644))

	sets, err = repo.FindSets(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Equal(t, "new", sets[0].ID)
	assert.Equal(t, "old", sets[1].ID)
}

func TestYAMLRepository_CreateCardsForMissingSet(t *testing.T) {
	repo := NewYAMLRepository(t.TempDir())
	err := repo.CreateCards(context.Background(), "owner", "missing", []Card{{Question: "q", Answer: "a"}})
	assert.ErrorIs(t, err, ErrNotFound)
}
