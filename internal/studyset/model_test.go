package studyset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectCards(t *testing.T) {
	cards := []Card{
		{ID: "1", Question: "q1", IsStarred: true},
		{ID: "2", Question: "q2"},
		{ID: "3", Question: "q3", IsStarred: true},
	}

	tests := []struct {
		name        string
		cards       []Card
		starredOnly bool
		wantIDs     []string
		wantErr     error
	}{
		{
			name:    "all cards",
			cards:   cards,
			wantIDs: []string{"1", "2", "3"},
		},
		{
			name:        "starred only",
			cards:       cards,
			starredOnly: true,
			wantIDs:     []string{"1", "3"},
		},
		{
			name:    "empty set",
			cards:   nil,
			wantErr: ErrEmptySet,
		},
		{
			name:        "no starred cards",
			cards:       []Card{{ID: "1"}},
			starredOnly: true,
			wantErr:     ErrNoStarredCards,
		},
		{
			name:        "empty set with starred filter",
			cards:       nil,
			starredOnly: true,
			wantErr:     ErrNoStarredCards,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectCards(tt.cards, tt.starredOnly)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			var ids []string
			for _, card := range got {
				ids = append(ids, card.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestSelectCards_DoesNotAliasInput(t *testing.T) {
	cards := []Card{{ID: "1"}, {ID: "2"}}
	got, err := SelectCards(cards, false)
	require.NoError(t, err)

	got[0].ID = "changed"
	assert.Equal(t, "1", cards[0].ID)
}

func TestCheckDuplicate(t *testing.T) {
	cards := []Card{{Question: "Capital of France"}}

	assert.ErrorIs(t, CheckDuplicate(cards, "capital of france"), ErrDuplicateCard)
	assert.NoError(t, CheckDuplicate(cards, "Capital of Spain"))
	assert.NoError(t, CheckDuplicate(nil, "anything"))
}

func TestParseMasteryLevel(t *testing.T) {
	tests := []struct {
		value   string
		want    MasteryLevel
		wantErr bool
	}{
		{value: "", want: MasteryNotStudied},
		{value: "NOT_STUDIED", want: MasteryNotStudied},
		{value: "NEEDS_IMPROVEMENT", want: MasteryNeedsImprovement},
		{value: "MASTERED", want: MasteryMastered},
		{value: "mastered", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseMasteryLevel(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
