// Package study runs flip-card and write mode sessions over a queue of cards.
package study

import (
	"math/rand/v2"

	"github.com/at-ishikawa/quizgpt/internal/studyset"
)

// Shuffler permutes n elements through swap. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

// DefaultShuffler uses the Fisher-Yates shuffle of math/rand/v2 with the global source.
var DefaultShuffler Shuffler = globalShuffler{}

// Queue is the immutable state of a review queue. Methods return a new Queue and
// never modify the receiver.
type Queue struct {
	cards     []studyset.Card
	remaining []studyset.Card
}

// NewQueue selects the cards to review and shuffles them.
// It returns studyset.ErrEmptySet or studyset.ErrNoStarredCards when nothing is left to review.
func NewQueue(cards []studyset.Card, starredOnly bool, shuffler Shuffler) (Queue, error) {
	selected, err := studyset.SelectCards(cards, starredOnly)
	if err != nil {
		return Queue{}, err
	}
	return Queue{
		cards:     selected,
		remaining: shuffled(selected, shuffler),
	}, nil
}

func shuffled(cards []studyset.Card, shuffler Shuffler) []studyset.Card {
	if shuffler == nil {
		shuffler = DefaultShuffler
	}
	result := append([]studyset.Card(nil), cards...)
	shuffler.Shuffle(len(result), func(i, j int) {
		result[i], result[j] = result[j], result[i]
	})
	return result
}

// Current returns the card at the head of the queue.
func (q Queue) Current() (studyset.Card, bool) {
	if len(q.remaining) == 0 {
		return studyset.Card{}, false
	}
	return q.remaining[0], true
}

// RecordResult removes the head card. A missed card goes back to the tail so it
// comes up again in the same session.
func (q Queue) RecordResult(correct bool) Queue {
	if len(q.remaining) == 0 {
		return q
	}

	head := q.remaining[0]
	next := make([]studyset.Card, 0, len(q.remaining))
	next = append(next, q.remaining[1:]...)
	if !correct {
		next = append(next, head)
	}
	return Queue{cards: q.cards, remaining: next}
}

// Restart reshuffles every selected card into a fresh queue.
func (q Queue) Restart(shuffler Shuffler) Queue {
	return Queue{
		cards:     q.cards,
		remaining: shuffled(q.cards, shuffler),
	}
}

func (q Queue) Remaining() []studyset.Card {
	return append([]studyset.Card(nil), q.remaining...)
}

func (q Queue) Len() int {
	return len(q.remaining)
}

func (q Queue) Total() int {
	return len(q.cards)
}

func (q Queue) IsComplete() bool {
	return len(q.remaining) == 0
}

// Progress is 1 - remaining/total. A missed card keeps the progress where it is.
func (q Queue) Progress() float64 {
	if len(q.cards) == 0 {
		return 0
	}
	return 1 - float64(len(q.remaining))/float64(len(q.cards))
}
