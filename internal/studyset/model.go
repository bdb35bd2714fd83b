// Package studyset provides flashcard set and card models, card selection and their repositories.
package studyset

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type MasteryLevel string

const (
	MasteryNotStudied       MasteryLevel = "NOT_STUDIED"
	MasteryNeedsImprovement MasteryLevel = "NEEDS_IMPROVEMENT"
	MasteryMastered         MasteryLevel = "MASTERED"
)

// ParseMasteryLevel converts a stored value into a MasteryLevel.
// Empty values are treated as not studied.
func ParseMasteryLevel(value string) (MasteryLevel, error) {
	switch MasteryLevel(value) {
	case "", MasteryNotStudied:
		return MasteryNotStudied, nil
	case MasteryNeedsImprovement:
		return MasteryNeedsImprovement, nil
	case MasteryMastered:
		return MasteryMastered, nil
	}
	return "", fmt.Errorf("unknown mastery level: %q", value)
}

// Card is a question/answer pair owned by a Set.
type Card struct {
	ID               string       `db:"id" yaml:"id"`
	SetID            string       `db:"set_id" yaml:"-"`
	Question         string       `db:"question" yaml:"question"`
	Answer           string       `db:"answer" yaml:"answer"`
	QuestionImageURI string       `db:"question_image_uri" yaml:"question_image_uri,omitempty"`
	AnswerImageURI   string       `db:"answer_image_uri" yaml:"answer_image_uri,omitempty"`
	MasteryLevel     MasteryLevel `db:"mastery_level" yaml:"mastery_level"`
	IsStarred        bool         `db:"is_starred" yaml:"is_starred"`
	CreatedAt        time.Time    `db:"created_at" yaml:"created_at"`
}

// Set is a named collection of cards owned by a user.
type Set struct {
	ID            string     `db:"id" yaml:"id"`
	OwnerID       string     `db:"owner_id" yaml:"owner_id"`
	Title         string     `db:"title" yaml:"title"`
	Description   string     `db:"description" yaml:"description"`
	IsAIGraded    bool       `db:"is_ai_graded" yaml:"is_ai_graded"`
	IsStarred     bool       `db:"is_starred" yaml:"is_starred"`
	CreatedAt     time.Time  `db:"created_at" yaml:"created_at"`
	LastStudiedAt *time.Time `db:"last_studied_at" yaml:"last_studied_at,omitempty"`
}

// CardField names a card attribute that can be updated in place.
type CardField string

const (
	CardFieldQuestion         CardField = "question"
	CardFieldAnswer           CardField = "answer"
	CardFieldQuestionImageURI CardField = "question_image_uri"
	CardFieldAnswerImageURI   CardField = "answer_image_uri"
	CardFieldMasteryLevel     CardField = "mastery_level"
	CardFieldStarred          CardField = "is_starred"
)

var (
	ErrEmptySet       = errors.New("set has no cards")
	ErrNoStarredCards = errors.New("no starred cards found")
	ErrDuplicateCard  = errors.New("duplicate card")
	ErrNotFound       = errors.New("not found")
)

// SelectCards returns the cards a session runs over.
// With starredOnly, only starred cards are kept. An empty result is reported
// as ErrNoStarredCards or ErrEmptySet so callers can tell the two apart.
func SelectCards(cards []Card, starredOnly bool) ([]Card, error) {
	if !starredOnly {
		if len(cards) == 0 {
			return nil, ErrEmptySet
		}
		return append([]Card(nil), cards...), nil
	}

	var selected []Card
	for _, card := range cards {
		if card.IsStarred {
			selected = append(selected, card)
		}
	}
	if len(selected) == 0 {
		return nil, ErrNoStarredCards
	}
	return selected, nil
}

// CheckDuplicate fails with ErrDuplicateCard when a card with the same question already exists.
// Questions are compared case-insensitively.
func CheckDuplicate(cards []Card, question string) error {
	for _, card := range cards {
		if strings.EqualFold(card.Question, question) {
			return fmt.Errorf("%w: %q", ErrDuplicateCard, question)
		}
	}
	return nil
}
