package studyset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// setFile is the layout of one set stored as <directory>/<owner id>/<set id>.yml.
type setFile struct {
	Set   Set    `yaml:"set"`
	Cards []Card `yaml:"cards"`
}

// YAMLRepository implements Repository with one YAML file per set.
type YAMLRepository struct {
	directory string
	now       func() time.Time

	mu sync.Mutex
}

// NewYAMLRepository creates a new YAMLRepository rooted at directory.
func NewYAMLRepository(directory string) *YAMLRepository {
	return &YAMLRepository{directory: directory, now: time.Now}
}

func (r *YAMLRepository) ownerDirectory(ownerID string) string {
	return filepath.Join(r.directory, ownerID)
}

func (r *YAMLRepository) setPath(ownerID, setID string) string {
	return filepath.Join(r.ownerDirectory(ownerID), setID+".yml")
}

func (r *YAMLRepository) load(ownerID, setID string) (setFile, error) {
	path := r.setPath(ownerID, setID)
	contents, err := readYamlFile[setFile](path)
	if errors.Is(err, os.ErrNotExist) {
		return setFile{}, fmt.Errorf("set %s: %w", setID, ErrNotFound)
	}
	if err != nil {
		return setFile{}, fmt.Errorf("readYamlFile(%s) > %w", path, err)
	}
	for i := range contents.Cards {
		contents.Cards[i].SetID = contents.Set.ID
	}
	return contents, nil
}

func (r *YAMLRepository) save(contents setFile) error {
	dir := r.ownerDirectory(contents.Set.OwnerID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
	}
	path := r.setPath(contents.Set.OwnerID, contents.Set.ID)
	if err := writeYamlFile(path, contents); err != nil {
		return fmt.Errorf("writeYamlFile(%s) > %w", path, err)
	}
	return nil
}

// update loads a set, applies fn and writes the result back.
func (r *YAMLRepository) update(ownerID, setID string, fn func(contents *setFile) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := r.load(ownerID, setID)
	if err != nil {
		return err
	}
	if err := fn(&contents); err != nil {
		return err
	}
	return r.save(contents)
}

// FindSets returns the sets of an owner, newest first.
func (r *YAMLRepository) FindSets(_ context.Context, ownerID string) ([]Set, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := os.ReadDir(r.ownerDirectory(ownerID))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadDir(%s) > %w", r.ownerDirectory(ownerID), err)
	}

	var sets []Set
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yml" {
			continue
		}
		contents, err := r.load(ownerID, strings.TrimSuffix(entry.Name(), ".yml"))
		if err != nil {
			return nil, err
		}
		sets = append(sets, contents.Set)
	}
	sort.SliceStable(sets, func(i, j int) bool {
		return sets[i].CreatedAt.After(sets[j].CreatedAt)
	})
	return sets, nil
}

func (r *YAMLRepository) FindSet(_ context.Context, ownerID, setID string) (*Set, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := r.load(ownerID, setID)
	if err != nil {
		return nil, err
	}
	return &contents.Set, nil
}

func (r *YAMLRepository) CreateSet(_ context.Context, set *Set) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := prepareSet(set, r.now()); err != nil {
		return err
	}
	return r.save(setFile{Set: *set})
}

func (r *YAMLRepository) UpdateSet(_ context.Context, ownerID, setID, title, description string) error {
	return r.update(ownerID, setID, func(contents *setFile) error {
		contents.Set.Title = title
		contents.Set.Description = description
		return nil
	})
}

func (r *YAMLRepository) UpdateSetStarred(_ context.Context, ownerID, setID string, starred bool) error {
	return r.update(ownerID, setID, func(contents *setFile) error {
		contents.Set.IsStarred = starred
		return nil
	})
}

func (r *YAMLRepository) TouchSet(_ context.Context, ownerID, setID string, studiedAt time.Time) error {
	return r.update(ownerID, setID, func(contents *setFile) error {
		contents.Set.LastStudiedAt = &studiedAt
		return nil
	})
}

// DeleteSet removes the set file, which holds the cards as well.
func (r *YAMLRepository) DeleteSet(_ context.Context, ownerID, setID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	path := r.setPath(ownerID, setID)
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("set %s: %w", setID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("os.Remove(%s) > %w", path, err)
	}
	return nil
}

func (r *YAMLRepository) FindCards(_ context.Context, ownerID, setID string) ([]Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := r.load(ownerID, setID)
	if err != nil {
		return nil, err
	}
	return contents.Cards, nil
}

func (r *YAMLRepository) CreateCards(_ context.Context, ownerID, setID string, cards []Card) error {
	if len(cards) == 0 {
		return nil
	}
	return r.update(ownerID, setID, func(contents *setFile) error {
		if err := prepareCards(setID, cards, r.now()); err != nil {
			return err
		}
		contents.Cards = append(contents.Cards, cards...)
		return nil
	})
}

func (r *YAMLRepository) UpdateCardField(_ context.Context, ownerID, setID, cardID string, field CardField, value any) error {
	normalized, err := normalizeFieldValue(field, value)
	if err != nil {
		return err
	}
	return r.update(ownerID, setID, func(contents *setFile) error {
		for i := range contents.Cards {
			card := &contents.Cards[i]
			if card.ID != cardID {
				continue
			}
			switch field {
			case CardFieldQuestion:
				card.Question = normalized.(string)
			case CardFieldAnswer:
				card.Answer = normalized.(string)
			case CardFieldQuestionImageURI:
				card.QuestionImageURI = normalized.(string)
			case CardFieldAnswerImageURI:
				card.AnswerImageURI = normalized.(string)
			case CardFieldMasteryLevel:
				card.MasteryLevel = normalized.(MasteryLevel)
			case CardFieldStarred:
				card.IsStarred = normalized.(bool)
			}
			return nil
		}
		return fmt.Errorf("card %s: %w", cardID, ErrNotFound)
	})
}

func (r *YAMLRepository) DeleteCard(_ context.Context, ownerID, setID, cardID string) error {
	return r.update(ownerID, setID, func(contents *setFile) error {
		for i, card := range contents.Cards {
			if card.ID == cardID {
				contents.Cards = append(contents.Cards[:i], contents.Cards[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("card %s: %w", cardID, ErrNotFound)
	})
}

var (
	_ Repository = (*YAMLRepository)(nil)
	_ Repository = (*DBRepository)(nil)
)
