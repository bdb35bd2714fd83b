package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/at-ishikawa/quizgpt/internal/config"
	"github.com/at-ishikawa/quizgpt/internal/database"
	"github.com/at-ishikawa/quizgpt/internal/inference"
	"github.com/at-ishikawa/quizgpt/internal/inference/gemini"
	"github.com/at-ishikawa/quizgpt/internal/inference/openai"
	"github.com/at-ishikawa/quizgpt/internal/studyset"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// newInferenceClient returns the client of the configured provider, or the
// disabled client when AI features are turned off.
func newInferenceClient(cfg *config.Config) (inference.Client, error) {
	if !cfg.Inference.Enabled {
		return inference.Disabled{}, nil
	}

	apiKey := cfg.InferenceAPIKey()
	switch cfg.Inference.Provider {
	case config.ProviderGemini:
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
		}
		slog.Default().Debug("using Gemini provider", slog.String("model", cfg.Gemini.Model))
		return gemini.NewClient(apiKey, cfg.Gemini.Model, cfg.Inference.MaxRetryAttempts), nil
	default:
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
		}
		slog.Default().Debug("using OpenAI provider", slog.String("model", cfg.OpenAI.Model))
		return openai.NewClient(apiKey, cfg.OpenAI.Model, cfg.Inference.MaxRetryAttempts), nil
	}
}

func closeInferenceClient(client inference.Client) {
	closer, ok := client.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		slog.Default().Warn("failed to close an inference client", slog.Any("error", err))
	}
}

// newRepository opens the configured store. The returned function releases it.
func newRepository(cfg *config.Config) (studyset.Repository, func(), error) {
	if cfg.Store.Type != config.StoreTypeDatabase {
		return studyset.NewYAMLRepository(cfg.Store.Directory), func() {}, nil
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("database.Open() > %w", err)
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			slog.Default().Warn("failed to close the database", slog.Any("error", err))
		}
	}
	if err := database.Migrate(db); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("database.Migrate() > %w", err)
	}
	return studyset.NewDBRepository(db), closeDB, nil
}

// app bundles what every command needs.
type app struct {
	cfg        *config.Config
	repository studyset.Repository
	close      func()
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	repository, closeRepository, err := newRepository(cfg)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:        cfg,
		repository: repository,
		close:      closeRepository,
	}, nil
}

func (a *app) ownerID() string {
	return a.cfg.User.ID
}

// loadSet returns a set of the user with its cards.
func (a *app) loadSet(ctx context.Context, setID string) (*studyset.Set, []studyset.Card, error) {
	set, err := a.repository.FindSet(ctx, a.ownerID(), setID)
	if err != nil {
		return nil, nil, fmt.Errorf("FindSet(%s) > %w", setID, err)
	}
	cards, err := a.repository.FindCards(ctx, a.ownerID(), setID)
	if err != nil {
		return nil, nil, fmt.Errorf("FindCards(%s) > %w", setID, err)
	}
	return set, cards, nil
}

func (a *app) findCard(ctx context.Context, setID, cardID string) (studyset.Card, error) {
	_, cards, err := a.loadSet(ctx, setID)
	if err != nil {
		return studyset.Card{}, err
	}
	for _, card := range cards {
		if card.ID == cardID {
			return card, nil
		}
	}
	return studyset.Card{}, fmt.Errorf("card %s: %w", cardID, studyset.ErrNotFound)
}
