package study

import (
	"context"
	"errors"
	"strings"

	"github.com/at-ishikawa/quizgpt/internal/inference"
	"github.com/at-ishikawa/quizgpt/internal/prompt"
)

const aiDisabledMessage = "AI Disabled"

// Assistant explains cards with the generative model. Its methods always return
// text to show, including when the model fails.
type Assistant struct {
	client inference.Client
}

func NewAssistant(client inference.Client) *Assistant {
	return &Assistant{client: client}
}

func (a *Assistant) Mnemonic(ctx context.Context, question, answer string) string {
	return a.generate(ctx, prompt.Mnemonic(question, answer), "Could not generate mnemonic.")
}

func (a *Assistant) Explain(ctx context.Context, question, answer string) string {
	return a.generate(ctx, prompt.Explanation(question, answer), "Could not generate explanation.")
}

func (a *Assistant) generate(ctx context.Context, text string, emptyMessage string) string {
	if inference.IsDisabled(a.client) {
		return aiDisabledMessage
	}
	reply, err := a.client.Generate(ctx, text)
	if errors.Is(err, inference.ErrEmptyResponse) {
		return emptyMessage
	}
	if err != nil {
		return "Error: " + err.Error()
	}
	if strings.TrimSpace(reply) == "" {
		return emptyMessage
	}
	return reply
}
