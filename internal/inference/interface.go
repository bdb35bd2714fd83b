package inference

import (
	"context"
	"errors"
)

//go:generate mockgen -source=interface.go -destination=../mocks/inference/mock_client.go -package=mock_inference

// Client is a generative text capability: a prompt goes in, a completion comes out.
// Calls may fail and have no latency bound; callers pass a context to give up.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// NewChat opens a conversational context that keeps its history between turns.
	NewChat() Chat
}

// Chat is one conversational context opened by Client.NewChat.
type Chat interface {
	Send(ctx context.Context, text string) (string, error)
}

const (
	DefaultMaxRetryAttempts = 3
)

var (
	// ErrEmptyResponse is returned when the model answers with no content.
	ErrEmptyResponse = errors.New("empty response content")
	// ErrDisabled is returned by Disabled for every call.
	ErrDisabled = errors.New("AI features are currently disabled")
)

// Disabled is a Client used when AI features are turned off in the configuration.
type Disabled struct{}

func (Disabled) Generate(context.Context, string) (string, error) {
	return "", ErrDisabled
}

func (Disabled) NewChat() Chat {
	return disabledChat{}
}

type disabledChat struct{}

func (disabledChat) Send(context.Context, string) (string, error) {
	return "", ErrDisabled
}

// IsDisabled reports whether client is the Disabled client.
func IsDisabled(client Client) bool {
	if client == nil {
		return true
	}
	_, ok := client.(Disabled)
	return ok
}
