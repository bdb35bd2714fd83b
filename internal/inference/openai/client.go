package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/at-ishikawa/quizgpt/internal/inference"
	"github.com/avast/retry-go"
	"resty.dev/v3"
)

type Client struct {
	httpClient       *resty.Client
	model            string
	maxRetryAttempts uint
}

func NewClient(apiKey, model string, retryAttempts uint) *Client {
	client := resty.New()
	client.SetBaseURL("https://api.openai.com/v1")
	client.SetHeader("Authorization", "Bearer "+apiKey)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient:       client,
		model:            model,
		maxRetryAttempts: retryAttempts,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

// GetModel returns the model name configured for this client
func (client *Client) GetModel() string {
	return client.model
}

type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature,omitempty"`
}

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int           `json:"index"`
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type ChoiceMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Retry on network-related errors
	errStr := err.Error()
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") {
		return true
	}

	// Retry on 5xx errors (server errors)
	if strings.Contains(errStr, "response error 5") {
		return true
	}

	// Retry on rate limiting (429)
	if strings.Contains(errStr, "response error 429") {
		return true
	}

	return false
}

// Generate implements the inference.Client interface
func (client *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return client.complete(ctx, []Message{
		{Role: RoleUser, Content: prompt},
	})
}

// NewChat implements the inference.Client interface
func (client *Client) NewChat() inference.Chat {
	return &Chat{client: client}
}

func (client *Client) complete(ctx context.Context, messages []Message) (string, error) {
	var result string
	if err := retry.Do(
		func() error {
			content, err := client.chatCompletion(ctx, messages)
			if err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				slog.Default().Warn("openai request failed, will retry",
					"model", client.model,
					"error", err,
				)
				return err
			}
			result = content
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	); err != nil {
		return "", err
	}
	return result, nil
}

func (client *Client) chatCompletion(ctx context.Context, messages []Message) (string, error) {
	requestBody := ChatCompletionRequest{
		Model:    client.model,
		Messages: messages,
	}

	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(requestBody).
		SetResult(&ChatCompletionResponse{}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return "", fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	responseBody := response.Result().(*ChatCompletionResponse)
	if responseBody == nil || len(responseBody.Choices) == 0 {
		return "", fmt.Errorf("empty response body or choices: %s", response.String())
	}

	content := responseBody.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("%w: %s", inference.ErrEmptyResponse, response.String())
	}
	slog.Default().Debug("openai response content",
		"model", client.model,
		"messages", len(messages),
		"response", content,
	)
	return content, nil
}

// Chat keeps the history of one conversation and resends it on every turn.
type Chat struct {
	client *Client

	mu       sync.Mutex
	messages []Message
}

// Send appends text as a user turn, and records the turn with the reply only when the call succeeds.
func (chat *Chat) Send(ctx context.Context, text string) (string, error) {
	chat.mu.Lock()
	defer chat.mu.Unlock()

	messages := make([]Message, 0, len(chat.messages)+1)
	messages = append(messages, chat.messages...)
	messages = append(messages, Message{Role: RoleUser, Content: text})

	reply, err := chat.client.complete(ctx, messages)
	if err != nil {
		return "", err
	}
	chat.messages = append(messages, Message{Role: RoleAssistant, Content: reply})
	return reply, nil
}

var (
	_ inference.Client = (*Client)(nil)
	_ inference.Chat   = (*Chat)(nil)
)
