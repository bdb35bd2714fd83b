// Package gemini implements inference.Client on top of the Gemini generateContent API.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/at-ishikawa/quizgpt/internal/inference"
	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type Client struct {
	httpClient       *resty.Client
	apiKey           string
	model            string
	maxRetryAttempts uint
}

func NewClient(apiKey, model string, retryAttempts uint) *Client {
	client := resty.New().
		SetBaseURL(defaultBaseURL).
		SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient:       client,
		apiKey:           apiKey,
		model:            model,
		maxRetryAttempts: retryAttempts,
	}
}

func (client *Client) GetModel() string {
	return client.model
}

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

type Part struct {
	Text string `json:"text"`
}

type Content struct {
	Role  Role   `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type GenerateContentRequest struct {
	Contents []Content `json:"contents"`
}

type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

type GenerateContentResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Text joins the text parts of the first candidate.
func (response GenerateContentResponse) Text() string {
	if len(response.Candidates) == 0 {
		return ""
	}
	var builder strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		builder.WriteString(part.Text)
	}
	return builder.String()
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") {
		return true
	}
	return strings.Contains(errStr, "status code: 5") || strings.Contains(errStr, "status code: 429")
}

func (client *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return client.complete(ctx, []Content{
		{Role: RoleUser, Parts: []Part{{Text: prompt}}},
	})
}

func (client *Client) NewChat() inference.Chat {
	return &Chat{client: client}
}

func (client *Client) complete(ctx context.Context, contents []Content) (string, error) {
	var result string
	err := retry.Do(
		func() error {
			text, err := client.generateContent(ctx, contents)
			if err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				slog.Default().Warn("gemini request failed, will retry",
					"model", client.model,
					"error", err,
				)
				return err
			}
			result = text
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.LastErrorOnly(true),
		retry.DelayType(retry.BackOffDelay),
	)
	if err != nil {
		return "", err
	}
	return result, nil
}

func (client *Client) generateContent(ctx context.Context, contents []Content) (string, error) {
	res, err := client.httpClient.R().
		SetContext(ctx).
		SetQueryParam("key", client.apiKey).
		SetBody(GenerateContentRequest{Contents: contents}).
		Post(fmt.Sprintf("/models/%s:generateContent", client.model))
	if err != nil {
		return "", fmt.Errorf("client.R.Post > %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("status code: %d, body: %s", res.StatusCode(), string(res.Body()))
	}

	var response GenerateContentResponse
	if err := json.Unmarshal(res.Body(), &response); err != nil {
		return "", fmt.Errorf("json.Unmarshal > %w", err)
	}
	text := response.Text()
	if text == "" {
		return "", fmt.Errorf("%w: %s", inference.ErrEmptyResponse, string(res.Body()))
	}
	return text, nil
}

type Chat struct {
	client *Client

	mu      sync.Mutex
	history []Content
}

func (chat *Chat) Send(ctx context.Context, text string) (string, error) {
	chat.mu.Lock()
	defer chat.mu.Unlock()

	contents := make([]Content, 0, len(chat.history)+1)
	contents = append(contents, chat.history...)
	contents = append(contents, Content{Role: RoleUser, Parts: []Part{{Text: text}}})

	reply, err := chat.client.complete(ctx, contents)
	if err != nil {
		return "", err
	}
	chat.history = append(contents, Content{Role: RoleModel, Parts: []Part{{Text: reply}}})
	return reply, nil
}

var (
	_ inference.Client = (*Client)(nil)
	_ inference.Chat   = (*Chat)(nil)
)
