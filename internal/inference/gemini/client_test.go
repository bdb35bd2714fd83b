package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/at-ishikawa/quizgpt/internal/inference"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string, attempts uint) *Client {
	return &Client{
		httpClient:       resty.New().SetBaseURL(serverURL),
		apiKey:           "test-key",
		model:            "gemini-test",
		maxRetryAttempts: attempts,
	}
}

func writeText(t *testing.T, w http.ResponseWriter, texts ...string) {
	t.Helper()
	parts := make([]Part, 0, len(texts))
	for _, text := range texts {
		parts = append(parts, Part{Text: text})
	}
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(GenerateContentResponse{
		Candidates: []Candidate{{Content: Content{Role: RoleModel, Parts: parts}}},
	}))
}

func TestClient_Generate(t *testing.T) {
	tests := []struct {
		name          string
		handler       func(t *testing.T, calls int, w http.ResponseWriter, r *http.Request)
		retryAttempts uint

		want            string
		wantCalls       int
		wantError       error
		wantErrorString string
	}{
		{
			name: "joins text parts",
			handler: func(t *testing.T, calls int, w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/models/gemini-test:generateContent", r.URL.Path)
				assert.Equal(t, "test-key", r.URL.Query().Get("key"))

				var body GenerateContentRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, []Content{{Role: RoleUser, Parts: []Part{{Text: "prompt"}}}}, body.Contents)
				writeText(t, w, "Hello ", "world")
			},
			want:      "Hello world",
			wantCalls: 1,
		},
		{
			name:          "retries rate limiting",
			retryAttempts: 1,
			handler: func(t *testing.T, calls int, w http.ResponseWriter, r *http.Request) {
				if calls == 1 {
					w.WriteHeader(http.StatusTooManyRequests)
					return
				}
				writeText(t, w, "ok")
			},
			want:      "ok",
			wantCalls: 2,
		},
		{
			name:          "forbidden is not retried",
			retryAttempts: 3,
			handler: func(t *testing.T, calls int, w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			},
			wantCalls:       1,
			wantErrorString: "status code: 403",
		},
		{
			name: "no candidates",
			handler: func(t *testing.T, calls int, w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"candidates": []}`))
			},
			wantCalls: 1,
			wantError: inference.ErrEmptyResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				tt.handler(t, calls, w, r)
			}))
			defer server.Close()

			got, err := newTestClient(server.URL, tt.retryAttempts).Generate(context.Background(), "prompt")
			assert.Equal(t, tt.wantCalls, calls)
			switch {
			case tt.wantError != nil:
				assert.ErrorIs(t, err, tt.wantError)
			case tt.wantErrorString != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrorString)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestChat_Send(t *testing.T) {
	var last GenerateContentRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&last))
		writeText(t, w, "turn")
	}))
	defer server.Close()

	chat := newTestClient(server.URL, 0).NewChat()
	_, err := chat.Send(context.Background(), "first")
	require.NoError(t, err)
	_, err = chat.Send(context.Background(), "second")
	require.NoError(t, err)

	assert.Equal(t, []Content{
		{Role: RoleUser, Parts: []Part{{Text: "first"}}},
		{Role: RoleModel, Parts: []Part{{Text: "turn"}}},
		{Role: RoleUser, Parts: []Part{{Text: "second"}}},
	}, last.Contents)
}
