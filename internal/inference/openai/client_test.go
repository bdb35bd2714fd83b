package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/at-ishikawa/quizgpt/internal/inference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"resty.dev/v3"
)

func writeCompletion(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	mockResponse := ChatCompletionResponse{
		ID:      "chatcmpl-123",
		Object:  "chat.completion",
		Created: 1677652288,
		Model:   "gpt-4",
		Choices: []Choice{
			{
				Index:        0,
				Message:      ChoiceMessage{Role: RoleAssistant, Content: content},
				FinishReason: "stop",
			},
		},
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	require.NoError(t, json.NewEncoder(w).Encode(mockResponse))
}

func newTestClient(serverURL string, attempts uint) *Client {
	return &Client{
		httpClient:       resty.New().SetBaseURL(serverURL),
		model:            "gpt-4",
		maxRetryAttempts: attempts,
	}
}

func TestClient_Generate(t *testing.T) {
	tests := []struct {
		name              string
		mockServerHandler func(t *testing.T, calls int32, w http.ResponseWriter, r *http.Request)
		retryAttempts     uint

		want            string
		wantCalls       int32
		wantError       error
		wantErrorString string
	}{
		{
			name: "Success",
			mockServerHandler: func(t *testing.T, calls int32, w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/chat/completions", r.URL.Path)

				var reqBody ChatCompletionRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
				assert.Equal(t, "gpt-4", reqBody.Model)
				assert.Equal(t, []Message{{Role: RoleUser, Content: "Create a quiz"}}, reqBody.Messages)

				writeCompletion(t, w, `[{"type": "TRUE_FALSE"}]`)
			},
			want:      `[{"type": "TRUE_FALSE"}]`,
			wantCalls: 1,
		},
		{
			name:          "Server error is retried",
			retryAttempts: 2,
			mockServerHandler: func(t *testing.T, calls int32, w http.ResponseWriter, r *http.Request) {
				if calls == 1 {
					w.WriteHeader(http.StatusServiceUnavailable)
					return
				}
				writeCompletion(t, w, "ok")
			},
			want:      "ok",
			wantCalls: 2,
		},
		{
			name:          "Client error is not retried",
			retryAttempts: 2,
			mockServerHandler: func(t *testing.T, calls int32, w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error": "bad request"}`))
			},
			wantCalls:       1,
			wantErrorString: "response error 400",
		},
		{
			name: "Empty content",
			mockServerHandler: func(t *testing.T, calls int32, w http.ResponseWriter, r *http.Request) {
				writeCompletion(t, w, "")
			},
			wantCalls: 1,
			wantError: inference.ErrEmptyResponse,
		},
		{
			name: "No choices",
			mockServerHandler: func(t *testing.T, calls int32, w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"id": "chatcmpl-123", "choices": []}`))
			},
			wantCalls:       1,
			wantErrorString: "empty response body or choices",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				tt.mockServerHandler(t, calls.Add(1), w, r)
			}))
			defer server.Close()

			client := newTestClient(server.URL, tt.retryAttempts)
			got, err := client.Generate(context.Background(), "Create a quiz")

			assert.Equal(t, tt.wantCalls, calls.Load())
			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
				return
			}
			if tt.wantErrorString != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrorString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChat_Send(t *testing.T) {
	var received [][]Message
	fail := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		received = append(received, reqBody.Messages)
		if fail {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		writeCompletion(t, w, "reply "+reqBody.Messages[len(reqBody.Messages)-1].Content)
	}))
	defer server.Close()

	chat := newTestClient(server.URL, 0).NewChat()
	ctx := context.Background()

	reply, err := chat.Send(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, "reply hello", reply)

	fail = true
	_, err = chat.Send(ctx, "lost")
	require.Error(t, err)

	fail = false
	reply, err = chat.Send(ctx, "again")
	require.NoError(t, err)
	assert.Equal(t, "reply again", reply)

	require.Len(t, received, 3)
	assert.Equal(t, []Message{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "reply hello"},
		{Role: RoleUser, Content: "again"},
	}, received[2])
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{err: nil, want: false},
		{err: errors.New("dial tcp: connection refused"), want: true},
		{err: errors.New("response error 502: bad gateway"), want: true},
		{err: errors.New("response error 429: slow down"), want: true},
		{err: errors.New("response error 401: unauthorized"), want: false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isRetryableError(tt.err), "%v", tt.err)
	}
}
