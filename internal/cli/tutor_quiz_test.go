package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/quizgpt/internal/inference"
	mock_inference "github.com/at-ishikawa/quizgpt/internal/mocks/inference"
	"github.com/at-ishikawa/quizgpt/internal/tutor"
)

func TestTutorCLI_Run(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		setupMocks func(chat *mock_inference.MockChat)

		wantContains []string
	}{
		{
			name:  "chats until quit",
			input: "What is H2O?\n\n/quit\nignored\n",
			setupMocks: func(chat *mock_inference.MockChat) {
				gomock.InOrder(
					chat.EXPECT().Send(gomock.Any(), gomock.Any()).Return("Hi <i>Ann</i>!", nil),
					chat.EXPECT().Send(gomock.Any(), "What is H2O?").Return("Water!", nil),
				)
			},
			wantContains: []string{"Tutor: Hi Ann!\n", "Tutor: Water!\n"},
		},
		{
			name:  "keeps chatting after a failed reply",
			input: "one\ntwo\n",
			setupMocks: func(chat *mock_inference.MockChat) {
				gomock.InOrder(
					chat.EXPECT().Send(gomock.Any(), gomock.Any()).Return("Hello!", nil),
					chat.EXPECT().Send(gomock.Any(), "one").Return("", errors.New("timeout")),
					chat.EXPECT().Send(gomock.Any(), "two").Return("", inference.ErrEmptyResponse),
				)
			},
			wantContains: []string{"Error: timeout\n", "Tutor: ...\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mock_inference.NewMockClient(ctrl)
			chat := mock_inference.NewMockChat(ctrl)
			client.EXPECT().NewChat().Return(chat)
			tt.setupMocks(chat)

			session := tutor.New(client)
			var stdout bytes.Buffer
			cli := NewTutorCLI(strings.NewReader(tt.input), &stdout, session)
			require.NoError(t, cli.Start(context.Background(), testCards, "Ann", false))
			require.NoError(t, cli.Run(context.Background(), cli))

			assert.False(t, session.IsActive())
			for _, want := range tt.wantContains {
				assert.Contains(t, stdout.String(), want)
			}
		})
	}
}

func TestTutorCLI_Start_Disabled(t *testing.T) {
	var stdout bytes.Buffer
	cli := NewTutorCLI(strings.NewReader(""), &stdout, tutor.New(inference.Disabled{}))

	err := cli.Start(context.Background(), testCards, "Ann", false)
	require.Error(t, err)
	assert.Contains(t, stdout.String(), tutor.MessageAIDisabled)
}
