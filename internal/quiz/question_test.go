package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuestionType(t *testing.T) {
	tests := []struct {
		value   string
		want    QuestionType
		wantErr bool
	}{
		{value: "MULTIPLE_CHOICE", want: QuestionTypeMultipleChoice},
		{value: "true-false", want: QuestionTypeTrueFalse},
		{value: " short_answer ", want: QuestionTypeShortAnswer},
		{value: "essay", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseQuestionType(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCloneQuestions(t *testing.T) {
	original := []Question{{ID: "0", Options: []string{"a", "b"}}}
	cloned := CloneQuestions(original)
	cloned[0].Options[0] = "changed"
	cloned[0].UserAnswer = "b"

	assert.Equal(t, "a", original[0].Options[0])
	assert.Empty(t, original[0].UserAnswer)
	assert.Nil(t, CloneQuestions(nil))
}

func TestScore(t *testing.T) {
	assert.Equal(t, 2, Score([]Question{{IsCorrect: true}, {IsCorrect: false}, {IsCorrect: true}}))
	assert.Equal(t, 0, Score(nil))
}
