// Package quiz defines generated test questions and parses the responses of the
// generative model into them.
package quiz

import (
	"fmt"
	"strings"
)

type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionTypeTrueFalse      QuestionType = "TRUE_FALSE"
	QuestionTypeShortAnswer    QuestionType = "SHORT_ANSWER"
)

// AllQuestionTypes lists the question types in the order they are offered to users.
var AllQuestionTypes = []QuestionType{
	QuestionTypeMultipleChoice,
	QuestionTypeTrueFalse,
	QuestionTypeShortAnswer,
}

// ParseQuestionType accepts the upper case name of a type, or a lowercase
// kebab-case alias such as "multiple-choice".
func ParseQuestionType(value string) (QuestionType, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(value), "-", "_"))
	for _, questionType := range AllQuestionTypes {
		if string(questionType) == normalized {
			return questionType, nil
		}
	}
	return "", fmt.Errorf("unknown question type: %q", value)
}

// Label is a short human readable name of a question type.
func (questionType QuestionType) Label() string {
	switch questionType {
	case QuestionTypeMultipleChoice:
		return "Multiple Choice"
	case QuestionTypeTrueFalse:
		return "True/False"
	case QuestionTypeShortAnswer:
		return "Short Answer"
	}
	return string(questionType)
}

const DefaultBloomLevel = "Level 1: Recall"

// Question is one generated test question together with the student's answer and its grade.
type Question struct {
	// ID is the position of the question in the generated list.
	ID            string
	Type          QuestionType
	Text          string
	Options       []string
	CorrectAnswer string
	BloomLevel    string

	UserAnswer string
	Feedback   string
	IsCorrect  bool
	IsGraded   bool
}

// Clone returns a copy that does not share the options slice.
func (question Question) Clone() Question {
	if question.Options != nil {
		question.Options = append([]string(nil), question.Options...)
	}
	return question
}

// CloneQuestions copies every question of the list.
func CloneQuestions(questions []Question) []Question {
	if questions == nil {
		return nil
	}
	result := make([]Question, len(questions))
	for i, question := range questions {
		result[i] = question.Clone()
	}
	return result
}

// Score returns the number of correctly answered questions.
func Score(questions []Question) int {
	score := 0
	for _, question := range questions {
		if question.IsCorrect {
			score++
		}
	}
	return score
}
