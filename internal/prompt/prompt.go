// Package prompt builds the instructions sent to the generative model.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/at-ishikawa/quizgpt/internal/quiz"
	"github.com/at-ishikawa/quizgpt/internal/studyset"
)

var (
	ErrNoCards              = errors.New("no cards for the prompt")
	ErrInvalidQuestionCount = errors.New("question count must be at least 1")
	ErrNoQuestionType       = errors.New("no question type")
)

const questionFormat = `[{"type": "MULTIPLE_CHOICE", "bloom": "Level 1: Recall", "question": "...", "options": ["A", "B", "C", "D"], "answer": "C"}]`

// Material lists the cards one per line as "Term: X | Def: Y".
func Material(cards []studyset.Card) string {
	lines := make([]string, 0, len(cards))
	for _, card := range cards {
		lines = append(lines, fmt.Sprintf("Term: %s | Def: %s", card.Question, card.Answer))
	}
	return strings.Join(lines, "\n")
}

// TestGeneration asks for exactly questionCount questions of the given types
// returned as a bare JSON array.
func TestGeneration(cards []studyset.Card, questionCount int, questionTypes []quiz.QuestionType) (string, error) {
	if len(cards) == 0 {
		return "", ErrNoCards
	}
	if questionCount < 1 {
		return "", ErrInvalidQuestionCount
	}
	if len(questionTypes) == 0 {
		return "", ErrNoQuestionType
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "You are an expert teacher creating a rigorous exam. Create exactly %d questions based ONLY on this material:\n", questionCount)
	builder.WriteString(Material(cards))
	builder.WriteString("\nCRITICAL INSTRUCTION: Vary the Bloom's Taxonomy levels.\n")
	builder.WriteString("Allowed Formats (Mix these):\n")
	// Keep the order of quiz.AllQuestionTypes regardless of how the caller listed them.
	for _, questionType := range quiz.AllQuestionTypes {
		for _, allowed := range questionTypes {
			if allowed == questionType {
				fmt.Fprintf(&builder, "- %s (type: %s)\n", questionType.Label(), questionType)
				break
			}
		}
	}
	builder.WriteString("Use no other formats.\n")
	builder.WriteString("Return a JSON ARRAY only.\n")
	builder.WriteString("Format: " + questionFormat)
	return builder.String(), nil
}

// ShortAnswerGrading asks for a {"isCorrect", "feedback"} verdict on a student answer.
func ShortAnswerGrading(question, correctAnswer, userAnswer string) string {
	return fmt.Sprintf(
		"Grade this student answer. Question: %q Correct Definition: %q Student Answer: %q\n"+
			`Output ONLY a JSON object: { "isCorrect": true/false, "feedback": "Your feedback here..." }`,
		question, correctAnswer, userAnswer,
	)
}

func Mnemonic(question, answer string) string {
	return fmt.Sprintf("Create a short, catchy mnemonic to help remember that '%s' means '%s'. Keep it brief.", question, answer)
}

func Explanation(question, answer string) string {
	return fmt.Sprintf("Explain this concept like I am learning this for the first time: '%s' is '%s'. Use simple words and maybe an analogy.", question, answer)
}

// TutorSystem opens a tutoring conversation restricted to the given cards.
func TutorSystem(cards []studyset.Card, studentName string) (string, error) {
	if len(cards) == 0 {
		return "", ErrNoCards
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "You are a friendly and Socratic tutor helping %s study.\n", studentName)
	builder.WriteString("THE MATERIAL TO STUDY IS STRICTLY LIMITED TO:\n")
	builder.WriteString(Material(cards))
	builder.WriteString("\nRULES:\n")
	builder.WriteString("1. ONLY ask questions about the terms defined above.\n")
	builder.WriteString("2. Do NOT bring in outside knowledge or unrelated topics.\n")
	builder.WriteString("3. Act like a tutor. Ask the student a question about one of the terms to start.\n")
	builder.WriteString("4. If they get it right, praise them and ask another. If they get it wrong, give a hint.\n")
	builder.WriteString("5. Keep responses short and conversational.")
	return builder.String(), nil
}
