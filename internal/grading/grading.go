// Package grading grades answers to test questions, by exact match or by asking the generative model.
package grading

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/at-ishikawa/quizgpt/internal/inference"
	"github.com/at-ishikawa/quizgpt/internal/prompt"
	"github.com/at-ishikawa/quizgpt/internal/quiz"
)

// MatchesExactly compares two answers ignoring case and surrounding whitespace.
func MatchesExactly(userAnswer, correctAnswer string) bool {
	return strings.EqualFold(strings.TrimSpace(userAnswer), strings.TrimSpace(correctAnswer))
}

// GradeChoice grades a multiple choice or true/false answer.
func GradeChoice(userAnswer, correctAnswer string) quiz.Verdict {
	if MatchesExactly(userAnswer, correctAnswer) {
		return quiz.Verdict{IsCorrect: true, Feedback: "Correct!"}
	}
	return quiz.Verdict{Feedback: "Incorrect. Answer: " + correctAnswer}
}

type Grader struct {
	client inference.Client
}

func NewGrader(client inference.Client) *Grader {
	return &Grader{client: client}
}

// ShortAnswer asks the model for a verdict. When AI is disabled, or the call or
// its parsing fails, the answer is graded by exact match instead.
func (g *Grader) ShortAnswer(ctx context.Context, question, correctAnswer, userAnswer string) quiz.Verdict {
	if inference.IsDisabled(g.client) {
		isMatch := MatchesExactly(userAnswer, correctAnswer)
		return quiz.Verdict{IsCorrect: isMatch, Feedback: fmt.Sprintf("AI Disabled. Exact match: %t", isMatch)}
	}

	verdict, err := g.askModel(ctx, question, correctAnswer, userAnswer)
	if err != nil {
		isMatch := MatchesExactly(userAnswer, correctAnswer)
		slog.Default().Warn("short answer grading fell back to exact match",
			"question", question,
			"exactMatch", isMatch,
			"error", err,
		)
		return quiz.Verdict{IsCorrect: isMatch, Feedback: fmt.Sprintf("AI unavailable. Exact match: %t", isMatch)}
	}
	return verdict
}

func (g *Grader) askModel(ctx context.Context, question, correctAnswer, userAnswer string) (quiz.Verdict, error) {
	reply, err := g.client.Generate(ctx, prompt.ShortAnswerGrading(question, correctAnswer, userAnswer))
	if err != nil {
		return quiz.Verdict{}, fmt.Errorf("client.Generate > %w", err)
	}
	verdict, err := quiz.ParseVerdict(reply)
	if err != nil {
		return quiz.Verdict{}, fmt.Errorf("quiz.ParseVerdict > %w", err)
	}
	return verdict, nil
}

// Grade returns a graded copy of the question.
func (g *Grader) Grade(ctx context.Context, question quiz.Question) quiz.Question {
	var verdict quiz.Verdict
	if question.Type == quiz.QuestionTypeShortAnswer {
		verdict = g.ShortAnswer(ctx, question.Text, question.CorrectAnswer, question.UserAnswer)
	} else {
		verdict = GradeChoice(question.UserAnswer, question.CorrectAnswer)
	}

	graded := question.Clone()
	graded.IsCorrect = verdict.IsCorrect
	graded.Feedback = verdict.Feedback
	graded.IsGraded = true
	return graded
}
