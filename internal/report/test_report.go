package report

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/at-ishikawa/quizgpt/internal/quiz"
)

const testReportTemplateName = "test-report.md.go.tmpl"

//go:embed templates/test-report.md.go.tmpl
var fallbackTestReportTemplate string

// TestReport is the data of a completed test passed to the template.
type TestReport struct {
	SetTitle    string
	StudentName string
	CompletedAt time.Time
	Score       int
	Total       int
	Questions   []quiz.Question
}

func NewTestReport(setTitle, studentName string, completedAt time.Time, questions []quiz.Question) TestReport {
	return TestReport{
		SetTitle:    setTitle,
		StudentName: studentName,
		CompletedAt: completedAt,
		Score:       quiz.Score(questions),
		Total:       len(questions),
		Questions:   quiz.CloneQuestions(questions),
	}
}

func WriteTestReport(output io.Writer, templatePath string, report TestReport) error {
	tmpl, err := parseTemplateWithFallback(templatePath, testReportTemplateName, fallbackTestReportTemplate)
	if err != nil {
		return fmt.Errorf("parseTemplateWithFallback() > %w", err)
	}
	if err := tmpl.Execute(output, report); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}

var nonSlugCharacters = regexp.MustCompile(`[^a-z0-9]+`)

func slug(title string) string {
	s := strings.Trim(nonSlugCharacters.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if s == "" {
		return "test"
	}
	return s
}

// SaveTestReport writes the report as a markdown file under directory and returns its path.
func SaveTestReport(directory, templatePath string, report TestReport) (string, error) {
	if err := os.MkdirAll(directory, 0755); err != nil {
		return "", fmt.Errorf("os.MkdirAll(%s) > %w", directory, err)
	}
	fileName := fmt.Sprintf("%s-%s.md", slug(report.SetTitle), report.CompletedAt.Format("20060102-150405"))
	path := filepath.Join(directory, fileName)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("os.Create(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	if err := WriteTestReport(file, templatePath, report); err != nil {
		return "", err
	}
	return path, nil
}
