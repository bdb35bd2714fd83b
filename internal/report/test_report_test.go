package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/quizgpt/internal/quiz"
)

func testQuestions() []quiz.Question {
	return []quiz.Question{
		{
			ID:            "0",
			Type:          quiz.QuestionTypeMultipleChoice,
			Text:          "Capital of France?",
			Options:       []string{"Paris", "Rome"},
			CorrectAnswer: "Paris",
			BloomLevel:    quiz.DefaultBloomLevel,
			UserAnswer:    "Paris",
			Feedback:      "Correct!",
			IsCorrect:     true,
			IsGraded:      true,
		},
		{
			ID:            "1",
			Type:          quiz.QuestionTypeShortAnswer,
			Text:          "What is H2O?",
			CorrectAnswer: "Water",
			BloomLevel:    "Level 2: Understand",
			Feedback:      "Not quite.",
			IsGraded:      true,
		},
	}
}

func TestNewTestReport(t *testing.T) {
	questions := testQuestions()
	completedAt := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

	got := NewTestReport("Geo", "Ann", completedAt, questions)
	assert.Equal(t, 1, got.Score)
	assert.Equal(t, 2, got.Total)

	questions[0].Options[0] = "changed"
	assert.Equal(t, "Paris", got.Questions[0].Options[0])
}

func TestWriteTestReport(t *testing.T) {
	completedAt := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	report := NewTestReport("Geo", "Ann", completedAt, testQuestions())

	tests := []struct {
		name         string
		templatePath func(t *testing.T) string

		wantContains []string
	}{
		{
			name: "embedded template",
			templatePath: func(t *testing.T) string {
				return ""
			},
			wantContains: []string{
				"# Geo test",
				"- Student: Ann",
				"- Date: 2025-03-04 05:06",
				"- Score: 1 / 2 (50%)",
				"## 1. Capital of France?",
				"*Multiple Choice / Level 1: Recall*",
				"- Paris\n- Rome\n",
				"- Your answer: Paris",
				"- Result: **Correct**",
				"## 2. What is H2O?",
				"- Your answer: (no answer)",
				"- Correct answer: Water",
				"- Result: **Incorrect**",
				"> Not quite.",
			},
		},
		{
			name: "embedded template when the file doesn't exist",
			templatePath: func(t *testing.T) string {
				return "/non/existent/report.md.go.tmpl"
			},
			wantContains: []string{"# Geo test"},
		},
		{
			name: "filesystem template",
			templatePath: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "custom.md.go.tmpl")
				content := `{{ .SetTitle }}:{{ range .Questions }}{{ .Text }};{{ end }}{{ percent .Score .Total }}`
				require.NoError(t, os.WriteFile(path, []byte(content), 0644))
				return path
			},
			wantContains: []string{"Geo:Capital of France?;What is H2O?;50"},
		},
		{
			name: "embedded template when the file is broken",
			templatePath: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "broken.md.go.tmpl")
				require.NoError(t, os.WriteFile(path, []byte("{{ .SetTitle "), 0644))
				return path
			},
			wantContains: []string{"# Geo test"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := WriteTestReport(&buf, tt.templatePath(t), report)
			require.NoError(t, err)
			for _, want := range tt.wantContains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestWriteTestReport_EmptyTest(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTestReport(&buf, "", NewTestReport("Empty", "Ann", time.Now(), nil))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "(0%)")
}

func TestSaveTestReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	completedAt := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	report := NewTestReport("World Geography!", "Ann", completedAt, testQuestions())

	path, err := SaveTestReport(dir, "", report)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "world-geography-20250304-050607.md"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# World Geography! test")
}

func TestSlug(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{title: "Biology 101", want: "biology-101"},
		{title: "  --Hello,  World--  ", want: "hello-world"},
		{title: "日本語", want: "test"},
		{title: "", want: "test"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, slug(tt.title))
		})
	}
}

func TestConvertMarkdownToPDF(t *testing.T) {
	t.Run("rejects non markdown files", func(t *testing.T) {
		_, err := ConvertMarkdownToPDF(filepath.Join(t.TempDir(), "report.txt"))
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ConvertMarkdownToPDF(filepath.Join(t.TempDir(), "missing.md"))
		assert.Error(t, err)
	})

	t.Run("writes a pdf next to the markdown", func(t *testing.T) {
		dir := t.TempDir()
		path, err := SaveTestReport(dir, "", NewTestReport("Geo", "Ann", time.Now(), testQuestions()))
		require.NoError(t, err)

		pdfPath, err := ConvertMarkdownToPDF(path)
		require.NoError(t, err)
		assert.Equal(t, ".pdf", filepath.Ext(pdfPath))
		info, err := os.Stat(pdfPath)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	})
}

func TestQuote(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "single line", text: "Correct!", want: "> Correct!"},
		{name: "multiple lines", text: "Close.\nWater is H2O.", want: "> Close.\n> Water is H2O."},
		{name: "blank line stays quoted", text: "First.\r\n\r\nSecond.\n", want: "> First.\n>\n> Second."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, quote(tt.text))
		})
	}
}

func TestWriteTestReport_MultiLineFeedback(t *testing.T) {
	questions := testQuestions()
	questions[1].Feedback = "Not quite.\n\nWater is H2O."

	var buf bytes.Buffer
	require.NoError(t, WriteTestReport(&buf, "", NewTestReport("Chemistry", "Ann", time.Now(), questions)))
	assert.Contains(t, buf.String(), "> Not quite.\n>\n> Water is H2O.\n")
}

func TestReportHeading(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "first heading", content: "# Chemistry test\n\n## 1. What is H2O?\n", want: "Chemistry test"},
		{name: "skips lower headings", content: "## 1. Q\n# Biology test\n", want: "Biology test"},
		{name: "no heading", content: "- Score: 1 / 2\n", want: defaultPDFTitle},
		{name: "empty heading", content: "#  \n", want: defaultPDFTitle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reportHeading([]byte(tt.content)))
		})
	}
}
