package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mandolyte/mdtopdf"
)

const defaultPDFTitle = "Test report"

// ConvertMarkdownToPDF converts a saved test report to PDF next to it and returns the PDF path.
// The first heading of the report becomes the PDF document title.
func ConvertMarkdownToPDF(markdownPath string) (string, error) {
	if !strings.HasSuffix(markdownPath, ".md") {
		return "", fmt.Errorf("input file must have .md extension: %s", markdownPath)
	}

	content, err := os.ReadFile(markdownPath)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile(%s) > %w", markdownPath, err)
	}

	pdfPath := strings.TrimSuffix(markdownPath, ".md") + ".pdf"
	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	renderer.Pdf.SetTitle(reportHeading(content), true)
	renderer.Pdf.SetCreator("quizgpt", true)
	// feedback is rendered as blockquotes
	renderer.UpdateBlockquoteStyler()
	if err := renderer.Process(content); err != nil {
		return "", fmt.Errorf("renderer.Process() > %w", err)
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}
	return absPath, nil
}

func reportHeading(content []byte) string {
	for _, line := range strings.Split(string(content), "\n") {
		heading, ok := strings.CutPrefix(strings.TrimSpace(line), "# ")
		if !ok {
			continue
		}
		if heading = strings.TrimSpace(heading); heading != "" {
			return heading
		}
	}
	return defaultPDFTitle
}
