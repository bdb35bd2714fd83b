package studyset

import (
	"strings"
)

const DelimiterAuto = "auto"

// ImportedCard is a term/definition pair read from pasted text.
type ImportedCard struct {
	Question string
	Answer   string
}

// ParseImport reads lines of "term<delimiter>definition".
// With DelimiterAuto (or an empty delimiter), a tab is used if the first non-blank line
// contains one, otherwise a comma. Blank lines and lines with fewer than two fields are skipped.
// Only the first two fields of a line are used.
func ParseImport(text string, delimiter string) []ImportedCard {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil
	}

	if delimiter == "" || delimiter == DelimiterAuto {
		delimiter = detectDelimiter(lines[0])
	}

	var cards []ImportedCard
	for _, line := range lines {
		parts := strings.Split(line, delimiter)
		if len(parts) < 2 {
			continue
		}
		cards = append(cards, ImportedCard{
			Question: strings.TrimSpace(parts[0]),
			Answer:   strings.TrimSpace(parts[1]),
		})
	}
	return cards
}

func detectDelimiter(firstLine string) string {
	if strings.Contains(firstLine, "\t") {
		return "\t"
	}
	return ","
}
