package quiz

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type ParseErrorKind int

const (
	// ParseErrorNotAnArray is returned when a question list response does not start with '['.
	ParseErrorNotAnArray ParseErrorKind = iota + 1
	// ParseErrorInvalidJSON is returned when a response cannot be decoded at all.
	ParseErrorInvalidJSON
	// ParseErrorMalformedVerdict is returned when a verdict lacks isCorrect or feedback.
	ParseErrorMalformedVerdict
)

func (kind ParseErrorKind) String() string {
	switch kind {
	case ParseErrorNotAnArray:
		return "not an array"
	case ParseErrorInvalidJSON:
		return "invalid json"
	case ParseErrorMalformedVerdict:
		return "malformed verdict"
	}
	return "unknown"
}

type ParseError struct {
	Kind   ParseErrorKind
	Detail string
	Err    error
}

func (e *ParseError) Error() string {
	message := "parse response: " + e.Kind.String()
	if e.Detail != "" {
		message += ": " + e.Detail
	}
	if e.Err != nil {
		message += ": " + e.Err.Error()
	}
	return message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseErrorKind reports whether err is a *ParseError of the given kind.
func IsParseErrorKind(err error, kind ParseErrorKind) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr) && parseErr.Kind == kind
}

// CleanResponse removes a surrounding markdown code fence, with an optional
// language tag, and the whitespace around it.
func CleanResponse(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if newline := strings.IndexByte(text, '\n'); newline >= 0 {
			if tag := strings.TrimSpace(text[:newline]); !strings.ContainsAny(tag, "[{") {
				text = text[newline+1:]
			}
		} else {
			text = strings.TrimPrefix(text, "json")
		}
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

type rawQuestion struct {
	Type     json.RawMessage   `json:"type"`
	Bloom    json.RawMessage   `json:"bloom"`
	Question json.RawMessage   `json:"question"`
	Options  []json.RawMessage `json:"options"`
	Answer   json.RawMessage   `json:"answer"`
}

// ParseQuestions decodes a JSON array of generated questions. Questions keep the
// order of the array and get their index as ID.
func ParseQuestions(text string) ([]Question, error) {
	cleaned := CleanResponse(text)
	if !strings.HasPrefix(cleaned, "[") {
		return nil, &ParseError{Kind: ParseErrorNotAnArray, Detail: truncate(cleaned)}
	}

	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &elements); err != nil {
		return nil, &ParseError{Kind: ParseErrorInvalidJSON, Err: err}
	}

	questions := make([]Question, 0, len(elements))
	for i, element := range elements {
		question, err := parseQuestion(element)
		if err != nil {
			return nil, fmt.Errorf("question %d > %w", i, err)
		}
		question.ID = strconv.Itoa(i)
		questions = append(questions, question)
	}
	return questions, nil
}

func parseQuestion(element json.RawMessage) (Question, error) {
	var raw rawQuestion
	if err := json.Unmarshal(element, &raw); err != nil {
		return Question{}, &ParseError{Kind: ParseErrorInvalidJSON, Err: err}
	}

	text, ok := scalarString(raw.Question)
	if !ok {
		return Question{}, &ParseError{Kind: ParseErrorInvalidJSON, Detail: "missing question"}
	}
	answer, ok := scalarString(raw.Answer)
	if !ok {
		return Question{}, &ParseError{Kind: ParseErrorInvalidJSON, Detail: "missing answer"}
	}

	questionType := QuestionTypeShortAnswer
	if typeName, ok := scalarString(raw.Type); ok {
		for _, candidate := range AllQuestionTypes {
			if string(candidate) == typeName {
				questionType = candidate
			}
		}
	}

	bloom := DefaultBloomLevel
	if value, ok := scalarString(raw.Bloom); ok && value != "" {
		bloom = value
	}

	options := make([]string, 0, len(raw.Options))
	for _, option := range raw.Options {
		if value, ok := scalarString(option); ok {
			options = append(options, value)
		}
	}

	if questionType == QuestionTypeMultipleChoice {
		answer = resolveOptionLetter(answer, options)
	}

	return Question{
		Type:          questionType,
		Text:          text,
		Options:       options,
		CorrectAnswer: answer,
		BloomLevel:    bloom,
	}, nil
}

// resolveOptionLetter maps a single letter answer A-D to the option at that index.
// Any other answer, or a letter beyond the options, is returned unchanged.
func resolveOptionLetter(answer string, options []string) string {
	if len(answer) != 1 || answer[0] < 'A' || answer[0] > 'D' {
		return answer
	}
	index := int(answer[0] - 'A')
	if index >= len(options) {
		return answer
	}
	return options[index]
}

// scalarString converts a JSON string, boolean or number into its text.
func scalarString(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false
	}
	switch v := value.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	return "", false
}

// Verdict is the grade of a short answer.
type Verdict struct {
	IsCorrect bool   `json:"isCorrect"`
	Feedback  string `json:"feedback"`
}

// ParseVerdict decodes a {"isCorrect": bool, "feedback": string} object.
func ParseVerdict(text string) (Verdict, error) {
	cleaned := CleanResponse(text)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return Verdict{}, &ParseError{Kind: ParseErrorInvalidJSON, Detail: truncate(cleaned), Err: err}
	}

	var verdict Verdict
	rawIsCorrect, ok := fields["isCorrect"]
	if !ok || isNull(rawIsCorrect) {
		return Verdict{}, &ParseError{Kind: ParseErrorMalformedVerdict, Detail: "missing isCorrect"}
	}
	if err := json.Unmarshal(rawIsCorrect, &verdict.IsCorrect); err != nil {
		return Verdict{}, &ParseError{Kind: ParseErrorMalformedVerdict, Detail: "isCorrect is not a boolean", Err: err}
	}
	rawFeedback, ok := fields["feedback"]
	if !ok || isNull(rawFeedback) {
		return Verdict{}, &ParseError{Kind: ParseErrorMalformedVerdict, Detail: "missing feedback"}
	}
	if err := json.Unmarshal(rawFeedback, &verdict.Feedback); err != nil {
		return Verdict{}, &ParseError{Kind: ParseErrorMalformedVerdict, Detail: "feedback is not a string", Err: err}
	}
	return verdict, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func truncate(text string) string {
	const limit = 80
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
