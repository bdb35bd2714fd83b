package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/at-ishikawa/quizgpt/internal/quiz"
	"github.com/at-ishikawa/quizgpt/internal/studyset"
)

// SortFlag is the order of listed sets.
type SortFlag studyset.SortOption

// Set implements pflag.Value.
func (s *SortFlag) Set(v string) error {
	option, err := studyset.ParseSortOption(v)
	if err != nil {
		return err
	}
	*s = SortFlag(option)
	return nil
}

// String implements pflag.Value.
func (s *SortFlag) String() string {
	if s == nil {
		return ""
	}
	return string(*s)
}

// Type implements pflag.Value.
func (s *SortFlag) Type() string {
	return "SortFlag"
}

// QuestionTypesFlag is a comma separated list of question types.
type QuestionTypesFlag []quiz.QuestionType

// Set implements pflag.Value.
func (f *QuestionTypesFlag) Set(v string) error {
	var types []quiz.QuestionType
	seen := make(map[quiz.QuestionType]struct{})
	for _, value := range strings.Split(v, ",") {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		questionType, err := quiz.ParseQuestionType(value)
		if err != nil {
			return err
		}
		if _, ok := seen[questionType]; ok {
			continue
		}
		seen[questionType] = struct{}{}
		types = append(types, questionType)
	}
	if len(types) == 0 {
		return fmt.Errorf("invalid value %q, at least one question type is required", v)
	}
	*f = types
	return nil
}

// String implements pflag.Value.
func (f *QuestionTypesFlag) String() string {
	if f == nil {
		return ""
	}
	values := make([]string, 0, len(*f))
	for _, questionType := range *f {
		values = append(values, string(questionType))
	}
	return strings.Join(values, ",")
}

// Type implements pflag.Value.
func (f *QuestionTypesFlag) Type() string {
	return "QuestionTypes"
}

var (
	_ pflag.Value = (*SortFlag)(nil)
	_ pflag.Value = (*QuestionTypesFlag)(nil)
)
