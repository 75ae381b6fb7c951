package question

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is the sentinel wrapped by every ValidationError.
var ErrValidation = errors.New("invalid question")

// Characters that would break the pipe-delimited record format. They are
// rejected rather than escaped.
const (
	fieldDelimiter  = "|"
	optionDelimiter = ","
)

// ValidationError describes why a question was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid question: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// MinOptions is the minimum number of options of a multiple-choice question.
const MinOptions = 2

// Validate checks the question's structural invariants.
func (q *Question) Validate() error {
	if err := checkField("text", q.Text); err != nil {
		return err
	}

	switch q.kind {
	case KindFreeForm:
		if q.choice != nil {
			return &ValidationError{Field: "options", Reason: "not allowed on free-form questions"}
		}
		return checkField("answer", q.answer)

	case KindMultipleChoice:
		return q.validateChoice()
	}
	return &ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown kind %d", int(q.kind))}
}

func (q *Question) validateChoice() error {
	if q.choice == nil || len(q.choice.options) < MinOptions {
		return &ValidationError{
			Field:  "options",
			Reason: fmt.Sprintf("must have at least %d entries", MinOptions),
		}
	}

	seen := make(map[string]bool, len(q.choice.options))
	for i, o := range q.choice.options {
		field := fmt.Sprintf("option %d", i+1)
		if err := checkField(field, o); err != nil {
			return err
		}
		if strings.Contains(o, optionDelimiter) {
			return &ValidationError{Field: field, Reason: fmt.Sprintf("must not contain %q", optionDelimiter)}
		}
		// Typed answers match option text case-insensitively after
		// trimming, so options must stay distinct under the same rule.
		key := strings.ToLower(strings.TrimSpace(o))
		if seen[key] {
			return &ValidationError{Field: field, Reason: "duplicates another option"}
		}
		seen[key] = true
	}

	if q.choice.correct < 0 || q.choice.correct >= len(q.choice.options) {
		return &ValidationError{Field: "correct option", Reason: "must mark one of the options"}
	}
	if q.answer != q.choice.options[q.choice.correct] {
		return &ValidationError{Field: "answer", Reason: "must equal the correct option"}
	}
	return nil
}

func checkField(name, v string) error {
	switch {
	case strings.TrimSpace(v) == "":
		return &ValidationError{Field: name, Reason: "must not be empty"}
	case strings.Contains(v, fieldDelimiter):
		return &ValidationError{Field: name, Reason: fmt.Sprintf("must not contain %q", fieldDelimiter)}
	case strings.ContainsAny(v, "\r\n"):
		return &ValidationError{Field: name, Reason: "must be a single line"}
	}
	return nil
}
