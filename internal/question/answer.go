package question

import (
	"strconv"
	"strings"
)

// Check compares the learner's input against the correct answer.
//
// Normalization rules:
//   - Whitespace is trimmed and empty input is never correct
//   - Free-form: comparison is case-insensitive; when the canonical answer is
//     a plain integer the input is compared numerically ("007" matches "7")
//   - Multiple choice: a 1-based option number selects that option, anything
//     else is matched against the option text (case-insensitive)
func (q *Question) Check(input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return false
	}
	if q.kind == KindMultipleChoice {
		return q.checkChoice(input)
	}
	return checkFreeForm(input, q.answer)
}

// Choose reports whether the 0-based option index is the correct one.
func (q *Question) Choose(index int) bool {
	return q.choice != nil && index == q.choice.correct
}

func (q *Question) checkChoice(input string) bool {
	if idx, err := strconv.Atoi(input); err == nil && idx >= 1 && idx <= len(q.choice.options) {
		return q.Choose(idx - 1)
	}
	return strings.EqualFold(input, strings.TrimSpace(q.answer))
}

func checkFreeForm(input, expected string) bool {
	expected = strings.TrimSpace(expected)
	if isDigits(expected) {
		want, err := strconv.ParseInt(expected, 10, 64)
		if err == nil {
			got, err := strconv.ParseInt(input, 10, 64)
			return err == nil && got == want
		}
	}
	return strings.EqualFold(input, expected)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
