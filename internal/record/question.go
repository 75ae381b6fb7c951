package record

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/abhisek/learntool/internal/question"
)

// Kind tags appended by older revisions of the question file.
const (
	legacyFreeFormTag = "FreeformQuestion"
	legacyChoiceTag   = "QuizQuestion"
)

// FormatQuestion encodes q as a single line without trailing newline.
func FormatQuestion(q *question.Question) string {
	fields := []string{strconv.Itoa(q.ID), formatBool(q.Enabled), q.Text}
	if q.IsMultipleChoice() {
		fields = append(fields, strings.Join(q.Options(), OptionSeparator))
	}
	fields = append(fields, q.Answer())
	return strings.Join(fields, Delimiter)
}

// ParseQuestion decodes one question line. Four fields describe a free-form
// question and five a multiple-choice question. Lines written by older
// revisions carry one extra trailing kind tag; the tag is only recognised
// when the line does not already parse without it, so a question whose last
// field happens to read like a tag keeps its kind and answer.
func ParseQuestion(line string) (*question.Question, error) {
	fields := strings.Split(line, Delimiter)

	q, err := parseQuestionFields(fields)
	if err == nil {
		return q, nil
	}
	if untagged, ok := stripLegacyTag(fields); ok {
		return parseQuestionFields(untagged)
	}
	return nil, err
}

// stripLegacyTag drops a trailing kind tag when the line has exactly one
// field more than the tagged kind needs.
func stripLegacyTag(fields []string) ([]string, bool) {
	switch n := len(fields); {
	case n == 5 && fields[4] == legacyFreeFormTag:
		return fields[:4], true
	case n == 6 && fields[5] == legacyChoiceTag:
		return fields[:5], true
	}
	return nil, false
}

func parseQuestionFields(fields []string) (*question.Question, error) {
	if len(fields) != 4 && len(fields) != 5 {
		return nil, fmt.Errorf("expected 4 or 5 fields, got %d", len(fields))
	}
	isChoice := len(fields) == 5

	id, err := strconv.Atoi(fields[0])
	if err != nil || id < 1 {
		return nil, fmt.Errorf("invalid id %q", fields[0])
	}
	enabled, err := parseBool(fields[1])
	if err != nil {
		return nil, err
	}

	var q *question.Question
	if isChoice {
		options := strings.Split(fields[3], OptionSeparator)
		correct := -1
		for i, o := range options {
			if strings.TrimSpace(o) == strings.TrimSpace(fields[4]) {
				correct = i
				break
			}
		}
		if correct < 0 {
			return nil, fmt.Errorf("answer %q is not one of the options", fields[4])
		}
		q, err = question.NewMultipleChoice(fields[2], options, correct)
	} else {
		q, err = question.NewFreeForm(fields[2], fields[3])
	}
	if err != nil {
		return nil, err
	}

	q.ID = id
	q.Enabled = enabled
	return q, nil
}

// EncodeQuestions writes one line per question.
func EncodeQuestions(w io.Writer, qs []*question.Question) error {
	bw := bufio.NewWriter(w)
	for _, q := range qs {
		if _, err := bw.WriteString(FormatQuestion(q) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// DecodeQuestions reads question lines from r. Blank lines are ignored;
// malformed lines and repeated ids are skipped and reported without
// aborting the decode.
func DecodeQuestions(r io.Reader) ([]*question.Question, []*MalformedRecordError, error) {
	var (
		qs      []*question.Question
		skipped []*MalformedRecordError
		seen    = make(map[int]bool)
	)
	err := scanLines(r, func(n int, line string) {
		q, err := ParseQuestion(line)
		if err != nil {
			skipped = append(skipped, &MalformedRecordError{Line: n, Reason: err.Error()})
			return
		}
		if seen[q.ID] {
			skipped = append(skipped, &MalformedRecordError{Line: n, Reason: fmt.Sprintf("duplicate id %d", q.ID)})
			return
		}
		seen[q.ID] = true
		qs = append(qs, q)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("read questions: %w", err)
	}
	return qs, skipped, nil
}

// scanLines calls fn for every non-blank line with its 1-based number.
func scanLines(r io.Reader, fn func(n int, line string)) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fn(n, line)
	}
	return sc.Err()
}
