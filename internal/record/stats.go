package record

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/abhisek/learntool/internal/question"
)

// Stat is one statistics line: the per-mode counters of a question.
// Enabled and Text are informational copies of the question record.
type Stat struct {
	ID       int
	Enabled  bool
	Text     string
	Practice question.Counter
	Test     question.Counter
}

// StatOf builds the statistics entry of q.
func StatOf(q *question.Question) Stat {
	return Stat{
		ID:       q.ID,
		Enabled:  q.Enabled,
		Text:     q.Text,
		Practice: q.Counters(question.ModePractice),
		Test:     q.Counters(question.ModeTest),
	}
}

// FormatStat encodes s as a single line without trailing newline.
func FormatStat(s Stat) string {
	return strings.Join([]string{
		strconv.Itoa(s.ID),
		formatBool(s.Enabled),
		s.Text,
		strconv.Itoa(s.Practice.Shown),
		strconv.Itoa(s.Practice.Correct),
		formatPercent(s.Practice.Accuracy()),
		strconv.Itoa(s.Test.Shown),
		strconv.Itoa(s.Test.Correct),
		formatPercent(s.Test.Accuracy()),
	}, Delimiter)
}

// ParseStat decodes one statistics line. The six-field form written by
// older revisions carries a single counter pair, read as practice counters.
// Stored percentages are ignored; they are derived from the counts.
func ParseStat(line string) (Stat, error) {
	fields := strings.Split(line, Delimiter)
	if len(fields) != 6 && len(fields) != 9 {
		return Stat{}, fmt.Errorf("expected 6 or 9 fields, got %d", len(fields))
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil || id < 1 {
		return Stat{}, fmt.Errorf("invalid id %q", fields[0])
	}
	enabled, err := parseBool(fields[1])
	if err != nil {
		return Stat{}, err
	}

	s := Stat{ID: id, Enabled: enabled, Text: fields[2]}
	if s.Practice, err = parseCounter(fields[3], fields[4]); err != nil {
		return Stat{}, fmt.Errorf("practice counters: %w", err)
	}
	if len(fields) == 9 {
		if s.Test, err = parseCounter(fields[6], fields[7]); err != nil {
			return Stat{}, fmt.Errorf("test counters: %w", err)
		}
	}
	return s, nil
}

func parseCounter(shown, correct string) (question.Counter, error) {
	s, err := strconv.Atoi(strings.TrimSpace(shown))
	if err != nil {
		return question.Counter{}, fmt.Errorf("shown %q: %w", shown, err)
	}
	c := 0
	// Older files wrote an empty correct count for never-answered questions.
	if strings.TrimSpace(correct) != "" {
		if c, err = strconv.Atoi(strings.TrimSpace(correct)); err != nil {
			return question.Counter{}, fmt.Errorf("correct %q: %w", correct, err)
		}
	}
	if s < 0 || c < 0 || c > s {
		return question.Counter{}, fmt.Errorf("correct %d / shown %d out of range", c, s)
	}
	return question.Counter{Shown: s, Correct: c}, nil
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}

// EncodeStats writes one line per entry.
func EncodeStats(w io.Writer, stats []Stat) error {
	bw := bufio.NewWriter(w)
	for _, s := range stats {
		if _, err := bw.WriteString(FormatStat(s) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// DecodeStats reads statistics lines from r, skipping and reporting
// malformed ones.
func DecodeStats(r io.Reader) ([]Stat, []*MalformedRecordError, error) {
	var (
		stats   []Stat
		skipped []*MalformedRecordError
	)
	err := scanLines(r, func(n int, line string) {
		s, err := ParseStat(line)
		if err != nil {
			skipped = append(skipped, &MalformedRecordError{Line: n, Reason: err.Error()})
			return
		}
		stats = append(stats, s)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("read statistics: %w", err)
	}
	return stats, skipped, nil
}
