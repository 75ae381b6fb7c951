package record

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// TimeLayout is the timestamp layout of a results line.
const TimeLayout = "2006-01-02 15:04:05"

const resultSeparator = " | "

// Result is one completed test.
type Result struct {
	// ID identifies the test run. It is not part of the results line and is
	// empty for results read back from a flat file.
	ID         string
	Time       time.Time
	Percentage float64
	Correct    int
	Total      int
}

// FormatResult encodes r as a single results line without trailing newline.
func FormatResult(r Result) string {
	return fmt.Sprintf("%s | Score: %.2f%% | Questions: %d/%d",
		r.Time.Format(TimeLayout), r.Percentage, r.Correct, r.Total)
}

// ParseResult decodes a results line. Timestamps are read in local time.
func ParseResult(line string) (Result, error) {
	parts := strings.Split(line, resultSeparator)
	if len(parts) != 3 {
		return Result{}, fmt.Errorf("expected 3 sections, got %d", len(parts))
	}

	ts, err := time.ParseInLocation(TimeLayout, strings.TrimSpace(parts[0]), time.Local)
	if err != nil {
		return Result{}, fmt.Errorf("timestamp: %w", err)
	}

	score, ok := strings.CutPrefix(strings.TrimSpace(parts[1]), "Score: ")
	if !ok {
		return Result{}, fmt.Errorf("missing score in %q", parts[1])
	}
	pct, err := strconv.ParseFloat(strings.TrimSuffix(score, "%"), 64)
	if err != nil {
		return Result{}, fmt.Errorf("score: %w", err)
	}

	counts, ok := strings.CutPrefix(strings.TrimSpace(parts[2]), "Questions: ")
	if !ok {
		return Result{}, fmt.Errorf("missing question count in %q", parts[2])
	}
	correctStr, totalStr, ok := strings.Cut(counts, "/")
	if !ok {
		return Result{}, fmt.Errorf("question count %q is not correct/total", counts)
	}
	correct, err := strconv.Atoi(correctStr)
	if err != nil {
		return Result{}, fmt.Errorf("correct count: %w", err)
	}
	total, err := strconv.Atoi(totalStr)
	if err != nil {
		return Result{}, fmt.Errorf("total count: %w", err)
	}

	return Result{Time: ts, Percentage: pct, Correct: correct, Total: total}, nil
}

// DecodeResults reads results lines from r, skipping and reporting
// malformed ones.
func DecodeResults(r io.Reader) ([]Result, []*MalformedRecordError, error) {
	var (
		results []Result
		skipped []*MalformedRecordError
	)
	err := scanLines(r, func(n int, line string) {
		res, err := ParseResult(line)
		if err != nil {
			skipped = append(skipped, &MalformedRecordError{Line: n, Reason: err.Error()})
			return
		}
		results = append(results, res)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("read results: %w", err)
	}
	return results, skipped, nil
}
