// Package record is the single definition of the pipe-delimited line formats
// used to persist questions, statistics and test results.
//
//	FreeForm:       <id>|<True|False>|<text>|<answer>
//	MultipleChoice: <id>|<True|False>|<text>|<opt1,opt2,...>|<answer>
//	Statistics:     <id>|<True|False>|<text>|<shown_p>|<correct_p>|<pct_p>|<shown_t>|<correct_t>|<pct_t>
//	Results:        <YYYY-MM-DD HH:MM:SS> | Score: <pct>% | Questions: <correct>/<total>
package record

import (
	"errors"
	"fmt"
)

// Field separators.
const (
	Delimiter       = "|"
	OptionSeparator = ","
)

// ErrMalformedRecord is wrapped by every MalformedRecordError.
var ErrMalformedRecord = errors.New("malformed record")

// MalformedRecordError reports an unparseable line. Line is 1-based.
type MalformedRecordError struct {
	Line   int
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record at line %d: %s", e.Line, e.Reason)
}

func (e *MalformedRecordError) Unwrap() error { return ErrMalformedRecord }

// Lines returns the line numbers of the given errors.
func Lines(errs []*MalformedRecordError) []int {
	if len(errs) == 0 {
		return nil
	}
	out := make([]int, len(errs))
	for i, e := range errs {
		out[i] = e.Line
	}
	return out
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func parseBool(s string) (bool, error) {
	switch s {
	case "True":
		return true, nil
	case "False":
		return false, nil
	}
	return false, fmt.Errorf("enabled flag %q is not True or False", s)
}
