package shared

import "fmt"

// RangeError reports a coordinate, rank, level, file or board index outside
// the variant's fixed bounds. Values are never clamped.
type RangeError struct {
	What  string
	Value string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s out of range: %s", e.What, e.Value)
}

// FormatError reports malformed annotation, FEN or PGN text.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Input == "" {
		return "malformed input: " + e.Reason
	}
	return fmt.Sprintf("malformed input %q: %s", e.Input, e.Reason)
}

func rangeErrorf(what string, format string, args ...any) error {
	return &RangeError{What: what, Value: fmt.Sprintf(format, args...)}
}

func formatErrorf(input string, format string, args ...any) error {
	return &FormatError{Input: input, Reason: fmt.Sprintf(format, args...)}
}
