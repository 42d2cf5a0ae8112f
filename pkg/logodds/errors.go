package logodds

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when the input table has no rows.
var ErrEmptyInput = errors.New("input table has no rows")

// DuplicateRowError reports more than one row for the same (set, feature)
// pair. Aggregating such rows would be ambiguous, so the input is rejected
// before any computation.
type DuplicateRowError struct {
	Set     string
	Feature string
}

func (e *DuplicateRowError) Error() string {
	return fmt.Sprintf("duplicate row for set %q and feature %q", e.Set, e.Feature)
}

// InvalidCountError reports a count column that is not numeric, or a count
// value that is negative or not a number.
type InvalidCountError struct {
	Column string
	Row    int
	Value  float64
	Reason string
}

func (e *InvalidCountError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("invalid count column %q: %s", e.Column, e.Reason)
	}
	return fmt.Sprintf("invalid count in column %q at row %d (%v): %s", e.Column, e.Row, e.Value, e.Reason)
}
