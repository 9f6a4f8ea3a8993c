package fillup

import (
	"errors"
	"fmt"
)

// Fatal extraction errors. Callers inspect these with errors.Is/errors.As and
// decide policy themselves; the pipeline never exits the process.
var (
	// ErrSectionNotFound indicates the document contains no marker for the
	// requested section.
	ErrSectionNotFound = errors.New("section not found")

	// ErrEmptySeries indicates filtering and validation left zero
	// observations, so averaging and charting are undefined.
	ErrEmptySeries = errors.New("empty observation series")
)

// MalformedRecordError reports a single data row that could not be parsed
// (broken quoting or wrong field count). It is recoverable: the parser skips
// the row, collects the error, and continues with the rest of the section.
type MalformedRecordError struct {
	Line int // 1-based line number in the source document
	Err  error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record at line %d: %v", e.Line, e.Err)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// InvalidObservationError reports a required field that failed validation.
// Unlike a malformed row this is fatal: a corrupt date or odometer reading is
// load-bearing and cannot be repaired by skipping, so the whole extraction
// aborts.
type InvalidObservationError struct {
	Line  int    // 1-based line number in the source document
	Field string // column that failed, e.g. "date"
	Value string // raw value as it appeared in the document
	Err   error
}

func (e *InvalidObservationError) Error() string {
	return fmt.Sprintf("invalid observation at line %d: %s %q: %v", e.Line, e.Field, e.Value, e.Err)
}

func (e *InvalidObservationError) Unwrap() error {
	return e.Err
}
