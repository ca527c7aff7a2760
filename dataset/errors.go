package dataset

import (
	"errors"
	"fmt"
)

var (
	ErrMissingColumn = errors.New("missing expected column")
	ErrNegativeValue = errors.New("value must be non-negative")
	ErrNonFinite     = errors.New("value must be a finite number")
)

// DataLoadError reports a dataset file that is missing, unreadable or does not match the
// expected schema. Row is 1-based over data rows and 0 when the failure is not row specific.
type DataLoadError struct {
	File   string
	Column string
	Row    int
	Err    error
}

func (e *DataLoadError) Error() string {
	switch {
	case e.Column != "" && e.Row > 0:
		return fmt.Sprintf("load %s: column %q row %d: %v", e.File, e.Column, e.Row, e.Err)
	case e.Column != "":
		return fmt.Sprintf("load %s: column %q: %v", e.File, e.Column, e.Err)
	default:
		return fmt.Sprintf("load %s: %v", e.File, e.Err)
	}
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// DateParseError reports an order_purchase_timestamp value that could not be parsed.
type DateParseError struct {
	File  string
	Row   int
	Value string
	Err   error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("load %s: row %d: unparseable timestamp %q: %v", e.File, e.Row, e.Value, e.Err)
}

func (e *DateParseError) Unwrap() error { return e.Err }
