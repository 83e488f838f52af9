package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData indicates a file without a header or without data rows.
	ErrNoData = errors.New("no data rows")
	// ErrColumnNotFound indicates a referenced column absent from the table.
	ErrColumnNotFound = errors.New("column not found")
	// ErrUnsupportedFormat indicates an input extension no reader handles.
	ErrUnsupportedFormat = errors.New("unsupported input format")
	// ErrNotNumeric indicates a numeric accessor was used on a text column.
	ErrNotNumeric = errors.New("column is not numeric")
)

// DateParseError reports a launch date that matches none of the known layouts.
type DateParseError struct {
	Row   int // 1-based data row, header excluded
	Value string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("row %d: cannot parse %q as %s", e.Row, e.Value, ColLaunchDate)
}
