package core

import (
	"errors"
	"fmt"
)

// NotEnoughColumnsMessage is shown to the user when the source column is missing.
const NotEnoughColumnsMessage = "The uploaded file doesn't have enough columns."

// ErrUnsupportedFormat is returned for files that are neither .csv nor .xlsx.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrFileTooLarge is returned when an upload exceeds the configured size.
var ErrFileTooLarge = errors.New("file too large")

// ErrHistoryDisabled is returned by history queries when no store is configured.
var ErrHistoryDisabled = errors.New("run history is not configured")

// ErrEmptyFile is wrapped in an InputFormatError when a CSV has no records.
var ErrEmptyFile = errors.New("empty file")

// SchemaError reports a table without the source column. It is the one
// failure that is shown to the user as-is.
type SchemaError struct {
	Columns int
}

func (e *SchemaError) Error() string {
	return NotEnoughColumnsMessage
}

// InputFormatError reports file content that cannot be read as a table.
type InputFormatError struct {
	Format string // "csv" or "xlsx"
	Err    error
}

func (e *InputFormatError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Format, e.Err)
}

func (e *InputFormatError) Unwrap() error {
	return e.Err
}

// IsSchemaError reports whether err is, or wraps, a SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}
