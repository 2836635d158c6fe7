package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "schema error keeps the exact message",
			err:         fmt.Errorf("process: %w", &SchemaError{Columns: 2}),
			wantCode:    "COL001",
			wantMessage: "The uploaded file doesn't have enough columns.",
		},
		{
			name:        "csv format error",
			err:         &InputFormatError{Format: "csv", Err: errors.New("bare quote")},
			wantCode:    "FILE002",
			wantMessage: "File is not a valid CSV",
		},
		{
			name:        "xlsx format error",
			err:         &InputFormatError{Format: "xlsx", Err: errors.New("zip: not a valid zip file")},
			wantCode:    "FILE003",
			wantMessage: "File is not a valid Excel workbook",
		},
		{
			name:        "empty file wins over generic csv error",
			err:         &InputFormatError{Format: "csv", Err: ErrEmptyFile},
			wantCode:    "FILE005",
			wantMessage: "The uploaded file is empty",
		},
		{
			name:        "unsupported format",
			err:         fmt.Errorf("%w: %q", ErrUnsupportedFormat, ".txt"),
			wantCode:    "FILE006",
			wantMessage: "Unsupported file type",
		},
		{
			name:        "file too large sentinel",
			err:         fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, 16),
			wantCode:    "FILE001",
			wantMessage: "File exceeds the maximum size limit",
		},
		{
			name:        "history disabled",
			err:         ErrHistoryDisabled,
			wantCode:    "HIST001",
			wantMessage: "Run history is not enabled",
		},
		{
			name:        "limiter busy",
			err:         ErrTooManyUploads,
			wantCode:    "UPL002",
			wantMessage: "Too many files are being processed",
		},
		{
			name:        "deadline exceeded",
			err:         fmt.Errorf("acquire: %w", context.DeadlineExceeded),
			wantCode:    "UPL005",
			wantMessage: "Request timed out",
		},
		{
			name:        "cancelled",
			err:         context.Canceled,
			wantCode:    "UPL004",
			wantMessage: "Request was cancelled",
		},
		{
			name:        "file too large pattern",
			err:         errors.New("file too large: 30MB exceeds limit"),
			wantCode:    "FILE001",
			wantMessage: "File exceeds the maximum size limit",
		},
		{
			name:        "connection refused pattern",
			err:         errors.New("dial tcp: connection refused"),
			wantCode:    "DB004",
			wantMessage: "Unable to connect to database",
		},
		{
			name:        "rate limit pattern",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "expired download",
			err:         errors.New("download expired or unknown"),
			wantCode:    "DL001",
			wantMessage: "This download is no longer available",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("NO FILE PROVIDED"),
			wantCode:    "FILE004",
			wantMessage: "No file was selected",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantMessage, got.Message)
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(&SchemaError{Columns: 1})

	expected := "The uploaded file doesn't have enough columns. (Code: COL001). Upload a file whose third column holds the report text"
	assert.Equal(t, expected, result)
	assert.Empty(t, FormatUserError(nil))
}

func TestIsUserFacing(t *testing.T) {
	assert.False(t, IsUserFacing(nil))
	assert.True(t, IsUserFacing(&SchemaError{}))
	assert.False(t, IsUserFacing(errors.New("random internal error xyz")))
}
