// Package core provides the business logic for report extraction.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum size limit
//	          Patterns: "file too large", "request body too large"
//
//	FILE002 - Invalid CSV: File is not a valid CSV
//	          Typed: *InputFormatError with Format "csv"
//
//	FILE003 - Invalid workbook: File is not a valid .xlsx workbook
//	          Typed: *InputFormatError with Format "xlsx"
//
//	FILE004 - No file: No file was selected
//	          Patterns: "no file provided"
//
//	FILE005 - Empty file: The uploaded file is empty
//	          Typed: ErrEmptyFile
//
//	FILE006 - Unsupported format: Only .csv and .xlsx are accepted
//	          Typed: ErrUnsupportedFormat
//
// # Column Errors (COL001)
//
//	COL001 - Not enough columns
//	         Typed: *SchemaError. The message is shown verbatim.
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL002 - System busy: Too many files being processed
//	UPL004 - Request cancelled
//	UPL005 - Request timeout
//
// # Database Errors (DB004-DB006)
//
// Only raised by the run history; they never block a processing result.
//
// # History (HIST001)
//
//	HIST001 - History page requested without a database
//
// # Rate Limiting (RATE001)
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check application logs for the original error.
//
// # Matching
//
// Typed errors are checked first with errors.Is / errors.As. Remaining errors are
// matched case-insensitively against patterns using strings.Contains; the first
// match wins, so specific patterns come before general ones.
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgNotEnoughColumns = UserMessage{
		Message: NotEnoughColumnsMessage,
		Action:  "Upload a file whose third column holds the report text",
		Code:    "COL001",
	}
	msgInvalidCSV = UserMessage{
		Message: "File is not a valid CSV",
		Action:  "Ensure the file is comma-separated with consistent columns",
		Code:    "FILE002",
	}
	msgInvalidXLSX = UserMessage{
		Message: "File is not a valid Excel workbook",
		Action:  "Re-save the file as .xlsx and upload it again",
		Code:    "FILE003",
	}
	msgEmptyFile = UserMessage{
		Message: "The uploaded file is empty",
		Action:  "Please upload a file with data rows",
		Code:    "FILE005",
	}
	msgUnsupported = UserMessage{
		Message: "Unsupported file type",
		Action:  "Upload a .csv or .xlsx file",
		Code:    "FILE006",
	}
	msgBusy = UserMessage{
		Message: "Too many files are being processed",
		Action:  "Please wait a moment and try again",
		Code:    "UPL002",
	}
	msgHistoryDisabled = UserMessage{
		Message: "Run history is not enabled",
		Action:  "Configure DATABASE_URL to record processing runs",
		Code:    "HIST001",
	}
	msgCancelled = UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL004",
	}
	msgTimeout = UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or check your connection",
		Code:    "UPL005",
	}
)

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
var errorPatterns = []errorPattern{
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the file into smaller parts",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the file into smaller parts",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a .csv or .xlsx file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "too many concurrent",
		msg:     msgBusy,
	},
	{
		pattern: "download expired",
		msg: UserMessage{
			Message: "This download is no longer available",
			Action:  "Process the file again to download the results",
			Code:    "DL001",
		},
	},

	// History database errors
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB006",
		},
	},

	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	if msg, ok := mapTypedError(err); ok {
		return msg
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

func mapTypedError(err error) (UserMessage, bool) {
	var se *SchemaError
	if errors.As(err, &se) {
		return msgNotEnoughColumns, true
	}
	if errors.Is(err, ErrEmptyFile) {
		return msgEmptyFile, true
	}
	if errors.Is(err, ErrUnsupportedFormat) {
		return msgUnsupported, true
	}
	if errors.Is(err, ErrTooManyUploads) {
		return msgBusy, true
	}
	if errors.Is(err, ErrHistoryDisabled) {
		return msgHistoryDisabled, true
	}
	var ife *InputFormatError
	if errors.As(err, &ife) {
		if ife.Format == string(FormatXLSX) {
			return msgInvalidXLSX, true
		}
		return msgInvalidCSV, true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return msgTimeout, true
	}
	if errors.Is(err, context.Canceled) {
		return msgCancelled, true
	}
	return UserMessage{}, false
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing checks if an error maps to a specific message rather than
// the generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
