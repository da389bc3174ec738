package core

// error_messages.go maps technical errors to user-friendly messages with
// codes for support reference. Users quote the code, support staff look it up
// here.
//
// # Registro Errors (REG001-REG099)
//
//	REG001 - Email taken: Another registro already uses this email
//	REG002 - Not found: The registro does not exist
//	REG003 - Invalid program: The study program is not one of the recognized ones
//	REG004 - Nothing to export: No registros match the export filter
//	REG005 - Invalid data: One or more fields of the payload are not valid
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum upload size
//	FILE002 - Unsupported file: Extension is not an accepted spreadsheet type
//	FILE003 - Unreadable file: File could not be opened as a spreadsheet
//	FILE004 - No file: No file was sent with the request
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - System busy: Too many imports in progress
//
// # Database Errors (DB001-DB099)
//
// Matched on the error text, case-insensitively:
//
//	DB001 - Duplicate key              ("duplicate key")
//	DB002 - Unique constraint          ("unique constraint", "violates unique")
//	DB004 - Connection refused         ("connection refused")
//	DB005 - Connection reset           ("connection reset")
//	DB006 - Timeout                    ("timeout")
//	DB007 - Deadlock                   ("deadlock")
//
// # Request Errors (UPL004-UPL005, RATE001)
//
//	UPL004 - Request cancelled         (context.Canceled)
//	UPL005 - Request timed out         (context.DeadlineExceeded)
//	RATE001 - Rate limited             ("rate limit")
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check the application logs for the original
// technical error when users report ERR000.

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

// sentinelMessage maps an error matched with errors.Is to its user message.
type sentinelMessage struct {
	target error
	msg    UserMessage
}

// sentinelMessages are checked before the text patterns, in order.
var sentinelMessages = []sentinelMessage{
	{ErrEmailTaken, UserMessage{
		Message: "The email is already registered",
		Action:  "Use a different email or update the existing registro",
		Code:    "REG001",
	}},
	{ErrNotFound, UserMessage{
		Message: "Registro not found",
		Action:  "Verify the registro ID",
		Code:    "REG002",
	}},
	{ErrInvalidEstudio, UserMessage{
		Message: "The study program is not valid",
		Action:  "Use one of the programs listed at /api/estudios",
		Code:    "REG003",
	}},
	{ErrNoRecords, UserMessage{
		Message: "There are no registros to export",
		Action:  "Change the estudio filter or import registros first",
		Code:    "REG004",
	}},
	{ErrFileTooLarge, UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "Split the file into smaller files",
		Code:    "FILE001",
	}},
	{ErrUnsupportedFile, UserMessage{
		Message: "File type is not supported",
		Action:  "Upload an Excel (.xlsx, .xlsm, .xls) or CSV file",
		Code:    "FILE002",
	}},
	{ErrUnreadableFile, UserMessage{
		Message: "The file could not be read",
		Action:  "Check that the file is a valid spreadsheet and not password protected",
		Code:    "FILE003",
	}},
	{ErrNoFile, UserMessage{
		Message: "No file was selected",
		Action:  "Please select a spreadsheet to upload",
		Code:    "FILE004",
	}},
	{ErrTooManyImports, UserMessage{
		Message: "System is busy processing other imports",
		Action:  "Please wait a moment and try again",
		Code:    "IMP001",
	}},
	{context.Canceled, UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL004",
	}},
	{context.DeadlineExceeded, UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or check your connection",
		Code:    "UPL005",
	}},
}

var validationMessage = UserMessage{
	Message: "Some fields are not valid",
	Action:  "Review the highlighted fields and try again",
	Code:    "REG005",
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user messages.
// The first matching pattern wins, so specific patterns come first.
var errorPatterns = []errorPattern{
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A registro with this value already exists",
			Action:  "Review your data for duplicate emails",
			Code:    "DB001",
		},
	},
	{
		pattern: "unique constraint",
		msg: UserMessage{
			Message: "This value must be unique but already exists",
			Action:  "Check for duplicate entries in your file",
			Code:    "DB002",
		},
	},
	{
		pattern: "violates unique",
		msg: UserMessage{
			Message: "A duplicate value was found",
			Action:  "Review your data for duplicate emails",
			Code:    "DB002",
		},
	},
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
			Action:  "Try a smaller file or try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB007",
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

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Known sentinel errors are matched first with errors.Is, then the error text
// is searched for known patterns. If nothing matches, a generic message with
// code ERR000 is returned.
//
// Example:
//
//	msg := MapError(fmt.Errorf("create: %w", ErrEmailTaken))
//	// msg.Code == "REG001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.target) {
			return sm.msg
		}
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return validationMessage
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
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

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
