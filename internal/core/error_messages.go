// Package core provides the business logic for contact submissions.
//
// # Error Codes Reference
//
// User-facing messages carry a short code so a reported problem can be traced
// back to the log entry that produced it.
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Connection refused: Unable to connect to database
//	        Patterns: "connection refused", "dial tcp"
//
//	DB002 - Connection reset: Database connection was interrupted
//	        Patterns: "connection reset", "broken pipe"
//
//	DB003 - Timeout: Database did not respond in time (includes pool exhaustion)
//	        Patterns: "context deadline exceeded", "timeout"
//
//	DB004 - Missing table: The submissions table does not exist
//	        Patterns: "does not exist", "invalid object name"
//
//	DB005 - Constraint: Stored row violates a constraint
//	        Patterns: "violates check constraint", "check constraint"
//
//	DB006 - Authentication: Database rejected the credentials
//	        Patterns: "password authentication failed", "login failed"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Required field: Name, email, and message are required
//	         Patterns: "is required"
//
//	VAL002 - Invalid date: Filter dates must be YYYY-MM-DD or RFC 3339
//	         Patterns: "invalid date"
//
//	VAL003 - Invalid id: Submission id must be a positive integer
//	         Patterns: "invalid id"
//
//	VAL004 - Missing column: Import file lacks a required column
//	         Patterns: "missing required column"
//
//	VAL005 - Generic validation failure
//	         Patterns: "validation failed"
//
// # Submission Errors (SUB001-SUB099)
//
//	SUB001 - Not found: Contact not found
//	         Patterns: "submission not found"
//
// # Export/Import Errors (EXP001, CSV001-CSV002, IMP001)
//
//	EXP001 - No data: Nothing to export
//	         Patterns: "no data to export"
//
//	CSV001 - Invalid CSV: File could not be parsed
//	         Patterns: "invalid csv"
//
//	CSV002 - Empty file: Upload had no content
//	         Patterns: "empty file"
//
//	IMP001 - Busy: Another import holds every slot
//	         Patterns: "too many concurrent imports"
//
// # Request Errors (REQ001-REQ002)
//
//	REQ001 - Bad body: Request body is not valid JSON
//	         Patterns: "invalid request body"
//
//	REQ002 - Cancelled: Client went away
//	         Patterns: "context canceled"
//
// # Rate Limiting and Auth (RATE001, AUTH001-AUTH002)
//
//	RATE001 - Too many requests      Patterns: "rate limit"
//	AUTH001 - Missing API key        Patterns: "missing api key"
//	AUTH002 - Invalid API key        Patterns: "invalid api key"
//
// # Default Error (ERR000)
//
// Fallback when no pattern matches. Check the logs for the technical error.
//
// # Pattern Matching
//
// Patterns are matched case-insensitively using strings.Contains and the first
// match wins, so specific patterns come before general ones.
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Order matters: the first match wins.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Domain errors
	// =========================================================================
	{
		pattern: "submission not found",
		msg:     UserMessage{Message: "Contact not found", Action: "Check the contact id", Code: "SUB001"},
	},
	{
		pattern: "no data to export",
		msg:     UserMessage{Message: "No data to export", Action: "Submit at least one contact first", Code: "EXP001"},
	},

	// =========================================================================
	// Validation errors (VAL001-VAL005)
	// =========================================================================
	{
		pattern: "missing required column",
		msg:     UserMessage{Message: "Required column is missing from CSV", Action: "Include name, email and message columns", Code: "VAL004"},
	},
	{
		pattern: "is required",
		msg:     UserMessage{Message: "Name, email, and message are required", Action: "Fill in all required fields", Code: "VAL001"},
	},
	{
		pattern: "invalid date",
		msg:     UserMessage{Message: "Invalid date format detected", Action: "Use YYYY-MM-DD or an RFC 3339 timestamp", Code: "VAL002"},
	},
	{
		pattern: "invalid id",
		msg:     UserMessage{Message: "Invalid contact id", Action: "Use a positive integer id", Code: "VAL003"},
	},
	{
		pattern: "empty file",
		msg:     UserMessage{Message: "The uploaded file is empty", Action: "Upload a CSV file with a header and data rows", Code: "CSV002"},
	},
	{
		pattern: "validation failed",
		msg:     UserMessage{Message: "Some fields are invalid", Action: "Review the highlighted fields", Code: "VAL005"},
	},

	// =========================================================================
	// Request errors
	// =========================================================================
	{
		pattern: "invalid request body",
		msg:     UserMessage{Message: "Request body is not valid JSON", Action: "Send a JSON object", Code: "REQ001"},
	},
	{
		pattern: "too many concurrent imports",
		msg:     UserMessage{Message: "Another import is in progress", Action: "Wait for it to finish and try again", Code: "IMP001"},
	},
	{
		pattern: "invalid csv",
		msg:     UserMessage{Message: "File is not a valid CSV", Action: "Ensure the file is comma-separated with consistent columns", Code: "CSV001"},
	},

	// =========================================================================
	// Database errors (DB001-DB006)
	// =========================================================================
	{
		pattern: "connection refused",
		msg:     UserMessage{Message: "Unable to connect to database", Action: "Please try again in a few moments", Code: "DB001"},
	},
	{
		pattern: "dial tcp",
		msg:     UserMessage{Message: "Unable to connect to database", Action: "Please try again in a few moments", Code: "DB001"},
	},
	{
		pattern: "connection reset",
		msg:     UserMessage{Message: "Database connection was interrupted", Action: "Please try again", Code: "DB002"},
	},
	{
		pattern: "broken pipe",
		msg:     UserMessage{Message: "Database connection was interrupted", Action: "Please try again", Code: "DB002"},
	},
	{
		pattern: "context deadline exceeded",
		msg:     UserMessage{Message: "Database did not respond in time", Action: "Please try again shortly", Code: "DB003"},
	},
	{
		pattern: "timeout",
		msg:     UserMessage{Message: "Database did not respond in time", Action: "Please try again shortly", Code: "DB003"},
	},
	{
		pattern: "password authentication failed",
		msg:     UserMessage{Message: "Database rejected the credentials", Action: "Check the configured connection string", Code: "DB006"},
	},
	{
		pattern: "login failed",
		msg:     UserMessage{Message: "Database rejected the credentials", Action: "Check the configured connection string", Code: "DB006"},
	},
	{
		pattern: "invalid object name",
		msg:     UserMessage{Message: "Submissions table is missing", Action: "Run migrations (DB_AUTO_MIGRATE=true)", Code: "DB004"},
	},
	{
		pattern: "does not exist",
		msg:     UserMessage{Message: "Submissions table is missing", Action: "Run migrations (DB_AUTO_MIGRATE=true)", Code: "DB004"},
	},
	{
		pattern: "check constraint",
		msg:     UserMessage{Message: "Submission violates a database constraint", Action: "Ensure required fields are not empty", Code: "DB005"},
	},

	// =========================================================================
	// Cancellation, rate limiting and auth
	// =========================================================================
	{
		pattern: "context canceled",
		msg:     UserMessage{Message: "Request was cancelled", Action: "Please try again", Code: "REQ002"},
	},
	{
		pattern: "rate limit",
		msg:     UserMessage{Message: "Too many requests", Action: "Please wait a moment before trying again", Code: "RATE001"},
	},
	{
		pattern: "missing api key",
		msg:     UserMessage{Message: "API key required", Action: "Send the X-API-Key header", Code: "AUTH001"},
	},
	{
		pattern: "invalid api key",
		msg:     UserMessage{Message: "API key rejected", Action: "Check the configured API key", Code: "AUTH002"},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, ERR000 is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
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

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
