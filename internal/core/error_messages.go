package core

// error_messages.go maps technical errors to user-facing messages with codes
// for support reference.
//
// # Sheet Errors (SHEET001-SHEET099)
//
//	SHEET001 - Sheet not found: The requested sheet does not exist upstream
//	           Action: Check the sheet name and branch
//	           Sentinel: ErrSheetNotFound
//
//	SHEET002 - Malformed sheet: The sheet data is not in the expected layout
//	           Action: Report the sheet name; its header or row alignment is broken
//	           Sentinel: ErrMalformedSheet
//
//	SHEET003 - Invalid sheet name: The name cannot be used to address a sheet
//	           Action: Use a plain sheet name without slashes or dots
//	           Sentinel: ErrInvalidSheetName
//
//	SHEET004 - Row not found: The index is outside the sheet's rows
//	           Action: Check the row index
//	           Sentinel: ErrRowNotFound
//
// # Query Errors (QRY001-QRY099)
//
//	QRY001 - Malformed filter: A filter has no comparison operator
//	         Action: Write filters as Field=Value, Field>Value, Field>=Value, ...
//	         Sentinel: ErrMalformedFilter
//
// # Upstream Errors (UPS001-UPS099)
//
//	UPS001 - Upstream failure: The sheet source returned an error
//	         Action: Please try again later
//	         Sentinel: ErrUpstream
//
//	UPS002 - System busy: Too many sheet downloads in progress
//	         Action: Please wait a moment and try again
//	         Sentinel: ErrTooManyFetches
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled        Patterns: "context canceled"
//	REQ002 - Request timeout          Patterns: "context deadline exceeded", "timeout"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests       Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check application logs for the technical error.
//
// Sentinels are matched with errors.Is first; patterns are then matched
// case-insensitively with strings.Contains, first match wins.

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

type sentinelMessage struct {
	err error
	msg UserMessage
}

var sentinelMessages = []sentinelMessage{
	{
		err: ErrSheetNotFound,
		msg: UserMessage{
			Message: "Sheet not found",
			Action:  "Check the sheet name and branch",
			Code:    "SHEET001",
		},
	},
	{
		err: ErrMalformedSheet,
		msg: UserMessage{
			Message: "The sheet data is not in the expected layout",
			Action:  "Report the sheet name; its header or row alignment is broken",
			Code:    "SHEET002",
		},
	},
	{
		err: ErrInvalidSheetName,
		msg: UserMessage{
			Message: "Invalid sheet name",
			Action:  "Use a plain sheet name without slashes or dots",
			Code:    "SHEET003",
		},
	},
	{
		err: ErrMalformedFilter,
		msg: UserMessage{
			Message: "A filter has no comparison operator",
			Action:  "Write filters as Field=Value, Field>Value, Field>=Value, Field<Value or Field<=Value",
			Code:    "QRY001",
		},
	},
	{
		err: ErrTooManyFetches,
		msg: UserMessage{
			Message: "System is busy downloading other sheets",
			Action:  "Please wait a moment and try again",
			Code:    "UPS002",
		},
	},
	{
		err: ErrUpstream,
		msg: UserMessage{
			Message: "The sheet source returned an error",
			Action:  "Please try again later",
			Code:    "UPS001",
		},
	},
	{
		err: context.Canceled,
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		err: context.DeadlineExceeded,
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller recursion depth or try again later",
			Code:    "REQ002",
		},
	},
	{
		err: ErrRowNotFound,
		msg: UserMessage{
			Message: "Row not found",
			Action:  "Check the row index",
			Code:    "SHEET004",
		},
	},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns catch errors that crossed a boundary without their sentinel,
// e.g. messages from other processes.
var errorPatterns = []errorPattern{
	{
		pattern: "sheet not found",
		msg:     sentinelMessages[0].msg,
	},
	{
		pattern: "context canceled",
		msg:     sentinelMessages[6].msg,
	},
	{
		pattern: "context deadline exceeded",
		msg:     sentinelMessages[7].msg,
	},
	{
		pattern: "timeout",
		msg:     sentinelMessages[7].msg,
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
//
// Example:
//
//	msg := MapError(fmt.Errorf("get sheet: %w", ErrSheetNotFound))
//	// msg.Code == "SHEET001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
		}
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

// IsUserFacing reports whether err maps to something more specific than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
