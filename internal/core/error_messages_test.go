package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
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
			name:        "wrapped not found maps by sentinel",
			err:         fmt.Errorf("get sheet Item: %w", ErrSheetNotFound),
			wantCode:    "SHEET001",
			wantMessage: "Sheet not found",
		},
		{
			name:        "parse error maps to malformed sheet",
			err:         &ParseError{Sheet: "Item", Row: 4, Details: "3 cells, want 5"},
			wantCode:    "SHEET002",
			wantMessage: "The sheet data is not in the expected layout",
		},
		{
			name:        "malformed filter",
			err:         fmt.Errorf("parse filters: %w", ErrMalformedFilter),
			wantCode:    "QRY001",
			wantMessage: "A filter has no comparison operator",
		},
		{
			name:        "fetch error with upstream status",
			err:         &FetchError{Sheet: "Item", Status: 500, Err: ErrUpstream},
			wantCode:    "UPS001",
			wantMessage: "The sheet source returned an error",
		},
		{
			name:        "fetch error wrapping not found prefers not found",
			err:         &FetchError{Sheet: "Item", Status: 404, Err: ErrSheetNotFound},
			wantCode:    "SHEET001",
			wantMessage: "Sheet not found",
		},
		{
			name:        "deadline exceeded",
			err:         fmt.Errorf("fetch: %w", context.DeadlineExceeded),
			wantCode:    "REQ002",
			wantMessage: "Request timed out",
		},
		{
			name:        "rate limit pattern",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "case insensitive pattern matching",
			err:         errors.New("remote said: SHEET NOT FOUND"),
			wantCode:    "SHEET001",
			wantMessage: "Sheet not found",
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
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrTooManyFetches)

	expected := "System is busy downloading other sheets (Code: UPS002). Please wait a moment and try again"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error is not user facing", nil, false},
		{"known sentinel is user facing", ErrInvalidSheetName, true},
		{"unknown error is not user facing", errors.New("random internal error xyz"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseError_Message(t *testing.T) {
	err := &ParseError{Sheet: "Item", Row: 3, Details: "2 cells, want 4"}
	want := "parse sheet, sheet: Item, row: 3, details: 2 cells, want 4: malformed sheet"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrMalformedSheet) {
		t.Error("ParseError should unwrap to ErrMalformedSheet")
	}
}
