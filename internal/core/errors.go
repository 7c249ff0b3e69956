package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSheetNotFound indicates the source has no sheet with the requested name.
	ErrSheetNotFound = errors.New("sheet not found")

	// ErrRowNotFound indicates a row index outside a sheet's data rows.
	// Lookups return a nil row instead; transports use this to report it.
	ErrRowNotFound = errors.New("row not found")

	// ErrUpstream indicates the sheet source answered with a non-success status.
	ErrUpstream = errors.New("upstream fetch failed")

	// ErrMalformedSheet indicates raw sheet data that does not follow the
	// three-header layout or whose rows are misaligned.
	ErrMalformedSheet = errors.New("malformed sheet")

	// ErrMalformedFilter indicates a filter expression without an operator.
	ErrMalformedFilter = errors.New("malformed filter")

	// ErrInvalidSheetName indicates a sheet name that cannot be addressed.
	ErrInvalidSheetName = errors.New("invalid sheet name")

	// ErrTooManyFetches is returned when no fetch slot frees up in time.
	ErrTooManyFetches = errors.New("too many concurrent fetches, please try again later")
)

// FetchError describes a failed request to the sheet source.
type FetchError struct {
	Sheet  string
	Status int // transport status code, 0 if not applicable
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch sheet %s: status %d: %v", e.Sheet, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch sheet %s: %v", e.Sheet, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError describes sheet data that failed schema extraction.
type ParseError struct {
	Sheet   string
	Row     int // zero-based row in the raw matrix, -1 if not row specific
	Details string
}

func (e *ParseError) Error() string {
	var parts []string
	parts = append(parts, "parse sheet")
	if e.Sheet != "" {
		parts = append(parts, "sheet: "+e.Sheet)
	}
	if e.Row >= 0 {
		parts = append(parts, fmt.Sprintf("row: %d", e.Row))
	}
	if e.Details != "" {
		parts = append(parts, "details: "+e.Details)
	}
	return strings.Join(parts, ", ") + ": " + ErrMalformedSheet.Error()
}

func (e *ParseError) Unwrap() error { return ErrMalformedSheet }
