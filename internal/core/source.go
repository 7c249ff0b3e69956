package core

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Source fetches raw CSV text for a sheet.
//
// Implementations return an error wrapping ErrSheetNotFound when the sheet
// does not exist, and a *FetchError wrapping ErrUpstream for other failures.
// Retries and timeouts are the implementation's concern.
type Source interface {
	Fetch(ctx context.Context, sheet string) (io.ReadCloser, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, sheet string) (io.ReadCloser, error)

// Fetch calls f(ctx, sheet).
func (f SourceFunc) Fetch(ctx context.Context, sheet string) (io.ReadCloser, error) {
	return f(ctx, sheet)
}

// ValidateSheetName rejects names that could escape the sheet namespace of
// a source. Names may be nested with forward slashes ("quest/000/Foo"), but
// every segment must be non-empty and not "." or "..". Backslashes, URL
// syntax, and control characters are rejected.
func ValidateSheetName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty", ErrInvalidSheetName)
	case strings.ContainsAny(name, `\?#%`):
		return fmt.Errorf("%w: %q contains a reserved character", ErrInvalidSheetName, name)
	case strings.Contains(name, ".."):
		return fmt.Errorf("%w: %q contains a parent reference", ErrInvalidSheetName, name)
	case strings.ContainsFunc(name, func(r rune) bool { return r < 0x20 || r == 0x7f }):
		return fmt.Errorf("%w: %q contains a control character", ErrInvalidSheetName, name)
	}
	for _, seg := range strings.Split(name, "/") {
		if strings.TrimSpace(seg) == "" || seg == "." {
			return fmt.Errorf("%w: %q has an empty path segment", ErrInvalidSheetName, name)
		}
	}
	return nil
}
