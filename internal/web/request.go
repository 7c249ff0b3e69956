package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/zeebo/xxh3"

	"github.com/JonMunkholm/sheetresolver/internal/core"
)

// Query parameter names. They follow XIVAPI's search parameters.
const (
	paramSearchTerm = "string"
	paramThreshold  = "threshold"
	paramColumns    = "columns"
	paramFilters    = "filters"
	paramDepth      = "depth"
	paramFormat     = "format"
)

// optionalInt parses an integer query parameter. Missing or malformed
// values are nil so the core default applies.
func optionalInt(r *http.Request, name string) *int {
	val := strings.TrimSpace(r.URL.Query().Get(name))
	if val == "" {
		return nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return nil
	}
	return &i
}

// listParam collects a list parameter given as repeated keys, comma
// separated values, or both.
func listParam(r *http.Request, name string) []string {
	var out []string
	for _, raw := range r.URL.Query()[name] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// repeatedParam collects one value per occurrence of name. Values are kept
// whole, so they may contain commas.
func repeatedParam(r *http.Request, name string) []string {
	var out []string
	for _, raw := range r.URL.Query()[name] {
		if raw = strings.TrimSpace(raw); raw != "" {
			out = append(out, raw)
		}
	}
	return out
}

// depthParam returns the requested recursion depth, defaulting to core's.
func depthParam(r *http.Request) int {
	if d := optionalInt(r, paramDepth); d != nil {
		return *d
	}
	return core.DefaultRecurseDepth
}

// searchOptions builds search options from the query string.
func searchOptions(r *http.Request) core.SearchOptions {
	return core.SearchOptions{
		SearchTerm:     r.URL.Query().Get(paramSearchTerm),
		ScoreThreshold: optionalInt(r, paramThreshold),
		Columns:        listParam(r, paramColumns),
		Filters:        repeatedParam(r, paramFilters),
		RecurseDepth:   optionalInt(r, paramDepth),
	}
}

// sheetParam returns the {sheet} path segment. Nested sheet names arrive
// with their slashes escaped ("quest%2F000%2FFoo") and are unescaped here.
func sheetParam(r *http.Request) string {
	raw := chi.URLParam(r, "sheet")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}

// indexParam parses the {index} path segment.
func indexParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 {
		return 0, badRequest(fmt.Sprintf("row index %q is not a non-negative integer", raw))
	}
	return i, nil
}

// etag derives a validator from the content version of every sheet the
// response can draw on and from the request's query, so it changes when
// either the data or the requested view changes.
func etag(version uint64, r *http.Request) string {
	view := xxh3.HashString(r.URL.Path + "?" + r.URL.RawQuery)
	return fmt.Sprintf(`"%016x%016x"`, version, view)
}

// notModified sets the ETag header and reports whether the client's copy is
// current, in which case a 304 has been written.
func notModified(w http.ResponseWriter, r *http.Request, tag string) bool {
	w.Header().Set("ETag", tag)
	w.Header().Set("Cache-Control", "no-cache")
	for _, candidate := range strings.Split(r.Header.Get("If-None-Match"), ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == tag || candidate == "*" {
			w.WriteHeader(http.StatusNotModified)
			return true
		}
	}
	return false
}
