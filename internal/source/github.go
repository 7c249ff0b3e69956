// Package source provides the places sheets are fetched from: a GitHub
// hosted datamining repository, a local mirror of one, or a PostgreSQL
// table. Every source implements core.Source.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/klauspost/compress/gzhttp"

	"github.com/JonMunkholm/sheetresolver/internal/core"
)

// Defaults for GitHub.
const (
	DefaultBaseURL      = "https://raw.githubusercontent.com"
	DefaultRepoID       = "xivapi/ffxiv-datamining"
	DefaultBranch       = "master"
	DefaultFetchTimeout = 30 * time.Second
)

// GitHub fetches sheets over HTTP from {BaseURL}/{RepoID}/{Branch}/csv/{sheet}.csv.
type GitHub struct {
	BaseURL string
	RepoID  string
	Branch  string
	Client  *http.Client
}

// GitHubOption configures a GitHub source.
type GitHubOption func(*GitHub)

// WithBaseURL overrides the raw content host. An empty base keeps the default.
func WithBaseURL(base string) GitHubOption {
	return func(g *GitHub) {
		if base != "" {
			g.BaseURL = base
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) GitHubOption {
	return func(g *GitHub) { g.Client = c }
}

// WithTimeout sets the overall timeout of one fetch, body included.
// Non-positive durations keep the default.
func WithTimeout(d time.Duration) GitHubOption {
	return func(g *GitHub) {
		if d > 0 && g.Client != nil {
			g.Client.Timeout = d
		}
	}
}

// NewGitHub returns a source for repoID at branch. Empty values take the defaults.
// Responses are requested gzip-compressed and decoded transparently.
func NewGitHub(repoID, branch string, opts ...GitHubOption) *GitHub {
	if repoID == "" {
		repoID = DefaultRepoID
	}
	if branch == "" {
		branch = DefaultBranch
	}
	g := &GitHub{
		BaseURL: DefaultBaseURL,
		RepoID:  repoID,
		Branch:  branch,
		Client: &http.Client{
			Transport: gzhttp.Transport(http.DefaultTransport),
			Timeout:   DefaultFetchTimeout,
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SheetURL returns the address of a sheet's CSV file.
func (g *GitHub) SheetURL(sheet string) (string, error) {
	return url.JoinPath(g.BaseURL, g.RepoID, g.Branch, "csv", sheet+extCSV)
}

// Fetch implements core.Source. A 404 is reported as core.ErrSheetNotFound,
// any other non-2xx status as core.ErrUpstream. There are no retries.
func (g *GitHub) Fetch(ctx context.Context, sheet string) (io.ReadCloser, error) {
	if err := core.ValidateSheetName(sheet); err != nil {
		return nil, err
	}

	u, err := g.SheetURL(sheet)
	if err != nil {
		return nil, fmt.Errorf("build sheet url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build sheet request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain, */*")

	resp, err := g.Client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &core.FetchError{Sheet: sheet, Err: fmt.Errorf("%w: %v", core.ErrUpstream, err)}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return resp.Body, nil
	case resp.StatusCode == http.StatusNotFound:
		drain(resp.Body)
		return nil, &core.FetchError{Sheet: sheet, Status: resp.StatusCode, Err: core.ErrSheetNotFound}
	default:
		drain(resp.Body)
		return nil, &core.FetchError{Sheet: sheet, Status: resp.StatusCode, Err: core.ErrUpstream}
	}
}

// drain discards a bounded amount of body so the connection can be reused.
func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	_ = body.Close()
}
