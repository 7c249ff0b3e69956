package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/singleflight"
)

// DefaultRecurseDepth is the number of reference hops followed when the
// caller does not say otherwise.
const DefaultRecurseDepth = 1

// Options configures a Service.
type Options struct {
	// Source supplies raw sheet CSV. Required.
	Source Source

	// Cache stores parsed sheets. Nil means a MemoryCache with CacheTTL.
	Cache Cache

	// CacheTTL is used when Cache is nil. Zero disables expiry.
	CacheTTL time.Duration

	// Linkable lists the type names that reference other sheets. Nil means none.
	Linkable *LinkableTypes

	// Identifier renames the first column of every sheet (default "ID").
	Identifier string

	// Workers bounds concurrent row and reference resolutions per call
	// (default GOMAXPROCS*4).
	Workers int

	// Limiter bounds concurrent fetches. Nil means NewFetchLimiter(0, 0).
	Limiter *FetchLimiter

	// Logger receives debug output. Nil means slog.Default().
	Logger *slog.Logger
}

// Service resolves sheets from a Source into typed rows and answers queries
// over them. It is safe for concurrent use.
type Service struct {
	source     Source
	cache      Cache
	linkable   *LinkableTypes
	identifier string
	workers    int
	limiter    *FetchLimiter
	logger     *slog.Logger

	inflight singleflight.Group
}

// NewService creates a Service from opts.
func NewService(opts Options) (*Service, error) {
	if opts.Source == nil {
		return nil, errors.New("core: a sheet source is required")
	}

	s := &Service{
		source:     opts.Source,
		cache:      opts.Cache,
		linkable:   opts.Linkable,
		identifier: opts.Identifier,
		workers:    opts.Workers,
		limiter:    opts.Limiter,
		logger:     opts.Logger,
	}
	if s.cache == nil {
		s.cache = NewMemoryCache(opts.CacheTTL)
	}
	if s.linkable == nil {
		s.linkable = NewLinkableTypes()
	}
	if s.identifier == "" {
		s.identifier = DefaultIdentifier
	}
	if s.workers <= 0 {
		s.workers = runtime.GOMAXPROCS(0) * 4
	}
	if s.limiter == nil {
		s.limiter = NewFetchLimiter(0, 0)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// Linkable returns the linkable type registry.
func (s *Service) Linkable() *LinkableTypes { return s.linkable }

// Cache returns the sheet cache.
func (s *Service) Cache() Cache { return s.cache }

// FetchStatus reports the fetch limiter state.
func (s *Service) FetchStatus() FetchLimiterStatus { return s.limiter.Status() }

// WaitForFetches blocks until no upstream fetch is running or ctx ends.
func (s *Service) WaitForFetches(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// GetSheetData returns the parsed sheet, from cache when possible.
//
// Concurrent misses for the same sheet share one fetch. The shared fetch is
// detached from the caller's context so a cancelled caller does not fail the
// others; the caller itself still returns as soon as ctx ends.
func (s *Service) GetSheetData(ctx context.Context, name string) (*SheetData, error) {
	if err := ValidateSheetName(name); err != nil {
		return nil, err
	}

	if data, ok := s.cache.Get(name); ok {
		s.logger.Debug("sheet cache hit", "sheet", name)
		return data, nil
	}

	ch := s.inflight.DoChan(name, func() (any, error) {
		return s.load(context.WithoutCancel(ctx), name)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*SheetData), nil
	}
}

// load fetches, parses, and caches one sheet.
func (s *Service) load(ctx context.Context, name string) (*SheetData, error) {
	start := time.Now()

	raw, err := s.fetch(ctx, name)
	if err != nil {
		return nil, err
	}

	matrix, err := ReadSheet(bytes.NewReader(raw))
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) && pe.Sheet == "" {
			pe.Sheet = name
		}
		return nil, err
	}

	data, err := ExtractSchema(name, matrix, s.identifier)
	if err != nil {
		return nil, err
	}
	data.Checksum = xxh3.Hash(raw)

	s.cache.Put(name, data)
	s.logger.Debug("sheet loaded",
		"sheet", name,
		"rows", len(data.Rows),
		"columns", len(data.Fields),
		"bytes", len(raw),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return data, nil
}

func (s *Service) fetch(ctx context.Context, name string) ([]byte, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("fetch sheet %s: %w", name, err)
	}
	defer s.limiter.Release()

	rc, err := s.source.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, &FetchError{Sheet: name, Err: fmt.Errorf("%w: %v", ErrUpstream, err)}
	}
	return raw, nil
}

// GetSheet returns every row of a sheet, resolving references up to depth
// hops. Negative depths are treated as zero.
func (s *Service) GetSheet(ctx context.Context, name string, depth int) ([]*Row, error) {
	data, err := s.GetSheetData(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.materialize(ctx, data, clampDepth(depth))
}

// GetSheetItem returns the row at position index of a sheet, or nil when the
// index is outside the data rows.
func (s *Service) GetSheetItem(ctx context.Context, name string, index, depth int) (*Row, error) {
	data, err := s.GetSheetData(ctx, name)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(data.Rows) {
		return nil, nil
	}
	return s.buildRow(ctx, data, data.Rows[index], clampDepth(depth))
}

// Purge drops one sheet from the cache. It reports whether it was cached.
func (s *Service) Purge(name string) bool {
	return s.cache.Delete(name)
}

// PurgeAll empties the cache.
func (s *Service) PurgeAll() {
	s.cache.Clear()
}

func clampDepth(depth int) int {
	if depth < 0 {
		return 0
	}
	return depth
}
