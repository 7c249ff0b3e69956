// Package application assembles a core.Service from configuration. It is
// shared by the server and the CLI so both resolve sheets the same way.
package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JonMunkholm/sheetresolver/internal/config"
	"github.com/JonMunkholm/sheetresolver/internal/core"
	"github.com/JonMunkholm/sheetresolver/internal/source"
)

// App is a ready service plus the resources behind it.
type App struct {
	Service *core.Service
	Config  *config.Config

	closeSource func()
}

// New opens the configured sheet source and builds the service over it.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	linkable, err := LinkableTypes(cfg.Resolver)
	if err != nil {
		return nil, err
	}

	src, closeSource, err := source.Open(ctx, cfg.Source, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open sheet source: %w", err)
	}

	svc, err := core.NewService(core.Options{
		Source:     src,
		CacheTTL:   cfg.Cache.TTL(),
		Linkable:   linkable,
		Identifier: cfg.Resolver.Identifier,
		Workers:    cfg.Resolver.Workers,
		Limiter:    core.NewFetchLimiter(cfg.Resolver.MaxConcurrentFetches, cfg.Resolver.MaxFetchWait),
		Logger:     slog.Default(),
	})
	if err != nil {
		closeSource()
		return nil, err
	}

	slog.Info("sheet resolver ready",
		"source", cfg.Source.Kind,
		"repo", cfg.Source.RepoID,
		"branch", cfg.Source.Branch,
		"cache_ttl_seconds", cfg.Cache.TTLSeconds,
		"linkable_types", linkable.Len(),
	)

	return &App{Service: svc, Config: cfg, closeSource: closeSource}, nil
}

// Close releases the sheet source.
func (a *App) Close() {
	if a.closeSource != nil {
		a.closeSource()
	}
}

// LinkableTypes merges the configured list with the optional linkable types file.
func LinkableTypes(cfg config.ResolverConfig) (*core.LinkableTypes, error) {
	lt := core.NewLinkableTypes(cfg.LinkableTypes...)
	if cfg.LinkableTypesFile != "" {
		names, err := core.LoadLinkableTypes(cfg.LinkableTypesFile)
		if err != nil {
			return nil, err
		}
		lt.Register(names...)
	}
	if lt.Len() == 0 {
		slog.Warn("no linkable types configured; references will not be resolved")
	}
	return lt, nil
}

// StartJanitor runs the cache janitor until ctx is cancelled. With a TTL of
// zero nothing expires, so no janitor runs.
func (a *App) StartJanitor(ctx context.Context) {
	if a.Config.Cache.TTLSeconds == 0 {
		return
	}
	go a.Service.StartCacheJanitor(ctx, a.Config.Cache.CheckPeriod)
}
