package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonMunkholm/sheetresolver/internal/config"
	"github.com/JonMunkholm/sheetresolver/internal/core"
)

// Open builds the source selected by cfg. The returned close function
// releases any connections and is never nil.
func Open(ctx context.Context, cfg config.SourceConfig, db config.DatabaseConfig) (core.Source, func(), error) {
	switch strings.ToLower(cfg.Kind) {
	case config.SourceGitHub, "":
		return NewGitHub(cfg.RepoID, cfg.Branch,
			WithBaseURL(cfg.BaseURL),
			WithTimeout(cfg.FetchTimeout),
		), func() {}, nil

	case config.SourceDir:
		return NewDir(cfg.Dir), func() {}, nil

	case config.SourcePostgres:
		pool, err := OpenPool(ctx, db.URL, PoolConfig{
			MaxConns: int32(db.MaxConns),
			MinConns: int32(db.MinConns),
		})
		if err != nil {
			return nil, func() {}, err
		}
		return NewPostgres(pool, cfg.Table), pool.Close, nil

	default:
		return nil, func() {}, fmt.Errorf("unknown sheet source %q", cfg.Kind)
	}
}
