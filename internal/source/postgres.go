package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/sheetresolver/internal/core"
)

// DefaultTable is the table Postgres reads from when none is configured.
const DefaultTable = "sheets"

// Querier is the part of *pgxpool.Pool and pgx.Tx that Postgres needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres reads sheets from a table holding one row per sheet:
//
//	CREATE TABLE sheets (name text PRIMARY KEY, content text NOT NULL);
//
// The table may be schema-qualified ("mirror.sheets").
type Postgres struct {
	db    Querier
	query string
	table string
}

// NewPostgres returns a source reading table through db.
func NewPostgres(db Querier, table string) *Postgres {
	if table == "" {
		table = DefaultTable
	}
	ident := pgx.Identifier(strings.Split(table, "."))
	return &Postgres{
		db:    db,
		table: table,
		query: fmt.Sprintf("SELECT content FROM %s WHERE name = $1", ident.Sanitize()),
	}
}

// PoolConfig sizes the pool opened by OpenPool. Zero fields keep pgx defaults.
type PoolConfig struct {
	MaxConns int32
	MinConns int32
}

// OpenPool connects to databaseURL and verifies the connection.
func OpenPool(ctx context.Context, databaseURL string, cfg PoolConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Table returns the table name as configured.
func (p *Postgres) Table() string { return p.table }

// Fetch implements core.Source.
func (p *Postgres) Fetch(ctx context.Context, sheet string) (io.ReadCloser, error) {
	if err := core.ValidateSheetName(sheet); err != nil {
		return nil, err
	}

	var content []byte
	err := p.db.QueryRow(ctx, p.query, sheet).Scan(&content)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &core.FetchError{Sheet: sheet, Err: core.ErrSheetNotFound}
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &core.FetchError{Sheet: sheet, Err: fmt.Errorf("%w: %v", core.ErrUpstream, err)}
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}
