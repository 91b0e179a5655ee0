// Package pg wraps pgxpool with slow-query tracing for the question store
package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config carries the pool knobs Open honors
type Config struct {
	URL      string
	MaxConns int32
	SlowMs   int
}

// PG couples a pool with its tracing settings
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	SlowMs int
}

// test seam for pool construction
var newPool = pgxpool.NewWithConfig

// Open parses cfg.URL and builds the pool. tracer may be nil (no SQL
// echo); tune, when set, receives the parsed pgxpool.Config before the
// pool is built so callers can adjust what Config does not expose
func Open(ctx context.Context, cfg Config, tracer QueryTracer, tune func(*pgxpool.Config)) (*PG, error) {
	pcfg, err := poolConfig(cfg, tune)
	if err != nil {
		return nil, err
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	return &PG{Pool: pool, Tracer: tracer, SlowMs: cfg.SlowMs}, nil
}

// poolConfig parses the DSN and layers cfg fields, then the tune hook,
// on top of it
func poolConfig(cfg Config, tune func(*pgxpool.Config)) (*pgxpool.Config, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if tune != nil {
		tune(pcfg)
	}
	return pcfg, nil
}

// Close releases the pool. Safe on nil
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
