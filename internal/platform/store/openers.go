package store

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"

	chx "qbank/internal/platform/store/ch"
	"qbank/internal/platform/store/pg"
)

// openPG opens the pgx pool and publishes it behind the sql adapter
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
	}, tracer, stampAppName(cfg.AppName))
	if err != nil {
		return nil, err
	}

	// the pool connects lazily, so prove connectivity before any repo
	// binds to it; the database may still be coming up
	if err := provePG(ctx, p, cfg.PG); err != nil {
		p.Close()
		return nil, err
	}

	a := newPGAdapter(p) // adapter goes live only once the pool is healthy
	s.PG = a
	return a, nil
}

// stampAppName labels pool connections with application_name. An empty
// name returns nil so the DSN's own setting survives
func stampAppName(name string) func(*pgxpool.Config) {
	if name == "" {
		return nil
	}
	return func(pc *pgxpool.Config) {
		if pc.ConnConfig.RuntimeParams == nil {
			pc.ConnConfig.RuntimeParams = map[string]string{}
		}
		pc.ConnConfig.RuntimeParams["application_name"] = name
	}
}

// provePG pings until the boot budget runs out, pausing exponentially
// between attempts
func provePG(ctx context.Context, p *pg.PG, cfg PGConfig) error {
	retries, perPing := cfg.pingBudget()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 150 * time.Millisecond
	bo.MaxInterval = 2 * time.Second
	bo.MaxElapsedTime = 0 // attempts bound the loop, not wall time

	ping := func() error {
		toCtx, cancel := context.WithTimeout(ctx, perPing)
		defer cancel()
		return p.Pool.Ping(toCtx) // bare pool keeps the tracer quiet
	}
	if err := backoff.Retry(ping, backoff.WithMaxRetries(backoff.WithContext(bo, ctx), retries)); err != nil {
		return fmt.Errorf("postgres ping: %w", err)
	}
	return nil
}

// openCH dials ClickHouse over the native protocol and wraps the conn
func openCH(ctx context.Context, cfg Config, _ *Store) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{
		URL:        cfg.CH.URL,
		ClientName: cfg.CH.ClientName,
		ClientTag:  cfg.CH.ClientTag,
	})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}
