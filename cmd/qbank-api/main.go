// @title         Qbank API
// @version       0.1.0
// @description   Question bank management endpoints for quiz authoring

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qbank/internal/core/version"
	"qbank/internal/modkit/repokit"
	"qbank/internal/platform/config"
	"qbank/internal/platform/logger"
	"qbank/internal/platform/metrics"
	phttp "qbank/internal/platform/net/http"
	"qbank/internal/platform/store"

	"qbank/internal/services/api"
)

func main() {
	// config namespaces: the api reads CORE_API_*, each storage backend
	// its own SERVICE_* scope
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")

	// logging first so every later failure has somewhere to land
	l := logger.Get()
	build := version.Info()

	mh, err := metrics.Init(context.Background(), metrics.Config{
		Enabled: apiCfg.MayBool("METRICS", false),
		Service: build.Service,
		Version: build.Version,
	})
	if err != nil {
		l.Panic().Err(err).Msg("metrics.Init failed")
	}
	defer func() {
		if err := mh.Shutdown(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to flush metrics")
		}
	}()

	// postgres and clickhouse come up together behind one store handle
	st, err := store.Open(context.Background(), storeConfig(pgCfg, chCfg), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// both seams must answer before any route mounts
	repokit.MustGuard(context.Background(), st)

	// http server reads CORE_API_PORT
	srv := phttp.NewServer(apiCfg)

	// mount the API; the audit sink comes back as a worker the caller owns
	sink := api.Mount(
		srv.Router(),
		api.Options{
			Config:         apiCfg,
			Store:          st,
			Logger:         l,
			Metrics:        mh,
			AuthSecret:     apiCfg.MayString("AUTH_SECRET", ""),
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", true),
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := sink.Run(ctx); err != nil {
			l.Error().Err(err).Msg("audit sink stopped")
		}
	}()
	defer func() {
		drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := sink.Close(drainCtx); err != nil {
			l.Error().Err(err).Msg("audit sink drain failed")
		}
	}()

	// SIGINT/SIGTERM stops intake and gives in-flight requests a window
	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shCtx); err != nil {
			l.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}

// storeConfig folds the storage env scopes into one store.Config. Both
// backends are required for this service, so both stay Enabled
func storeConfig(pg, ch config.Conf) store.Config {
	return store.Config{
		AppName: "qbank-api",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pg.MustString("DBURL"),
			MaxConns:    int32(pg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pg.MayInt("SLOW_MS", 500),
			LogSQL:      pg.MayBool("LOG_SQL", true),
		},
		CH: store.CHConfig{
			Enabled:    true,
			URL:        ch.MustString("DBURL"),
			ClientName: "qbank",
			ClientTag:  "api",
		},
	}
}
