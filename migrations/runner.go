package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"

	_ "github.com/lib/pq" // database/sql postgres driver for golang-migrate
)

// Config configures a Runner
type Config struct {
	// DatabaseURL is a postgres DSN
	DatabaseURL string
	// Table overrides the migrations bookkeeping table (default schema_migrations)
	Table string
}

// Status is the current schema position
type Status struct {
	Applied bool // false when no migration has ever run
	Version uint
	Dirty   bool
	Latest  int // highest embedded sequence
}

// Runner applies the embedded set through golang-migrate
type Runner struct {
	set *Set
	m   *migrate.Migrate
	db  *sql.DB
	log zerolog.Logger
}

// NewRunner validates the embedded set, connects, and builds the
// migrate instance (iofs source over the embedded files)
func NewRunner(ctx context.Context, cfg Config, log zerolog.Logger) (*Runner, error) {
	set := NewSet(nil)
	if err := set.Validate(); err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("migrations: open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: ping db: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: cfg.Table})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: postgres driver: %w", err)
	}
	src, err := iofs.New(set.FS(), ".")
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: iofs source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: migrate instance: %w", err)
	}
	m.Log = &migrateLogger{log: log}

	return &Runner{set: set, m: m, db: db, log: log}, nil
}

// Up applies every pending migration. Nothing pending is not an error
func (r *Runner) Up() error {
	if err := r.set.Validate(); err != nil {
		return err
	}
	err := r.m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		r.log.Info().Msg("schema already current")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrations: up: %w", err)
	}
	r.log.Info().Msg("schema migrated up")
	return nil
}

// Down rolls back steps migrations (steps >= 1)
func (r *Runner) Down(steps int) error {
	if steps < 1 {
		return fmt.Errorf("migrations: down needs a positive step count, got %d", steps)
	}
	if err := r.set.Validate(); err != nil {
		return err
	}
	err := r.m.Steps(-steps)
	if errors.Is(err, migrate.ErrNoChange) {
		r.log.Info().Msg("nothing to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrations: down %d: %w", steps, err)
	}
	r.log.Info().Int("steps", steps).Msg("schema rolled back")
	return nil
}

// Drop removes everything in the schema. Destructive; the CLI gates it
func (r *Runner) Drop() error {
	if err := r.set.Validate(); err != nil {
		return err
	}
	if err := r.m.Drop(); err != nil {
		return fmt.Errorf("migrations: drop: %w", err)
	}
	r.log.Warn().Msg("schema dropped")
	return nil
}

// Status reports the current version against the embedded set
func (r *Runner) Status() (Status, error) {
	st := Status{Latest: r.set.MaxSequence()}
	ver, dirty, err := r.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return st, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("migrations: version: %w", err)
	}
	st.Applied = true
	st.Version = ver
	st.Dirty = dirty
	return st, nil
}

// Close releases the source and both db handles
func (r *Runner) Close() error {
	var errs []error
	if r.m != nil {
		srcErr, dbErr := r.m.Close()
		if srcErr != nil {
			errs = append(errs, fmt.Errorf("migrations: close source: %w", srcErr))
		}
		if dbErr != nil {
			errs = append(errs, fmt.Errorf("migrations: close migrate db: %w", dbErr))
		}
	}
	if r.db != nil {
		if err := r.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("migrations: close db: %w", err))
		}
	}
	return errors.Join(errs...)
}

// migrateLogger adapts migrate's logger onto zerolog
type migrateLogger struct {
	log zerolog.Logger
}

func (l *migrateLogger) Printf(format string, v ...any) {
	l.log.Info().Msgf("migrate: "+format, v...)
}

func (l *migrateLogger) Verbose() bool { return false }
