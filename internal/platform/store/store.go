// Package store owns the process wide storage handles. Open dials the
// backends config enables; everything downstream talks to the seams in
// seams.go instead of driver types.
package store

import (
	"context"
	"errors"
	"fmt"

	"qbank/internal/platform/logger"
)

// Store is the facade over the optional backends. The zero value is
// inert: every seam stays nil until Open enables it
type Store struct {
	// Log feeds subclient logging such as the sql tracer
	Log logger.Logger

	// PG is the relational seam, nil when disabled
	PG TxRunner

	// CH is the columnar seam, nil when disabled
	CH Clickhouse
}

// Option adjusts a Store while Open assembles it
type Option func(*Store) error

// WithLogger routes subclient logging (slow queries, SQL echo) through log
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// Open constructs a Store with the backends cfg enables; the rest keep
// their nil seam
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	st := &Store{}
	for _, apply := range opts {
		if err := apply(st); err != nil {
			return nil, err
		}
	}
	st.Log = st.Log.With().Logger() // normalize a zero logger

	if cfg.PG.Enabled {
		runner, err := openPG(ctx, cfg, st)
		if err != nil {
			return nil, err
		}
		st.PG = runner
	}
	if cfg.CH.Enabled {
		sink, err := openCH(ctx, cfg, st)
		if err != nil {
			return nil, err
		}
		st.CH = sink
	}
	return st, nil
}

// Guard pings every live seam that can prove connectivity and joins
// the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}

	seams := []struct {
		name string
		seam any
	}{
		{"pg", s.PG},
		{"ch", s.CH},
	}

	var errs []error
	for _, sm := range seams {
		p, ok := sm.seam.(Pinger)
		if !ok {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sm.name, err))
		}
	}
	return errors.Join(errs...)
}

// Close releases every live backend; nil seams are skipped
func (s *Store) Close(ctx context.Context) error {
	var errs []error
	if s.CH != nil {
		if err := s.CH.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if closer, ok := s.PG.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
