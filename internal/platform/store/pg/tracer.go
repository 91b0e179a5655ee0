package pg

import (
	"context"
	"strings"

	"qbank/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent is what the sql adapter reports per statement
type QueryEvent struct {
	SQL       string
	Args      any
	ElapsedUS int64
	Err       error
	Slow      bool

	// ReqID, when set, names the http request that ran the statement
	ReqID string
}

// QueryTracer receives one event per executed statement
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer builds a tracer over root that echoes SQL regardless of the
// process-wide level, since LogSQL=true is an explicit request to see it
func Tracer(root logger.Logger) QueryTracer {
	ll := root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()
	return &zlTracer{log: ll}
}

type zlTracer struct{ log logger.Logger }

func (z *zlTracer) OnQuery(_ context.Context, ev QueryEvent) {
	evt := z.log.Info()
	if ev.Slow {
		evt = z.log.Warn()
	}
	if ev.ReqID != "" {
		evt = evt.Str("request_id", ev.ReqID)
	}
	evt.Float64("elapsed_ms", float64(ev.ElapsedUS)/1000.0).
		Bool("slow", ev.Slow).
		Str("sql", compact(ev.SQL)).
		Interface("args", ev.Args).
		Err(ev.Err).
		Msg("pg query")
}

// compact collapses whitespace runs so multi-line SQL logs as one line
func compact(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r':
			if !inRun {
				b.WriteByte(' ')
				inRun = true
			}
		default:
			inRun = false
			b.WriteRune(r)
		}
	}
	return b.String()
}
