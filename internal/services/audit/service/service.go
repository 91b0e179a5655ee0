// Package service implements the asynchronous security audit sink.
// Producers enqueue through Record and move on; a single worker owns
// the ClickHouse writes so audit latency never rides a request
package service

import (
	"context"
	"sync"
	"time"

	"qbank/internal/modkit"
	"qbank/internal/platform/logger"
	"qbank/internal/platform/retry"

	dom "qbank/internal/services/audit/domain"
	arepo "qbank/internal/services/audit/repo"
)

// Service is the full audit surface
type Service interface {
	dom.RecorderPort
	dom.WorkerPort
}

// Config bounds the sink
type Config struct {
	// QueueSize caps buffered events; overflow is dropped, not blocked
	QueueSize int

	// WriteTimeout bounds one ClickHouse insert
	WriteTimeout time.Duration
}

// Svc implements the audit recorder and worker
type Svc struct {
	sink arepo.Sink
	deps modkit.Deps
	cfg  Config

	// mu guards closed vs queue sends so intake never races the close
	mu     sync.RWMutex
	closed bool
	queue  chan item
	done   chan struct{}
}

type item struct {
	ev  dom.Event
	out chan<- dom.Outcome
}

// New constructs the service over the shared ClickHouse seam
func New(deps modkit.Deps, cfg Config) *Svc {
	return newWithSink(deps, cfg, arepo.NewCH(deps.CH))
}

func newWithSink(deps modkit.Deps, cfg Config, sink arepo.Sink) *Svc {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1024
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	return &Svc{
		sink:  sink,
		deps:  deps,
		cfg:   cfg,
		queue: make(chan item, cfg.QueueSize),
		done:  make(chan struct{}),
	}
}

// Record seals ev and enqueues it for the worker. The caller is never
// blocked or failed: a full queue or closed sink resolves the receipt
// as dropped immediately, with a warn and a counter
func (s *Svc) Record(ctx context.Context, ev dom.Event) dom.Receipt {
	rcpt, out := dom.NewReceipt()
	sealed := dom.Seal(ev)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		out <- dom.OutcomeDropped
		s.deps.Metrics.AuditDropped(ctx, 1)
		logger.C(ctx).Warn().
			Str("event_type", sealed.Type).
			Msg("audit sink closed, event dropped")
		return rcpt
	}

	select {
	case s.queue <- item{ev: sealed, out: out}:
	default:
		out <- dom.OutcomeDropped
		s.deps.Metrics.AuditDropped(ctx, 1)
		logger.C(ctx).Warn().
			Str("event_type", sealed.Type).
			Int("queue_size", cap(s.queue)).
			Msg("audit queue full, event dropped")
	}
	return rcpt
}

// Run ensures the security_events table then consumes the queue until
// ctx ends or Close drains it. Write failures are logged and counted,
// never propagated to producers
func (s *Svc) Run(ctx context.Context) error {
	defer close(s.done)
	log := logger.Named("audit")

	if err := retry.Do(ctx, "audit.ensure_schema", retry.Default(), func(ctx context.Context) error {
		return s.sink.EnsureSchema(ctx)
	}); err != nil {
		log.Error().Err(err).Msg("security_events schema not ready, writes will fail until it is")
	}

	for {
		select {
		case it, ok := <-s.queue:
			if !ok {
				return nil
			}
			s.write(it)
		case <-ctx.Done():
			s.flush()
			return ctx.Err()
		}
	}
}

// flush consumes whatever is already buffered without waiting for more
func (s *Svc) flush() {
	for {
		select {
		case it, ok := <-s.queue:
			if !ok {
				return
			}
			s.write(it)
		default:
			return
		}
	}
}

// write uses its own deadline so shutdown drains still reach ClickHouse
// after the run context is gone
func (s *Svc) write(it item) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
	defer cancel()

	if err := s.sink.Write(ctx, it.ev); err != nil {
		s.deps.Metrics.AuditFailed(ctx, 1)
		logger.Named("audit").Error().
			Err(err).
			Str("event_type", it.ev.Type).
			Str("severity", it.ev.Severity).
			Msg("security event write failed")
		it.out <- dom.OutcomeFailed
		return
	}
	it.out <- dom.OutcomeStored
}

// Close stops intake and waits for the worker to drain what was queued.
// Pair with a running Run; the deadline on ctx bounds the drain
func (s *Svc) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
