// Package metrics wires OpenTelemetry meters for qbank services.
//
// Disabled by default: Init installs a no-op meter and every Handle method
// costs a nil check. Enabled, it exports through a periodic stdout reader
// so local runs and CI can see counters without a collector
package metrics

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"qbank/internal/platform/logger"
)

const scopeName = "qbank"

// SlowOpThreshold marks operations worth a warn log
const SlowOpThreshold = 100 * time.Millisecond

// Config controls the metric pipeline
type Config struct {
	Enabled  bool
	Service  string
	Version  string
	Interval time.Duration // export period, default 15s

	// Writer receives exported metrics, default os.Stdout (tests inject a buffer)
	Writer io.Writer
}

// Handle owns the meter provider and the instruments services record on.
// A nil Handle is valid and records nothing
type Handle struct {
	provider *sdkmetric.MeterProvider // nil when disabled

	validationOutcomes metric.Int64Counter
	operationDuration  metric.Float64Histogram
	taxonomyBatchLarge metric.Int64Counter
	auditDropped       metric.Int64Counter
	auditFailed        metric.Int64Counter
}

// Init builds the pipeline and registers every qbank instrument
func Init(ctx context.Context, cfg Config) (*Handle, error) {
	h := &Handle{}

	var meter metric.Meter
	if !cfg.Enabled {
		meter = metricnoop.NewMeterProvider().Meter(scopeName)
	} else {
		res, err := resource.New(ctx,
			resource.WithAttributes(
				semconv.ServiceNameKey.String(cfg.Service),
				semconv.ServiceVersionKey.String(cfg.Version),
			),
		)
		if err != nil {
			return nil, fmt.Errorf("metrics: resource: %w", err)
		}

		w := cfg.Writer
		if w == nil {
			w = os.Stdout
		}
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
		if err != nil {
			return nil, fmt.Errorf("metrics: exporter: %w", err)
		}

		interval := cfg.Interval
		if interval <= 0 {
			interval = 15 * time.Second
		}
		h.provider = sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(interval))),
		)
		meter = h.provider.Meter(scopeName)
	}

	var err error
	h.validationOutcomes, err = meter.Int64Counter("qbank.validation.outcomes",
		metric.WithDescription("Admission decisions per validation step"),
	)
	if err != nil {
		return nil, fmt.Errorf("metrics: validation counter: %w", err)
	}
	h.operationDuration, err = meter.Float64Histogram("qbank.operation.duration",
		metric.WithDescription("Service operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("metrics: duration histogram: %w", err)
	}
	h.taxonomyBatchLarge, err = meter.Int64Counter("qbank.taxonomy.batch.large",
		metric.WithDescription("Upserts referencing an unusually large taxonomy batch"),
	)
	if err != nil {
		return nil, fmt.Errorf("metrics: taxonomy counter: %w", err)
	}
	h.auditDropped, err = meter.Int64Counter("qbank.audit.dropped",
		metric.WithDescription("Security events dropped because the audit queue was full"),
	)
	if err != nil {
		return nil, fmt.Errorf("metrics: audit dropped counter: %w", err)
	}
	h.auditFailed, err = meter.Int64Counter("qbank.audit.failed",
		metric.WithDescription("Security event batches the sink could not persist"),
	)
	if err != nil {
		return nil, fmt.Errorf("metrics: audit failed counter: %w", err)
	}

	return h, nil
}

// Shutdown flushes pending exports. No-op when disabled
func (h *Handle) Shutdown(ctx context.Context) error {
	if h == nil || h.provider == nil {
		return nil
	}
	return h.provider.Shutdown(ctx)
}

// Validation counts one admission decision
func (h *Handle) Validation(ctx context.Context, step string, code string, ok bool) {
	if h == nil || h.validationOutcomes == nil {
		return
	}
	h.validationOutcomes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("step", step),
		attribute.String("code", code),
		attribute.Bool("ok", ok),
	))
}

// Operation records elapsed time for a named service operation and warns
// when it crosses the slow threshold
func (h *Handle) Operation(ctx context.Context, name string, elapsed time.Duration) {
	if h == nil || h.operationDuration == nil {
		return
	}
	h.operationDuration.Record(ctx, float64(elapsed.Milliseconds()), metric.WithAttributes(
		attribute.String("op", name),
	))
	if elapsed >= SlowOpThreshold {
		logger.C(ctx).Warn().
			Str("op", name).
			Dur("elapsed", elapsed).
			Msg("slow operation")
	}
}

// LargeTaxonomyBatch counts an upsert that referenced n taxonomy entries
func (h *Handle) LargeTaxonomyBatch(ctx context.Context, n int) {
	if h == nil || h.taxonomyBatchLarge == nil {
		return
	}
	h.taxonomyBatchLarge.Add(ctx, 1, metric.WithAttributes(
		attribute.Int("size", n),
	))
}

// AuditDropped counts security events lost to backpressure
func (h *Handle) AuditDropped(ctx context.Context, n int) {
	if h == nil || h.auditDropped == nil || n <= 0 {
		return
	}
	h.auditDropped.Add(ctx, int64(n))
}

// AuditFailed counts batches the audit sink gave up on
func (h *Handle) AuditFailed(ctx context.Context, n int) {
	if h == nil || h.auditFailed == nil || n <= 0 {
		return
	}
	h.auditFailed.Add(ctx, int64(n))
}
