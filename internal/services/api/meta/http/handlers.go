// Package http serves the meta endpoints: health, readiness, build info
// and a summary of the embedded taxonomy seed
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"qbank/internal/core/seedpack"
	"qbank/internal/core/version"
	"qbank/internal/modkit/httpkit"
)

// Pinger is satisfied by adapters that expose Ping
type Pinger interface {
	Ping(stdctx.Context) error
}

// Deps are the handler dependencies. PG and CH stay any so meta never
// imports the storage packages; anything with a Ping method gets probed
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	PG          any
	CH          any
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
	httpkit.Get(r, "/seed", h.seed)
}

// readyBudget bounds the whole readiness probe, shared across backends
const readyBudget = 2 * time.Second

// HealthResponse is the health payload
// swagger:model
type HealthResponse struct {
	OK      bool   `json:"ok"       example:"true"`
	Service string `json:"service"  example:"qbank-api"`
	Started string `json:"started"  example:"2025-09-03T13:00:00Z"`
	Now     string `json:"now"      example:"2025-09-03T13:05:00Z"`
}

// ReadyCheck reports one dependency probe
type ReadyCheck struct {
	Name   string `json:"name"   example:"pg"`
	Status string `json:"status" example:"ok"` // ok fail skipped unknown
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432 connect: connection refused"`
}

// ReadyResponse folds the per-backend probes into one verdict
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok degraded fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2025-09-03T13:05:00Z"`
}

// ServiceResponse names the process and its uptime
type ServiceResponse struct {
	Name    string `json:"name"    example:"qbank-api"`
	Started string `json:"started" example:"2025-09-03T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// SeedResponse reports the embedded taxonomy seed and build info
type SeedResponse struct {
	SeedVersion int               `json:"seed_version" example:"1"`
	BankName    string            `json:"bank_name"    example:"Default Question Bank"`
	Categories  int               `json:"categories"   example:"14"`
	Tags        int               `json:"tags"         example:"4"`
	Difficulty  int               `json:"difficulty_levels" example:"4"`
	Build       version.BuildInfo `json:"build"`
}

// swagger:route GET /meta/health Meta metaHealth
// @Summary Liveness check
// @Tags Meta
// @Produce json
// @Success 200 type HealthResponse ok
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: stamp(h.deps.StartedAt),
		Now:     stamp(time.Now()),
	}, nil
}

// swagger:route GET /meta/ready Meta metaReady
// @Summary Readiness probe over the storage backends
// @Tags Meta
// @Produce json
// @Success 200 type ReadyResponse ok
// @Router /meta/ready [get]
func (h *handlers) ready(_ *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), readyBudget)
	defer cancel()

	checks := []ReadyCheck{
		probe(ctx, "pg", h.deps.PG),
		probe(ctx, "ch", h.deps.CH),
	}
	return ReadyResponse{
		Status: rollup(checks),
		Checks: checks,
		Now:    stamp(time.Now()),
	}, nil
}

// swagger:route GET /meta/version Meta metaVersion
// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 type version.BuildInfo ok
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

// swagger:route GET /meta/service Meta metaService
// @Summary Service identity and uptime
// @Tags Meta
// @Produce json
// @Success 200 type ServiceResponse ok
// @Router /meta/service [get]
func (h *handlers) service(_ *http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: stamp(h.deps.StartedAt),
		Uptime:  int64(time.Since(h.deps.StartedAt) / time.Second),
	}, nil
}

// swagger:route GET /meta/seed Meta metaSeed
// @Summary Embedded taxonomy seed and build info
// @Tags Meta
// @Produce json
// @Success 200 type SeedResponse ok
// @Router /meta/seed [get]
func (h *handlers) seed(_ *http.Request) (any, error) {
	pack, err := seedpack.Load()
	if err != nil {
		return nil, err
	}
	set := pack.Set()

	categories := 0
	for _, level := range set.Categories {
		categories += len(level)
	}
	return SeedResponse{
		SeedVersion: pack.Version,
		BankName:    pack.BankName,
		Categories:  categories,
		Tags:        len(set.Tags),
		Difficulty:  len(set.DifficultyLevels),
		Build:       version.Info(),
	}, nil
}

// probe pings one backend. A nil dep reads as skipped so a process can
// run with a backend disabled without failing readiness outright
func probe(ctx stdctx.Context, name string, dep any) ReadyCheck {
	switch p := dep.(type) {
	case nil:
		return ReadyCheck{Name: name, Status: "skipped"}
	case Pinger:
		if err := p.Ping(ctx); err != nil {
			return ReadyCheck{Name: name, Status: "fail", Error: err.Error()}
		}
		return ReadyCheck{Name: name, Status: "ok"}
	default:
		return ReadyCheck{Name: name, Status: "unknown"}
	}
}

// rollup folds check statuses: any fail fails the probe, anything short
// of ok degrades it
func rollup(checks []ReadyCheck) string {
	overall := "ok"
	for _, c := range checks {
		switch c.Status {
		case "fail":
			return "fail"
		case "ok":
		default:
			overall = "degraded"
		}
	}
	return overall
}

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }
