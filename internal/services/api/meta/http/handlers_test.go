package http

import (
	stdctx "context"
	"errors"
	"testing"
	"time"
)

type pingStub struct{ err error }

func (p pingStub) Ping(stdctx.Context) error { return p.err }

func TestProbe(t *testing.T) {
	t.Parallel()

	ctx := stdctx.Background()

	tests := []struct {
		name       string
		dep        any
		wantStatus string
		wantErr    string
	}{
		{"nil dep is skipped", nil, "skipped", ""},
		{"healthy pinger", pingStub{}, "ok", ""},
		{"failing pinger", pingStub{err: errors.New("connection refused")}, "fail", "connection refused"},
		{"non pinger is unknown", struct{}{}, "unknown", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := probe(ctx, "pg", tt.dep)
			if got.Name != "pg" {
				t.Fatalf("name = %q", got.Name)
			}
			if got.Status != tt.wantStatus {
				t.Fatalf("status = %q, want %q", got.Status, tt.wantStatus)
			}
			if got.Error != tt.wantErr {
				t.Fatalf("error = %q, want %q", got.Error, tt.wantErr)
			}
		})
	}
}

func TestRollup(t *testing.T) {
	t.Parallel()

	mk := func(statuses ...string) []ReadyCheck {
		checks := make([]ReadyCheck, len(statuses))
		for i, s := range statuses {
			checks[i] = ReadyCheck{Name: "dep", Status: s}
		}
		return checks
	}

	tests := []struct {
		name string
		in   []ReadyCheck
		want string
	}{
		{"all ok", mk("ok", "ok"), "ok"},
		{"skip degrades", mk("ok", "skipped"), "degraded"},
		{"unknown degrades", mk("unknown", "ok"), "degraded"},
		{"fail wins", mk("fail", "ok"), "fail"},
		{"fail beats skip", mk("skipped", "fail"), "fail"},
		{"no checks is ok", nil, "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := rollup(tt.in); got != tt.want {
				t.Fatalf("rollup = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHealthHandler(t *testing.T) {
	t.Parallel()

	started := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	h := &handlers{deps: Deps{ServiceName: "qbank-api", StartedAt: started}}

	out, err := h.health(nil)
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	resp, ok := out.(HealthResponse)
	if !ok {
		t.Fatalf("health returned %T", out)
	}
	if !resp.OK || resp.Service != "qbank-api" {
		t.Fatalf("payload: %+v", resp)
	}
	if resp.Started != "2025-08-01T10:00:00Z" {
		t.Fatalf("started = %q", resp.Started)
	}
	if _, err := time.Parse(time.RFC3339, resp.Now); err != nil {
		t.Fatalf("now is not RFC3339: %q", resp.Now)
	}
}

func TestReadyHandler(t *testing.T) {
	t.Parallel()

	h := &handlers{deps: Deps{
		ServiceName: "qbank-api",
		StartedAt:   time.Now(),
		PG:          pingStub{},
		CH:          pingStub{err: errors.New("cold")},
	}}

	out, err := h.ready(nil)
	if err != nil {
		t.Fatalf("ready: %v", err)
	}
	resp, ok := out.(ReadyResponse)
	if !ok {
		t.Fatalf("ready returned %T", out)
	}
	if resp.Status != "fail" {
		t.Fatalf("status = %q, want fail", resp.Status)
	}
	if len(resp.Checks) != 2 || resp.Checks[0].Name != "pg" || resp.Checks[1].Name != "ch" {
		t.Fatalf("checks: %+v", resp.Checks)
	}
	if resp.Checks[0].Status != "ok" || resp.Checks[1].Status != "fail" {
		t.Fatalf("check statuses: %+v", resp.Checks)
	}
	if resp.Checks[1].Error != "cold" {
		t.Fatalf("ch error = %q", resp.Checks[1].Error)
	}
}

func TestServiceHandler(t *testing.T) {
	t.Parallel()

	h := &handlers{deps: Deps{
		ServiceName: "qbank-api",
		StartedAt:   time.Now().Add(-90 * time.Second),
	}}

	out, err := h.service(nil)
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	resp := out.(ServiceResponse)
	if resp.Name != "qbank-api" {
		t.Fatalf("name = %q", resp.Name)
	}
	if resp.Uptime < 90 || resp.Uptime > 120 {
		t.Fatalf("uptime = %d, want about 90s", resp.Uptime)
	}
}

func TestSeedHandler(t *testing.T) {
	t.Parallel()

	h := &handlers{}
	out, err := h.seed(nil)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	resp, ok := out.(SeedResponse)
	if !ok {
		t.Fatalf("seed returned %T", out)
	}
	if resp.SeedVersion != 1 {
		t.Fatalf("seed version = %d", resp.SeedVersion)
	}
	if resp.BankName == "" {
		t.Fatal("bank name empty")
	}
	if resp.Categories == 0 || resp.Difficulty == 0 {
		t.Fatalf("seed counts empty: %+v", resp)
	}
}
