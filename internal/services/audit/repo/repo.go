// Package repo persists sealed security events to ClickHouse
package repo

import (
	"context"
	"encoding/json"

	perr "qbank/internal/platform/errors"
	"qbank/internal/platform/store"

	dom "qbank/internal/services/audit/domain"
)

// Sink is the storage surface the audit worker writes through
type Sink interface {
	EnsureSchema(ctx context.Context) error
	Write(ctx context.Context, ev dom.Event) error
}

// NewCH returns a Sink over the shared ClickHouse seam
func NewCH(ch store.Clickhouse) Sink { return &chSink{ch: ch} }

type chSink struct {
	ch store.Clickhouse
}

// security_events is append-only; the engine TTL enforces the purge
// horizon while the per-event dates drive downstream anonymization
const createTable = `
CREATE TABLE IF NOT EXISTS security_events (
    event_type            String,
    severity              String,
    session_id            String,
    request_id            String,
    client_ip             String,
    user_agent            String,
    user_id               Int64,
    ts                    DateTime64(6),
    details               String,
    checksum              FixedString(64),
    anonymization_date    DateTime64(6),
    retention_expiry_date DateTime64(6)
)
ENGINE = MergeTree
ORDER BY (ts, user_id)
TTL toDateTime(ts) + INTERVAL 7 YEAR
`

var insertCols = []string{
	"event_type", "severity", "session_id", "request_id", "client_ip", "user_agent",
	"user_id", "ts", "details", "checksum", "anonymization_date", "retention_expiry_date",
}

func (s *chSink) EnsureSchema(ctx context.Context) error {
	if s.ch == nil {
		return perr.DBf("audit: clickhouse is not configured")
	}
	return s.ch.Exec(ctx, createTable)
}

func (s *chSink) Write(ctx context.Context, ev dom.Event) error {
	if s.ch == nil {
		return perr.DBf("audit: clickhouse is not configured")
	}

	details := "{}"
	if len(ev.Details) > 0 {
		if b, err := json.Marshal(ev.Details); err == nil {
			details = string(b)
		}
	}

	row := []any{
		ev.Type, ev.Severity, ev.SessionID, ev.RequestID, ev.ClientIP, ev.UserAgent,
		ev.UserID, ev.At, details, ev.Checksum, ev.AnonymizeAt, ev.PurgeAt,
	}
	return s.ch.Insert(ctx, "security_events", insertCols, [][]any{row})
}
