// Package domain defines the security audit event model and ports
package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Event types the admission chain emits
const (
	EventPathManipulation    = "PATH_PARAMETER_MANIPULATION"
	EventPrivilegeEscalation = "TOKEN_PRIVILEGE_ESCALATION"
)

// Severities, lowest to highest
const (
	SeverityInfo     = "INFO"
	SeverityMedium   = "MEDIUM"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
)

// Retention clock: anonymize after 90 days, purge after 7 years
const (
	anonymizeAfterDays = 90
	purgeAfterYears    = 7
)

// Event is one security-relevant occurrence bound for the audit trail.
// Producers fill the identity and request fields; Seal derives the rest.
// Field order is the canonical checksum order, do not reorder
type Event struct {
	Type      string         `json:"event_type"`
	Severity  string         `json:"severity"`
	UserID    int64          `json:"user_id"`
	SessionID string         `json:"session_id,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	ClientIP  string         `json:"client_ip,omitempty"`
	UserAgent string         `json:"user_agent,omitempty"`
	At        time.Time      `json:"ts"`
	Details   map[string]any `json:"details,omitempty"`

	Checksum    string    `json:"checksum,omitempty"`
	AnonymizeAt time.Time `json:"anonymization_date"`
	PurgeAt     time.Time `json:"retention_expiry_date"`
}

// Seal stamps the event timestamp (UTC, now when zero), derives the
// retention dates, and fixes the tamper-evidence checksum: sha256 hex
// over the canonical JSON of the event with the checksum field empty.
// Sealing an already-sealed event reproduces the same checksum
func Seal(ev Event) Event {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	ev.At = ev.At.UTC()
	ev.AnonymizeAt = ev.At.AddDate(0, 0, anonymizeAfterDays)
	ev.PurgeAt = ev.At.AddDate(purgeAfterYears, 0, 0)

	ev.Checksum = ""
	sum := sha256.Sum256(canonical(ev))
	ev.Checksum = hex.EncodeToString(sum[:])
	return ev
}

// canonical renders the event deterministically: struct fields in
// declaration order, map keys sorted by encoding/json
func canonical(ev Event) []byte {
	b, _ := json.Marshal(ev)
	return b
}

// Meta is the request envelope events are stamped from. Transport
// layers fill it once per request and hand it down with the command
type Meta struct {
	SessionID string
	RequestID string
	ClientIP  string
	UserAgent string
}

// Event builds a base event from the request envelope
func (m Meta) Event(typ, severity string, userID int64, details map[string]any) Event {
	return Event{
		Type:      typ,
		Severity:  severity,
		UserID:    userID,
		SessionID: m.SessionID,
		RequestID: m.RequestID,
		ClientIP:  m.ClientIP,
		UserAgent: m.UserAgent,
		Details:   details,
	}
}

// Outcome is the terminal state of one recorded event
type Outcome string

// Terminal states a Receipt can resolve to
const (
	OutcomeStored  Outcome = "stored"
	OutcomeDropped Outcome = "dropped"
	OutcomeFailed  Outcome = "failed"
)

// Receipt resolves once the event is persisted or dropped.
// Callers that do not care simply discard it
type Receipt struct {
	ch <-chan Outcome
}

// NewReceipt pairs a receipt with the channel that resolves it
func NewReceipt() (Receipt, chan<- Outcome) {
	ch := make(chan Outcome, 1)
	return Receipt{ch: ch}, ch
}

// Done exposes the resolution channel for select loops
func (r Receipt) Done() <-chan Outcome { return r.ch }

// Wait blocks until the event resolves or ctx ends
func (r Receipt) Wait(ctx context.Context) (Outcome, error) {
	select {
	case o := <-r.ch:
		return o, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
