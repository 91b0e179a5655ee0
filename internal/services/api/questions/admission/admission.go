// Package admission runs the write admission chain for question
// upserts: identity, bank ownership, taxonomy references, then type
// payload rules. Steps run in order and the first failure wins; later
// steps never execute, so at most one security event is recorded per
// rejected request
package admission

import (
	"context"
	"errors"
	"strings"
	"time"

	"qbank/internal/core/qtype"
	"qbank/internal/core/taxonomy"
	perr "qbank/internal/platform/errors"
	"qbank/internal/platform/logger"
	"qbank/internal/platform/metrics"
	"qbank/internal/platform/retry"
	bdom "qbank/internal/services/api/banks/domain"
	adom "qbank/internal/services/audit/domain"
)

// largeRefBatch is the reference count beyond which a batch is worth
// flagging on the metrics side. Nothing is rejected at this size
const largeRefBatch = 20

// Command is one admission request
type Command struct {
	Principal  int64
	PathUserID int64
	BodyUserID int64
	BankID     int64
	Meta       adom.Meta
	Selection  taxonomy.Selection
	Payload    qtype.Input
}

// Chain evaluates admission commands against the bank ports
type Chain struct {
	owners  bdom.OwnershipPort
	refs    bdom.TaxonomyPort
	audit   adom.RecorderPort
	metrics *metrics.Handle
}

// New wires the chain. All three ports are required; metrics may be nil
func New(owners bdom.OwnershipPort, refs bdom.TaxonomyPort, audit adom.RecorderPort, m *metrics.Handle) *Chain {
	if owners == nil {
		panic("admission.Chain requires a non nil OwnershipPort")
	}
	if refs == nil {
		panic("admission.Chain requires a non nil TaxonomyPort")
	}
	if audit == nil {
		panic("admission.Chain requires a non nil audit RecorderPort")
	}
	return &Chain{owners: owners, refs: refs, audit: audit, metrics: m}
}

// Admit runs the chain and returns the built payload aggregate on
// success. The returned error already carries its public error code
func (c *Chain) Admit(ctx context.Context, cmd Command) (qtype.Aggregate, error) {
	if err := c.step(ctx, "identity", func(ctx context.Context) error {
		return c.identity(ctx, cmd)
	}); err != nil {
		return qtype.Aggregate{}, err
	}
	if err := c.step(ctx, "ownership", func(ctx context.Context) error {
		return c.bank(ctx, cmd)
	}); err != nil {
		return qtype.Aggregate{}, err
	}
	if err := c.step(ctx, "taxonomy", func(ctx context.Context) error {
		return c.references(ctx, cmd)
	}); err != nil {
		return qtype.Aggregate{}, err
	}

	var agg qtype.Aggregate
	err := c.step(ctx, "payload", func(context.Context) error {
		built, buildErr := qtype.Build(cmd.Payload)
		if buildErr != nil {
			var rule *qtype.RuleError
			if errors.As(buildErr, &rule) {
				return perr.WithField(perr.New(perr.ErrorCode(rule.Code), rule.Reason), rule.Field)
			}
			return buildErr
		}
		agg = built
		return nil
	})
	if err != nil {
		return qtype.Aggregate{}, err
	}
	return agg, nil
}

// step times one chain stage and feeds the validation metric
func (c *Chain) step(ctx context.Context, name string, run func(context.Context) error) error {
	start := time.Now()
	err := run(ctx)

	code := ""
	if err != nil {
		code = string(perr.CodeOf(err))
	}
	c.metrics.Validation(ctx, name, code, err == nil)
	logger.C(ctx).Debug().
		Str("step", name).
		Dur("elapsed", time.Since(start)).
		Bool("ok", err == nil).
		Msg("questions: admission step")
	return err
}

func (c *Chain) identity(ctx context.Context, cmd Command) error {
	if cmd.PathUserID != cmd.Principal {
		c.audit.Record(ctx, cmd.Meta.Event(adom.EventPathManipulation, adom.SeverityCritical, cmd.Principal, map[string]any{
			"operation":    "question_upsert",
			"path_user_id": cmd.PathUserID,
		}))
		return perr.Unauthorizedf(
			"authenticated user %d cannot write questions for user %d", cmd.Principal, cmd.PathUserID)
	}
	if cmd.BodyUserID != 0 && cmd.BodyUserID != cmd.Principal {
		c.audit.Record(ctx, cmd.Meta.Event(adom.EventPrivilegeEscalation, adom.SeverityCritical, cmd.Principal, map[string]any{
			"operation":    "question_upsert",
			"body_user_id": cmd.BodyUserID,
		}))
		return perr.Unauthorizedf(
			"body user_id %d does not match authenticated user %d", cmd.BodyUserID, cmd.Principal)
	}
	return nil
}

// bank distinguishes a foreign bank from a deactivated one: both
// surface as QUESTION_BANK_NOT_FOUND, but the trail severity differs
func (c *Chain) bank(ctx context.Context, cmd Command) error {
	var owns bool
	if err := retry.Do(ctx, "admission.bank_owns", retry.Default(), func(ctx context.Context) error {
		var probeErr error
		owns, probeErr = c.owners.Owns(ctx, cmd.Principal, cmd.BankID)
		return probeErr
	}); err != nil {
		return probeFailure(err, perr.ErrorCodeOwnership, "bank ownership probe failed")
	}
	if !owns {
		c.audit.Record(ctx, cmd.Meta.Event(adom.EventPrivilegeEscalation, adom.SeverityCritical, cmd.Principal, map[string]any{
			"bank_id": cmd.BankID,
			"reason":  "bank not owned",
		}))
		return perr.BankNotFoundf("question bank %d not found for user %d", cmd.BankID, cmd.Principal)
	}

	var active bool
	if err := retry.Do(ctx, "admission.bank_active", retry.Default(), func(ctx context.Context) error {
		var probeErr error
		active, probeErr = c.owners.Active(ctx, cmd.Principal, cmd.BankID)
		return probeErr
	}); err != nil {
		return probeFailure(err, perr.ErrorCodeOwnership, "bank active probe failed")
	}
	if !active {
		c.audit.Record(ctx, cmd.Meta.Event(adom.EventPrivilegeEscalation, adom.SeverityHigh, cmd.Principal, map[string]any{
			"bank_id": cmd.BankID,
			"reason":  "bank inactive",
		}))
		return perr.BankNotFoundf("question bank %d not found for user %d", cmd.BankID, cmd.Principal)
	}
	return nil
}

func (c *Chain) references(ctx context.Context, cmd Command) error {
	if lvl, gap := cmd.Selection.GapLevel(); gap {
		return perr.ConstraintViolationf(
			"category level %d is required when deeper levels are supplied", lvl)
	}

	refs := cmd.Selection.Refs()
	if len(refs) > largeRefBatch {
		c.metrics.LargeTaxonomyBatch(ctx, len(refs))
	}
	if len(refs) == 0 {
		return nil
	}

	var unknown []taxonomy.Ref
	if err := retry.Do(ctx, "admission.taxonomy_refs", retry.Default(), func(ctx context.Context) error {
		var probeErr error
		unknown, probeErr = c.refs.UnknownRefs(ctx, cmd.Principal, cmd.BankID, refs)
		return probeErr
	}); err != nil {
		return probeFailure(err, perr.ErrorCodeDB, "taxonomy reference probe failed")
	}
	if len(unknown) > 0 {
		names := make([]string, 0, len(unknown))
		for _, r := range unknown {
			names = append(names, r.String())
		}
		return perr.TaxonomyNotFoundf(
			"taxonomy references not found in bank %d: %s", cmd.BankID, strings.Join(names, ", "))
	}
	return nil
}

// probeFailure keeps retry and timeout codes so exhaustion stays
// visible to the caller, mapping everything else to the step's code
func probeFailure(err error, code perr.ErrorCode, msg string) error {
	switch perr.CodeOf(err) {
	case perr.ErrorCodeRetryExhausted, perr.ErrorCodeTimeout:
		return err
	default:
		return perr.Wrap(err, code, msg)
	}
}
