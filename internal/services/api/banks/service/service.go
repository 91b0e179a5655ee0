// Package service implements bank bootstrap and the ownership probes
// other modules admit writes against
package service

import (
	"context"
	"time"

	"qbank/internal/core/seedpack"
	"qbank/internal/core/taxonomy"
	"qbank/internal/modkit"
	"qbank/internal/modkit/repokit"
	perr "qbank/internal/platform/errors"
	"qbank/internal/platform/logger"
	"qbank/internal/platform/retry"

	"qbank/internal/services/api/banks/domain"
	brepo "qbank/internal/services/api/banks/repo"
	adom "qbank/internal/services/audit/domain"
)

// Service is the public service port
type Service interface{ domain.ServicePort }

// Svc implements the service port plus the ownership and taxonomy ports
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[brepo.Repo]
	repo   brepo.Repo

	pack  *seedpack.Pack
	audit adom.RecorderPort
	deps  modkit.Deps
}

// Options control service behavior
type Options struct {
	// Audit is required; identity violations must reach the trail
	Audit adom.RecorderPort

	// Pack overrides the embedded seed (tests)
	Pack *seedpack.Pack

	// Binder overrides the Postgres repo (tests)
	Binder repokit.Binder[brepo.Repo]
}

// New constructs the service
func New(deps modkit.Deps, opt Options) *Svc {
	if deps.PG == nil {
		panic("banks.Service requires a non nil TxRunner")
	}
	if opt.Audit == nil {
		panic("banks.Service requires a non nil audit RecorderPort")
	}

	pack := opt.Pack
	if pack == nil {
		p, err := seedpack.Load()
		if err != nil {
			panic(err)
		}
		pack = p
	}

	b := opt.Binder
	if b == nil {
		b = brepo.NewPG()
	}
	return &Svc{
		// a duplicate bootstrap race queues on the users PK; the hook
		// bounds that wait so the loser fails into retry, then 409
		db:     repokit.WithBeginHooks(deps.PG, repokit.LockTimeout(3*time.Second)),
		binder: b,
		repo:   b.Bind(deps.PG),
		pack:   pack,
		audit:  opt.Audit,
		deps:   deps,
	}
}

// Bootstrap provisions the caller's default bank with the seeded
// taxonomy in one transaction. A second call for the same user is a
// conflict, never a partial re-seed
func (s *Svc) Bootstrap(
	ctx context.Context, principal int64, meta adom.Meta, in domain.BootstrapInput,
) (domain.BootstrapOutput, error) {
	start := time.Now()
	defer func() { s.deps.Metrics.Operation(ctx, "banks.bootstrap", time.Since(start)) }()

	if in.UserID != principal {
		s.audit.Record(ctx, meta.Event(adom.EventPrivilegeEscalation, adom.SeverityCritical, principal, map[string]any{
			"operation":    "bank_bootstrap",
			"body_user_id": in.UserID,
		}))
		s.deps.Metrics.Validation(ctx, "identity", string(perr.ErrorCodeUnauthorized), false)
		return domain.BootstrapOutput{}, perr.Unauthorizedf(
			"authenticated user %d cannot provision banks for user %d", principal, in.UserID)
	}
	s.deps.Metrics.Validation(ctx, "identity", "", true)

	// fast duplicate check; the PK catches the race on insert anyway
	var dup bool
	if err := retry.Do(ctx, "banks.user_exists", retry.Default(), func(ctx context.Context) error {
		var probeErr error
		dup, probeErr = s.repo.UserExists(ctx, in.UserID)
		return probeErr
	}); err != nil {
		return domain.BootstrapOutput{}, storageFailure(err, "bootstrap existence probe failed")
	}
	if dup {
		return domain.BootstrapOutput{}, perr.DuplicateUserf("user %d already has a question bank", in.UserID)
	}

	bankID := time.Now().UnixMicro()
	set := s.pack.Set()
	descriptor := domain.BankDescriptor{
		BankID:      bankID,
		Name:        s.pack.BankName,
		Description: s.pack.BankDescription,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}

	var createdAt time.Time
	err := retry.Do(ctx, "banks.bootstrap_tx", retry.Default(), func(ctx context.Context) error {
		return repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
			rr := repokit.MustBind(s.binder, q)
			at, err := rr.InsertUser(ctx, domain.NewUser{
				UserID:        in.UserID,
				DefaultBankID: bankID,
				Banks:         []domain.BankDescriptor{descriptor},
				UserEmail:     in.UserEmail,
				Metadata:      in.Metadata,
			})
			if err != nil {
				return err
			}
			if err := rr.InsertTaxonomySet(ctx, in.UserID, bankID, set); err != nil {
				return err
			}
			createdAt = at
			return nil
		})
	})
	if err != nil {
		if perr.IsDuplicateKey(err) {
			return domain.BootstrapOutput{}, perr.DuplicateUserf("user %d already has a question bank", in.UserID)
		}
		return domain.BootstrapOutput{}, txFailure(err, "bank bootstrap did not commit")
	}

	logger.C(ctx).Info().
		Int64("user_id", in.UserID).
		Int64("bank_id", bankID).
		Msg("question bank bootstrapped")

	return domain.BootstrapOutput{
		UserID:             in.UserID,
		BankID:             bankID,
		BankName:           s.pack.BankName,
		Description:        s.pack.BankDescription,
		IsActive:           true,
		TaxonomySetCreated: true,
		AvailableTaxonomy:  set.Available(),
		CreatedAt:          createdAt,
	}, nil
}

// Owns reports bank membership for the admission chain
func (s *Svc) Owns(ctx context.Context, userID, bankID int64) (bool, error) {
	return s.repo.Owns(ctx, userID, bankID)
}

// Active reports bank membership with the active flag set
func (s *Svc) Active(ctx context.Context, userID, bankID int64) (bool, error) {
	return s.repo.Active(ctx, userID, bankID)
}

// DefaultBankID returns the user's default bank, zero for unknown users
func (s *Svc) DefaultBankID(ctx context.Context, userID int64) (int64, error) {
	return s.repo.DefaultBankID(ctx, userID)
}

// UnknownRefs probes the taxonomy set once and reports the refs it
// does not contain, preserving input order
func (s *Svc) UnknownRefs(ctx context.Context, userID, bankID int64, refs []taxonomy.Ref) ([]taxonomy.Ref, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	set, err := s.repo.TaxonomySet(ctx, userID, bankID)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			// no set for this bank: every ref is unknown
			return refs, nil
		}
		return nil, err
	}
	return set.Unknown(refs), nil
}

// Get loads the full taxonomy set for (user, bank)
func (s *Svc) Get(ctx context.Context, userID, bankID int64) (taxonomy.Set, error) {
	return s.repo.TaxonomySet(ctx, userID, bankID)
}

// txFailure keeps retry and timeout codes, mapping everything else to
// TRANSACTION_FAILED
func txFailure(err error, msg string) error {
	switch perr.CodeOf(err) {
	case perr.ErrorCodeRetryExhausted, perr.ErrorCodeTimeout:
		return err
	default:
		return perr.Wrap(err, perr.ErrorCodeTxFailed, msg)
	}
}

// storageFailure is txFailure's read-side sibling, mapping to DATABASE_ERROR
func storageFailure(err error, msg string) error {
	switch perr.CodeOf(err) {
	case perr.ErrorCodeRetryExhausted, perr.ErrorCodeTimeout:
		return err
	default:
		return perr.Wrap(err, perr.ErrorCodeDB, msg)
	}
}
