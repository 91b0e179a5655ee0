package domain

import (
	"context"

	"qbank/internal/core/taxonomy"
	adom "qbank/internal/services/audit/domain"
)

// ServicePort is the module service surface
type ServicePort interface {
	Bootstrap(ctx context.Context, principal int64, meta adom.Meta, in BootstrapInput) (BootstrapOutput, error)
}

// OwnershipPort answers bank membership probes for write admission.
// Owns and Active are separate so callers can tell a foreign bank from
// a deactivated one
type OwnershipPort interface {
	Owns(ctx context.Context, userID, bankID int64) (bool, error)
	Active(ctx context.Context, userID, bankID int64) (bool, error)
	DefaultBankID(ctx context.Context, userID int64) (int64, error)
}

// TaxonomyPort answers taxonomy existence probes for write admission
type TaxonomyPort interface {
	// UnknownRefs returns the subset of refs absent from the user's set
	// for that bank, preserving input order
	UnknownRefs(ctx context.Context, userID, bankID int64, refs []taxonomy.Ref) ([]taxonomy.Ref, error)

	// Get loads the full taxonomy set for (user, bank)
	Get(ctx context.Context, userID, bankID int64) (taxonomy.Set, error)
}
