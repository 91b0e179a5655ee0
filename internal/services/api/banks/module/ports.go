package module

import (
	"context"

	"qbank/internal/core/taxonomy"
	"qbank/internal/services/api/banks/domain"
	bsvc "qbank/internal/services/api/banks/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptBanksPort exposes service methods as module ports
type adaptBanksPort struct{ svc *bsvc.Svc }

func (a adaptBanksPort) Owns(ctx context.Context, userID, bankID int64) (bool, error) {
	return a.svc.Owns(ctx, userID, bankID)
}

func (a adaptBanksPort) Active(ctx context.Context, userID, bankID int64) (bool, error) {
	return a.svc.Active(ctx, userID, bankID)
}

func (a adaptBanksPort) DefaultBankID(ctx context.Context, userID int64) (int64, error) {
	return a.svc.DefaultBankID(ctx, userID)
}

func (a adaptBanksPort) UnknownRefs(
	ctx context.Context, userID, bankID int64, refs []taxonomy.Ref,
) ([]taxonomy.Ref, error) {
	return a.svc.UnknownRefs(ctx, userID, bankID, refs)
}

func (a adaptBanksPort) Get(ctx context.Context, userID, bankID int64) (taxonomy.Set, error) {
	return a.svc.Get(ctx, userID, bankID)
}

var (
	_ domain.OwnershipPort = adaptBanksPort{}
	_ domain.TaxonomyPort  = adaptBanksPort{}
)
