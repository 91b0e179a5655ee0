package domain

import "context"

// ServicePort is the module service surface
type ServicePort interface {
	Upsert(ctx context.Context, cmd UpsertCommand) (UpsertOutput, error)
	List(ctx context.Context, cmd ListCommand) (ListOutput, error)
}
