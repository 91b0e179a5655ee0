package domain

import "context"

// RecorderPort accepts events without ever blocking the caller.
// A full queue resolves the receipt as dropped, never as an error
type RecorderPort interface {
	Record(ctx context.Context, ev Event) Receipt
}

// WorkerPort is the sink run loop plus its drain hook
type WorkerPort interface {
	Run(ctx context.Context) error
	Close(ctx context.Context) error
}
