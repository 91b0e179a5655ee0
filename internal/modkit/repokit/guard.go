package repokit

import (
	"context"
	"fmt"
	"time"
)

// guardBudget bounds the boot-time reachability check when the caller
// brought no deadline of its own
const guardBudget = 5 * time.Second

type guarder interface {
	Guard(context.Context) error
}

// MustGuard asserts every configured store seam answers, panicking on
// failure. Boot wiring calls it once before routes mount
func MustGuard(ctx context.Context, st guarder) {
	if _, ok := ctx.Deadline(); !ok {
		bounded, cancel := context.WithTimeout(ctx, guardBudget)
		defer cancel()
		ctx = bounded
	}
	if err := st.Guard(ctx); err != nil {
		panic(fmt.Errorf("dependency guard failed: %w", err))
	}
}
