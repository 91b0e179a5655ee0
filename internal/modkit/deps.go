// Package modkit carries module wiring: shared deps, build options, and
// the Module surface the host mounts
package modkit

import (
	"qbank/internal/modkit/repokit"
	"qbank/internal/platform/config"
	"qbank/internal/platform/logger"
	"qbank/internal/platform/metrics"
	"qbank/internal/platform/store"
)

// Deps is the dependency bundle handed to every module constructor.
// Pure wiring; modules take what they need and ignore the rest
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse

	// Metrics is optional; a nil handle records nothing
	Metrics *metrics.Handle
}
