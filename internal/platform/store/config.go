package store

import "time"

// Config aggregates per backend configuration
type Config struct {
	// AppName labels pool connections through application_name so
	// pg_stat_activity can attribute sessions per process
	AppName string

	PG PGConfig
	CH CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// boot gate knobs consumed by openPG
	ConnectRetries int
	PingTimeout    time.Duration
}

// pingBudget resolves the boot gate knobs, filling defaults for
// anything unset: six re-attempts, three seconds per ping
func (c PGConfig) pingBudget() (retries uint64, perPing time.Duration) {
	retries = 6
	if c.ConnectRetries > 0 {
		retries = uint64(c.ConnectRetries)
	}
	perPing = 3 * time.Second
	if c.PingTimeout > 0 {
		perPing = c.PingTimeout
	}
	return retries, perPing
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled bool
	URL     string

	// ClientName and ClientTag feed the connection client info so
	// server side query logs can attribute traffic per role and build
	ClientName string
	ClientTag  string
}
