package module

import (
	"time"

	"qbank/internal/platform/config"
)

// Options controls the audit sink
type Options struct {
	QueueSize    int
	WriteTimeout time.Duration
}

// FromConfig reads with AUDIT_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("AUDIT_")
	return Options{
		QueueSize:    c.MayInt("QUEUE_SIZE", 1024),
		WriteTimeout: c.MayDuration("WRITE_TIMEOUT", 5*time.Second),
	}
}
