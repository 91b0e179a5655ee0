// Package config reads typed application settings from environment variables
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"qbank/internal/platform/logger"
)

// Conf is a prefixed window onto the environment. New() sees
// everything; Prefix("CORE_API_") scopes a module to its own keys
type Conf struct{ prefix string }

// New returns the root Conf with no prefix
func New() Conf { return Conf{} }

// Prefix derives a child Conf whose keys all start with p
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

// lookup reads the fully qualified var with surrounding whitespace
// stripped, so a blank value counts as unset everywhere
func (c Conf) lookup(key string) string {
	return strings.TrimSpace(os.Getenv(c.key(key)))
}

// missing and reject panic through the logger so the reason lands in
// the log stream before the process dies
func (c Conf) missing(key string) {
	logger.Get().Panic().Str("key", c.key(key)).Msg("missing required env")
}

func (c Conf) reject(key, value, what string) {
	logger.Get().Panic().Str("key", c.key(key)).Str("value", value).Msg(what)
}

func (c Conf) warnDefault(key, value string, def any, what string) {
	logger.Get().Warn().Str("key", c.key(key)).Str("value", value).Interface("default", def).Msg(what)
}

// MustString panics when key is missing or blank. Boot-time settings
// with no sane default go through the Must family
func (c Conf) MustString(key string) string {
	v := c.lookup(key)
	if v == "" {
		c.missing(key)
	}
	return v
}

// MustInt panics when key is missing, blank, or not an integer
func (c Conf) MustInt(key string) int {
	s := c.lookup(key)
	if s == "" {
		c.missing(key)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		c.reject(key, s, "invalid int value")
	}
	return v
}

// MustBool panics when key is missing, blank, or not a bool
func (c Conf) MustBool(key string) bool {
	s := c.lookup(key)
	if s == "" {
		c.missing(key)
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		c.reject(key, s, "invalid bool value")
	}
	return v
}

// MustDuration panics when key is missing, blank, or not a Go duration
func (c Conf) MustDuration(key string) time.Duration {
	s := c.MustString(key)
	d, err := time.ParseDuration(s)
	if err != nil {
		c.reject(key, s, "invalid duration (e.g., 250ms, 2s, 1h)")
	}
	return d
}

// MayString returns the value, or def when missing or blank
func (c Conf) MayString(key, def string) string {
	if v := c.lookup(key); v != "" {
		return v
	}
	return def
}

// MayInt returns the value, or def when missing or blank. A malformed
// value warns and falls back rather than halting boot
func (c Conf) MayInt(key string, def int) int {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		c.warnDefault(key, s, def, "invalid int; using default")
		return def
	}
	return v
}

// MayBool returns the value, or def when missing or blank. Malformed
// values warn and fall back
func (c Conf) MayBool(key string, def bool) bool {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		c.warnDefault(key, s, def, "invalid bool; using default")
		return def
	}
	return v
}

// MayDuration returns the value, or def when missing or blank.
// Malformed values warn and fall back
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		c.warnDefault(key, s, def, "invalid duration; using default")
		return def
	}
	return d
}

// MayCSV splits a comma-separated value into trimmed parts, or returns
// def when the key is missing, blank, or holds only separators
func (c Conf) MayCSV(key string, def []string) []string {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
