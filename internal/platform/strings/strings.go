// Package strings carries small string and slice helpers shared across modules
package strings

import std "strings"

// IfEmpty returns def when in has no elements, else in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// Contains reports whether sub is within s
func Contains(s, sub string) bool { return std.Contains(s, sub) }

// MustString panics when s is blank; name identifies the missing value
// in the panic message. Use for identifiers that must never be empty
func MustString(s string, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}

// MustPrefix normalizes a mount path like /banks or /questions: one
// leading slash, no trailing slash. Panics when nothing but slashes and
// spaces remain, since a module cannot mount at the bare root
func MustPrefix(s string) string {
	s = "/" + std.Trim(std.TrimSpace(s), " /")
	if s == "/" {
		panic("root path is required")
	}
	return s
}
