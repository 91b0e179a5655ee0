// Package testkit provides small helpers shared by unit tests
package testkit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// MustPanic fails the test unless fn panics
func MustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic, got none")
		}
	}()
	fn()
}

// MustContain fails unless haystack contains needle. The full haystack
// lands in a temp file because log output is too long for a fatal line
func MustContain(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		return
	}
	dump := filepath.Join(t.TempDir(), "captured_output.txt")
	_ = os.WriteFile(dump, []byte(haystack), 0o600)
	t.Fatalf("output does not contain %q\n\nfull output written to %s", needle, dump)
}
