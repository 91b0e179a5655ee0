package module

import (
	"testing"

	phttp "qbank/internal/platform/net/http"
)

// stubModule records MountRoutes and hands back a configurable bundle
type stubModule struct {
	mounted *bool
	ports   any
	name    string
}

func (s *stubModule) MountRoutes(_ phttp.Router) {
	if s.mounted != nil {
		*s.mounted = true
	}
}

func (s *stubModule) Ports() any   { return s.ports }
func (s *stubModule) Name() string { return s.name }

var _ Module = (*stubModule)(nil)

func TestMountRoutesObservable(t *testing.T) {
	t.Parallel()

	called := false
	m := &stubModule{mounted: &called}

	// nil typed router is fine; the contract does not force usage
	var r phttp.Router
	m.MountRoutes(r)

	if !called {
		t.Fatal("MountRoutes was not observed")
	}
}

func TestPortsRoundTrip(t *testing.T) {
	t.Parallel()

	type bankBundle struct {
		Bank string
		Tags int
	}

	cases := []struct {
		name  string
		in    any
		check func(t *testing.T, v any)
	}{
		{
			name: "nil bundle",
			in:   nil,
			check: func(t *testing.T, v any) {
				if v != nil {
					t.Fatalf("want nil, got %T", v)
				}
			},
		},
		{
			name: "bare value",
			in:   20,
			check: func(t *testing.T, v any) {
				if n, ok := v.(int); !ok || n != 20 {
					t.Fatalf("want int 20, got %v", v)
				}
			},
		},
		{
			name: "struct bundle",
			in:   bankBundle{Bank: "geography", Tags: 7},
			check: func(t *testing.T, v any) {
				b, ok := v.(bankBundle)
				if !ok {
					t.Fatalf("want bankBundle, got %T", v)
				}
				if b.Bank != "geography" || b.Tags != 7 {
					t.Fatalf("bundle contents: %+v", b)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := &stubModule{ports: tc.in}
			tc.check(t, m.Ports())
		})
	}
}
