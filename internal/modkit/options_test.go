package modkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"qbank/internal/modkit/httpkit"
)

func TestWithNameAndPrefix(t *testing.T) {
	t.Parallel()

	var b Built
	WithName("questions")(&b)
	WithPrefix("/api/v1/questions")(&b)
	if b.Name != "questions" {
		t.Fatalf("name = %q", b.Name)
	}
	if b.Prefix != "/api/v1/questions" {
		t.Fatalf("prefix = %q", b.Prefix)
	}
}

func TestWithMiddlewaresAccumulateInOrder(t *testing.T) {
	t.Parallel()

	var trace []string
	mw := func(tag string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				trace = append(trace, tag)
				next.ServeHTTP(w, r)
			})
		}
	}

	var b Built
	WithMiddlewares(mw("request-id"), mw("recover"))(&b)
	WithMiddlewares(mw("audit"))(&b)

	if len(b.Mw) != 3 {
		t.Fatalf("middleware count = %d", len(b.Mw))
	}

	// chain so the earliest added wraps outermost
	var h http.Handler = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	for i := len(b.Mw) - 1; i >= 0; i-- {
		h = b.Mw[i](h)
	}
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	want := []string{"request-id", "recover", "audit"}
	if len(trace) != len(want) {
		t.Fatalf("call count = %d want %d", len(trace), len(want))
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("order[%d] = %q want %q", i, trace[i], want[i])
		}
	}
}

func TestWithPortsKeepsConcreteType(t *testing.T) {
	t.Parallel()

	type taxonomyPorts struct {
		Categories []string
		MaxTags    int
	}

	var b Built
	WithPorts(taxonomyPorts{Categories: []string{"geography"}, MaxTags: 20})(&b)

	ps, ok := b.Ports.(taxonomyPorts)
	if !ok {
		t.Fatalf("ports type = %T", b.Ports)
	}
	if len(ps.Categories) != 1 || ps.Categories[0] != "geography" || ps.MaxTags != 20 {
		t.Fatalf("ports value: %+v", ps)
	}
}

func TestWithSubrouter(t *testing.T) {
	t.Parallel()

	called := false
	factory := func(r httpkit.Router) httpkit.Router {
		called = true
		return r
	}

	var b Built
	WithSubrouter(factory)(&b)
	if b.Subrouter == nil {
		t.Fatal("subrouter not set")
	}

	var r httpkit.Router
	if out := b.Subrouter(r); out != r {
		t.Fatal("factory should pass the router through")
	}
	if !called {
		t.Fatal("factory never ran")
	}
}

func TestWithRegister(t *testing.T) {
	t.Parallel()

	var b Built
	called := false
	WithRegister(func(httpkit.Router) { called = true })(&b)

	if b.Register == nil {
		t.Fatal("register not set")
	}
	var r httpkit.Router
	b.Register(r)
	if !called {
		t.Fatal("register hook never ran")
	}
}

func TestOptionsCompose(t *testing.T) {
	t.Parallel()

	opts := []Option{
		WithName("meta"),
		WithPrefix("/meta"),
		WithPorts(map[string]int{"seed": 1}),
	}

	var b Built
	for _, opt := range opts {
		opt(&b)
	}

	if b.Name != "meta" || b.Prefix != "/meta" {
		t.Fatalf("composed build: %+v", b)
	}
	if _, ok := b.Ports.(map[string]int); !ok {
		t.Fatalf("ports type = %T", b.Ports)
	}
}
