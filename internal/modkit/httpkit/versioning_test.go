package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMountAPI_NestsUnderVersionedPrefix(t *testing.T) {
	r, mux := newKitRouter()

	tag := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-API-Scope", "v2")
			next.ServeHTTP(w, req)
		})
	}

	MountAPI(r, "v2", []func(http.Handler) http.Handler{tag}, func(api Router) {
		Get(api, "/banks", func(*http.Request) (any, error) { return []string{}, nil })
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v2/banks", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("versioned route status = %d", rec.Code)
	}
	if rec.Header().Get("X-API-Scope") != "v2" {
		t.Fatal("version middleware not applied inside the prefix")
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/banks", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unversioned path should 404, got %d", rec.Code)
	}
}

func TestMountAPI_AcceptsLeadingSlashVersion(t *testing.T) {
	r, mux := newKitRouter()

	MountAPI(r, "/v3", nil, func(api Router) {
		Get(api, "/ping", func(*http.Request) (any, error) { return "pong", nil })
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v3/ping", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestMountAPIV1(t *testing.T) {
	r, mux := newKitRouter()

	MountAPIV1(r, nil, func(api Router) {
		Get(api, "/questions", func(*http.Request) (any, error) { return []int{}, nil })
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/questions", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
