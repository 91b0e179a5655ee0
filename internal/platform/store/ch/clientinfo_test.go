package ch

import (
	"runtime"
	"testing"
)

func TestBuildClientInfo(t *testing.T) {
	t.Parallel()

	info := BuildClientInfo("audit", "  v1.4.2  ")

	products := map[string]string{}
	for _, p := range info.Products {
		products[p.Name] = p.Version
	}

	for _, name := range []string{"qbank", "role", "go", "commit", "host"} {
		if _, ok := products[name]; !ok {
			t.Fatalf("product %q missing: %#v", name, info.Products)
		}
	}
	if len(info.Products) != 5 {
		t.Fatalf("expected 5 products, got %d: %#v", len(info.Products), info.Products)
	}

	if products["qbank"] != "v1.4.2" {
		t.Fatalf("tag not trimmed: %q", products["qbank"])
	}
	if products["role"] != "audit" {
		t.Fatalf("role = %q", products["role"])
	}
	if products["go"] != runtime.Version() {
		t.Fatalf("go version = %q, want %q", products["go"], runtime.Version())
	}
	// test binaries carry no vcs stamp, so commit reports unknown rather
	// than an empty version
	if products["commit"] == "" {
		t.Fatal("commit version empty")
	}
}

func TestBuildClientInfoOrder(t *testing.T) {
	t.Parallel()

	info := BuildClientInfo("api", "")
	if info.Products[0].Name != "qbank" {
		t.Fatalf("first product = %q, want qbank so server logs lead with the app", info.Products[0].Name)
	}
}
