package config

import (
	"slices"
	"testing"
	"time"

	kit "qbank/internal/platform/testkit"
)

func TestKeyComposition(t *testing.T) {
	audit := New().Prefix("CORE_API_").Prefix("AUDIT_")
	if got := audit.key("QUEUE_SIZE"); got != "CORE_API_AUDIT_QUEUE_SIZE" {
		t.Fatalf("stacked key() = %q, want CORE_API_AUDIT_QUEUE_SIZE", got)
	}
	if got := New().key("PORT"); got != "PORT" {
		t.Fatalf("root key() = %q, want PORT", got)
	}
}

func TestMustString(t *testing.T) {
	c := New().Prefix("PG_")

	t.Setenv("PG_DSN", "  postgres://qbank@db/qbank ")
	if got := c.MustString("DSN"); got != "postgres://qbank@db/qbank" {
		t.Fatalf("MustString = %q", got)
	}

	kit.MustPanic(t, func() { c.MustString("NEVER_SET") })

	t.Setenv("PG_BLANK", "   ")
	kit.MustPanic(t, func() { c.MustString("BLANK") })
}

func TestMustTyped(t *testing.T) {
	c := New().Prefix("QB_")

	t.Run("int", func(t *testing.T) {
		t.Setenv("QB_MAX_QUESTIONS", " 500 ")
		if got := c.MustInt("MAX_QUESTIONS"); got != 500 {
			t.Fatalf("MustInt = %d", got)
		}
		t.Setenv("QB_MAX_QUESTIONS", "many")
		kit.MustPanic(t, func() { c.MustInt("MAX_QUESTIONS") })
		kit.MustPanic(t, func() { c.MustInt("NEVER_SET") })
	})

	t.Run("bool", func(t *testing.T) {
		t.Setenv("QB_STRICT", " 1 ")
		if !c.MustBool("STRICT") {
			t.Fatal("MustBool should read 1 as true")
		}
		t.Setenv("QB_STRICT", "sure")
		kit.MustPanic(t, func() { c.MustBool("STRICT") })
	})

	t.Run("duration", func(t *testing.T) {
		t.Setenv("QB_TX_TIMEOUT", "1m30s")
		if got := c.MustDuration("TX_TIMEOUT"); got != 90*time.Second {
			t.Fatalf("MustDuration = %v", got)
		}
		t.Setenv("QB_TX_TIMEOUT", "90")
		kit.MustPanic(t, func() { c.MustDuration("TX_TIMEOUT") })
	})
}

func TestMayString(t *testing.T) {
	c := New().Prefix("CH_")

	if got := c.MayString("ADDR", "localhost:9000"); got != "localhost:9000" {
		t.Fatalf("unset should yield default: %q", got)
	}
	t.Setenv("CH_ADDR", " ch.internal:9440 ")
	if got := c.MayString("ADDR", "localhost:9000"); got != "ch.internal:9440" {
		t.Fatalf("set value lost: %q", got)
	}
}

func TestMayInt(t *testing.T) {
	c := New().Prefix("AUDIT_")

	tests := []struct {
		name string
		set  string
		want int
	}{
		{"unset yields default", "", 1024},
		{"numeric value wins", " 4096 ", 4096},
		{"garbage warns and falls back", "lots", 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("AUDIT_QUEUE_SIZE", tt.set)
			if got := c.MayInt("QUEUE_SIZE", 1024); got != tt.want {
				t.Fatalf("MayInt = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMayBool(t *testing.T) {
	c := New().Prefix("API_")

	tests := []struct {
		name string
		set  string
		def  bool
		want bool
	}{
		{"unset yields default", "", true, true},
		{"false beats true default", "false", true, false},
		{"garbage falls back", "enabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("API_SWAGGER", tt.set)
			if got := c.MayBool("SWAGGER", tt.def); got != tt.want {
				t.Fatalf("MayBool = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMayDuration(t *testing.T) {
	c := New().Prefix("PG_")

	tests := []struct {
		name string
		set  string
		want time.Duration
	}{
		{"unset yields default", "", 5 * time.Second},
		{"parsed value wins", "150ms", 150 * time.Millisecond},
		{"missing unit falls back", "150", 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PG_PING_TIMEOUT", tt.set)
			if got := c.MayDuration("PING_TIMEOUT", 5*time.Second); got != tt.want {
				t.Fatalf("MayDuration = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("API_")
	def := []string{"https://quiz.example"}

	if got := c.MayCSV("CORS_ORIGINS", def); !slices.Equal(got, def) {
		t.Fatalf("unset should yield default: %#v", got)
	}

	t.Setenv("API_CORS_ORIGINS", " https://a.example, ,https://b.example ,, ")
	want := []string{"https://a.example", "https://b.example"}
	if got := c.MayCSV("CORS_ORIGINS", def); !slices.Equal(got, want) {
		t.Fatalf("MayCSV = %#v, want %#v", got, want)
	}

	t.Setenv("API_CORS_ORIGINS", ", ,  ,")
	if got := c.MayCSV("CORS_ORIGINS", def); !slices.Equal(got, def) {
		t.Fatalf("separator soup should fall back to default: %#v", got)
	}
}
