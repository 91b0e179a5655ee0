package strings

import "testing"

func TestIfEmpty(t *testing.T) {
	t.Parallel()

	in := []string{"GET", "POST"}
	def := []string{"OPTIONS"}
	if got := IfEmpty(in, def); len(got) != 2 || got[0] != "GET" {
		t.Fatalf("populated slice replaced: %#v", got)
	}

	var none []string
	if got := IfEmpty(none, def); len(got) != 1 || got[0] != "OPTIONS" {
		t.Fatalf("default not applied: %#v", got)
	}
}

func TestContains(t *testing.T) {
	t.Parallel()

	cases := []struct {
		s, sub string
		want   bool
	}{
		{"requested port not found", "port", true},
		{"geography", "geo", true},
		{"geography", "phy", true},
		{"geography", "", true},
		{"geography", "algebra", false},
		{"geo", "geography", false},
	}
	for _, c := range cases {
		if got := Contains(c.s, c.sub); got != c.want {
			t.Errorf("Contains(%q,%q)=%v want %v", c.s, c.sub, got, c.want)
		}
	}
}

func TestMustString(t *testing.T) {
	if got := MustString("banks", "module"); got != "banks" {
		t.Fatalf("want banks got %q", got)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("want panic for blank value")
		}
	}()
	_ = MustString("  \t ", "module")
}

func TestMustPrefix(t *testing.T) {
	cases := map[string]string{
		"/banks/":      "/banks",
		" questions ":  "/questions",
		"//meta//":     "/meta",
		"banks/extras": "/banks/extras",
	}
	for in, want := range cases {
		if got := MustPrefix(in); got != want {
			t.Fatalf("in %q want %q got %q", in, want, got)
		}
	}

	for _, in := range []string{"/", "", "   "} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("want panic for %q", in)
				}
			}()
			_ = MustPrefix(in)
		}()
	}
}
