package slug

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ShadowKnight", "shadowknight"},
		{"Dark Lord 99", "dark-lord-99"},
		{"__x__", "x"},
		{"!!!", ""},
		{"Tidus&Yuna", "tidus-yuna"},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMakeAndParseRoundTrip(t *testing.T) {
	s := Make("secret", "Dark Lord", 123)
	if !strings.HasPrefix(s, "dark-lord-123-") {
		t.Fatalf("unexpected slug %q", s)
	}

	ref, hash, ok := Parse(s)
	if !ok {
		t.Fatalf("Parse(%q) failed", s)
	}
	if ref != 123 {
		t.Errorf("ref = %d, want 123", ref)
	}
	if !Verify("secret", ref, hash) {
		t.Error("hash did not verify with correct secret")
	}
	if Verify("other-secret", ref, hash) {
		t.Error("hash verified with wrong secret")
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "plain", "name-abc-hash", "name-12"} {
		if _, _, ok := Parse(s); ok {
			t.Errorf("Parse(%q) unexpectedly succeeded", s)
		}
	}
}

func TestHashIsStable(t *testing.T) {
	if Hash("k", 7) != Hash("k", 7) {
		t.Error("hash not deterministic")
	}
	if Hash("k", 7) == Hash("k", 8) {
		t.Error("hash collision across refs")
	}
	if len(Hash("k", 7)) != HashLength {
		t.Errorf("hash length = %d, want %d", len(Hash("k", 7)), HashLength)
	}
}
