package i18n

import "testing"

func TestMatchLocale(t *testing.T) {
	cases := []struct {
		header string
		want   Locale
	}{
		{"", LocaleEN},
		{"en", LocaleEN},
		{"en-US,en;q=0.9", LocaleEN},
		{"pl", LocalePL},
		{"pl-PL,pl;q=0.9,en;q=0.5", LocalePL},
		{"de-DE", LocaleEN},
		{"garbage;;;", LocaleEN},
	}
	for _, c := range cases {
		if got := MatchLocale(c.header); got != c.want {
			t.Errorf("MatchLocale(%q) = %q, want %q", c.header, got, c.want)
		}
	}
}

func TestResolveOverrideWins(t *testing.T) {
	b := NewBundle("en")
	if got := b.Resolve("pl", "en-US"); got != LocalePL {
		t.Errorf("override ignored, got %q", got)
	}
	if got := b.Resolve("fr", "pl"); got != LocalePL {
		t.Errorf("invalid override should fall through to header, got %q", got)
	}
	if got := b.Resolve("", ""); got != LocaleEN {
		t.Errorf("expected bundle default, got %q", got)
	}
}

func TestTranslationFallback(t *testing.T) {
	b := NewBundle("en")
	if got := b.T(LocalePL, "poke.sent"); got != "POKE wysłany" {
		t.Errorf("pl lookup = %q", got)
	}
	if got := b.T(LocalePL, "no.such.key"); got != "no.such.key" {
		t.Errorf("missing key should return key, got %q", got)
	}
}
