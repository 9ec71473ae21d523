package conversation

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestPreviewOf(t *testing.T) {
	short := "czesc, zagramy wieczorem?"
	if got := previewOf(short); got != short {
		t.Errorf("short content changed: %q", got)
	}

	long := strings.Repeat("ł", 150)
	got := previewOf(long)
	if !utf8.ValidString(got) {
		t.Fatalf("preview is not valid UTF-8: %q", got)
	}
	if want := strings.Repeat("ł", 97) + "..."; got != want {
		t.Errorf("preview = %q, want 97 runes + ellipsis", got)
	}
}
