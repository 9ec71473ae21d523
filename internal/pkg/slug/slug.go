package slug

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// HashLength is the number of hex characters appended to a character slug.
const HashLength = 10

// Slugify lowercases s and replaces runs of non-alphanumeric runes with
// a single hyphen.
func Slugify(s string) string {
	var b strings.Builder
	lastDash := true // suppress leading dash
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			// Non-ASCII letters are dropped; characters keep their game
			// nicknames readable in URLs without transliteration.
			continue
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// Hash derives the URL check hash for a character reference number.
func Hash(secret string, ref int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "character:%d", ref)
	return hex.EncodeToString(mac.Sum(nil))[:HashLength]
}

// Make builds the public character slug: <nickname>-<ref>-<hash>.
func Make(secret, nickname string, ref int64) string {
	base := Slugify(nickname)
	if base == "" {
		base = "character"
	}
	return fmt.Sprintf("%s-%d-%s", base, ref, Hash(secret, ref))
}

// Parse extracts the reference number and hash from a slug. The nickname
// part is ignored; only ref and hash identify the character.
func Parse(s string) (ref int64, hash string, ok bool) {
	parts := strings.Split(s, "-")
	if len(parts) < 2 {
		return 0, "", false
	}
	hash = parts[len(parts)-1]
	ref, err := strconv.ParseInt(parts[len(parts)-2], 10, 64)
	if err != nil || hash == "" {
		return 0, "", false
	}
	return ref, hash, true
}

// Verify reports whether hash is the correct check hash for ref.
func Verify(secret string, ref int64, hash string) bool {
	return hmac.Equal([]byte(Hash(secret, ref)), []byte(hash))
}
