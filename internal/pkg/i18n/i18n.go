package i18n

import (
	"golang.org/x/text/language"
)

// Locale identifies a supported UI language.
type Locale string

const (
	LocaleEN Locale = "en"
	LocalePL Locale = "pl"
)

var supported = []language.Tag{
	language.English, // en, first entry is the fallback
	language.Polish,  // pl
}

var matcher = language.NewMatcher(supported)

// Bundle resolves message keys against per-locale catalogs. A bundle is
// built once at startup with an explicit default locale and then passed
// around; there is no package-level mutable state.
type Bundle struct {
	defaultLocale Locale
}

// NewBundle creates a bundle with the given default locale. Unknown
// defaults fall back to English.
func NewBundle(defaultLocale string) *Bundle {
	loc := MatchLocale(defaultLocale)
	return &Bundle{defaultLocale: loc}
}

// DefaultLocale returns the bundle's startup default.
func (b *Bundle) DefaultLocale() Locale {
	return b.defaultLocale
}

// MatchLocale resolves an Accept-Language header or plain language code
// to a supported locale.
func MatchLocale(acceptLanguage string) Locale {
	if acceptLanguage == "" {
		return LocaleEN
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return LocaleEN
	}
	_, idx, _ := matcher.Match(tags...)
	if idx == 1 {
		return LocalePL
	}
	return LocaleEN
}

// Resolve picks the request locale: explicit override first, then the
// Accept-Language header, then the bundle default.
func (b *Bundle) Resolve(override, acceptLanguage string) Locale {
	if override != "" {
		switch Locale(override) {
		case LocaleEN, LocalePL:
			return Locale(override)
		}
	}
	if acceptLanguage != "" {
		return MatchLocale(acceptLanguage)
	}
	return b.defaultLocale
}

// T returns the message for key in the given locale, falling back to
// English and finally to the key itself.
func (b *Bundle) T(loc Locale, key string) string {
	if cat, ok := catalogs[loc]; ok {
		if msg, ok := cat[key]; ok {
			return msg
		}
	}
	if msg, ok := catalogs[LocaleEN][key]; ok {
		return msg
	}
	return key
}

var catalogs = map[Locale]map[string]string{
	LocaleEN: {
		"auth.invalid_credentials": "Invalid username or password",
		"auth.password_incorrect": "Current password is incorrect",
		"block.blocked": "Character blocked successfully",
		"block.unblocked": "Character unblocked successfully",
		"poke.sent": "POKE sent",
		"poke.rate_limited": "POKE limit reached, try again later",
		"gate.blocked": "You cannot contact this character",
		"gate.locked": "Messaging is locked until a POKE exchange",
		"profile.private": "This profile is private",
		"friend.request_sent": "Friend request sent",
		"friend.request_accepted": "Friend request accepted",
		"friend.request_declined": "Friend request declined",
	},
	LocalePL: {
		"auth.invalid_credentials": "Nieprawidłowa nazwa użytkownika lub hasło",
		"auth.password_incorrect": "Obecne hasło jest nieprawidłowe",
		"block.blocked": "Postać została zablokowana",
		"block.unblocked": "Postać została odblokowana",
		"poke.sent": "POKE wysłany",
		"poke.rate_limited": "Limit POKE osiągnięty, spróbuj później",
		"gate.blocked": "Nie możesz kontaktować się z tą postacią",
		"gate.locked": "Wiadomości odblokują się po wymianie POKE",
		"profile.private": "Ten profil jest prywatny",
		"friend.request_sent": "Zaproszenie do znajomych wysłane",
		"friend.request_accepted": "Zaproszenie do znajomych przyjęte",
		"friend.request_declined": "Zaproszenie do znajomych odrzucone",
	},
}
