package middleware

import (
	"context"
	"net/http"

	"github.com/nickfinder/nickfinder-api/internal/pkg/i18n"
)

const LocaleKey contextKey = "locale"

// Locale resolves the request locale from the ?lang= override or the
// Accept-Language header and stores it in the request context.
func Locale(bundle *i18n.Bundle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			loc := bundle.Resolve(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
			ctx := context.WithValue(r.Context(), LocaleKey, loc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetLocale extracts the resolved locale from context
func GetLocale(ctx context.Context) i18n.Locale {
	if loc, ok := ctx.Value(LocaleKey).(i18n.Locale); ok {
		return loc
	}
	return i18n.LocaleEN
}
