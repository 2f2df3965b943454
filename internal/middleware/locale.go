package middleware

import (
	"net/http"

	"github.com/crucial707/todoism/internal/auth"
	"github.com/crucial707/todoism/internal/i18n"
)

// UserLocale proposes the signed-in user's stored preference.
func UserLocale(r *http.Request) (string, bool) {
	u, ok := auth.UserFrom(r.Context())
	if !ok || u.Locale == nil || *u.Locale == "" {
		return "", false
	}
	return *u.Locale, true
}

// Locale resolves the display locale once per request and stores it, with
// its printer, in the context. Run it after the user is known.
func Locale(sel *i18n.Selector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			loc := sel.Select(r)
			ctx := i18n.WithLocale(r.Context(), loc, sel.Locales().Printer(loc))
			w.Header().Set("Content-Language", loc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
