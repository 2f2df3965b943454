package middleware

import (
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/csrf"

	"github.com/crucial707/todoism/internal/respond"
)

// CSRF protects state-changing web requests. Forms carry the token in a hidden
// field; scripts send it in X-CSRF-Token. When disabled it is a no-op.
func CSRF(secret string, enabled, secure bool) func(http.Handler) http.Handler {
	if !enabled {
		return func(next http.Handler) http.Handler { return next }
	}
	key := sha256.Sum256([]byte("csrf:" + secret))
	protect := csrf.Protect(key[:],
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			respond.Error(w, r, http.StatusForbidden, "Forbidden")
		})),
	)
	return func(next http.Handler) http.Handler {
		h := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.TLS == nil {
				r = csrf.PlaintextHTTPRequest(r)
			}
			h.ServeHTTP(w, r)
		})
	}
}
