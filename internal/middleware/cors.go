package middleware

import (
	"net/http"
	"strings"
)

// CORSAllowedMethods are the methods the /api/v1 scope answers.
var CORSAllowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}

// CORSAllowedHeaders are the request headers API clients may send.
var CORSAllowedHeaders = []string{"Accept", "Accept-Language", "Authorization", "Content-Type"}

// CORS sets CORS response headers for the listed origins and answers OPTIONS
// preflights. With no origins it is a no-op.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowed[origin] || allowed["*"]) {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
				h.Set("Access-Control-Allow-Methods", strings.Join(CORSAllowedMethods, ", "))
				h.Set("Access-Control-Allow-Headers", strings.Join(CORSAllowedHeaders, ", "))
				h.Set("Access-Control-Max-Age", "86400")
			}
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
