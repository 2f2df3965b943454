package middleware

import (
	"net/http"

	"github.com/crucial707/todoism/internal/respond"
)

// DefaultMaxBodyBytes caps request bodies at 64 KiB; item bodies are at most 500 characters.
const DefaultMaxBodyBytes = 64 << 10

// MaxBytes limits the request body size. A declared Content-Length over the
// limit is refused up front with 413; otherwise reads past the limit fail.
func MaxBytes(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				respond.Error(w, r, http.StatusRequestEntityTooLarge, "")
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
