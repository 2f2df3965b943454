package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/crucial707/todoism/internal/auth"
)

// statusRecorder wraps http.ResponseWriter to capture status and size.
type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

// RequestLog logs each request with request_id, method, path, status, duration and size.
// Use after RequestID middleware so the ID is available.
func RequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := newStatusRecorder(w)

		// The user is resolved further down the chain; capture it on the way out.
		var userID int
		next.ServeHTTP(rec, r.WithContext(withUserSink(r.Context(), &userID)))

		attrs := []any{
			"request_id", chimw.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"size", rec.size,
		}
		if userID != 0 {
			attrs = append(attrs, "user_id", userID)
		}
		slog.Info("request", attrs...)
	})
}

// noteUser reports the authenticated user to RequestLog, if it is in the chain.
func noteUser(r *http.Request) {
	if sink := userSinkFrom(r.Context()); sink != nil {
		if u, ok := auth.UserFrom(r.Context()); ok {
			*sink = u.ID
		}
	}
}
