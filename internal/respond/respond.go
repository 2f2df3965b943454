// Package respond writes JSON bodies and negotiated error responses.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/crucial707/todoism/internal/auth"
	"github.com/crucial707/todoism/internal/i18n"
	"github.com/crucial707/todoism/internal/web"
)

// ErrorBody is the JSON error payload.
type ErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Message is the body of most successful mutations.
type Message struct {
	Message string `json:"message"`
}

// JSON writes v as the response body.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// Error writes status with message, a message key translated for the request's
// locale. API paths and clients that want JSON get {code, message}; everyone
// else gets the errors page.
func Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	if message == "" {
		message = http.StatusText(status)
	}
	if WantsJSON(r) {
		JSON(w, status, ErrorBody{Code: status, Message: i18n.T(r.Context(), message)})
		return
	}

	user, _ := auth.UserFrom(r.Context())
	page := web.Page{
		Title:  message,
		Locale: i18n.LocaleFrom(r.Context()),
		User:   user,
		Data:   web.ErrorData{Code: status, Message: message},
	}
	tr := func(key string) string { return i18n.T(r.Context(), key) }
	if err := web.Render(w, status, "errors.html", tr, page); err != nil {
		slog.Error("render error page", "request_id", chimw.GetReqID(r.Context()), "error", err)
		http.Error(w, http.StatusText(status), status)
	}
}

// ValidationError writes 400 with per-field messages. Validation failures only
// come from JSON and form submissions, so the body is always JSON.
func ValidationError(w http.ResponseWriter, r *http.Request, fields map[string]string) {
	JSON(w, http.StatusBadRequest, ErrorBody{
		Code:    http.StatusBadRequest,
		Message: i18n.T(r.Context(), "Validation failed"),
		Fields:  fields,
	})
}

// Internal logs err and writes a generic 500.
func Internal(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal error",
		"request_id", chimw.GetReqID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"error", err)
	Error(w, r, http.StatusInternalServerError, "Internal Server Error")
}

// IsAPI reports whether r targets the /api scope.
func IsAPI(r *http.Request) bool {
	return r.URL.Path == "/api" || strings.HasPrefix(r.URL.Path, "/api/")
}

// WantsJSON reports whether the error for r should be rendered as JSON.
func WantsJSON(r *http.Request) bool {
	return IsAPI(r) || PrefersJSON(r)
}
