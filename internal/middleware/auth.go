package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/crucial707/todoism/internal/auth"
	"github.com/crucial707/todoism/internal/models"
	"github.com/crucial707/todoism/internal/repo"
	"github.com/crucial707/todoism/internal/respond"
)

// SessionLoader resolves a session cookie to its user.
type SessionLoader interface {
	Load(ctx context.Context, r *http.Request) (*models.User, models.Session, error)
}

// UserGetter loads the user named by a bearer token.
type UserGetter interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// TokenParser verifies a bearer token and returns its user id.
type TokenParser interface {
	Parse(token string) (int, error)
}

// LoadSession puts the session's user in the request context. Missing,
// tampered and expired cookies leave the request anonymous.
func LoadSession(sessions SessionLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, s, err := sessions.Load(r.Context(), r)
			switch {
			case err == nil:
				ctx := auth.WithSessionID(auth.WithUser(r.Context(), user), s.ID)
				r = r.WithContext(ctx)
				noteUser(r)
			case errors.Is(err, auth.ErrNoSession),
				errors.Is(err, auth.ErrBadSignature),
				errors.Is(err, auth.ErrSessionExpired):
			default:
				respond.Internal(w, r, fmt.Errorf("load session: %w", err))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth guards web routes. Clients that prefer JSON get 401; browsers
// are redirected to the login page with the original URL in next.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.UserFrom(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}
		if respond.PrefersJSON(r) {
			respond.Error(w, r, http.StatusUnauthorized, "Please login to access this page")
			return
		}
		http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
	})
}

// tokenError is the RFC 6750 flavoured 401 body for a rejected bearer token.
type tokenError struct {
	Code             int    `json:"code"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// BearerOrSession guards the API scope. An Authorization header must carry a
// valid bearer token; without one, a session user loaded earlier is accepted.
func BearerOrSession(tokens TokenParser, users UserGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				if _, ok := auth.UserFrom(r.Context()); ok {
					next.ServeHTTP(w, r)
					return
				}
				w.Header().Set("WWW-Authenticate", `Bearer realm="todoism"`)
				respond.Error(w, r, http.StatusUnauthorized, "Unauthorized")
				return
			}

			scheme, token, _ := strings.Cut(header, " ")
			if !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				invalidToken(w, "Authorization header must be: Bearer <token>")
				return
			}
			id, err := tokens.Parse(strings.TrimSpace(token))
			if err != nil {
				invalidToken(w, "The access token is invalid or expired")
				return
			}
			user, err := users.GetByID(r.Context(), id)
			if errors.Is(err, repo.ErrNotFound) {
				invalidToken(w, "The access token owner no longer exists")
				return
			}
			if err != nil {
				respond.Internal(w, r, fmt.Errorf("load token user: %w", err))
				return
			}

			r = r.WithContext(auth.WithUser(r.Context(), user))
			noteUser(r)
			next.ServeHTTP(w, r)
		})
	}
}

func invalidToken(w http.ResponseWriter, description string) {
	w.Header().Set("WWW-Authenticate", fmt.Sprintf(`Bearer error="invalid_token", error_description=%q`, description))
	respond.JSON(w, http.StatusUnauthorized, tokenError{
		Code:             http.StatusUnauthorized,
		Message:          "Unauthorized",
		Error:            "invalid_token",
		ErrorDescription: description,
	})
}
