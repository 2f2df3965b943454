package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/go-chi/chi/v5"

	"github.com/crucial707/todoism/internal/auth"
	"github.com/crucial707/todoism/internal/i18n"
	"github.com/crucial707/todoism/internal/metrics"
	"github.com/crucial707/todoism/internal/models"
	"github.com/crucial707/todoism/internal/repo"
	"github.com/crucial707/todoism/internal/respond"
	"github.com/crucial707/todoism/internal/web"
)

// maxDemoAttempts bounds the search for an unused demo username.
const maxDemoAttempts = 10

// localeCookieAge keeps an explicit locale choice for a year.
const localeCookieAge = 365 * 24 * time.Hour

var ErrNoFreeUsername = errors.New("no unused demo username found")

// demoItems are seeded into every demo account.
var demoItems = []string{
	"Witness something truly majestic",
	"Help a complete stranger",
}

// DemoCredentials proposes a username and password for a demo account.
type DemoCredentials func() (username, password string)

// FakeCredentials draws demo credentials from gofakeit.
func FakeCredentials() (string, string) {
	return gofakeit.Username(), gofakeit.Password(true, true, true, false, false, 12)
}

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Users    *repo.UserRepo
	Items    *repo.ItemRepo
	Sessions *auth.SessionManager
	Tokens   *auth.TokenIssuer
	Locales  *i18n.Locales

	// Demo generates /register credentials. Defaults to FakeCredentials.
	Demo DemoCredentials

	// SecureCookies marks the locale cookie Secure.
	SecureCookies bool
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Next     string `json:"next"`
}

// ==========================
// Login / Logout
// ==========================

// Login accepts a JSON body from scripts or a form post from the login page.
// An unknown username and a wrong password fail identically.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserFrom(r.Context()); ok {
		http.Redirect(w, r, "/app", http.StatusFound)
		return
	}

	var in credentials
	err := decode(r, &in, func(v url.Values) {
		in.Username, in.Password, in.Next = v.Get("username"), v.Get("password"), v.Get("next")
	})
	if err != nil {
		h.loginFailed(w, r, in.Next)
		return
	}

	user, err := auth.Authenticate(r.Context(), h.Users, strings.TrimSpace(in.Username), in.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		h.loginFailed(w, r, in.Next)
		return
	}
	if err != nil {
		respond.Internal(w, r, fmt.Errorf("authenticate: %w", err))
		return
	}

	if _, err := h.Sessions.Login(r.Context(), w, user); err != nil {
		respond.Internal(w, r, fmt.Errorf("login: %w", err))
		return
	}
	metrics.RecordLogin(true)

	if browserForm(r) {
		http.Redirect(w, r, localPath(in.Next, "/app"), http.StatusSeeOther)
		return
	}
	respond.JSON(w, http.StatusOK, respond.Message{Message: i18n.T(r.Context(), "login success")})
}

func (h *AuthHandler) loginFailed(w http.ResponseWriter, r *http.Request, next string) {
	metrics.RecordLogin(false)
	if browserForm(r) {
		render(w, r, h.Locales, http.StatusBadRequest, "login.html", "Login",
			web.LoginData{Next: localPath(next, ""), Error: "Invalid credentials"})
		return
	}
	respond.JSON(w, http.StatusBadRequest, respond.Message{Message: i18n.T(r.Context(), "Invalid credentials")})
}

// Logout revokes the session. With ?next= the browser is sent on.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Logout(r.Context(), w, r); err != nil {
		respond.Internal(w, r, fmt.Errorf("logout: %w", err))
		return
	}
	if next := r.URL.Query().Get("next"); next != "" {
		http.Redirect(w, r, localPath(next, "/"), http.StatusFound)
		return
	}
	respond.JSON(w, http.StatusOK, respond.Message{Message: i18n.T(r.Context(), "Logout Success")})
}

// ==========================
// Register (demo account)
// ==========================

type demoAccount struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Message  string `json:"message"`
}

// Register creates a throwaway account with generated credentials and two
// sample items, and returns the credentials in plain text once.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	user, password, err := h.createDemoUser(r)
	if err != nil {
		respond.Internal(w, r, err)
		return
	}
	for _, body := range demoItems {
		if _, err := h.Items.Create(r.Context(), user.ID, body); err != nil {
			respond.Internal(w, r, fmt.Errorf("seed demo item: %w", err))
			return
		}
	}
	metrics.IncDemoUsers()

	respond.JSON(w, http.StatusOK, demoAccount{
		Username: user.Username,
		Password: password,
		Message:  i18n.T(r.Context(), "Generate success."),
	})
}

// createDemoUser retries until a generated username is free. A concurrent
// registration taking the same name surfaces as ErrUsernameTaken and retries too.
func (h *AuthHandler) createDemoUser(r *http.Request) (*models.User, string, error) {
	gen := h.Demo
	if gen == nil {
		gen = FakeCredentials
	}

	for attempt := 0; attempt < maxDemoAttempts; attempt++ {
		username, password := gen()
		exists, err := h.Users.ExistsByUsername(r.Context(), username)
		if err != nil {
			return nil, "", fmt.Errorf("check username: %w", err)
		}
		if exists {
			continue
		}

		hash, err := auth.HashPassword(password)
		if err != nil {
			return nil, "", fmt.Errorf("hash password: %w", err)
		}
		user, err := h.Users.Create(r.Context(), username, hash)
		if errors.Is(err, repo.ErrUsernameTaken) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("create demo user: %w", err)
		}
		return user, password, nil
	}
	return nil, "", ErrNoFreeUsername
}

// ==========================
// Token (API password grant)
// ==========================

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Token exchanges a username and password for a bearer token (OAuth2 password grant).
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var in struct {
		GrantType string `json:"grant_type"`
		credentials
	}
	err := decode(r, &in, func(v url.Values) {
		in.GrantType, in.Username, in.Password = v.Get("grant_type"), v.Get("username"), v.Get("password")
	})
	if err != nil {
		badRequest(w, r, "Bad request")
		return
	}
	if !strings.EqualFold(in.GrantType, "password") {
		badRequest(w, r, "The grant type must be password.")
		return
	}

	user, err := auth.Authenticate(r.Context(), h.Users, strings.TrimSpace(in.Username), in.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		metrics.RecordLogin(false)
		badRequest(w, r, "Either the username or password was invalid.")
		return
	}
	if err != nil {
		respond.Internal(w, r, fmt.Errorf("authenticate: %w", err))
		return
	}

	token, err := h.Tokens.Issue(user)
	if err != nil {
		respond.Internal(w, r, fmt.Errorf("issue token: %w", err))
		return
	}
	metrics.RecordLogin(true)

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	respond.JSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.Tokens.Lifetime().Seconds()),
	})
}

// ==========================
// Locale
// ==========================

// SetLocale stores the chosen locale in a cookie and, when signed in, on the
// user. The confirmation is already in the new locale.
func (h *AuthHandler) SetLocale(w http.ResponseWriter, r *http.Request) {
	locale := chi.URLParam(r, "locale")
	if !h.Locales.Supported(locale) {
		respond.Error(w, r, http.StatusNotFound, "Page Not Found")
		return
	}

	if user, ok := auth.UserFrom(r.Context()); ok {
		if err := h.Users.UpdateLocale(r.Context(), user.ID, locale); err != nil {
			respond.Internal(w, r, fmt.Errorf("update locale: %w", err))
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     i18n.CookieName,
		Value:    locale,
		Path:     "/",
		MaxAge:   int(localeCookieAge.Seconds()),
		Secure:   h.SecureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if next := r.URL.Query().Get("next"); next != "" {
		http.Redirect(w, r, localPath(next, "/"), http.StatusFound)
		return
	}
	respond.JSON(w, http.StatusOK, respond.Message{Message: h.Locales.Printer(locale).Sprintf("Locale updated.")})
}
