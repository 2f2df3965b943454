// Package app wires configuration, storage and handlers into the HTTP router.
package app

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crucial707/todoism/internal/auth"
	"github.com/crucial707/todoism/internal/config"
	"github.com/crucial707/todoism/internal/handlers"
	"github.com/crucial707/todoism/internal/i18n"
	"github.com/crucial707/todoism/internal/middleware"
	"github.com/crucial707/todoism/internal/models"
	"github.com/crucial707/todoism/internal/repo"
	"github.com/crucial707/todoism/internal/respond"
)

// App holds everything a request may need. It is built once at startup and
// shared read-only by all requests.
type App struct {
	Config config.Config
	DB     *sql.DB

	Users    *repo.UserRepo
	Items    *repo.ItemRepo
	Sessions *repo.SessionRepo

	SessionManager *auth.SessionManager
	Tokens         *auth.TokenIssuer

	Locales  *i18n.Locales
	Selector *i18n.Selector

	// Demo overrides demo credential generation; nil uses gofakeit.
	Demo handlers.DemoCredentials
}

func New(cfg config.Config, pool *sql.DB) (*App, error) {
	locales, err := i18n.New(cfg.Locales, cfg.DefaultLocale)
	if err != nil {
		return nil, fmt.Errorf("locales: %w", err)
	}

	a := &App{
		Config:   cfg,
		DB:       pool,
		Users:    repo.NewUserRepo(pool),
		Items:    repo.NewItemRepo(pool),
		Sessions: repo.NewSessionRepo(pool),
		Tokens:   auth.NewTokenIssuer(cfg.SecretKey, cfg.TokenLifetime),
		Locales:  locales,
	}
	a.SessionManager = auth.NewSessionManager(a.Sessions, a.Users, cfg.SecretKey, cfg.SessionLifetime, a.secure())
	a.Selector = i18n.NewSelector(locales,
		middleware.UserLocale,
		i18n.FromCookie(i18n.CookieName),
		i18n.FromAcceptLanguage(locales),
	)
	return a, nil
}

// secure reports whether cookies must be limited to HTTPS.
func (a *App) secure() bool {
	return a.Config.IsProd() || a.Config.TLS()
}

// Router builds the full handler tree.
func (a *App) Router() http.Handler {
	items := &handlers.ItemHandler{Items: a.Items, PerPage: a.Config.ItemsPerPage}
	home := &handlers.HomeHandler{Items: items, Locales: a.Locales}
	users := &handlers.UserHandler{Users: a.Users, Items: a.Items, Sessions: a.Sessions}
	authH := &handlers.AuthHandler{
		Users:         a.Users,
		Items:         a.Items,
		Sessions:      a.SessionManager,
		Tokens:        a.Tokens,
		Locales:       a.Locales,
		Demo:          a.Demo,
		SecureCookies: a.secure(),
	}

	loginLimiter := middleware.AuthRateLimiter().TrustProxy(a.Config.TrustProxy)
	registerLimiter := middleware.RegisterRateLimiter().TrustProxy(a.Config.TrustProxy)

	// Per-request storage scope: one transaction, then the user, then the locale.
	scoped := chi.Chain(
		middleware.Tx(a.DB),
		middleware.LoadSession(a.SessionManager),
		middleware.Locale(a.Selector),
	)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(a.Config.TLS()))
	// Error pages outside the scoped groups still need a locale.
	r.Use(middleware.Locale(a.Selector))

	// Set before mounting so sub-routers inherit them.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, r, http.StatusNotFound, "Page Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, r, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Get("/health", handlers.Health)
	r.Get("/ready", handlers.Ready(a.DB))
	r.Handle("/metrics", promhttp.Handler())

	// Web scope
	r.Group(func(r chi.Router) {
		r.Use(middleware.MaxBytes(0))
		r.Use(middleware.CSRF(a.Config.SecretKey, a.Config.CSRFEnabled, a.secure()))
		r.Use(scoped...)

		r.Get("/", home.Index)
		r.Get("/login", home.LoginPage)
		r.With(loginLimiter.Middleware).Post("/login", authH.Login)
		r.With(registerLimiter.Middleware).Get("/register", authH.Register)
		r.Get("/set-locale/{locale}", authH.SetLocale)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/logout", authH.Logout)
			r.Get("/app", home.App)
			r.Post("/account/password", users.ChangePassword)
			r.Route("/items", func(r chi.Router) {
				r.Get("/", items.List)
				r.Post("/", items.Create)
				r.Post("/clear", items.Clear)
				r.Get("/{id}", items.Get)
				r.Put("/{id}", items.Update)
				r.Delete("/{id}", items.Delete)
				r.Patch("/{id}/toggle", items.Toggle)
				// Form fallbacks: HTML forms can only GET and POST.
				r.Post("/{id}/toggle", items.Toggle)
				r.Post("/{id}/edit", items.Update)
				r.Post("/{id}/delete", items.Delete)
			})
		})
	})

	// API scope: no CSRF, bearer token or session.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CORS(a.Config.CORSAllowedOrigins))
		r.Use(middleware.MaxBytes(0))
		r.Use(scoped...)

		r.Get("/", handlers.APIIndex)
		r.With(loginLimiter.Middleware).Post("/oauth/token", authH.Token)

		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerOrSession(a.Tokens, a.Users))
			r.Get("/user", users.Current)
			r.Put("/user/password", users.ChangePassword)
			r.Route("/user/items", func(r chi.Router) {
				r.Get("/", items.List)
				r.Post("/", items.Create)
				r.Get("/active", items.ListFiltered(models.FilterActive))
				r.Get("/completed", items.ListFiltered(models.FilterDone))
				r.Post("/clear", items.Clear)
				r.Get("/{id}", items.Get)
				r.Put("/{id}", items.Update)
				r.Patch("/{id}", items.Toggle)
				r.Delete("/{id}", items.Delete)
			})
		})
	})

	return r
}
