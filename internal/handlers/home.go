package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gorilla/csrf"

	"github.com/crucial707/todoism/internal/auth"
	"github.com/crucial707/todoism/internal/i18n"
	"github.com/crucial707/todoism/internal/models"
	"github.com/crucial707/todoism/internal/respond"
	"github.com/crucial707/todoism/internal/web"
)

// HomeHandler serves the HTML pages.
type HomeHandler struct {
	Items   *ItemHandler
	Locales *i18n.Locales
}

// Index sends signed-in users to the app and everyone else to the login page.
func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserFrom(r.Context()); ok {
		http.Redirect(w, r, "/app", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *HomeHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserFrom(r.Context()); ok {
		http.Redirect(w, r, "/app", http.StatusFound)
		return
	}
	render(w, r, h.Locales, http.StatusOK, "login.html", "Login",
		web.LoginData{Next: localPath(r.URL.Query().Get("next"), "")})
}

// App renders the item list with the active count.
func (h *HomeHandler) App(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	f, ok := models.ParseItemFilter(r.URL.Query().Get("filter"))
	if !ok {
		respond.Error(w, r, http.StatusBadRequest, "Bad request")
		return
	}
	page, err := h.Items.LoadPage(r.Context(), user.ID, f, pageParam(r))
	if err != nil {
		respond.Internal(w, r, err)
		return
	}
	render(w, r, h.Locales, http.StatusOK, "app.html", "", web.AppData{
		Items:       page.Items,
		Filter:      page.Filter,
		Page:        page.Page,
		PerPage:     page.PerPage,
		Total:       page.Total,
		ActiveItems: page.ActiveItems,
		HasNext:     page.HasNext(),
	})
}

// render fills the common page fields and renders name.
func render(w http.ResponseWriter, r *http.Request, locales *i18n.Locales, status int, name, title string, data any) {
	ctx := r.Context()
	user, _ := auth.UserFrom(ctx)
	page := web.Page{
		Title:     title,
		Locale:    i18n.LocaleFrom(ctx),
		Locales:   locales.All(),
		User:      user,
		CSRFField: csrf.TemplateField(r),
		CSRFToken: csrf.Token(r),
		Data:      data,
	}
	tr := func(key string) string { return i18n.T(ctx, key) }
	if err := web.Render(w, status, name, tr, page); err != nil {
		respond.Internal(w, r, err)
	}
}

// Health reports that the process is serving.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// Ready pings the database.
func Ready(pool *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.PingContext(ctx); err != nil {
			respond.Error(w, r, http.StatusServiceUnavailable, "")
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ready"))
	}
}
