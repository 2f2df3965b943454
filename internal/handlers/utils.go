package handlers

import (
	"encoding/json"
	"errors"
	"html"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"

	"github.com/crucial707/todoism/internal/auth"
	"github.com/crucial707/todoism/internal/models"
	"github.com/crucial707/todoism/internal/respond"
)

var errEmptyBody = errors.New("request body is empty")

var stripTags = bluemonday.StrictPolicy()

// cleanText removes any markup from user input and trims it. Entities are
// decoded because bodies are stored as plain text and escaped on output.
func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(stripTags.Sanitize(s)))
}

// isForm reports whether r carries an HTML form submission.
func isForm(r *http.Request) bool {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return ct == "application/x-www-form-urlencoded" || ct == "multipart/form-data"
}

// decode reads a JSON body into dst. Form submissions are handed to fill instead.
func decode(r *http.Request, dst any, fill func(url.Values)) error {
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			return err
		}
		fill(r.PostForm)
		return nil
	}
	if r.Body == nil {
		return errEmptyBody
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return nil
}

// parseID reads the {id} URL parameter.
func parseID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil && id > 0
}

// pageParam reads ?page=, treating anything below 1 or non-numeric as 1.
func pageParam(r *http.Request) int {
	p, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || p < 1 {
		return 1
	}
	return p
}

// currentUser returns the signed-in user. Routes using it sit behind an auth
// middleware, so a missing user is answered with 401.
func currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	u, ok := auth.UserFrom(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "Unauthorized")
	}
	return u, ok
}

// browserForm reports whether r is a plain form post from a page, which
// expects a redirect rather than a JSON body.
func browserForm(r *http.Request) bool {
	return isForm(r) && !respond.WantsJSON(r)
}

// localPath returns next if it is a path on this site, otherwise fallback.
func localPath(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	if u, err := url.Parse(next); err != nil || u.Host != "" || u.Scheme != "" {
		return fallback
	}
	return next
}
