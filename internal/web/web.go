// Package web renders the server-side HTML pages.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"

	"github.com/crucial707/todoism/internal/models"
)

//go:embed templates
var templatesFS embed.FS

// pages maps each page file to its template set, parsed once together with the layout.
var pages = mustParsePages()

func mustParsePages() map[string]*template.Template {
	files, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		panic(err)
	}
	// t is replaced per request; the stub only lets the templates parse.
	funcs := template.FuncMap{
		"t":   func(key string) string { return key },
		"add": func(a, b int) int { return a + b },
	}
	out := make(map[string]*template.Template, len(files))
	for _, file := range files {
		name := path.Base(file)
		if name == "layout.html" {
			continue
		}
		out[name] = template.Must(template.New(name).Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", file))
	}
	return out
}

// Page is the data every template receives.
type Page struct {
	Title   string
	Locale  string
	Locales []string
	User    *models.User

	// CSRFField is the hidden input carrying the CSRF token, empty when CSRF is off.
	CSRFField template.HTML
	CSRFToken string

	Data any
}

// ErrorData is the Page.Data of errors.html.
type ErrorData struct {
	Code    int
	Message string
}

// LoginData is the Page.Data of login.html.
type LoginData struct {
	Next  string
	Error string
}

// AppData is the Page.Data of app.html.
type AppData struct {
	Items       []models.Item
	Filter      models.ItemFilter
	Page        int
	PerPage     int
	Total       int
	ActiveItems int
	HasNext     bool
}

// Render executes templates/<name> inside the layout and writes it with status.
// t translates message keys for the request's locale.
func Render(w http.ResponseWriter, status int, name string, t func(string) string, p Page) error {
	base, ok := pages[name]
	if !ok {
		return fmt.Errorf("unknown template %s", name)
	}
	tmpl, err := base.Clone()
	if err != nil {
		return fmt.Errorf("clone %s: %w", name, err)
	}
	tmpl.Funcs(template.FuncMap{"t": t})

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", p); err != nil {
		return fmt.Errorf("execute %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}
