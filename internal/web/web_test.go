package web

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crucial707/todoism/internal/models"
)

func upper(s string) string { return strings.ToUpper(s) }

func TestRender_Login(t *testing.T) {
	rr := httptest.NewRecorder()
	err := Render(rr, http.StatusOK, "login.html", upper, Page{
		Locale:    "en_US",
		Locales:   []string{"en_US", "zh_Hans_CN"},
		CSRFField: template.HTML(`<input type="hidden" name="gorilla.csrf.Token" value="tok">`),
		Data:      LoginData{Next: "/app", Error: "Invalid credentials"},
	})
	require.NoError(t, err)

	body := rr.Body.String()
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, body, "TRY A DEMO ACCOUNT")
	assert.Contains(t, body, `value="tok"`)
	assert.Contains(t, body, `name="next" value="/app"`)
	assert.Contains(t, body, "INVALID CREDENTIALS")
	assert.Contains(t, body, `href="/set-locale/zh_Hans_CN?next=/"`)
}

func TestRender_AppEscapesBodies(t *testing.T) {
	rr := httptest.NewRecorder()
	err := Render(rr, http.StatusOK, "app.html", upper, Page{
		User: &models.User{Username: "alice"},
		Data: AppData{
			Items:       []models.Item{{ID: 1, Body: "<b>milk</b>"}, {ID: 2, Body: "eggs", Done: true}},
			Filter:      models.FilterAll,
			Page:        2,
			ActiveItems: 1,
			HasNext:     true,
		},
	})
	require.NoError(t, err)

	body := rr.Body.String()
	assert.Contains(t, body, "&lt;b&gt;milk&lt;/b&gt;")
	assert.Contains(t, body, `class="done"`)
	assert.Contains(t, body, "alice")
	assert.Contains(t, body, "page=1")
	assert.Contains(t, body, "page=3")
}

func TestRender_AppItemControls(t *testing.T) {
	rr := httptest.NewRecorder()
	err := Render(rr, http.StatusOK, "app.html", upper, Page{
		CSRFField: template.HTML(`<input type="hidden" name="gorilla.csrf.Token" value="tok">`),
		Data: AppData{
			Items: []models.Item{{ID: 1, Body: "milk"}, {ID: 2, Body: "eggs", Done: true}},
			Page:  1,
		},
	})
	require.NoError(t, err)

	body := rr.Body.String()
	for _, action := range []string{"/items/1/toggle", "/items/1/edit", "/items/1/delete", "/items/2/toggle"} {
		assert.Contains(t, body, `action="`+action+`"`)
	}
	assert.Contains(t, body, `name="body" value="milk"`)
	assert.Contains(t, body, ">DONE<")
	assert.Contains(t, body, ">UNDO<")
	// One token per item form plus the add and clear forms.
	assert.Equal(t, 2*3+2, strings.Count(body, `value="tok"`))
}

func TestRender_Errors(t *testing.T) {
	rr := httptest.NewRecorder()
	err := Render(rr, http.StatusNotFound, "errors.html", upper, Page{
		Data: ErrorData{Code: 404, Message: "Page Not Found"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "PAGE NOT FOUND")
}

func TestRender_UnknownTemplate(t *testing.T) {
	rr := httptest.NewRecorder()
	err := Render(rr, http.StatusOK, "missing.html", upper, Page{})
	assert.Error(t, err)
	assert.Equal(t, 0, rr.Body.Len())
}

func TestRender_TranslatorIsPerCall(t *testing.T) {
	page := Page{Data: ErrorData{Code: 404, Message: "Page Not Found"}}

	first := httptest.NewRecorder()
	require.NoError(t, Render(first, http.StatusNotFound, "errors.html", upper, page))
	second := httptest.NewRecorder()
	require.NoError(t, Render(second, http.StatusNotFound, "errors.html", strings.ToLower, page))

	assert.Contains(t, first.Body.String(), "PAGE NOT FOUND")
	assert.Contains(t, second.Body.String(), "page not found")
	assert.NotContains(t, second.Body.String(), "PAGE NOT FOUND")
}

func TestPages_ParsedOnce(t *testing.T) {
	for _, name := range []string{"login.html", "app.html", "errors.html"} {
		assert.Contains(t, pages, name)
	}
	assert.NotContains(t, pages, "layout.html")
}
