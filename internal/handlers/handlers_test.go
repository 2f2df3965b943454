package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/crucial707/todoism/internal/auth"
	"github.com/crucial707/todoism/internal/i18n"
	"github.com/crucial707/todoism/internal/models"
)

var (
	userColumns = []string{"id", "username", "password_hash", "locale", "created_at"}
	itemColumns = []string{"id", "body", "done", "user_id", "created_at", "updated_at"}
	fixedTime   = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func cheapHash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(h)
}

func testLocales(t *testing.T) *i18n.Locales {
	t.Helper()
	l, err := i18n.New([]string{"en_US", "zh_Hans_CN"}, "en_US")
	if err != nil {
		t.Fatalf("i18n.New: %v", err)
	}
	return l
}

// requestWithChiURLParams returns a request with chi route context and URL params set.
func requestWithChiURLParams(method, path string, body []byte, params map[string]string) *http.Request {
	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// asUser marks r as authenticated by u.
func asUser(r *http.Request, u *models.User) *http.Request {
	return r.WithContext(auth.WithUser(r.Context(), u))
}

// inLocale resolves r to locale.
func inLocale(r *http.Request, l *i18n.Locales, locale string) *http.Request {
	return r.WithContext(i18n.WithLocale(r.Context(), locale, l.Printer(locale)))
}
