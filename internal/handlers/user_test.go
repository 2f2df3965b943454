package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crucial707/todoism/internal/auth"
	"github.com/crucial707/todoism/internal/models"
	"github.com/crucial707/todoism/internal/repo"
	"github.com/crucial707/todoism/internal/respond"
)

func newUserHandler(t *testing.T) (*UserHandler, sqlmock.Sqlmock) {
	db, mock := newMock(t)
	return &UserHandler{
		Users:    repo.NewUserRepo(db),
		Items:    repo.NewItemRepo(db),
		Sessions: repo.NewSessionRepo(db),
	}, mock
}

func TestUserHandler_Current(t *testing.T) {
	h, mock := newUserHandler(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM items WHERE user_id = \$1$`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM items WHERE user_id = \$1 AND done = FALSE`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	u := &models.User{ID: 1, Username: "alice", PasswordHash: "secret-hash"}
	req := asUser(requestWithChiURLParams("GET", "/api/v1/user", nil, nil), u)
	rr := httptest.NewRecorder()
	h.Current(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var out map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	assert.Equal(t, "alice", out["username"])
	assert.EqualValues(t, 5, out["total_items"])
	assert.EqualValues(t, 2, out["active_items"])
	assert.Equal(t, "/api/v1/user/items", out["items_url"])
	assert.NotContains(t, out, "password_hash")
	assert.NotContains(t, rr.Body.String(), "secret-hash")
	expectationsMet(t, mock)
}

func TestUserHandler_ChangePassword(t *testing.T) {
	h, mock := newUserHandler(t)

	mock.ExpectExec(`UPDATE users SET password_hash = \$1 WHERE id = \$2`).
		WithArgs(sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM sessions WHERE user_id = \$1 AND id <> \$2`).
		WithArgs(1, "current-session").
		WillReturnResult(sqlmock.NewResult(0, 3))

	u := &models.User{ID: 1, Username: "alice", PasswordHash: cheapHash(t, "old-pass")}
	req := asUser(requestWithChiURLParams("POST", "/account/password",
		[]byte(`{"old_password":"old-pass","new_password":"new-pass"}`), nil), u)
	req = req.WithContext(auth.WithSessionID(req.Context(), "current-session"))
	rr := httptest.NewRecorder()
	h.ChangePassword(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Password updated."}`, rr.Body.String())
	expectationsMet(t, mock)
}

func TestUserHandler_ChangePassword_TokenClientRevokesAllSessions(t *testing.T) {
	h, mock := newUserHandler(t)

	mock.ExpectExec(`UPDATE users SET password_hash`).
		WithArgs(sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM sessions WHERE user_id = \$1$`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	u := &models.User{ID: 1, Username: "alice", PasswordHash: cheapHash(t, "old-pass")}
	req := asUser(requestWithChiURLParams("PUT", "/api/v1/user/password",
		[]byte(`{"old_password":"old-pass","new_password":"new-pass"}`), nil), u)
	rr := httptest.NewRecorder()
	h.ChangePassword(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	expectationsMet(t, mock)
}

func TestUserHandler_ChangePassword_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"wrong old password", `{"old_password":"guess","new_password":"new-pass"}`, "old_password"},
		{"short new password", `{"old_password":"old-pass","new_password":"abc"}`, "new_password"},
		{"missing old password", `{"new_password":"new-pass"}`, "old_password"},
		{"new password over 72 bytes", `{"old_password":"old-pass","new_password":"` + strings.Repeat("p", 100) + `"}`, "new_password"},
		{"multi-byte new password over 72 bytes", `{"old_password":"old-pass","new_password":"` + strings.Repeat("密", 25) + `"}`, "new_password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mock := newUserHandler(t)
			u := &models.User{ID: 1, Username: "alice", PasswordHash: cheapHash(t, "old-pass")}
			req := asUser(requestWithChiURLParams("PUT", "/api/v1/user/password", []byte(tt.body), nil), u)
			rr := httptest.NewRecorder()
			h.ChangePassword(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			var out respond.ErrorBody
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
			assert.Contains(t, out.Fields, tt.field)
			expectationsMet(t, mock)
		})
	}
}
