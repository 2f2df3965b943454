package users

import (
	"bytes"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crucial707/todoism/cmd/cli/root"
)

var userColumns = []string{"id", "username", "password_hash", "locale", "created_at"}

// withMockDB points the commands at a sqlmock pool.
func withMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	open := root.OpenDB
	root.OpenDB = func() (*sql.DB, error) { return db, nil }
	t.Cleanup(func() {
		root.OpenDB = open
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("expectations: %v", err)
		}
	})
	return mock
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(append([]string{}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestListUsers_TableOutput(t *testing.T) {
	mock := withMockDB(t)
	created := time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, username, password_hash, locale, created_at FROM users ORDER BY id LIMIT \$1 OFFSET \$2`).
		WithArgs(50, 0).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(1, "alice", "h", "zh_Hans_CN", created).
			AddRow(2, "bob", "h", nil, created))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	out, err := run(t, listUsersCmd())
	require.NoError(t, err)

	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "zh_Hans_CN")
	assert.Contains(t, out, "bob")
	assert.Contains(t, out, "2026-01-02 03:04")
	assert.Contains(t, out, "2 of 12 users")
}

func TestListUsers_JSONOutput(t *testing.T) {
	mock := withMockDB(t)
	mock.ExpectQuery(`FROM users ORDER BY id`).
		WithArgs(10, 5).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(6, "alice", "h", nil, time.Now()))

	out, err := run(t, listUsersCmd(), "--json", "--limit", "10", "--offset", "5")
	require.NoError(t, err)

	assert.Contains(t, out, `"username": "alice"`)
	assert.NotContains(t, out, "password")
}

func TestDeleteUser(t *testing.T) {
	mock := withMockDB(t)
	mock.ExpectQuery(`FROM users WHERE username = \$1`).WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "alice", "h", nil, time.Now()))
	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	out, err := run(t, deleteUserCmd(), "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted user alice.")
}

func TestDeleteUser_Unknown(t *testing.T) {
	mock := withMockDB(t)
	mock.ExpectQuery(`FROM users WHERE username = \$1`).WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := run(t, deleteUserCmd(), "ghost")
	assert.EqualError(t, err, `user "ghost" not found`)
}
