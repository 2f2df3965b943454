package repo

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crucial707/todoism/internal/models"
)

var itemCols = []string{"id", "body", "done", "user_id", "created_at", "updated_at"}

func TestItemRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO items \(body, done, user_id\)\s+VALUES \(\$1, FALSE, \$2\)`).
		WithArgs("buy milk", 7).
		WillReturnRows(sqlmock.NewRows(itemCols).AddRow(1, "buy milk", false, 7, now, now))

	it, err := NewItemRepo(db).Create(context.Background(), 7, "buy milk")
	require.NoError(t, err)
	assert.Equal(t, 1, it.ID)
	assert.False(t, it.Done)
	assert.Equal(t, 7, it.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepo_Get_ScopedToOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM items\s+WHERE id = \$1 AND user_id = \$2`).
		WithArgs(1, 8).
		WillReturnError(sql.ErrNoRows)

	_, err = NewItemRepo(db).Get(context.Background(), 8, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepo_List_Filters(t *testing.T) {
	tests := []struct {
		filter models.ItemFilter
		where  string
	}{
		{models.FilterAll, `WHERE user_id = \$1\s+ORDER BY id ASC`},
		{models.FilterActive, `WHERE user_id = \$1 AND done = FALSE\s+ORDER BY id ASC`},
		{models.FilterDone, `WHERE user_id = \$1 AND done = TRUE\s+ORDER BY id ASC`},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			now := time.Now()
			mock.ExpectQuery(tt.where+`\s+LIMIT \$2 OFFSET \$3`).
				WithArgs(3, 20, 40).
				WillReturnRows(sqlmock.NewRows(itemCols).
					AddRow(4, "a", false, 3, now, now).
					AddRow(9, "b", true, 3, now, now))

			items, err := NewItemRepo(db).List(context.Background(), 3, tt.filter, 20, 40)
			require.NoError(t, err)
			require.Len(t, items, 2)
			assert.Equal(t, 4, items[0].ID)
			assert.Equal(t, 9, items[1].ID)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestItemRepo_List_EmptyIsNotNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, body, done, user_id, created_at, updated_at`).
		WithArgs(3, 20, 1000).
		WillReturnRows(sqlmock.NewRows(itemCols))

	items, err := NewItemRepo(db).List(context.Background(), 3, models.FilterAll, 20, 1000)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestItemRepo_Count(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM items WHERE user_id = \$1 AND done = FALSE`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	n, err := NewItemRepo(db).Count(context.Background(), 3, models.FilterActive)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestItemRepo_Toggle(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SET done = NOT done, updated_at = NOW\(\)\s+WHERE id = \$1 AND user_id = \$2`).
		WithArgs(2, 3).
		WillReturnRows(sqlmock.NewRows(itemCols).AddRow(2, "a", true, 3, now, now))
	mock.ExpectQuery(`SET done = NOT done`).
		WithArgs(2, 4).
		WillReturnError(sql.ErrNoRows)

	repo := NewItemRepo(db)
	it, err := repo.Toggle(context.Background(), 3, 2)
	require.NoError(t, err)
	assert.True(t, it.Done)

	_, err = repo.Toggle(context.Background(), 4, 2)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepo_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`UPDATE items\s+SET body = \$1, done = \$2, updated_at = NOW\(\)\s+WHERE id = \$3 AND user_id = \$4`).
		WithArgs("new", true, 2, 3).
		WillReturnRows(sqlmock.NewRows(itemCols).AddRow(2, "new", true, 3, now, now))

	it, err := NewItemRepo(db).Update(context.Background(), 3, 2, "new", true)
	require.NoError(t, err)
	assert.Equal(t, "new", it.Body)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepo_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM items WHERE id = \$1 AND user_id = \$2`).
		WithArgs(2, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM items WHERE id = \$1 AND user_id = \$2`).
		WithArgs(2, 4).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewItemRepo(db)
	assert.NoError(t, repo.Delete(context.Background(), 3, 2))
	assert.ErrorIs(t, repo.Delete(context.Background(), 4, 2), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepo_DeleteDone(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM items WHERE user_id = \$1 AND done = TRUE`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := NewItemRepo(db).DeleteDone(context.Background(), 3)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
}
