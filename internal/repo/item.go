package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/crucial707/todoism/internal/db"
	"github.com/crucial707/todoism/internal/models"
)

const itemColumns = `id, body, done, user_id, created_at, updated_at`

// ItemRepo persists to-do items. Every query is scoped to the owning user,
// so an item of another user is indistinguishable from a missing one.
type ItemRepo struct {
	DB *sql.DB
}

func NewItemRepo(db *sql.DB) *ItemRepo {
	return &ItemRepo{DB: db}
}

func (r *ItemRepo) q(ctx context.Context) db.Querier {
	return db.Q(ctx, r.DB)
}

func scanItem(row interface{ Scan(...any) error }) (models.Item, error) {
	var it models.Item
	err := row.Scan(&it.ID, &it.Body, &it.Done, &it.UserID, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return it, ErrNotFound
	}
	return it, err
}

// filterClause narrows a user-scoped WHERE to the requested subset.
func filterClause(f models.ItemFilter) string {
	switch f {
	case models.FilterActive:
		return ` AND done = FALSE`
	case models.FilterDone:
		return ` AND done = TRUE`
	}
	return ``
}

// ========================
// CREATE ITEM
// ========================

// Create stores a new, not yet done, item owned by userID.
func (r *ItemRepo) Create(ctx context.Context, userID int, body string) (models.Item, error) {
	return scanItem(r.q(ctx).QueryRowContext(ctx,
		`INSERT INTO items (body, done, user_id)
		 VALUES ($1, FALSE, $2)
		 RETURNING `+itemColumns,
		body, userID,
	))
}

// ========================
// GET ITEM BY ID
// ========================
func (r *ItemRepo) Get(ctx context.Context, userID, id int) (models.Item, error) {
	return scanItem(r.q(ctx).QueryRowContext(ctx,
		`SELECT `+itemColumns+`
		 FROM items
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	))
}

// ========================
// LIST ITEMS WITH PAGINATION
// ========================

// List returns one page of the user's items in creation order (ascending id).
func (r *ItemRepo) List(ctx context.Context, userID int, f models.ItemFilter, limit, offset int) ([]models.Item, error) {
	rows, err := r.q(ctx).QueryContext(ctx,
		`SELECT `+itemColumns+`
		 FROM items
		 WHERE user_id = $1`+filterClause(f)+`
		 ORDER BY id ASC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Count returns how many of the user's items match f.
func (r *ItemRepo) Count(ctx context.Context, userID int, f models.ItemFilter) (int, error) {
	var n int
	err := r.q(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE user_id = $1`+filterClause(f), userID,
	).Scan(&n)
	return n, err
}

// ========================
// UPDATE ITEM BY ID
// ========================
func (r *ItemRepo) Update(ctx context.Context, userID, id int, body string, done bool) (models.Item, error) {
	return scanItem(r.q(ctx).QueryRowContext(ctx,
		`UPDATE items
		 SET body = $1, done = $2, updated_at = NOW()
		 WHERE id = $3 AND user_id = $4
		 RETURNING `+itemColumns,
		body, done, id, userID,
	))
}

// Toggle flips the done flag.
func (r *ItemRepo) Toggle(ctx context.Context, userID, id int) (models.Item, error) {
	return scanItem(r.q(ctx).QueryRowContext(ctx,
		`UPDATE items
		 SET done = NOT done, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+itemColumns,
		id, userID,
	))
}

// ========================
// DELETE ITEM BY ID
// ========================
func (r *ItemRepo) Delete(ctx context.Context, userID, id int) error {
	result, err := r.q(ctx).ExecContext(ctx,
		`DELETE FROM items WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteDone removes every done item of the user and returns how many were removed.
func (r *ItemRepo) DeleteDone(ctx context.Context, userID int) (int64, error) {
	result, err := r.q(ctx).ExecContext(ctx,
		`DELETE FROM items WHERE user_id = $1 AND done = TRUE`, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
