package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/crucial707/todoism/internal/db"
	"github.com/crucial707/todoism/internal/models"
)

const userColumns = `id, username, password_hash, locale, created_at`

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

func (r *UserRepo) q(ctx context.Context) db.Querier {
	return db.Q(ctx, r.DB)
}

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}
	var locale sql.NullString
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &locale, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if locale.Valid {
		user.Locale = &locale.String
	}
	return user, nil
}

// ==========================
// Create User
// ==========================

// Create inserts a user with an already hashed password.
// Returns ErrUsernameTaken when the username exists; the surrounding transaction stays usable.
func (r *UserRepo) Create(ctx context.Context, username, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		ON CONFLICT (username) DO NOTHING
		RETURNING ` + userColumns

	user, err := scanUser(r.q(ctx).QueryRowContext(ctx, query, username, passwordHash))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUsernameTaken
	}
	if IsUniqueViolation(err) {
		return nil, ErrUsernameTaken
	}
	return user, err
}

// ==========================
// Get By ID
// ==========================
func (r *UserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.q(ctx).QueryRowContext(ctx, query, id))
}

// ==========================
// Get By Username
// ==========================
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.q(ctx).QueryRowContext(ctx, query, username))
}

// ExistsByUsername reports whether a user with username is persisted.
func (r *UserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.q(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username,
	).Scan(&exists)
	return exists, err
}

// ==========================
// Update Password / Locale
// ==========================
func (r *UserRepo) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	return r.exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
}

// UpdateLocale stores the locale preference; an empty locale clears it.
func (r *UserRepo) UpdateLocale(ctx context.Context, id int, locale string) error {
	var v sql.NullString
	if locale != "" {
		v = sql.NullString{String: locale, Valid: true}
	}
	return r.exec(ctx, `UPDATE users SET locale = $1 WHERE id = $2`, v, id)
}

// ==========================
// Delete User
// ==========================

// Delete removes the user; items and sessions go with it (ON DELETE CASCADE).
func (r *UserRepo) Delete(ctx context.Context, id int) error {
	return r.exec(ctx, `DELETE FROM users WHERE id = $1`, id)
}

// ==========================
// List Users
// ==========================
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	rows, err := r.q(ctx).QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// Count returns the total number of users.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.q(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (r *UserRepo) exec(ctx context.Context, query string, args ...any) error {
	result, err := r.q(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
