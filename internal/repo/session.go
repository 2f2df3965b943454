package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/crucial707/todoism/internal/db"
	"github.com/crucial707/todoism/internal/models"
)

// SessionRepo persists login sessions.
type SessionRepo struct {
	DB *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{DB: db}
}

func (r *SessionRepo) q(ctx context.Context) db.Querier {
	return db.Q(ctx, r.DB)
}

func (r *SessionRepo) Create(ctx context.Context, s models.Session) error {
	_, err := r.q(ctx).ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, created_at, expires_at) VALUES ($1, $2, $3, $4)`,
		s.ID, s.UserID, s.CreatedAt, s.ExpiresAt,
	)
	return err
}

// Get returns the session with id, or ErrNotFound. Expiry is checked by the caller.
func (r *SessionRepo) Get(ctx context.Context, id string) (models.Session, error) {
	var s models.Session
	err := r.q(ctx).QueryRowContext(ctx,
		`SELECT id, user_id, created_at, expires_at FROM sessions WHERE id = $1`, id,
	).Scan(&s.ID, &s.UserID, &s.CreatedAt, &s.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return s, ErrNotFound
	}
	return s, err
}

func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q(ctx).ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

// DeleteOthers removes every session of userID except keepID. An empty keepID removes them all.
func (r *SessionRepo) DeleteOthers(ctx context.Context, userID int, keepID string) error {
	if keepID == "" {
		_, err := r.q(ctx).ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
		return err
	}
	_, err := r.q(ctx).ExecContext(ctx,
		`DELETE FROM sessions WHERE user_id = $1 AND id <> $2`, userID, keepID)
	return err
}

// DeleteExpired prunes sessions of userID that are past their expiry.
func (r *SessionRepo) DeleteExpired(ctx context.Context, userID int) error {
	_, err := r.q(ctx).ExecContext(ctx,
		`DELETE FROM sessions WHERE user_id = $1 AND expires_at <= NOW()`, userID)
	return err
}
