package auth

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/crucial707/todoism/internal/models"
	"github.com/crucial707/todoism/internal/repo"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// HashPassword returns a salted bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// burnCompare spends the same time as a real comparison so an unknown
// username is not distinguishable from a wrong password by latency.
func burnCompare(password string) {
	dummyOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("todoism-dummy-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// UserLookup is the part of the user repository needed to authenticate.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// Authenticate verifies username and password. Both an unknown username and a
// wrong password return ErrInvalidCredentials.
func Authenticate(ctx context.Context, users UserLookup, username, password string) (*models.User, error) {
	user, err := users.GetByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		burnCompare(password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
