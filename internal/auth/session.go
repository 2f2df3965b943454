package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/crucial707/todoism/internal/models"
	"github.com/crucial707/todoism/internal/repo"
)

// SessionCookie is the name of the cookie carrying the signed session id.
const SessionCookie = "todoism_session"

// SessionManager issues, resolves and revokes server-side sessions.
// The cookie value is "<session id>.<base64 hmac-sha256(session id)>".
type SessionManager struct {
	Sessions *repo.SessionRepo
	Users    *repo.UserRepo

	secret   []byte
	lifetime time.Duration
	secure   bool
	now      func() time.Time
}

func NewSessionManager(sessions *repo.SessionRepo, users *repo.UserRepo, secret string, lifetime time.Duration, secure bool) *SessionManager {
	return &SessionManager{
		Sessions: sessions,
		Users:    users,
		secret:   []byte(secret),
		lifetime: lifetime,
		secure:   secure,
		now:      time.Now,
	}
}

// Login creates a session for user and sets the session cookie.
func (m *SessionManager) Login(ctx context.Context, w http.ResponseWriter, user *models.User) (models.Session, error) {
	if err := m.Sessions.DeleteExpired(ctx, user.ID); err != nil {
		return models.Session{}, fmt.Errorf("prune sessions: %w", err)
	}

	now := m.now()
	s := models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.lifetime),
	}
	if err := m.Sessions.Create(ctx, s); err != nil {
		return models.Session{}, fmt.Errorf("create session: %w", err)
	}

	http.SetCookie(w, m.cookie(m.sign(s.ID), int(m.lifetime.Seconds())))
	return s, nil
}

// Logout revokes the request's session, if any, and expires the cookie.
func (m *SessionManager) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, m.cookie("", -1))

	id, err := m.sessionID(r)
	if err != nil {
		return nil
	}
	return m.Sessions.Delete(ctx, id)
}

// Load resolves the request cookie to its session and user.
func (m *SessionManager) Load(ctx context.Context, r *http.Request) (*models.User, models.Session, error) {
	id, err := m.sessionID(r)
	if err != nil {
		return nil, models.Session{}, err
	}

	s, err := m.Sessions.Get(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, models.Session{}, ErrNoSession
	}
	if err != nil {
		return nil, models.Session{}, err
	}
	if s.Expired(m.now()) {
		return nil, models.Session{}, ErrSessionExpired
	}

	user, err := m.Users.GetByID(ctx, s.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, models.Session{}, ErrNoSession
	}
	if err != nil {
		return nil, models.Session{}, err
	}
	return user, s, nil
}

func (m *SessionManager) sessionID(r *http.Request) (string, error) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return "", ErrNoSession
	}
	return m.verify(c.Value)
}

func (m *SessionManager) mac(value string) []byte {
	h := hmac.New(sha256.New, m.secret)
	h.Write([]byte(value))
	return h.Sum(nil)
}

func (m *SessionManager) sign(value string) string {
	return value + "." + base64.RawURLEncoding.EncodeToString(m.mac(value))
}

func (m *SessionManager) verify(raw string) (string, error) {
	value, sig, ok := strings.Cut(raw, ".")
	if !ok {
		return "", ErrBadSignature
	}
	got, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil || !hmac.Equal(got, m.mac(value)) {
		return "", ErrBadSignature
	}
	if _, err := uuid.Parse(value); err != nil {
		return "", ErrBadSignature
	}
	return value, nil
}

func (m *SessionManager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
