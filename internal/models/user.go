package models

import "time"

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Locale       *string   `json:"locale"`
	CreatedAt    time.Time `json:"created_at"`
}

// LocaleOr returns the stored locale preference, or fallback when none is set.
func (u *User) LocaleOr(fallback string) string {
	if u == nil || u.Locale == nil || *u.Locale == "" {
		return fallback
	}
	return *u.Locale
}
