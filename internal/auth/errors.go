package auth

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong password.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrNoSession is returned when the request carries no usable session cookie.
	ErrNoSession = errors.New("auth: no session")

	// ErrBadSignature is returned when the session cookie was tampered with.
	ErrBadSignature = errors.New("auth: invalid cookie signature")

	// ErrSessionExpired is returned for a session past its expiry.
	ErrSessionExpired = errors.New("auth: session expired")

	// ErrInvalidToken is returned for a malformed, expired or forged bearer token.
	ErrInvalidToken = errors.New("auth: invalid token")
)
