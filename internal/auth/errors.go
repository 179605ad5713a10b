package auth

import "errors"

var (
	// ErrConfiguration means a required secret (admin credentials, signing key) is not set.
	ErrConfiguration = errors.New("auth configuration missing")
	// ErrInvalidCredentials is returned when a login attempt does not match the admin credentials.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken covers every reason a session token is not accepted:
	// bad signature, wrong algorithm, expired, malformed or revoked.
	ErrInvalidToken = errors.New("invalid session token")
)
