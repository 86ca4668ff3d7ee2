package auth

import "errors"

var (
	// ErrNotSignedIn indicates that no session is stored
	ErrNotSignedIn = errors.New("not signed in")

	// ErrSessionExpired indicates that the stored access token has expired
	ErrSessionExpired = errors.New("session expired")

	// ErrInvalidToken indicates that the token cannot be parsed as JWT
	ErrInvalidToken = errors.New("invalid access token")
)
