package auth

import "errors"

// Flow errors surfaced to the HTTP boundary. Messages stay generic on
// purpose: ErrInvalidCredentials never distinguishes an unknown email
// from a wrong password, and ErrInvalidOrExpiredToken never says which
// of the two it was. Anything not in this set is an internal failure
// and must not leak detail to a client.
var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrEmailInUse            = errors.New("email already in use")
	ErrInvalidRefreshToken   = errors.New("invalid refresh token")
	ErrRefreshTokenExpired   = errors.New("refresh token expired")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrAlreadyVerified       = errors.New("email already verified")
	ErrUnauthorized          = errors.New("unauthorized")
)
