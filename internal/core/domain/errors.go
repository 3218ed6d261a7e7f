package domain

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrMissingCredentials = errors.New("username and password required")
	ErrPasswordTooLong    = errors.New("password exceeds 72 bytes")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many login attempts")

	// Auth Gate outcomes. All of them mean the request is not authenticated.
	ErrUnauthenticated = errors.New("authentication required")
	ErrTokenInvalid    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token expired")
	ErrSessionNotFound = errors.New("session not found or expired")

	ErrForbidden = errors.New("access forbidden")
)
