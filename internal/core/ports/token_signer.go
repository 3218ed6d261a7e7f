package ports

import "github.com/kodbank/kodbank-api/internal/core/domain"

// TokenSigner issues and verifies signed, time-limited credentials.
type TokenSigner interface {
	Issue(username, role string) (string, error)
	// Verify checks signature and expiry. It fails with domain.ErrTokenExpired
	// for a well-formed but expired token and domain.ErrTokenInvalid otherwise.
	Verify(token string) (*domain.Identity, error)
	// DecodeUnchecked reads the payload without checking the signature. Only
	// use it on a token this process has just issued.
	DecodeUnchecked(token string) (*domain.Identity, error)
}
