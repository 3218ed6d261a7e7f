package ports

import (
	"context"
	"time"

	"github.com/kodbank/kodbank-api/internal/core/domain"
)

// RegisterInput carries the client-supplied registration fields.
// Role is deliberately absent: it is always forced to domain.RoleCustomer.
type RegisterInput struct {
	UID      string
	Username string
	Password string
	Email    string
	Phone    string
	ClientIP string
}

// LoginInput carries login credentials.
type LoginInput struct {
	Username string
	Password string
	ClientIP string
}

// LoginResult is returned after a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// Authenticator resolves a presented token into a live identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Identity, error)
}

// AuthService defines the session lifecycle use cases.
type AuthService interface {
	Authenticator
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	// Logout revokes the session for token. It reports whether a row was removed.
	Logout(ctx context.Context, token string) (bool, error)
}

// AccountService exposes read-only account data.
type AccountService interface {
	Balance(ctx context.Context, username string) (float64, error)
}
