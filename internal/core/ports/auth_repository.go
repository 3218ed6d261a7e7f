package ports

import (
	"context"
	"time"

	"github.com/kodbank/kodbank-api/internal/core/domain"
)

// UserRepository defines persistence for registered users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

// SessionRepository defines persistence for issued session tokens.
type SessionRepository interface {
	// Insert appends a session record. Several sessions per user are allowed.
	Insert(ctx context.Context, session domain.Session) error
	// FindValid returns the session for token only if its expiry is after now,
	// otherwise domain.ErrSessionNotFound. It never deletes anything.
	FindValid(ctx context.Context, token string, now time.Time) (*domain.Session, error)
	// DeleteByToken removes the session and reports how many rows were removed.
	DeleteByToken(ctx context.Context, token string) (int64, error)
	// DeleteExpired removes sessions whose expiry is at or before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// AuditRepository stores authentication audit events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuditEvent) error
}
