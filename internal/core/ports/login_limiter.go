package ports

import (
	"context"

	"github.com/kodbank/kodbank-api/internal/core/domain"
)

// LoginLimiter throttles repeated failed logins per key.
type LoginLimiter interface {
	Blocked(ctx context.Context, key string) (bool, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// AuditSink accepts audit events without blocking the caller.
type AuditSink interface {
	Enqueue(event domain.AuditEvent)
}
