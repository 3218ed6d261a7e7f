package domain

import "time"

// AuditEventType names a security-relevant authentication outcome.
type AuditEventType string

const (
	AuditRegistered     AuditEventType = "registered"
	AuditLoginSucceeded AuditEventType = "login_succeeded"
	AuditLoginFailed    AuditEventType = "login_failed"
	AuditLoginThrottled AuditEventType = "login_throttled"
)

// AuditEvent is an append-only record of an authentication outcome.
type AuditEvent struct {
	Type       AuditEventType
	Username   string
	ClientIP   string
	OccurredAt time.Time
}
