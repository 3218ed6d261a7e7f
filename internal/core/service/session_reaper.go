package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/kodbank/kodbank-api/internal/core/ports"
	"github.com/kodbank/kodbank-api/internal/pkg/metrics"
)

const reapTimeout = 30 * time.Second

// SessionReaper periodically deletes session rows whose expiry has passed.
// Expired rows are already rejected at read time; reaping only bounds table
// growth.
type SessionReaper struct {
	sessions ports.SessionRepository
	interval time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

func NewSessionReaper(sessions ports.SessionRepository, interval time.Duration, log zerolog.Logger) *SessionReaper {
	return &SessionReaper{sessions: sessions, interval: interval, log: log, now: time.Now}
}

// Run reaps once immediately and then on every tick until ctx is cancelled.
func (r *SessionReaper) Run(ctx context.Context) {
	if r.interval <= 0 {
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.ReapOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.ReapOnce(ctx)
		}
	}
}

// ReapOnce deletes expired sessions and returns how many were removed.
func (r *SessionReaper) ReapOnce(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, reapTimeout)
	defer cancel()

	n, err := r.sessions.DeleteExpired(ctx, r.now())
	if err != nil {
		if ctx.Err() == nil {
			r.log.Error().Err(err).Msg("session reap failed")
		}
		return 0
	}
	if n > 0 {
		metrics.SessionsReapedTotal.Add(float64(n))
		r.log.Info().Int64("deleted", n).Msg("expired sessions reaped")
	}
	return n
}
