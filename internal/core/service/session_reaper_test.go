package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kodbank/kodbank-api/internal/core/domain"
)

func TestSessionReaper_ReapOnceDeletesOnlyExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := newStubSessionRepo()
	repo.sessions["old"] = domain.Session{Token: "old", ExpiresAt: now.Add(-time.Minute)}
	repo.sessions["edge"] = domain.Session{Token: "edge", ExpiresAt: now}
	repo.sessions["live"] = domain.Session{Token: "live", ExpiresAt: now.Add(time.Minute)}

	r := NewSessionReaper(repo, time.Minute, zerolog.Nop())
	r.now = func() time.Time { return now }

	if n := r.ReapOnce(context.Background()); n != 2 {
		t.Fatalf("expected 2 sessions reaped, got %d", n)
	}
	if _, ok := repo.sessions["live"]; !ok || repo.count() != 1 {
		t.Fatalf("expected only the live session to remain, got %v", repo.sessions)
	}
}

func TestSessionReaper_ReapOnceStoreError(t *testing.T) {
	repo := newStubSessionRepo()
	repo.deleteErr = errors.New("lock wait timeout")
	r := NewSessionReaper(repo, time.Minute, zerolog.Nop())

	if n := r.ReapOnce(context.Background()); n != 0 {
		t.Fatalf("expected 0 on error, got %d", n)
	}
}

func TestSessionReaper_RunDisabled(t *testing.T) {
	r := NewSessionReaper(newStubSessionRepo(), 0, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		r.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run should return immediately when the interval is zero")
	}
}

func TestSessionReaper_RunStopsOnCancel(t *testing.T) {
	repo := newStubSessionRepo()
	repo.sessions["old"] = domain.Session{Token: "old", ExpiresAt: time.Now().Add(-time.Hour)}
	r := NewSessionReaper(repo, time.Hour, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	deadline := time.After(time.Second)
	for repo.count() != 0 {
		select {
		case <-deadline:
			t.Fatal("expected the first reap to run immediately")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
