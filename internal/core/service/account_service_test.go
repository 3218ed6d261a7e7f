package service

import (
	"context"
	"errors"
	"testing"

	"github.com/kodbank/kodbank-api/internal/core/domain"
)

func TestAccountService_Balance_ReadsCurrentValue(t *testing.T) {
	repo := newStubUserRepo()
	repo.users["alice"] = &domain.User{ID: "u-1", Username: "alice", Balance: 100000}
	svc := NewAccountService(repo)

	got, err := svc.Balance(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if got != 100000 {
		t.Fatalf("expected 100000, got %v", got)
	}

	// Balance is never cached: a change in the store is visible immediately.
	repo.users["alice"].Balance = 2500.75
	if got, _ := svc.Balance(context.Background(), "alice"); got != 2500.75 {
		t.Fatalf("expected updated balance 2500.75, got %v", got)
	}
}

func TestAccountService_Balance_UserMissing(t *testing.T) {
	svc := NewAccountService(newStubUserRepo())
	if _, err := svc.Balance(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAccountService_Balance_StoreError(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = errors.New("connection reset")
	svc := NewAccountService(repo)
	if _, err := svc.Balance(context.Background(), "alice"); err == nil || errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected store error, got %v", err)
	}
}
