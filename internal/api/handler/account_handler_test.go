package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/kodbank/kodbank-api/internal/api/middleware"
	"github.com/kodbank/kodbank-api/internal/core/domain"
)

type stubAccountService struct {
	balances map[string]float64
	err      error
	asked    []string
}

func (s *stubAccountService) Balance(_ context.Context, username string) (float64, error) {
	s.asked = append(s.asked, username)
	if s.err != nil {
		return 0, s.err
	}
	b, ok := s.balances[username]
	if !ok {
		return 0, domain.ErrUserNotFound
	}
	return b, nil
}

func TestAccountHandler_Balance_Success(t *testing.T) {
	svc := &stubAccountService{balances: map[string]float64{"alice": 100000}}
	h := NewAccountHandler(svc)

	c, rec := newTestContext(http.MethodGet, "/api/user/balance?username=mallory", "")
	c.Set(middleware.ContextKeyIdentity, &domain.Identity{Username: "alice", Role: domain.RoleCustomer})

	if err := h.Balance(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp balanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Balance != 100000 {
		t.Fatalf("expected balance 100000, got %v", resp.Balance)
	}
	if len(svc.asked) != 1 || svc.asked[0] != "alice" {
		t.Fatalf("balance must be looked up by the verified username, got %v", svc.asked)
	}

	if got := rec.Header().Get("Cache-Control"); got != "no-store, no-cache, must-revalidate" {
		t.Fatalf("unexpected Cache-Control %q", got)
	}
	if rec.Header().Get("Pragma") != "no-cache" || rec.Header().Get("Expires") != "0" {
		t.Fatalf("missing legacy no-cache headers: %v", rec.Header())
	}
}

func TestAccountHandler_Balance_UserMissing(t *testing.T) {
	h := NewAccountHandler(&stubAccountService{balances: map[string]float64{}})

	c, _ := newTestContext(http.MethodGet, "/api/user/balance", "")
	c.Set(middleware.ContextKeyIdentity, &domain.Identity{Username: "ghost"})

	if err := h.Balance(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAccountHandler_Balance_WithoutIdentity(t *testing.T) {
	svc := &stubAccountService{}
	h := NewAccountHandler(svc)

	c, _ := newTestContext(http.MethodGet, "/api/user/balance", "")
	if code := httpErrorCode(t, h.Balance(c)); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
	if len(svc.asked) != 0 {
		t.Fatal("service must not be called without an identity")
	}
}
