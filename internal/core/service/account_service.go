package service

import (
	"context"

	"github.com/kodbank/kodbank-api/internal/core/ports"
)

// AccountService reads account data for an authenticated user.
type AccountService struct {
	users ports.UserRepository
}

func NewAccountService(users ports.UserRepository) *AccountService {
	return &AccountService{users: users}
}

// Balance re-reads the user row on every call; no balance is cached.
func (s *AccountService) Balance(ctx context.Context, username string) (float64, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	return user.Balance, nil
}
