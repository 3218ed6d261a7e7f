package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/kodbank/kodbank-api/internal/core/domain"
	"github.com/kodbank/kodbank-api/internal/core/ports"
	"github.com/kodbank/kodbank-api/internal/pkg/metrics"
)

// DefaultBcryptCost is the hashing cost used when none is configured.
const DefaultBcryptCost = 10

// MaxPasswordBytes is the longest password bcrypt accepts. The limit is in
// bytes, so multibyte passwords reach it with fewer characters.
const MaxPasswordBytes = 72

// AuthService implements registration, login, logout and request
// authentication on top of the user and session stores.
type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionRepository
	signer   ports.TokenSigner
	limiter  ports.LoginLimiter
	audit    ports.AuditSink
	log      zerolog.Logger

	cost      int
	now       func() time.Time
	dummyHash []byte
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithLoginLimiter enables failed-login throttling.
func WithLoginLimiter(l ports.LoginLimiter) AuthOption {
	return func(s *AuthService) { s.limiter = l }
}

// WithAuditSink enables the authentication audit trail.
func WithAuditSink(a ports.AuditSink) AuthOption {
	return func(s *AuthService) { s.audit = a }
}

// WithBcryptCost overrides DefaultBcryptCost.
func WithBcryptCost(cost int) AuthOption {
	return func(s *AuthService) { s.cost = cost }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

func NewAuthService(users ports.UserRepository, sessions ports.SessionRepository, signer ports.TokenSigner, log zerolog.Logger, opts ...AuthOption) (*AuthService, error) {
	s := &AuthService{
		users:    users,
		sessions: sessions,
		signer:   signer,
		log:      log,
		cost:     DefaultBcryptCost,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Compared against when the username is unknown so both paths pay for one
	// bcrypt comparison.
	hash, err := bcrypt.GenerateFromPassword([]byte("kodbank-timing-equaliser"), s.cost)
	if err != nil {
		return nil, fmt.Errorf("generate dummy hash: %w", err)
	}
	s.dummyHash = hash
	return s, nil
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	in.UID = strings.TrimSpace(in.UID)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.UID == "" || in.Username == "" || in.Password == "" || in.Email == "" || in.Phone == "" {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidInput
	}
	if len(in.Password) > MaxPasswordBytes {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrPasswordTooLong
	}

	existing, err := s.users.FindByUsername(ctx, in.Username)
	switch {
	case err == nil && existing != nil:
		metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		return nil, domain.ErrUserExists
	case err != nil && !errors.Is(err, domain.ErrUserNotFound):
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           in.UID,
		Username:     in.Username,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: string(hash),
		Balance:      domain.StartingBalance,
		Role:         domain.RoleCustomer,
		CreatedAt:    s.now().UTC(),
	}

	// The unique index still decides races between concurrent registrations.
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
			return nil, domain.ErrUserExists
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	s.emit(domain.AuditRegistered, user.Username, in.ClientIP)
	s.log.Info().Str("username", user.Username).Msg("user registered")
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrMissingCredentials
	}

	if s.blocked(ctx, in.Username) {
		metrics.LoginAttemptsTotal.WithLabelValues("throttled").Inc()
		s.emit(domain.AuditLoginThrottled, in.Username, in.ClientIP)
		return nil, domain.ErrTooManyAttempts
	}

	user, err := s.users.FindByUsername(ctx, in.Username)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash := s.dummyHash
	if user != nil {
		hash = []byte(user.PasswordHash)
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(in.Password)) != nil || user == nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		s.recordFailure(ctx, in.Username)
		s.emit(domain.AuditLoginFailed, in.Username, in.ClientIP)
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.signer.Issue(user.Username, user.Role)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("issue token: %w", err)
	}
	claims, err := s.signer.DecodeUnchecked(token)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("decode issued token: %w", err)
	}

	session := domain.Session{Token: token, UserID: user.ID, ExpiresAt: claims.ExpiresAt}
	if err := s.sessions.Insert(ctx, session); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, in.Username); err != nil {
			s.log.Warn().Err(err).Str("username", in.Username).Msg("failed to reset login limiter")
		}
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.emit(domain.AuditLoginSucceeded, user.Username, in.ClientIP)
	s.log.Info().Str("username", user.Username).Time("expires_at", claims.ExpiresAt).Msg("login succeeded")

	return &ports.LoginResult{Token: token, ExpiresAt: claims.ExpiresAt, User: user}, nil
}

// Logout deletes the session row for token. An empty token or a missing row
// is not an error; removed reports whether a row was deleted.
func (s *AuthService) Logout(ctx context.Context, token string) (bool, error) {
	if token == "" {
		metrics.LogoutsTotal.WithLabelValues("noop").Inc()
		return false, nil
	}

	n, err := s.sessions.DeleteByToken(ctx, token)
	if err != nil {
		metrics.LogoutsTotal.WithLabelValues("error").Inc()
		return false, fmt.Errorf("revoke session: %w", err)
	}
	if n == 0 {
		metrics.LogoutsTotal.WithLabelValues("noop").Inc()
		s.log.Warn().Str("token_prefix", tokenPrefix(token)).Msg("logout found no session to delete")
		return false, nil
	}

	metrics.LogoutsTotal.WithLabelValues("revoked").Inc()
	return true, nil
}

// Authenticate verifies token and requires a live session row for it.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	identity, err := s.signer.Verify(token)
	if err != nil {
		return nil, err
	}

	if _, err := s.sessions.FindValid(ctx, token, s.now()); err != nil {
		return nil, err
	}
	return identity, nil
}

// blocked fails open: a limiter outage must not lock every user out.
func (s *AuthService) blocked(ctx context.Context, username string) bool {
	if s.limiter == nil {
		return false
	}
	blocked, err := s.limiter.Blocked(ctx, username)
	if err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("login limiter unavailable, allowing attempt")
		return false
	}
	return blocked
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to record login failure")
	}
}

func (s *AuthService) emit(kind domain.AuditEventType, username, clientIP string) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(domain.AuditEvent{
		Type:       kind,
		Username:   username,
		ClientIP:   clientIP,
		OccurredAt: s.now().UTC(),
	})
}

func tokenPrefix(token string) string {
	const n = 8
	if len(token) <= n {
		return "[redacted]"
	}
	return token[:n] + "…"
}
