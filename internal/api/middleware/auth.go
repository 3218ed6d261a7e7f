package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kodbank/kodbank-api/internal/core/domain"
	"github.com/kodbank/kodbank-api/internal/core/ports"
	"github.com/kodbank/kodbank-api/internal/pkg/metrics"
)

// DefaultCookieName is the cookie that carries the session token.
const DefaultCookieName = "auth_token"

// Context keys set by Auth.
const (
	ContextKeyIdentity = "identity"
	ContextKeyUsername = "username"
	ContextKeyRole     = "role"
)

// Auth authenticates the request from the session cookie only. Headers and
// query parameters are never consulted. On success the verified identity is
// stored in the echo context; on failure the domain error is returned to the
// HTTP error handler and next is not called.
func Auth(authenticator ports.Authenticator, cookieName string) echo.MiddlewareFunc {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				metrics.AuthRejectionsTotal.WithLabelValues("missing").Inc()
				return domain.ErrUnauthenticated
			}

			identity, err := authenticator.Authenticate(c.Request().Context(), cookie.Value)
			if err != nil {
				metrics.AuthRejectionsTotal.WithLabelValues(rejectionReason(err)).Inc()
				return err
			}

			c.Set(ContextKeyIdentity, identity)
			c.Set(ContextKeyUsername, identity.Username)
			c.Set(ContextKeyRole, identity.Role)

			return next(c)
		}
	}
}

// IdentityFrom returns the identity stored by Auth, or an unauthenticated
// error when Auth did not run for this route.
func IdentityFrom(c echo.Context) (*domain.Identity, error) {
	identity, ok := c.Get(ContextKeyIdentity).(*domain.Identity)
	if !ok || identity == nil || identity.Username == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	return identity, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenInvalid):
		return "invalid"
	case errors.Is(err, domain.ErrSessionNotFound):
		return "revoked"
	case errors.Is(err, domain.ErrUnauthenticated):
		return "missing"
	default:
		return "error"
	}
}
