package handler

import (
	"net/http"
	"time"
)

// CookiePolicy decides how the session cookie is written. Production serves
// the SPA from another origin over TLS, so the cookie must be cross-site and
// Secure there; local development stays same-site over plain HTTP.
type CookiePolicy struct {
	Name       string
	Production bool
}

func (p CookiePolicy) sameSite() http.SameSite {
	if p.Production {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// Session builds the login cookie. Its expiry mirrors the token expiry.
func (p CookiePolicy) Session(token string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     p.Name,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt.UTC(),
		HttpOnly: true,
		Secure:   p.Production,
		SameSite: p.sameSite(),
	}
}

// Cleared builds an already-expired cookie with the same attributes, so the
// browser drops the session cookie it holds.
func (p CookiePolicy) Cleared() *http.Cookie {
	return &http.Cookie{
		Name:     p.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   p.Production,
		SameSite: p.sameSite(),
	}
}
