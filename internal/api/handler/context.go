package handler

import (
	"github.com/labstack/echo/v4"
)

// sessionToken returns the raw session cookie value, or "" when absent.
func sessionToken(c echo.Context, cookieName string) string {
	cookie, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// clientIP is recorded on audit events only.
func clientIP(c echo.Context) string {
	return c.RealIP()
}
