package domain

import "time"

// Session is the server-side record that keeps an issued token revocable.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// ValidAt reports whether the session may authenticate a request at now.
// A session is valid only while now is strictly before its expiry.
func (s Session) ValidAt(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}

// Identity is what a verified credential asserts about its bearer.
type Identity struct {
	Username  string
	Role      string
	ExpiresAt time.Time
}
