package domain

import (
	"testing"
	"time"
)

func TestSession_ValidAt(t *testing.T) {
	expiry := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := Session{Token: "t", UserID: "u1", ExpiresAt: expiry}

	if !s.ValidAt(expiry.Add(-time.Nanosecond)) {
		t.Fatalf("expected session to be valid just before expiry")
	}
	if s.ValidAt(expiry) {
		t.Fatalf("expected session to be invalid exactly at expiry")
	}
	if s.ValidAt(expiry.Add(time.Minute)) {
		t.Fatalf("expected session to be invalid after expiry")
	}
}
