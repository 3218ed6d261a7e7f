package mysql

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kodbank/kodbank-api/internal/core/domain"
)

func TestSessionRepository_Insert(t *testing.T) {
	_, sessions, mock := newMock(t)
	expiry := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO session_tokens (token, user_id, expiry) VALUES (?, ?, ?)")).
		WithArgs("tok", "u-1", expiry).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := sessions.Insert(context.Background(), domain.Session{Token: "tok", UserID: "u-1", ExpiresAt: expiry})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
}

func TestSessionRepository_FindValid(t *testing.T) {
	_, sessions, mock := newMock(t)
	now := time.Date(2026, 5, 1, 11, 0, 0, 0, time.UTC)
	expiry := now.Add(time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE token = ? AND expiry > ?")).
		WithArgs("tok", now).
		WillReturnRows(sqlmock.NewRows([]string{"token", "user_id", "expiry"}).AddRow("tok", "u-1", expiry))

	s, err := sessions.FindValid(context.Background(), "tok", now)
	if err != nil {
		t.Fatalf("find valid: %v", err)
	}
	if s.Token != "tok" || s.UserID != "u-1" || !s.ExpiresAt.Equal(expiry) {
		t.Fatalf("unexpected session: %+v", s)
	}
}

func TestSessionRepository_FindValid_Missing(t *testing.T) {
	_, sessions, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE token = ? AND expiry > ?")).
		WithArgs("gone", now).
		WillReturnRows(sqlmock.NewRows([]string{"token", "user_id", "expiry"}))

	if _, err := sessions.FindValid(context.Background(), "gone", now); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionRepository_DeleteByToken(t *testing.T) {
	_, sessions, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM session_tokens WHERE token = ?")).
		WithArgs("tok").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM session_tokens WHERE token = ?")).
		WithArgs("tok").
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := sessions.DeleteByToken(context.Background(), "tok")
	if err != nil || n != 1 {
		t.Fatalf("first delete: n=%d err=%v", n, err)
	}
	n, err = sessions.DeleteByToken(context.Background(), "tok")
	if err != nil || n != 0 {
		t.Fatalf("second delete should be a no-op: n=%d err=%v", n, err)
	}
}

func TestSessionRepository_DeleteByToken_Error(t *testing.T) {
	_, sessions, mock := newMock(t)
	boom := errors.New("lost connection")

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM session_tokens")).WillReturnError(boom)

	if _, err := sessions.DeleteByToken(context.Background(), "tok"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	_, sessions, mock := newMock(t)
	now := time.Date(2026, 5, 1, 11, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM session_tokens WHERE expiry <= ?")).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 7))

	n, err := sessions.DeleteExpired(context.Background(), now)
	if err != nil || n != 7 {
		t.Fatalf("delete expired: n=%d err=%v", n, err)
	}
}
