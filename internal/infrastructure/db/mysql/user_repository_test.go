package mysql

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/kodbank/kodbank-api/internal/core/domain"
)

func newMock(t *testing.T) (*UserRepository, *SessionRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		_ = db.Close()
	})
	return NewUserRepository(db), NewSessionRepository(db), mock
}

func TestUserRepository_Create(t *testing.T) {
	users, _, mock := newMock(t)
	u := &domain.User{
		ID: "u-1", Username: "alice", Email: "a@example.com", PasswordHash: "$2a$hash",
		Balance: domain.StartingBalance, Phone: "555", Role: domain.RoleCustomer,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("u-1", "alice", "a@example.com", "$2a$hash", domain.StartingBalance, "555", domain.RoleCustomer).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("create: %v", err)
	}
}

func TestUserRepository_Create_Duplicate(t *testing.T) {
	users, _, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice'"})

	err := users.Create(context.Background(), &domain.User{Username: "alice"})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserRepository_FindByUsername(t *testing.T) {
	users, _, mock := newMock(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "balance", "phone", "role", "created_at"}).
		AddRow("u-1", "alice", "a@example.com", "$2a$hash", 100000.0, "555", "Customer", created)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = ?")).
		WithArgs("alice").
		WillReturnRows(rows)

	u, err := users.FindByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if u.ID != "u-1" || u.Balance != 100000 || u.Role != "Customer" || !u.CreatedAt.Equal(created) {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestUserRepository_FindByUsername_NotFound(t *testing.T) {
	users, _, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = ?")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := users.FindByUsername(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_FindByUsername_StoreError(t *testing.T) {
	users, _, mock := newMock(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = ?")).WillReturnError(boom)

	_, err := users.FindByUsername(context.Background(), "alice")
	if !errors.Is(err, boom) || errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}
