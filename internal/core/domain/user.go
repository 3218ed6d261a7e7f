package domain

import "time"

// RoleCustomer is the only role a self-service registration may receive.
const RoleCustomer = "Customer"

// StartingBalance is credited to every account at registration.
const StartingBalance = 100000.00

// User models a registered bank customer.
type User struct {
	ID           string    `json:"uid"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	Balance      float64   `json:"balance"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
