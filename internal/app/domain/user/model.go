package user

import "time"

// Role determines which API surface an authenticated user may reach.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// User is an account that can sign in. FailedLogins counts consecutive
// failed password attempts; once it reaches the configured limit the account
// is locked until an administrator resets it.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	FailedLogins int
	Locked       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
