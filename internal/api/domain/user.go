package domain

import "time"

// Roles are a flat string, there is no scope model in this service.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID           string
	Username     string
	Email        string // optional, "" when absent
	PasswordHash string // bcrypt encoded; empty on read paths that exclude it
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
