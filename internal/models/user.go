package models

import "time"

// User roles. Admin is required for destructive endpoints.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an authenticated API user. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
