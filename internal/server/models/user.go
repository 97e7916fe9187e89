// Package models defines the plain data records persisted by the server.
package models

import "time"

// User roles. The role is stored and embedded in issued tokens; no endpoint
// currently branches on it.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
