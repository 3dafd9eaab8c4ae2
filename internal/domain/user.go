package domain

import "time"

// Role is the coarse permission class fixed at account creation.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents an account that can sign in.
type User struct {
	ID                string
	Email             string
	PasswordHash      string
	Role              Role
	IsVerified        bool
	VerificationToken string
	Name              string
	FirstName         string
	Country           string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Sanitized returns a copy without credential material.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	clone.VerificationToken = ""
	return &clone
}
