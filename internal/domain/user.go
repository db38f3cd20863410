package domain

import "time"

// Role distinguishes regular users from the designated administrator.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the domain model for registered accounts. Email is the unique,
// case-sensitive lookup key.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	PhoneNo      string
	Address      string
	Pincode      string
	Role         Role
	ProfileImage *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Sanitized returns a copy with the password hash stripped. The hash never
// crosses the service boundary in responses.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}

// OwnerSummary is the public owner projection joined onto approved listings.
type OwnerSummary struct {
	ID      string
	Name    string
	Email   string
	Address string
	PhoneNo string
}
