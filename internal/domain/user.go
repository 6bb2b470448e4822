package domain

import "time"

// UserRole gates portal capabilities. Support and admin roles can transition
// tickets and post internal comments.
type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleSupport  UserRole = "support"
	UserRoleAdmin    UserRole = "admin"
)

// Valid reports whether the role is a known value.
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleCustomer, UserRoleSupport, UserRoleAdmin:
		return true
	}
	return false
}

// CommentRole maps a portal role onto the comment author role.
func (r UserRole) CommentRole() CommentAuthorRole {
	switch r {
	case UserRoleSupport:
		return AuthorRoleSupport
	case UserRoleAdmin:
		return AuthorRoleAdmin
	default:
		return AuthorRoleCustomer
	}
}

// User is the domain model for portal accounts.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
