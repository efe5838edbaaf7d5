package domain

import (
	"context"
	"errors"
	"time"
)

// User represents a platform user.
type User struct {
	ID        string
	Email     string
	Name      string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
	Active    bool
}

// Role represents a user's access level.
type Role string

const (
	// RoleAdmin has full access, including dispute overrides and reconciliation.
	RoleAdmin Role = "admin"

	// RoleClient posts bookings and projects, pays and approves.
	RoleClient Role = "client"

	// RoleCreator responds to bookings, counters and delivers.
	RoleCreator Role = "creator"
)

var validRoles = map[Role]bool{
	RoleAdmin:   true,
	RoleClient:  true,
	RoleCreator: true,
}

// IsValid checks if the role is a valid role.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanReconcile checks if the role can run ledger reconciliation.
func (r Role) CanReconcile() bool {
	return r == RoleAdmin
}

type userContextKey struct{}

// WithUser stores the authenticated user on the context.
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*User)
	return user, ok
}

// Authentication errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
