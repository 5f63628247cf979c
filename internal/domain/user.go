package domain

import (
	"context"
	"errors"
	"time"
)

// User represents an authenticated system user.
type User struct {
	ID             string
	Email          string
	Name           string
	HashedPassword string
	Role           Role
	AccountID      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Active         bool
}

// Role represents a user's access level.
type Role string

const (
	// RoleAdmin has full access, including catalog and ledger operations
	RoleAdmin Role = "admin"

	// RoleReviewer can move leads, withdrawals and applications through
	// the approval workflow, but cannot manage the catalog
	RoleReviewer Role = "reviewer"

	// RoleMember owns an earnings account: submits entities, cancels own
	RoleMember Role = "member"
)

var validRoles = map[Role]bool{
	RoleAdmin:    true,
	RoleReviewer: true,
	RoleMember:   true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanReview checks if the role may perform workflow status transitions
func (r Role) CanReview() bool {
	return r == RoleAdmin || r == RoleReviewer
}

// CanManageCatalog checks if the role may create or edit products
func (r Role) CanManageCatalog() bool {
	return r == RoleAdmin
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("actor lacks role or ownership for this operation")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidPassword  = errors.New("invalid credentials")
	ErrDuplicateUser    = errors.New("user with this email already exists")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)

type userContextKey struct{}

// ContextWithUser stores the authenticated user on the context.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext extracts the authenticated user from the context.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*User)
	return user, ok
}

// ActorID returns the acting user's id, or "system" for background work.
func ActorID(ctx context.Context) string {
	if user, ok := UserFromContext(ctx); ok {
		return user.ID
	}
	return "system"
}
