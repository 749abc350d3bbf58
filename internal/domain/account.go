package domain

import (
	"context"
	"strings"
	"time"
)

// Role is the access level of an account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole validates a role name. An empty name defaults to RoleUser.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case "", RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", ErrValidation("role must be 'user' or 'admin'")
	}
}

// Account is a registered identity. PasswordHash never leaves the service.
type Account struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string `json:"-"`
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the account holds the admin role.
func (a *Account) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// RequireRole checks that principal holds role. A nil principal is
// unauthenticated.
func RequireRole(principal *Account, role Role) error {
	if principal == nil {
		return ErrUnauthenticated()
	}
	if principal.Role != role {
		return ErrAccessDenied("%s role required", role)
	}
	return nil
}

// AccessToken is a signed bearer token handed to a client after login.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

// RegisterRequest holds the fields of a self-registration.
type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

// CreateAccountRequest holds the fields of an admin-created account. The
// password is optional; without one the account has no usable credential
// until it is activated.
type CreateAccountRequest struct {
	Username string
	Email    string
	Password string
	Role     string
}

// Authenticator resolves a bearer token to the calling account.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*Account, error)
}

// ErrAccountTaken is returned whenever a username or email is already in use.
// Both cases share one message so a caller cannot tell which field collided.
func ErrAccountTaken() *ConflictError {
	return &ConflictError{Message: "username or email already in use"}
}

// ErrAlreadyActive is returned when activating an account that is already active.
func ErrAlreadyActive() *ValidationError {
	return &ValidationError{Message: "account is already active"}
}
