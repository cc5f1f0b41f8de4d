package services

import (
	"errors"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrAlreadyRegistered  = errors.New("user already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrServiceNotFound    = errors.New("service not found")
	ErrCartItemNotFound   = errors.New("cart item not found")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrStatusNotAllowed   = errors.New("status not available to this role")
	ErrIllegalTransition  = errors.New("status transition not allowed")
	ErrNotATechnician     = errors.New("user is not a technician")
	ErrInvalidRole        = errors.New("invalid role")
	ErrSelfRoleChange     = errors.New("admins cannot change their own role")
)

// ValidationError is a field-level input problem caught before any write.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// isUniqueViolation detects duplicate-key errors from both PostgreSQL and SQLite.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate") ||
		strings.Contains(errMsg, "unique constraint") ||
		strings.Contains(errMsg, "unique")
}
