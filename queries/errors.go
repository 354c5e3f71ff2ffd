package queries

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCredentials is returned for both an unknown email and a
// wrong password, so callers cannot tell whether an account exists.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ReferenceNotFoundError is returned when an order line item references
// a product that does not exist. The whole creation is rolled back.
type ReferenceNotFoundError struct {
	ProductID uint
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// AsReferenceNotFound unwraps err into a ReferenceNotFoundError if possible.
func AsReferenceNotFound(err error) (*ReferenceNotFoundError, bool) {
	var refErr *ReferenceNotFoundError
	if errors.As(err, &refErr) {
		return refErr, true
	}
	return nil, false
}

// IsUniqueViolation checks for a unique-constraint failure
// (works with both PostgreSQL and SQLite)
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique")
}

// IsForeignKeyViolation checks for a foreign-key failure
// (works with both PostgreSQL and SQLite)
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key")
}

// IsCheckViolation checks for a check-constraint failure
// (works with both PostgreSQL and SQLite)
func IsCheckViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "check")
}
