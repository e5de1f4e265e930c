package errs

import (
	"errors"
	"fmt"
)

// Authentication failures. All of them are surfaced as 401.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTokenInvalid       = errors.New("invalid access token")
	ErrTokenExpired       = errors.New("expired bearer token")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

// NotFoundError is returned when an entity referenced by id does not exist.
type NotFoundError struct {
	Entity string // Entity name, e.g. "Chat"
	ID     int64  // Requested identifier
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// DuplicateFieldError is returned when a write collides with a uniqueness constraint.
type DuplicateFieldError struct {
	Entity string
	Field  string
	Value  string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Entity, e.Field, e.Value)
}

// NoPermissionError is returned when the actor is not allowed to perform an action.
type NoPermissionError struct {
	Reason string
}

func (e *NoPermissionError) Error() string {
	return e.Reason
}

// InvalidStateError is returned when an action would break a structural invariant.
type InvalidStateError struct {
	Reason string
}

func (e *InvalidStateError) Error() string {
	return e.Reason
}

// ValidationError is returned for malformed or incomplete requests.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func NotFound(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func DuplicateField(entity, field, value string) error {
	return &DuplicateFieldError{Entity: entity, Field: field, Value: value}
}

func NoPermission(reason string) error {
	return &NoPermissionError{Reason: reason}
}

func InvalidState(reason string) error {
	return &InvalidStateError{Reason: reason}
}

func Validation(reason string) error {
	return &ValidationError{Reason: reason}
}

// IsNotFound reports whether err is a NotFoundError for the given entity.
// An empty entity matches any NotFoundError.
func IsNotFound(err error, entity string) bool {
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		return false
	}
	return entity == "" || nf.Entity == entity
}
