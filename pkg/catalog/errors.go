package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced row does not exist
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the actor may not modify the row,
	// or tries to change a field that is immutable
	ErrForbidden = errors.New("forbidden")

	// ErrInvalid is returned when input breaks a domain rule
	ErrInvalid = errors.New("invalid")

	// ErrConflict is matched by *ConflictError
	ErrConflict = errors.New("already exists")

	// ErrIntegrity is returned when the store rejects a write on a
	// uniqueness constraint the service did not catch first
	ErrIntegrity = errors.New("integrity violation")
)

// ConflictError reports a write that would duplicate an existing row
type ConflictError struct {
	Resource   string
	ExistingID int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists (id %d)", e.Resource, e.ExistingID)
}

// Is makes errors.Is(err, ErrConflict) match
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

func notFound(resource string, id int64) error {
	return fmt.Errorf("%w: %s %d", ErrNotFound, resource, id)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func forbidden(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}
