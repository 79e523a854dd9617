package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// Entity-specific variants (ErrUserNotFound, ...) wrap it.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would violate a uniqueness rule,
	// such as a second user with the same email.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when a write violates a constraint on the
	// stored data. Check the wrapped error for details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrReferenced is returned when a delete is refused because other records
	// still reference the entity.
	ErrReferenced = errors.New("entity is referenced by other records")

	// ErrUserNotFound indicates that the requested user does not exist in the store.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrCategoryNotFound indicates that the requested category does not exist in the store.
	ErrCategoryNotFound = fmt.Errorf("%w: category", ErrNotFound)

	// ErrProductNotFound indicates that the requested product does not exist in the store.
	ErrProductNotFound = fmt.Errorf("%w: product", ErrNotFound)

	// ErrCartItemNotFound indicates that the requested cart item does not exist in the store.
	ErrCartItemNotFound = fmt.Errorf("%w: cart item", ErrNotFound)

	// ErrEmailExists indicates that a user with the given email already exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "product", "cart item")
	Operation string // The operation that failed (e.g., "create", "delete")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Operation, e.Entity, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
