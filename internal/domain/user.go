package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a shopper identified by email.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserDetail is a user together with the items in their cart, newest first.
type UserDetail struct {
	User
	CartItems []CartItem `json:"cartItems"`
}

// NewUser creates a new User with the given email.
// It generates a new UUID for the user ID and sets the creation/update timestamps.
func NewUser(email string) *User {
	now := time.Now().UTC()
	return &User{
		ID:        uuid.New(),
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks the invariants persistence relies on.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "Required", ErrInvalidID)
	}
	if u.Email == "" {
		return NewValidationError("email", "Required", nil)
	}
	return nil
}
