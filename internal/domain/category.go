package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products in the catalog.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CategoryWithProducts is a category and every product that references it.
type CategoryWithProducts struct {
	Category
	Products []Product `json:"products"`
}

// NewCategory creates a Category with a fresh ID and timestamps.
func NewCategory(name string) *Category {
	now := time.Now().UTC()
	return &Category{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks the invariants persistence relies on.
func (c *Category) Validate() error {
	if c.ID == uuid.Nil {
		return NewValidationError("id", "Required", ErrInvalidID)
	}
	if c.Name == "" {
		return NewValidationError("name", "Required", nil)
	}
	return nil
}
