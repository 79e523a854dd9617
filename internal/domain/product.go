package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bounds of the stored numeric columns.
const (
	// MaxPriceScale is the number of decimal places a price may carry.
	MaxPriceScale = 2
	// MaxStock is the largest stock count.
	MaxStock = math.MaxInt32
)

// MaxPrice is the exclusive upper bound of a price.
var MaxPrice = decimal.New(1, 10)

// Prices are encoded as JSON numbers rather than strings.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is a sellable catalog entry.
// ImageURL is nil when no image was ever uploaded successfully.
// Category is populated only by reads that join the owning category.
type Product struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  uuid.UUID       `json:"categoryId"`
	ImageURL    *string         `json:"imageUrl"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`

	Category *Category `json:"category,omitempty"`
}

// NewProduct creates a Product with a fresh ID and timestamps.
func NewProduct(
	title, description string,
	price decimal.Decimal,
	stock int,
	categoryID uuid.UUID,
	imageURL *string,
) *Product {
	now := time.Now().UTC()
	return &Product{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Price:       price,
		Stock:       stock,
		CategoryID:  categoryID,
		ImageURL:    imageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate checks the invariants persistence relies on.
// All violations are reported together.
func (p *Product) Validate() error {
	ve := &ValidationError{}
	if p.ID == uuid.Nil {
		ve.Add("id", "Required")
	}
	if p.Title == "" {
		ve.Add("title", "Required")
	}
	if p.Description == "" {
		ve.Add("description", "Required")
	}
	switch {
	case !p.Price.IsPositive():
		ve.Add("price", "Number must be greater than 0")
	case p.Price.GreaterThanOrEqual(MaxPrice):
		ve.Add("price", "Number must be less than "+MaxPrice.String())
	case !p.Price.Equal(p.Price.Truncate(MaxPriceScale)):
		ve.Add("price", "Number must have at most 2 decimal places")
	}
	switch {
	case p.Stock < 0:
		ve.Add("stock", "Number must be greater than or equal to 0")
	case p.Stock > MaxStock:
		ve.Add("stock", "Number must be less than or equal to 2147483647")
	}
	if p.CategoryID == uuid.Nil {
		ve.Add("categoryId", "Required")
	}
	return ve.Err()
}
