package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalogue item. Products are keyed by an
// admin-supplied SKU rather than a generated ID.
type Product struct {
	ID              string          `json:"id" db:"id"`
	Name            string          `json:"name" db:"name"`
	Description     string          `json:"description" db:"description"`
	Price           decimal.Decimal `json:"price" db:"price"`
	InitialQuantity int             `json:"initialQuantity" db:"initial_quantity"`
	CategoryID      *int64          `json:"categoryId,omitempty" db:"category_id"`
	BrandID         *int64          `json:"brandId,omitempty" db:"brand_id"`
	ColorID         *int64          `json:"colorId,omitempty" db:"color_id"`
	SizeID          *int64          `json:"sizeId,omitempty" db:"size_id"`
	GenderID        *int64          `json:"genderId,omitempty" db:"gender_id"`
	ImageURL        *string         `json:"imageUrl,omitempty" db:"image_url"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`

	// Resolved reference names, joined in on reads. Nil when the
	// corresponding ID is nil or the reference row is gone.
	Category *string `json:"category,omitempty" db:"-"`
	Brand    *string `json:"brand,omitempty" db:"-"`
	Color    *string `json:"color,omitempty" db:"-"`
	Size     *string `json:"size,omitempty" db:"-"`
	Gender   *string `json:"gender,omitempty" db:"-"`
}

// ProductInput is the payload for creating or updating a product.
type ProductInput struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	InitialQuantity int             `json:"initialQuantity"`
	CategoryID      *int64          `json:"categoryId,omitempty"`
	BrandID         *int64          `json:"brandId,omitempty"`
	ColorID         *int64          `json:"colorId,omitempty"`
	SizeID          *int64          `json:"sizeId,omitempty"`
	GenderID        *int64          `json:"genderId,omitempty"`
	ImageURL        *string         `json:"imageUrl,omitempty"`
}

// ProductQuantity is the point-in-time stock view for a product.
// InitialQuantity is the live counter mutated by order commits,
// SoldQuantity is derived from order item history, and
// CurrentQuantity is the live counter clamped at zero for display.
type ProductQuantity struct {
	ProductID       string `json:"productId"`
	Name            string `json:"name"`
	InitialQuantity int    `json:"initialQuantity"`
	SoldQuantity    int    `json:"soldQuantity"`
	CurrentQuantity int    `json:"currentQuantity"`
}
