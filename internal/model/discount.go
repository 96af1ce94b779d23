package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Discount is a percentage reduction on a single product's list price.
// Only active discounts participate in pricing.
type Discount struct {
	ID         int64           `json:"id" db:"id"`
	ProductID  string          `json:"productId" db:"product_id"`
	Percentage decimal.Decimal `json:"percentage" db:"percentage"`
	Active     bool            `json:"active" db:"active"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
}

// DiscountInput is the payload for creating a discount.
type DiscountInput struct {
	ProductID  string          `json:"productId"`
	Percentage decimal.Decimal `json:"percentage"`
	Active     *bool           `json:"active,omitempty"`
}
