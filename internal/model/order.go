package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order represents a committed customer order. TotalPrice is computed
// once at creation and never recomputed.
type Order struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	ClientID   uuid.UUID       `json:"clientId" db:"client_id"`
	Status     OrderStatus     `json:"status" db:"status"`
	TotalPrice decimal.Decimal `json:"totalPrice" db:"total_price"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
}

// OrderItem is a single order line. PriceAtOrder is the effective unit
// price frozen at the moment the order was placed; later price or
// discount changes never touch it.
type OrderItem struct {
	ID           uuid.UUID       `json:"-" db:"id"`
	OrderID      uuid.UUID       `json:"-" db:"order_id"`
	ProductID    string          `json:"productId" db:"product_id"`
	ProductName  string          `json:"productName,omitempty" db:"-"`
	Quantity     int             `json:"quantity" db:"quantity"`
	PriceAtOrder decimal.Decimal `json:"priceAtOrder" db:"price_at_order"`
}

// OrderRequest is the request payload for placing an order.
type OrderRequest struct {
	Client ClientDescriptor   `json:"client"`
	Items  []OrderItemRequest `json:"items"`
}

// OrderItemRequest is a single line in an order request.
type OrderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// OrderResponse is the order confirmation returned to the caller.
type OrderResponse struct {
	ID         uuid.UUID       `json:"id"`
	Client     Client          `json:"client"`
	Status     OrderStatus     `json:"status"`
	Items      []OrderItem     `json:"items"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// StatusUpdateRequest is the payload for an administrative status change.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// OrderStats holds per-status order counts.
type OrderStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Shipped    int `json:"shipped"`
	Delivered  int `json:"delivered"`
	Cancelled  int `json:"cancelled"`
}
