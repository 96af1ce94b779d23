package service

import (
	"context"

	"clothier/internal/model"

	"github.com/google/uuid"
)

// ProductService defines operations for catalogue management.
type ProductService interface {
	// GetAll retrieves all products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Create adds a new product to the catalogue.
	Create(ctx context.Context, input *model.ProductInput) (*model.Product, error)

	// Update replaces the mutable fields of an existing product.
	Update(ctx context.Context, id string, input *model.ProductInput) (*model.Product, error)

	// Delete removes a product unless historical orders reference it.
	Delete(ctx context.Context, id string) error

	// Quantity returns the live, sold, and clamped stock view for a product.
	Quantity(ctx context.Context, id string) (*model.ProductQuantity, error)
}

// DiscountService defines operations for discount administration.
type DiscountService interface {
	// Create adds a discount for a product. Percentage must lie in [0,100].
	Create(ctx context.Context, input *model.DiscountInput) (*model.Discount, error)

	// SetActive toggles a discount's active flag.
	SetActive(ctx context.Context, id int64, active bool) (*model.Discount, error)
}

// OrderService defines operations for order placement and lifecycle.
type OrderService interface {
	// PlaceOrder validates and commits an order atomically: client
	// resolution, price snapshotting, stock decrement, and persistence
	// all succeed or none do.
	PlaceOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error)

	// GetByID retrieves an order with its items and client.
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error)

	// List retrieves orders newest first with pagination.
	List(ctx context.Context, limit, offset int) ([]model.Order, error)

	// ListByClient retrieves one client's orders newest first with
	// pagination.
	ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]model.Order, error)

	// UpdateStatus applies an administrative status transition.
	UpdateStatus(ctx context.Context, id uuid.UUID, rawStatus string) (*model.OrderResponse, error)

	// Stats returns per-status order counts.
	Stats(ctx context.Context) (*model.OrderStats, error)
}

// ReportService defines read-only sales reporting operations.
type ReportService interface {
	// DailyEarnings reports earnings for a day given as "2006-01-02";
	// empty means today.
	DailyEarnings(ctx context.Context, date string) (*model.DailyEarnings, error)

	// MonthlyEarnings reports a month with daily breakdown; zero values
	// mean the current year/month.
	MonthlyEarnings(ctx context.Context, year, month int) (*model.MonthlyEarnings, error)

	// TopProducts ranks the best sellers over a trailing period: one of
	// "week", "month", "year", or empty for all-time.
	TopProducts(ctx context.Context, limit int, period string) (*model.TopProductsReport, error)

	// Summary reports all-time revenue and the status breakdown.
	Summary(ctx context.Context) (*model.SalesSummary, error)
}
