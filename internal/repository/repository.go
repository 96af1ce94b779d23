package repository

import (
	"context"
	"time"

	"clothier/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// GetForUpdate retrieves a product inside tx with a row-level lock,
	// so concurrent checkouts against the same product serialise.
	GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (*model.Product, error)

	// Create inserts a new product.
	Create(ctx context.Context, p *model.Product) error

	// Update replaces the mutable fields of an existing product.
	Update(ctx context.Context, p *model.Product) error

	// Delete removes a product. Products referenced by historical order
	// items are not deletable and yield model.ErrProductReferenced.
	Delete(ctx context.Context, id string) error

	// Upsert inserts a product or updates it in place, used by the
	// catalogue importer.
	Upsert(ctx context.Context, p *model.Product) error
}

// DiscountRepository defines the interface for discount data access operations.
type DiscountRepository interface {
	// ActiveDiscount returns the active discount for a product, or nil
	// when none exists. When several are active the most recently
	// created one wins.
	ActiveDiscount(ctx context.Context, productID string) (*model.Discount, error)

	// Create inserts a new discount.
	Create(ctx context.Context, d *model.Discount) error

	// SetActive toggles a discount's active flag and returns the
	// updated row, or nil when the discount does not exist.
	SetActive(ctx context.Context, id int64, active bool) (*model.Discount, error)
}

// ClientRepository defines the interface for client data access operations.
type ClientRepository interface {
	// FindOrCreate resolves a client by email inside tx, creating it
	// from the descriptor on first order. The first write wins: a
	// second order with the same email reuses the stored row.
	FindOrCreate(ctx context.Context, tx pgx.Tx, desc model.ClientDescriptor) (*model.Client, error)

	// GetByID retrieves a client by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Client, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// SetTotalPrice finalises the order total within the provided transaction.
	SetTotalPrice(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, total decimal.Decimal) error

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)

	// List retrieves orders newest first with pagination support.
	List(ctx context.Context, limit, offset int) ([]model.Order, error)

	// ListByClient retrieves one client's orders newest first with
	// pagination support.
	ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]model.Order, error)

	// UpdateStatus persists a status change and returns the updated
	// order, or nil when the order does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error)

	// Stats returns per-status order counts.
	Stats(ctx context.Context) (*model.OrderStats, error)
}

// ReportRepository defines read-only reporting rollups over committed
// order history. All revenue math uses price_at_order snapshots and
// excludes cancelled orders.
type ReportRepository interface {
	// DailyEarnings aggregates earnings for the day containing ts (UTC).
	DailyEarnings(ctx context.Context, ts time.Time) (*model.DailyEarnings, error)

	// MonthlyEarnings aggregates a calendar month with a per-day breakdown.
	MonthlyEarnings(ctx context.Context, year, month int) (*model.MonthlyEarnings, error)

	// TopProducts ranks products by (order count, quantity sold) since
	// the given time; a nil since means all-time.
	TopProducts(ctx context.Context, limit int, since *time.Time) ([]model.TopProduct, error)

	// SalesSummary computes the all-time revenue and status breakdown.
	SalesSummary(ctx context.Context) (*model.SalesSummary, error)
}
