package stock

import (
	"context"
	"fmt"

	"clothier/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Ledger tracks product stock. The live counter on the product row is
// the source of truth for availability; sold quantity is derived from
// order item history and used only for reporting.
type Ledger interface {
	// CheckAvailability compares a requested quantity against the
	// product's live counter. A counter already negative (prior bug or
	// manual edit) rejects every further request.
	CheckAvailability(product *model.Product, requested int) error

	// Decrement reduces the live counter inside tx. Callers must have
	// validated sufficiency; the conditional WHERE clause is the final
	// guard against a concurrent decrement racing past zero.
	Decrement(ctx context.Context, tx pgx.Tx, productID string, qty int) error

	// SoldQuantity sums quantities across all order items referencing
	// the product.
	SoldQuantity(ctx context.Context, productID string) (int, error)
}

// pgLedger implements Ledger against the products and order_items tables.
type pgLedger struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewLedger creates a PostgreSQL-backed stock ledger.
func NewLedger(pool *pgxpool.Pool, logger zerolog.Logger) Ledger {
	return &pgLedger{
		pool:   pool,
		logger: logger.With().Str("component", "stock").Logger(),
	}
}

// CheckAvailability compares the requested quantity against the live counter.
func (l *pgLedger) CheckAvailability(product *model.Product, requested int) error {
	if product.InitialQuantity < requested {
		return &model.InsufficientStockError{
			ProductID: product.ID,
			Name:      product.Name,
			Available: product.InitialQuantity,
			Requested: requested,
		}
	}
	return nil
}

// Decrement reduces the live counter inside tx.
func (l *pgLedger) Decrement(ctx context.Context, tx pgx.Tx, productID string, qty int) error {
	query := `
		UPDATE products
		SET initial_quantity = initial_quantity - $2
		WHERE id = $1 AND initial_quantity >= $2
	`

	tag, err := tx.Exec(ctx, query, productID, qty)
	if err != nil {
		l.logger.Error().Err(err).Str("product_id", productID).Msg("failed to decrement stock")
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// The caller validated availability under a row lock, so this
		// only fires when the counter moved underneath us. Re-read it
		// so the error names the product and the stock actually left.
		var name string
		var available int
		if qErr := tx.QueryRow(ctx,
			`SELECT name, initial_quantity FROM products WHERE id = $1`, productID,
		).Scan(&name, &available); qErr != nil {
			l.logger.Error().Err(qErr).Str("product_id", productID).Msg("failed to re-read stock counter")
			name = productID
		}
		if available < 0 {
			available = 0
		}
		l.logger.Warn().
			Str("product_id", productID).
			Int("available", available).
			Int("quantity", qty).
			Msg("conditional stock decrement matched no rows")
		return &model.InsufficientStockError{
			ProductID: productID,
			Name:      name,
			Available: available,
			Requested: qty,
		}
	}

	return nil
}

// SoldQuantity sums quantities across all order items for the product.
func (l *pgLedger) SoldQuantity(ctx context.Context, productID string) (int, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM order_items
		WHERE product_id = $1
	`

	var sold int
	if err := l.pool.QueryRow(ctx, query, productID).Scan(&sold); err != nil {
		l.logger.Error().Err(err).Str("product_id", productID).Msg("failed to query sold quantity")
		return 0, fmt.Errorf("failed to query sold quantity: %w", err)
	}

	return sold, nil
}
