package repository

import (
	"context"
	"errors"
	"fmt"

	"clothier/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// discountRepository implements the DiscountRepository interface using PostgreSQL.
type discountRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewDiscountRepository creates a new PostgreSQL-backed discount repository.
func NewDiscountRepository(pool *pgxpool.Pool, logger zerolog.Logger) DiscountRepository {
	return &discountRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "discount").Logger(),
	}
}

// ActiveDiscount returns the active discount for a product, or nil when
// none exists. The most recently created active discount wins when
// several are active at once.
func (r *discountRepository) ActiveDiscount(ctx context.Context, productID string) (*model.Discount, error) {
	query := `
		SELECT id, product_id, percentage, active, created_at
		FROM discounts
		WHERE product_id = $1 AND active
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var d model.Discount
	err := r.pool.QueryRow(ctx, query, productID).Scan(
		&d.ID, &d.ProductID, &d.Percentage, &d.Active, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", productID).Msg("failed to query active discount")
		return nil, fmt.Errorf("failed to query active discount: %w", err)
	}

	return &d, nil
}

// Create inserts a new discount.
func (r *discountRepository) Create(ctx context.Context, d *model.Discount) error {
	query := `
		INSERT INTO discounts (product_id, percentage, active, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query, d.ProductID, d.Percentage, d.Active, d.CreatedAt).Scan(&d.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", d.ProductID).Msg("failed to create discount")
		return fmt.Errorf("failed to create discount: %w", err)
	}

	return nil
}

// SetActive toggles a discount's active flag.
func (r *discountRepository) SetActive(ctx context.Context, id int64, active bool) (*model.Discount, error) {
	query := `
		UPDATE discounts
		SET active = $2
		WHERE id = $1
		RETURNING id, product_id, percentage, active, created_at
	`

	var d model.Discount
	err := r.pool.QueryRow(ctx, query, id, active).Scan(
		&d.ID, &d.ProductID, &d.Percentage, &d.Active, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("discount_id", id).Msg("failed to toggle discount")
		return nil, fmt.Errorf("failed to toggle discount: %w", err)
	}

	return &d, nil
}
