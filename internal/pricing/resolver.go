package pricing

import (
	"context"
	"fmt"

	"clothier/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DiscountSource supplies the active discount for a product, or nil
// when none exists.
type DiscountSource interface {
	ActiveDiscount(ctx context.Context, productID string) (*model.Discount, error)
}

var hundred = decimal.NewFromInt(100)

// Resolver determines the effective unit price of a product at call
// time. It has no side effects and is not retroactive: order lines
// snapshot the resolved price, so later discount changes never affect
// committed orders.
type Resolver struct {
	discounts DiscountSource
	logger    zerolog.Logger
}

// NewResolver creates a pricing resolver backed by the given discount source.
func NewResolver(discounts DiscountSource, logger zerolog.Logger) *Resolver {
	return &Resolver{
		discounts: discounts,
		logger:    logger.With().Str("component", "pricing").Logger(),
	}
}

// UnitPrice returns the effective unit price for the product: the list
// price reduced by the active discount percentage when one exists,
// rounded to two decimal places. Percentages are validated at discount
// creation time and are not re-validated here.
func (r *Resolver) UnitPrice(ctx context.Context, product *model.Product) (decimal.Decimal, error) {
	discount, err := r.discounts.ActiveDiscount(ctx, product.ID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to resolve discount: %w", err)
	}

	if discount == nil {
		return product.Price, nil
	}

	factor := decimal.NewFromInt(1).Sub(discount.Percentage.Div(hundred))
	price := product.Price.Mul(factor).Round(2)

	r.logger.Debug().
		Str("product_id", product.ID).
		Str("list_price", product.Price.String()).
		Str("percentage", discount.Percentage.String()).
		Str("effective_price", price.String()).
		Msg("discount applied")

	return price, nil
}
