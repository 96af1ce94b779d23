package service

import (
	"context"
	"fmt"
	"time"

	"clothier/internal/event"
	"clothier/internal/model"
	"clothier/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var maxPercentage = decimal.NewFromInt(100)

// discountService implements DiscountService.
type discountService struct {
	discountRepo repository.DiscountRepository
	productRepo  repository.ProductRepository
	publisher    event.Publisher
	logger       zerolog.Logger
}

// NewDiscountService creates a new discount service.
func NewDiscountService(
	discountRepo repository.DiscountRepository,
	productRepo repository.ProductRepository,
	publisher event.Publisher,
	logger zerolog.Logger,
) DiscountService {
	return &discountService{
		discountRepo: discountRepo,
		productRepo:  productRepo,
		publisher:    publisher,
		logger:       logger.With().Str("service", "discount").Logger(),
	}
}

// Create adds a discount for a product. The percentage is validated
// here, once; the pricing resolver trusts stored values.
func (s *discountService) Create(ctx context.Context, input *model.DiscountInput) (*model.Discount, error) {
	if input == nil || input.ProductID == "" {
		return nil, model.NewDomainError(model.ErrCodeInvalidJSON, "Discount product ID is required")
	}

	if input.Percentage.IsNegative() || input.Percentage.GreaterThan(maxPercentage) {
		s.logger.Warn().
			Str("product_id", input.ProductID).
			Str("percentage", input.Percentage.String()).
			Msg("discount percentage out of range")
		return nil, model.ErrInvalidDiscount
	}

	product, err := s.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, &model.ProductNotFoundError{ProductID: input.ProductID}
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	discount := &model.Discount{
		ProductID:  input.ProductID,
		Percentage: input.Percentage,
		Active:     active,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.discountRepo.Create(ctx, discount); err != nil {
		return nil, fmt.Errorf("failed to create discount: %w", err)
	}

	s.publishPriceChange(discount.ProductID)

	s.logger.Info().
		Int64("discount_id", discount.ID).
		Str("product_id", discount.ProductID).
		Str("percentage", discount.Percentage.String()).
		Bool("active", discount.Active).
		Msg("discount created")

	return discount, nil
}

// SetActive toggles a discount's active flag.
func (s *discountService) SetActive(ctx context.Context, id int64, active bool) (*model.Discount, error) {
	discount, err := s.discountRepo.SetActive(ctx, id, active)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle discount: %w", err)
	}
	if discount == nil {
		return nil, model.NewDomainError(model.ErrCodeNotFound, "Discount not found")
	}

	s.publishPriceChange(discount.ProductID)

	s.logger.Info().
		Int64("discount_id", id).
		Bool("active", active).
		Msg("discount toggled")

	return discount, nil
}

// publishPriceChange signals that the product's effective price moved,
// so external caches treat it as stale.
func (s *discountService) publishPriceChange(productID string) {
	evt := event.ProductEvent{
		Type:       event.TypeProductUpdated,
		ProductID:  productID,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(evt); err != nil {
		s.logger.Warn().Err(err).Str("product_id", productID).Msg("failed to publish price change event")
	}
}
