package service

import (
	"context"
	"fmt"
	"time"

	"clothier/internal/event"
	"clothier/internal/model"
	"clothier/internal/repository"
	"clothier/internal/stock"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	ledger      stock.Ledger
	publisher   event.Publisher
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	productRepo repository.ProductRepository,
	ledger stock.Ledger,
	publisher event.Publisher,
	logger zerolog.Logger,
) ProductService {
	return &productService{
		productRepo: productRepo,
		ledger:      ledger,
		publisher:   publisher,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// GetAll retrieves all products with pagination.
func (s *productService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.productRepo.GetAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to get all products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, &model.ProductNotFoundError{ProductID: id}
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, &model.ProductNotFoundError{ProductID: id}
	}

	return product, nil
}

// Create adds a new product to the catalogue.
func (s *productService) Create(ctx context.Context, input *model.ProductInput) (*model.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := &model.Product{
		ID:              input.ID,
		Name:            input.Name,
		Description:     input.Description,
		Price:           input.Price,
		InitialQuantity: input.InitialQuantity,
		CategoryID:      input.CategoryID,
		BrandID:         input.BrandID,
		ColorID:         input.ColorID,
		SizeID:          input.SizeID,
		GenderID:        input.GenderID,
		ImageURL:        input.ImageURL,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.publishProductEvent(event.TypeProductUpdated, product.ID)

	s.logger.Info().Str("product_id", product.ID).Msg("product created")

	return product, nil
}

// Update replaces the mutable fields of an existing product.
func (s *productService) Update(ctx context.Context, id string, input *model.ProductInput) (*model.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	existing, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if existing == nil {
		return nil, &model.ProductNotFoundError{ProductID: id}
	}

	product := &model.Product{
		ID:              id,
		Name:            input.Name,
		Description:     input.Description,
		Price:           input.Price,
		InitialQuantity: input.InitialQuantity,
		CategoryID:      input.CategoryID,
		BrandID:         input.BrandID,
		ColorID:         input.ColorID,
		SizeID:          input.SizeID,
		GenderID:        input.GenderID,
		ImageURL:        input.ImageURL,
		CreatedAt:       existing.CreatedAt,
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.publishProductEvent(event.TypeProductUpdated, id)

	s.logger.Info().Str("product_id", id).Msg("product updated")

	return product, nil
}

// Delete removes a product unless historical orders reference it.
func (s *productService) Delete(ctx context.Context, id string) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.publishProductEvent(event.TypeProductDeleted, id)

	s.logger.Info().Str("product_id", id).Msg("product deleted")

	return nil
}

// Quantity returns the live, sold, and clamped stock view for a product.
// The stored counter is not auto-corrected when negative; only the
// displayed current quantity is clamped.
func (s *productService) Quantity(ctx context.Context, id string) (*model.ProductQuantity, error) {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sold, err := s.ledger.SoldQuantity(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get sold quantity: %w", err)
	}

	current := product.InitialQuantity
	if current < 0 {
		current = 0
	}

	return &model.ProductQuantity{
		ProductID:       product.ID,
		Name:            product.Name,
		InitialQuantity: product.InitialQuantity,
		SoldQuantity:    sold,
		CurrentQuantity: current,
	}, nil
}

// publishProductEvent emits a catalogue event; failures are logged only.
func (s *productService) publishProductEvent(eventType, productID string) {
	evt := event.ProductEvent{
		Type:       eventType,
		ProductID:  productID,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(evt); err != nil {
		s.logger.Warn().
			Err(err).
			Str("type", eventType).
			Str("product_id", productID).
			Msg("failed to publish product event")
	}
}

// validateProductInput checks the fields common to create and update.
func validateProductInput(input *model.ProductInput) error {
	if input == nil || input.ID == "" || input.Name == "" {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "Product ID and name are required")
	}
	if input.Price.IsNegative() {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "Product price must not be negative")
	}
	if input.InitialQuantity < 0 {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "Product quantity must not be negative")
	}
	return nil
}
