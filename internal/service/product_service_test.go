package service

import (
	"context"
	"errors"
	"testing"

	"clothier/internal/event"
	"clothier/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (*model.Product, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, p *model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, p *model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Upsert(ctx context.Context, p *model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func TestProductService_GetAll_ClampsPagination(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	ledger := new(MockLedger)
	service := NewProductService(repo, ledger, &recordingPublisher{}, zerolog.Nop())

	repo.On("GetAll", ctx, 10, 0).Return([]model.Product{}, nil).Once()
	_, err := service.GetAll(ctx, 0, -1)
	require.NoError(t, err)

	repo.On("GetAll", ctx, 100, 5).Return([]model.Product{}, nil).Once()
	_, err = service.GetAll(ctx, 1000, 5)
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestProductService_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	service := NewProductService(repo, new(MockLedger), &recordingPublisher{}, zerolog.Nop())

	repo.On("GetByID", ctx, "GHOST-99").Return(nil, nil)

	product, err := service.GetByID(ctx, "GHOST-99")

	assert.Nil(t, product)
	var notFound *model.ProductNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "GHOST-99", notFound.ProductID)
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	publisher := &recordingPublisher{}
	service := NewProductService(repo, new(MockLedger), publisher, zerolog.Nop())

	input := &model.ProductInput{
		ID:              "TSHIRT-01",
		Name:            "Crew T-Shirt",
		Price:           decimal.RequireFromString("19.99"),
		InitialQuantity: 25,
	}

	repo.On("Create", ctx, mock.AnythingOfType("*model.Product")).Return(nil)

	product, err := service.Create(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "TSHIRT-01", product.ID)
	assert.Equal(t, 25, product.InitialQuantity)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, event.TypeProductUpdated, publisher.events[0].Type)
	repo.AssertExpectations(t)
}

func TestProductService_Create_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input *model.ProductInput
	}{
		{name: "nil input", input: nil},
		{name: "missing ID", input: &model.ProductInput{Name: "Crew T-Shirt"}},
		{name: "missing name", input: &model.ProductInput{ID: "TSHIRT-01"}},
		{
			name: "negative price",
			input: &model.ProductInput{
				ID:    "TSHIRT-01",
				Name:  "Crew T-Shirt",
				Price: decimal.RequireFromString("-1"),
			},
		},
		{
			name: "negative quantity",
			input: &model.ProductInput{
				ID:              "TSHIRT-01",
				Name:            "Crew T-Shirt",
				Price:           decimal.RequireFromString("19.99"),
				InitialQuantity: -3,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockProductRepository)
			service := NewProductService(repo, new(MockLedger), &recordingPublisher{}, zerolog.Nop())

			product, err := service.Create(context.Background(), tt.input)

			assert.Nil(t, product)
			assert.Error(t, err)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestProductService_Update_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	service := NewProductService(repo, new(MockLedger), &recordingPublisher{}, zerolog.Nop())

	repo.On("GetByID", ctx, "GHOST-99").Return(nil, nil)

	input := &model.ProductInput{
		ID:    "GHOST-99",
		Name:  "Phantom Jacket",
		Price: decimal.RequireFromString("50.00"),
	}

	product, err := service.Update(ctx, "GHOST-99", input)

	assert.Nil(t, product)
	var notFound *model.ProductNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestProductService_Delete_ReferencedProduct(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	publisher := &recordingPublisher{}
	service := NewProductService(repo, new(MockLedger), publisher, zerolog.Nop())

	repo.On("Delete", ctx, "TSHIRT-01").Return(model.ErrProductReferenced)

	err := service.Delete(ctx, "TSHIRT-01")

	assert.ErrorIs(t, err, model.ErrProductReferenced)
	assert.Empty(t, publisher.events)
}

func TestProductService_Quantity(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	ledger := new(MockLedger)
	service := NewProductService(repo, ledger, &recordingPublisher{}, zerolog.Nop())

	repo.On("GetByID", ctx, "TSHIRT-01").Return(&model.Product{
		ID:              "TSHIRT-01",
		Name:            "Crew T-Shirt",
		InitialQuantity: 7,
	}, nil)
	ledger.On("SoldQuantity", ctx, "TSHIRT-01").Return(18, nil)

	quantity, err := service.Quantity(ctx, "TSHIRT-01")

	require.NoError(t, err)
	assert.Equal(t, 7, quantity.InitialQuantity)
	assert.Equal(t, 18, quantity.SoldQuantity)
	assert.Equal(t, 7, quantity.CurrentQuantity)
}

func TestProductService_Quantity_ClampsNegativeCounter(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	ledger := new(MockLedger)
	service := NewProductService(repo, ledger, &recordingPublisher{}, zerolog.Nop())

	// A manually corrupted counter is displayed as zero but stored as-is
	repo.On("GetByID", ctx, "TSHIRT-01").Return(&model.Product{
		ID:              "TSHIRT-01",
		Name:            "Crew T-Shirt",
		InitialQuantity: -2,
	}, nil)
	ledger.On("SoldQuantity", ctx, "TSHIRT-01").Return(30, nil)

	quantity, err := service.Quantity(ctx, "TSHIRT-01")

	require.NoError(t, err)
	assert.Equal(t, -2, quantity.InitialQuantity)
	assert.Equal(t, 0, quantity.CurrentQuantity)
}
