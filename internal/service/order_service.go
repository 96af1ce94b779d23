package service

import (
	"context"
	"fmt"
	"time"

	"clothier/internal/event"
	"clothier/internal/model"
	"clothier/internal/pricing"
	"clothier/internal/repository"
	"clothier/internal/stock"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// orderService implements OrderService. It is the transaction boundary
// for order placement: every write between client resolution and the
// final total lands in one database transaction.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	clientRepo  repository.ClientRepository
	ledger      stock.Ledger
	pricer      *pricing.Resolver
	publisher   event.Publisher
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	clientRepo repository.ClientRepository,
	ledger stock.Ledger,
	pricer *pricing.Resolver,
	publisher event.Publisher,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		clientRepo:  clientRepo,
		ledger:      ledger,
		pricer:      pricer,
		publisher:   publisher,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// PlaceOrder validates and commits an order atomically.
func (s *orderService) PlaceOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {
	if err := validateOrderRequest(req); err != nil {
		s.logger.Warn().Err(err).Msg("order request rejected")
		return nil, err
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, model.WrapTransactionFailure(err)
	}

	// Roll back on any error; nothing partial survives a failed attempt.
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	client, err := s.clientRepo.FindOrCreate(ctx, tx, req.Client)
	if err != nil {
		s.logger.Error().Err(err).Str("email", req.Client.Email).Msg("failed to resolve client")
		return nil, model.WrapTransactionFailure(err)
	}

	order := &model.Order{
		ID:         uuid.New(),
		ClientID:   client.ID,
		Status:     model.StatusPending,
		TotalPrice: decimal.Zero,
		CreatedAt:  time.Now().UTC(),
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, model.WrapTransactionFailure(err)
	}

	items := make([]model.OrderItem, 0, len(req.Items))
	total := decimal.Zero

	for _, line := range req.Items {
		var product *model.Product
		product, err = s.productRepo.GetForUpdate(ctx, tx, line.ProductID)
		if err != nil {
			return nil, model.WrapTransactionFailure(err)
		}
		if product == nil {
			err = &model.ProductNotFoundError{ProductID: line.ProductID}
			s.logger.Warn().Str("product_id", line.ProductID).Msg("unknown product in order")
			return nil, err
		}

		if err = s.ledger.CheckAvailability(product, line.Quantity); err != nil {
			s.logger.Warn().
				Str("product_id", product.ID).
				Int("available", product.InitialQuantity).
				Int("requested", line.Quantity).
				Msg("insufficient stock")
			return nil, err
		}

		var unitPrice decimal.Decimal
		unitPrice, err = s.pricer.UnitPrice(ctx, product)
		if err != nil {
			s.logger.Error().Err(err).Str("product_id", product.ID).Msg("failed to resolve unit price")
			return nil, model.WrapTransactionFailure(err)
		}

		items = append(items, model.OrderItem{
			ID:           uuid.New(),
			OrderID:      order.ID,
			ProductID:    product.ID,
			ProductName:  product.Name,
			Quantity:     line.Quantity,
			PriceAtOrder: unitPrice,
		})
		total = total.Add(unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))

		if err = s.ledger.Decrement(ctx, tx, product.ID, line.Quantity); err != nil {
			return nil, err
		}
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(items)).
			Msg("failed to create order items")
		return nil, model.WrapTransactionFailure(err)
	}

	if err = s.orderRepo.SetTotalPrice(ctx, tx, order.ID, total); err != nil {
		return nil, model.WrapTransactionFailure(err)
	}
	order.TotalPrice = total

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, model.WrapTransactionFailure(err)
	}

	s.publishStockChanges(order.ID, items)

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("client_id", client.ID.String()).
		Int("item_count", len(items)).
		Str("total", total.String()).
		Msg("order placed")

	return &model.OrderResponse{
		ID:         order.ID,
		Client:     *client,
		Status:     order.Status,
		Items:      items,
		TotalPrice: total,
		CreatedAt:  order.CreatedAt,
	}, nil
}

// publishStockChanges emits one stock event per line after commit.
// Publishing is best-effort; the order is already committed.
func (s *orderService) publishStockChanges(orderID uuid.UUID, items []model.OrderItem) {
	for _, item := range items {
		evt := event.ProductEvent{
			Type:       event.TypeProductStockChanged,
			ProductID:  item.ProductID,
			OrderID:    orderID.String(),
			OccurredAt: time.Now().UTC(),
		}
		if err := s.publisher.Publish(evt); err != nil {
			s.logger.Warn().
				Err(err).
				Str("product_id", item.ProductID).
				Msg("failed to publish stock change event")
		}
	}
}

// GetByID retrieves an order by its ID with items and client details.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	order, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	return s.buildResponse(ctx, order, items)
}

// List retrieves orders newest first with pagination.
func (s *orderService) List(ctx context.Context, limit, offset int) ([]model.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	orders, err := s.orderRepo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// ListByClient retrieves one client's orders newest first with pagination.
func (s *orderService) ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]model.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	orders, err := s.orderRepo.ListByClient(ctx, clientID, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Str("client_id", clientID.String()).Msg("failed to list client orders")
		return nil, fmt.Errorf("failed to list client orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus applies an administrative status transition. Transitions
// between non-terminal states are unrestricted; delivered and cancelled
// orders are frozen.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, rawStatus string) (*model.OrderResponse, error) {
	status, err := model.ParseOrderStatus(rawStatus)
	if err != nil {
		s.logger.Warn().Str("order_id", id.String()).Str("status", rawStatus).Msg("invalid status value")
		return nil, err
	}

	order, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if !order.Status.CanTransitionTo(status) {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("from", string(order.Status)).
			Str("to", string(status)).
			Msg("rejected transition out of terminal status")
		return nil, model.ErrTerminalStatus
	}

	updated, err := s.orderRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if updated == nil {
		return nil, model.ErrOrderNotFound
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("from", string(order.Status)).
		Str("to", string(status)).
		Msg("order status updated")

	return s.buildResponse(ctx, updated, items)
}

// Stats returns per-status order counts.
func (s *orderService) Stats(ctx context.Context) (*model.OrderStats, error) {
	stats, err := s.orderRepo.Stats(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get order stats")
		return nil, fmt.Errorf("failed to get order stats: %w", err)
	}
	return stats, nil
}

// buildResponse resolves the order's client, batch-resolves product
// names for the line items, and assembles the response.
func (s *orderService) buildResponse(ctx context.Context, order *model.Order, items []model.OrderItem) (*model.OrderResponse, error) {
	client, err := s.clientRepo.GetByID(ctx, order.ClientID)
	if err != nil {
		s.logger.Error().Err(err).Str("client_id", order.ClientID.String()).Msg("failed to get client")
		return nil, fmt.Errorf("failed to get order client: %w", err)
	}

	if len(items) > 0 {
		ids := make([]string, 0, len(items))
		for _, item := range items {
			ids = append(ids, item.ProductID)
		}
		products, err := s.productRepo.GetByIDs(ctx, ids)
		if err != nil {
			s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to resolve order products")
			return nil, fmt.Errorf("failed to resolve order products: %w", err)
		}
		names := make(map[string]string, len(products))
		for _, p := range products {
			names[p.ID] = p.Name
		}
		for i := range items {
			items[i].ProductName = names[items[i].ProductID]
		}
	}

	resp := &model.OrderResponse{
		ID:         order.ID,
		Status:     order.Status,
		Items:      items,
		TotalPrice: order.TotalPrice,
		CreatedAt:  order.CreatedAt,
	}
	if client != nil {
		resp.Client = *client
	}
	return resp, nil
}

// validateOrderRequest checks the client descriptor and line items in
// order; the first failure aborts the whole request.
func validateOrderRequest(req *model.OrderRequest) error {
	if req == nil {
		return model.ErrInvalidClient
	}

	if req.Client.Name == "" || req.Client.Email == "" {
		return model.ErrInvalidClient
	}

	if len(req.Items) == 0 {
		return model.ErrEmptyOrder
	}

	for _, item := range req.Items {
		if item.ProductID == "" || item.Quantity < 1 {
			return model.ErrInvalidLineItem
		}
	}

	return nil
}
