package integration

import (
	"context"
	"testing"
	"time"

	"clothier/internal/model"
	"clothier/internal/repository"
	"clothier/internal/stock"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedClient inserts a client row and returns its ID.
func seedClient(t *testing.T, pool *pgxpool.Pool, email string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		"INSERT INTO clients (id, full_name, email, address) VALUES ($1, $2, $3, $4)",
		id, "Test Client", email, "1 Test Street")
	require.NoError(t, err)
	return id
}

// seedOrder inserts an order with one item and returns the order ID.
func seedOrder(t *testing.T, pool *pgxpool.Pool, clientID uuid.UUID, status string, createdAt time.Time, productID string, quantity int, priceAtOrder string) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	orderID := uuid.New()

	total := decimal.RequireFromString(priceAtOrder).Mul(decimal.NewFromInt(int64(quantity)))
	_, err := pool.Exec(ctx,
		"INSERT INTO orders (id, client_id, status, total_price, created_at) VALUES ($1, $2, $3, $4, $5)",
		orderID, clientID, status, total, createdAt)
	require.NoError(t, err)

	_, err = pool.Exec(ctx,
		"INSERT INTO order_items (id, order_id, product_id, quantity, price_at_order) VALUES ($1, $2, $3, $4, $5)",
		uuid.New(), orderID, productID, quantity, priceAtOrder)
	require.NoError(t, err)

	return orderID
}

func TestProductRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewProductRepository(testDB.Pool, logger)

	ctx := context.Background()

	t.Run("GetAll returns seeded products ordered by name", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		products, err := repo.GetAll(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, products, 5)
		assert.Equal(t, "Crew T-Shirt", products[0].Name)
	})

	t.Run("GetByID returns nil for non-existent product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		product, err := repo.GetByID(ctx, "GHOST-99")
		require.NoError(t, err)
		assert.Nil(t, product)
	})

	t.Run("reads resolve reference names", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		categoryID := SeedReference(t, testDB.Pool, "categories", "Knitwear")
		brandID := SeedReference(t, testDB.Pool, "brands", "Loom & Co")

		err := repo.Create(ctx, &model.Product{
			ID:              "SWEATER-07",
			Name:            "Cable Sweater",
			Price:           decimal.RequireFromString("64.00"),
			InitialQuantity: 6,
			CategoryID:      &categoryID,
			BrandID:         &brandID,
			CreatedAt:       time.Now().UTC(),
		})
		require.NoError(t, err)

		product, err := repo.GetByID(ctx, "SWEATER-07")
		require.NoError(t, err)
		require.NotNil(t, product)
		require.NotNil(t, product.Category)
		assert.Equal(t, "Knitwear", *product.Category)
		require.NotNil(t, product.Brand)
		assert.Equal(t, "Loom & Co", *product.Brand)
		assert.Nil(t, product.Color, "unset references stay nil")

		products, err := repo.GetByIDs(ctx, []string{"SWEATER-07"})
		require.NoError(t, err)
		require.Len(t, products, 1)
		require.NotNil(t, products[0].Category)
		assert.Equal(t, "Knitwear", *products[0].Category)
	})

	t.Run("Upsert updates an existing row in place", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		updated := &model.Product{
			ID:              "TSHIRT-01",
			Name:            "Crew T-Shirt v2",
			Price:           decimal.RequireFromString("21.99"),
			InitialQuantity: 50,
			CreatedAt:       time.Now().UTC(),
		}
		require.NoError(t, repo.Upsert(ctx, updated))

		got, err := repo.GetByID(ctx, "TSHIRT-01")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Crew T-Shirt v2", got.Name)
		assert.True(t, got.Price.Equal(decimal.RequireFromString("21.99")))
		assert.Equal(t, 50, got.InitialQuantity)
	})

	t.Run("Delete refuses products referenced by orders", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		clientID := seedClient(t, testDB.Pool, "buyer@example.com")
		seedOrder(t, testDB.Pool, clientID, "pending", time.Now().UTC(), "TSHIRT-01", 1, "19.99")

		err := repo.Delete(ctx, "TSHIRT-01")
		assert.ErrorIs(t, err, model.ErrProductReferenced)

		// The product is still there
		got, err := repo.GetByID(ctx, "TSHIRT-01")
		require.NoError(t, err)
		assert.NotNil(t, got)
	})

	t.Run("Delete removes an unreferenced product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		require.NoError(t, repo.Delete(ctx, "SCARF-02"))

		got, err := repo.GetByID(ctx, "SCARF-02")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestDiscountRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	repo := repository.NewDiscountRepository(testDB.Pool, zerolog.Nop())

	ctx := context.Background()

	t.Run("ActiveDiscount returns nil without discounts", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		discount, err := repo.ActiveDiscount(ctx, "TSHIRT-01")
		require.NoError(t, err)
		assert.Nil(t, discount)
	})

	t.Run("most recently created active discount wins", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		SeedDiscount(t, testDB.Pool, "TSHIRT-01", "10")
		SeedDiscount(t, testDB.Pool, "TSHIRT-01", "25")

		discount, err := repo.ActiveDiscount(ctx, "TSHIRT-01")
		require.NoError(t, err)
		require.NotNil(t, discount)
		assert.True(t, discount.Percentage.Equal(decimal.RequireFromString("25")))
	})

	t.Run("SetActive deactivates and reactivates", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		created := &model.Discount{
			ProductID:  "JEANS-04",
			Percentage: decimal.RequireFromString("15"),
			Active:     true,
			CreatedAt:  time.Now().UTC(),
		}
		require.NoError(t, repo.Create(ctx, created))
		require.NotZero(t, created.ID)

		toggled, err := repo.SetActive(ctx, created.ID, false)
		require.NoError(t, err)
		require.NotNil(t, toggled)
		assert.False(t, toggled.Active)

		discount, err := repo.ActiveDiscount(ctx, "JEANS-04")
		require.NoError(t, err)
		assert.Nil(t, discount, "inactive discounts do not price")
	})

	t.Run("SetActive returns nil for unknown discount", func(t *testing.T) {
		toggled, err := repo.SetActive(ctx, 424242, true)
		require.NoError(t, err)
		assert.Nil(t, toggled)
	})
}

func TestClientRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	repo := repository.NewClientRepository(testDB.Pool, zerolog.Nop())

	ctx := context.Background()

	t.Run("FindOrCreate keeps the first write", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		tx, err := testDB.Pool.Begin(ctx)
		require.NoError(t, err)
		first, err := repo.FindOrCreate(ctx, tx, model.ClientDescriptor{
			Name:    "Ada Lovelace",
			Email:   "ada@example.com",
			Address: "12 Analytical Way",
		})
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))

		tx, err = testDB.Pool.Begin(ctx)
		require.NoError(t, err)
		second, err := repo.FindOrCreate(ctx, tx, model.ClientDescriptor{
			Name:    "A. Lovelace",
			Email:   "ada@example.com",
			Address: "99 Different Road",
		})
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "Ada Lovelace", second.FullName, "first write wins")
		assert.Equal(t, "12 Analytical Way", second.Address)
	})
}

func TestOrderRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	repo := repository.NewOrderRepository(testDB.Pool, zerolog.Nop())

	ctx := context.Background()

	t.Run("create order with items and finalise total", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		clientID := seedClient(t, testDB.Pool, "buyer@example.com")

		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)

		orderID := uuid.New()
		order := &model.Order{
			ID:         orderID,
			ClientID:   clientID,
			Status:     model.StatusPending,
			TotalPrice: decimal.Zero,
			CreatedAt:  time.Now().UTC(),
		}
		require.NoError(t, repo.CreateOrder(ctx, tx, order))

		items := []model.OrderItem{
			{ID: uuid.New(), OrderID: orderID, ProductID: "TSHIRT-01", Quantity: 2, PriceAtOrder: decimal.RequireFromString("19.99")},
			{ID: uuid.New(), OrderID: orderID, ProductID: "JEANS-04", Quantity: 1, PriceAtOrder: decimal.RequireFromString("49.50")},
		}
		require.NoError(t, repo.CreateOrderItems(ctx, tx, items))
		require.NoError(t, repo.SetTotalPrice(ctx, tx, orderID, decimal.RequireFromString("89.48")))
		require.NoError(t, tx.Commit(ctx))

		got, gotItems, err := repo.GetByID(ctx, orderID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, model.StatusPending, got.Status)
		assert.True(t, got.TotalPrice.Equal(decimal.RequireFromString("89.48")))
		assert.Len(t, gotItems, 2)
	})

	t.Run("rolled back order leaves nothing behind", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		clientID := seedClient(t, testDB.Pool, "buyer@example.com")

		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)

		orderID := uuid.New()
		order := &model.Order{ID: orderID, ClientID: clientID, Status: model.StatusPending, TotalPrice: decimal.Zero, CreatedAt: time.Now().UTC()}
		require.NoError(t, repo.CreateOrder(ctx, tx, order))
		require.NoError(t, tx.Rollback(ctx))

		got, _, err := repo.GetByID(ctx, orderID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("ListByClient returns only that client's orders", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		adaID := seedClient(t, testDB.Pool, "ada@example.com")
		graceID := seedClient(t, testDB.Pool, "grace@example.com")
		now := time.Now().UTC()
		seedOrder(t, testDB.Pool, adaID, "pending", now.Add(-time.Hour), "TSHIRT-01", 1, "19.99")
		seedOrder(t, testDB.Pool, adaID, "shipped", now, "JEANS-04", 1, "49.50")
		seedOrder(t, testDB.Pool, graceID, "pending", now, "COAT-11", 1, "120.00")

		orders, err := repo.ListByClient(ctx, adaID, 10, 0)
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, model.StatusShipped, orders[0].Status, "newest first")
		for _, o := range orders {
			assert.Equal(t, adaID, o.ClientID)
		}

		none, err := repo.ListByClient(ctx, uuid.New(), 10, 0)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("UpdateStatus persists the transition", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		clientID := seedClient(t, testDB.Pool, "buyer@example.com")
		orderID := seedOrder(t, testDB.Pool, clientID, "pending", time.Now().UTC(), "TSHIRT-01", 1, "19.99")

		updated, err := repo.UpdateStatus(ctx, orderID, model.StatusShipped)
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, model.StatusShipped, updated.Status)
	})

	t.Run("Stats counts orders per status", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		clientID := seedClient(t, testDB.Pool, "buyer@example.com")
		now := time.Now().UTC()
		seedOrder(t, testDB.Pool, clientID, "pending", now, "TSHIRT-01", 1, "19.99")
		seedOrder(t, testDB.Pool, clientID, "pending", now, "JEANS-04", 1, "49.50")
		seedOrder(t, testDB.Pool, clientID, "delivered", now, "HOODIE-03", 1, "39.00")
		seedOrder(t, testDB.Pool, clientID, "cancelled", now, "COAT-11", 1, "120.00")

		stats, err := repo.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, stats.Total)
		assert.Equal(t, 2, stats.Pending)
		assert.Equal(t, 1, stats.Delivered)
		assert.Equal(t, 1, stats.Cancelled)
	})
}

func TestStockLedger_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	ledger := stock.NewLedger(testDB.Pool, zerolog.Nop())

	ctx := context.Background()

	t.Run("Decrement reduces the live counter", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		tx, err := testDB.Pool.Begin(ctx)
		require.NoError(t, err)
		require.NoError(t, ledger.Decrement(ctx, tx, "TSHIRT-01", 10))
		require.NoError(t, tx.Commit(ctx))

		var remaining int
		require.NoError(t, testDB.Pool.QueryRow(ctx,
			"SELECT initial_quantity FROM products WHERE id = $1", "TSHIRT-01").Scan(&remaining))
		assert.Equal(t, 15, remaining)
	})

	t.Run("Decrement never drives the counter below zero", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		tx, err := testDB.Pool.Begin(ctx)
		require.NoError(t, err)
		err = ledger.Decrement(ctx, tx, "COAT-11", 5) // only 4 in stock
		require.NoError(t, tx.Rollback(ctx))

		var stockErr *model.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, "COAT-11", stockErr.ProductID)
		assert.Equal(t, "Wool Coat", stockErr.Name)
		assert.Equal(t, 4, stockErr.Available)
		assert.Equal(t, 5, stockErr.Requested)

		var remaining int
		require.NoError(t, testDB.Pool.QueryRow(ctx,
			"SELECT initial_quantity FROM products WHERE id = $1", "COAT-11").Scan(&remaining))
		assert.Equal(t, 4, remaining)
	})

	t.Run("SoldQuantity sums order item history", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		clientID := seedClient(t, testDB.Pool, "buyer@example.com")
		now := time.Now().UTC()
		seedOrder(t, testDB.Pool, clientID, "delivered", now, "TSHIRT-01", 3, "19.99")
		seedOrder(t, testDB.Pool, clientID, "pending", now, "TSHIRT-01", 2, "19.99")

		sold, err := ledger.SoldQuantity(ctx, "TSHIRT-01")
		require.NoError(t, err)
		assert.Equal(t, 5, sold)
	})
}

func TestReportRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	repo := repository.NewReportRepository(testDB.Pool, zerolog.Nop())

	ctx := context.Background()

	seedHistory := func(t *testing.T) time.Time {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		clientID := seedClient(t, testDB.Pool, "buyer@example.com")

		day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
		seedOrder(t, testDB.Pool, clientID, "delivered", day, "TSHIRT-01", 2, "19.99")
		seedOrder(t, testDB.Pool, clientID, "pending", day.Add(2*time.Hour), "JEANS-04", 1, "49.50")
		// Cancelled orders never count towards revenue
		seedOrder(t, testDB.Pool, clientID, "cancelled", day, "COAT-11", 1, "120.00")
		// A different day in the same month
		seedOrder(t, testDB.Pool, clientID, "delivered", day.AddDate(0, 0, 5), "TSHIRT-01", 1, "19.99")
		return day
	}

	t.Run("DailyEarnings excludes cancelled orders", func(t *testing.T) {
		day := seedHistory(t)

		report, err := repo.DailyEarnings(ctx, day)
		require.NoError(t, err)
		assert.Equal(t, "2025-03-10", report.Date)
		assert.Equal(t, 2, report.TotalOrders)
		assert.Equal(t, 3, report.TotalItemsSold)
		// 2 x 19.99 + 1 x 49.50 = 89.48
		assert.True(t, report.TotalEarnings.Equal(decimal.RequireFromString("89.48")),
			"got %s", report.TotalEarnings)
	})

	t.Run("MonthlyEarnings aggregates with daily breakdown", func(t *testing.T) {
		seedHistory(t)

		report, err := repo.MonthlyEarnings(ctx, 2025, 3)
		require.NoError(t, err)
		assert.Equal(t, 3, report.TotalOrders)
		assert.True(t, report.TotalEarnings.Equal(decimal.RequireFromString("109.47")),
			"got %s", report.TotalEarnings)
		require.Len(t, report.DailyBreakdown, 2)
	})

	t.Run("TopProducts ranks by order count then quantity", func(t *testing.T) {
		seedHistory(t)

		products, err := repo.TopProducts(ctx, 10, nil)
		require.NoError(t, err)
		require.NotEmpty(t, products)
		assert.Equal(t, "TSHIRT-01", products[0].ProductID)
		assert.Equal(t, 1, products[0].Rank)
		assert.Equal(t, 2, products[0].OrderCount)
		assert.Equal(t, 3, products[0].QuantitySold)
	})

	t.Run("TopProducts honours the since window", func(t *testing.T) {
		day := seedHistory(t)
		since := day.AddDate(0, 0, 2)

		products, err := repo.TopProducts(ctx, 10, &since)
		require.NoError(t, err)
		require.Len(t, products, 1, "only the later order falls in the window")
		assert.Equal(t, "TSHIRT-01", products[0].ProductID)
		assert.Equal(t, 1, products[0].QuantitySold)
	})

	t.Run("SalesSummary reports all-time revenue and statuses", func(t *testing.T) {
		seedHistory(t)

		summary, err := repo.SalesSummary(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, summary.TotalOrders, "cancelled orders do not count")
		assert.Equal(t, 4, summary.StatusCounts.Total)
		assert.Equal(t, 1, summary.StatusCounts.Cancelled)
		assert.True(t, summary.TotalRevenue.Equal(decimal.RequireFromString("109.47")),
			"got %s", summary.TotalRevenue)
	})
}
