package router

import (
	"net/http"

	"clothier/internal/handler"
	"clothier/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
// Administrative endpoints (catalogue mutations, discounts, status
// overrides, reporting) require the admin API key; the storefront
// surface (browsing and order placement) is open.
func New(
	productHandler *handler.ProductHandler,
	orderHandler *handler.OrderHandler,
	discountHandler *handler.DiscountHandler,
	reportHandler *handler.ReportHandler,
	adminAPIKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	auth := middleware.APIKeyAuth(adminAPIKey, logger)
	admin := func(h http.HandlerFunc) http.Handler {
		return auth(h)
	}

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Storefront routes
	mux.HandleFunc("GET /api/products", productHandler.GetAll)
	mux.HandleFunc("GET /api/products/{id}", productHandler.GetByID)
	mux.HandleFunc("GET /api/products/{id}/quantity", productHandler.Quantity)
	mux.HandleFunc("POST /api/orders", orderHandler.Create)
	mux.HandleFunc("GET /api/orders", orderHandler.List)
	mux.HandleFunc("GET /api/orders/{id}", orderHandler.GetByID)

	// Administrative routes
	mux.Handle("POST /api/products", admin(productHandler.Create))
	mux.Handle("PUT /api/products/{id}", admin(productHandler.Update))
	mux.Handle("DELETE /api/products/{id}", admin(productHandler.Delete))
	mux.Handle("POST /api/discounts", admin(discountHandler.Create))
	mux.Handle("PATCH /api/discounts/{id}", admin(discountHandler.SetActive))
	mux.Handle("PATCH /api/orders/{id}/status", admin(orderHandler.UpdateStatus))
	mux.Handle("GET /api/orders/stats", admin(orderHandler.Stats))
	mux.Handle("GET /api/reports/daily", admin(reportHandler.Daily))
	mux.Handle("GET /api/reports/monthly", admin(reportHandler.Monthly))
	mux.Handle("GET /api/reports/top-products", admin(reportHandler.TopProducts))
	mux.Handle("GET /api/reports/summary", admin(reportHandler.Summary))

	// Apply middleware in order: Recovery -> Logging -> CORS
	var h http.Handler = mux
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
