package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clothier/internal/catalog"
	"clothier/internal/config"
	"clothier/internal/database"
	"clothier/internal/event"
	"clothier/internal/handler"
	"clothier/internal/pricing"
	"clothier/internal/repository"
	"clothier/internal/router"
	"clothier/internal/service"
	"clothier/internal/stock"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting clothier API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	discountRepo := repository.NewDiscountRepository(pool, logger)
	clientRepo := repository.NewClientRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	reportRepo := repository.NewReportRepository(pool, logger)

	// Initialize the stock ledger and pricing resolver
	ledger := stock.NewLedger(pool, logger)
	pricer := pricing.NewResolver(discountRepo, logger)

	// Initialize the post-commit event publisher
	publisher := event.NewNopPublisher()
	if cfg.Kafka.Enabled {
		publisher, err = event.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize Kafka publisher: %w", err)
		}
	} else {
		logger.Info().Msg("Kafka disabled, product events will not be published")
	}
	defer publisher.Close()

	// Run the catalogue import before serving traffic so the store
	// never starts with a partial catalogue.
	if cfg.Import.Enabled {
		if err := runImport(ctx, cfg, productRepo, logger); err != nil {
			return fmt.Errorf("catalogue import failed: %w", err)
		}
	}

	// Initialize services
	productService := service.NewProductService(productRepo, ledger, publisher, logger)
	discountService := service.NewDiscountService(discountRepo, productRepo, publisher, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, clientRepo, ledger, pricer, publisher, logger)
	reportService := service.NewReportService(reportRepo, logger)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	discountHandler := handler.NewDiscountHandler(discountService, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)

	// Initialize router
	mux := router.New(productHandler, orderHandler, discountHandler, reportHandler, cfg.Auth.AdminAPIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received")

		// Give outstanding requests a deadline to complete
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			server.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}

		logger.Info().Msg("server stopped")
	}

	return nil
}

// runImport builds the catalogue loader chain and upserts the
// configured import file into the products table.
func runImport(ctx context.Context, cfg *config.Config, products repository.ProductRepository, logger zerolog.Logger) error {
	fileLoader := catalog.NewFileLoader(logger)
	loader := fileLoader

	if cfg.S3.Enabled {
		s3Loader, err := catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			loader = catalog.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, cfg.S3.Enabled, logger)
		}
	}

	importer := catalog.NewImporter(loader, products, logger)
	count, err := importer.Run(ctx, cfg.Import.File)
	if err != nil {
		return err
	}

	logger.Info().Int("products", count).Str("file", cfg.Import.File).Msg("catalogue import complete")
	return nil
}
