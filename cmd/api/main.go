package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vendora/internal/analytics"
	"vendora/internal/config"
	"vendora/internal/currency"
	"vendora/internal/database"
	"vendora/internal/fulfillment"
	"vendora/internal/handler"
	"vendora/internal/payment"
	"vendora/internal/repository"
	"vendora/internal/router"
	"vendora/internal/storage"
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
	logger.Info().Msg("starting vendora API server")

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
	orderRepo := repository.NewOrderRepository(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)

	// Initialize package photo storage
	uploader, err := storage.NewS3Uploader(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.KeyPrefix, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 uploader: %w", err)
	}

	// Initialize payments provider client
	refunder := payment.NewClient(cfg.Payments.BaseURL, cfg.Payments.APIKey, logger)

	// Initialize exchange-rate cache
	rateSource := currency.NewHTTPSource(cfg.Rates.URL, logger)
	rateCache := currency.NewCache(rateSource, logger)

	// Initialize services
	fulfillmentService := fulfillment.NewService(orderRepo, uploader, refunder, logger)
	analyticsService := analytics.NewService(orderRepo, productRepo, logger)

	// Initialize HTTP handlers
	orderHandler := handler.NewOrderHandler(fulfillmentService, orderRepo, logger)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, rateCache, logger)
	productHandler := handler.NewProductHandler(productRepo, logger)

	// Initialize router
	mux := router.New(orderHandler, analyticsHandler, productHandler, cfg.Auth.APIKey, logger)

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
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
