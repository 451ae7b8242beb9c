package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mishki-store/internal/cart"
	"mishki-store/internal/config"
	"mishki-store/internal/database"
	"mishki-store/internal/email"
	"mishki-store/internal/handler"
	"mishki-store/internal/repository"
	"mishki-store/internal/router"
	"mishki-store/internal/seed"
	"mishki-store/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env when present; real environments set variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting mishki-store API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	newsletterRepo := repository.NewNewsletterRepository(pool, logger)
	cartStorage := repository.NewCartStorage(pool, logger)

	cartStore := cart.NewStore(cartStorage, 1, logger)

	// Invoice email transport; disabled when SMTP is not configured
	notifier, err := email.NewNotifier(cfg.SMTP, cfg.Storefront.BaseURL, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize email notifier: %w", err)
	}

	// Seed loader with S3-first fallback when a bucket is configured
	fileLoader := seed.NewFileLoader(logger)
	seedLoader := fileLoader
	if cfg.Seed.S3Bucket != "" {
		s3Loader, err := seed.NewS3Loader(ctx, cfg.Seed.S3Bucket, cfg.Seed.S3Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 seed loader, falling back to local file system only")
		} else {
			seedLoader = seed.NewFallbackLoader(s3Loader, fileLoader, cfg.Seed.S3Key, logger)
		}
	}
	seeder := seed.NewSeeder(seedLoader, productRepo, userRepo, newsletterRepo, logger)

	// Services
	productService := service.NewProductService(productRepo, logger)
	checkoutService := service.NewCheckoutService(
		orderRepo, productRepo, userRepo, cartStore, notifier,
		cfg.Storefront.B2BMinQuantity, logger,
	)
	orderService := service.NewOrderService(orderRepo, notifier, logger)
	newsletterService := service.NewNewsletterService(newsletterRepo, logger)

	// HTTP handlers
	handlers := router.Handlers{
		Product:    handler.NewProductHandler(productService, logger),
		Cart:       handler.NewCartHandler(cartStore, logger),
		Order:      handler.NewOrderHandler(checkoutService, orderService, logger),
		Invoice:    handler.NewInvoiceHandler(orderService, logger),
		Newsletter: handler.NewNewsletterHandler(newsletterService, logger),
		Seed:       handler.NewSeedHandler(seeder, cfg.Seed.Enabled, cfg.Seed.FilePath, logger),
		PayPal:     handler.NewPayPalHandler(cfg.PayPal, logger),
	}

	mux := router.New(handlers, cfg.Auth.APIKey, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
