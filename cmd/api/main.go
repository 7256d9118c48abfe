package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/storefront-api/internal/config"
	"github.com/fairyhunter13/storefront-api/internal/handler"
	"github.com/fairyhunter13/storefront-api/internal/mailer"
	"github.com/fairyhunter13/storefront-api/internal/repository"
	"github.com/fairyhunter13/storefront-api/internal/service"
	"github.com/fairyhunter13/storefront-api/internal/validator"
	"github.com/fairyhunter13/storefront-api/pkg/database"
)

func main() {
	// Load configuration first
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize zerolog based on configuration
	initLogger(cfg)

	// Create context for startup
	ctx := context.Background()

	// Initialize database pool with retry, then bring the schema up to date
	pool, err := database.NewPool(ctx, cfg.DB.DSN(), 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(cfg.DB.MigrateURL()); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Initialize Fiber with production-ready configuration
	app := fiber.New(fiber.Config{
		AppName:      "Storefront API",
		ReadTimeout:  30 * time.Second,  // Max time to read request
		WriteTimeout: 30 * time.Second,  // Max time to write response
		IdleTimeout:  120 * time.Second, // Max time for keep-alive connections
		BodyLimit:    1 * 1024 * 1024,   // 1MB body limit (explicit, prevents large payloads)
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New()) // Adds X-Request-ID header to all requests
	app.Use(logger.New())

	// Initialize validator
	validate := validator.New()

	// Outbound mail is optional; without SMTP config notifications are skipped
	var mail service.Mailer
	if cfg.SMTP.Enabled() {
		m, err := mailer.New(cfg.SMTP)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize mailer")
		}
		mail = m
		log.Info().Str("host", cfg.SMTP.Host).Msg("outbound mail enabled")
	} else {
		log.Warn().Msg("SMTP not configured, order and career notifications disabled")
	}

	// Repositories
	couponRepo := repository.NewCouponRepository(pool)
	cartRepo := repository.NewCartRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	intakeRepo := repository.NewIntakeRepository(pool)

	// Services
	couponService := service.NewCouponService(couponRepo)
	cartService := service.NewCartService(pool, cartRepo, productRepo, couponRepo)
	orderService := service.NewOrderService(pool, cartRepo, couponRepo, orderRepo, mail)
	catalogService := service.NewCatalogService(productRepo, intakeRepo)
	intakeService := service.NewIntakeService(intakeRepo, mail)

	// Handlers
	couponHandler := handler.NewCouponHandler(couponService, validate)
	cartHandler := handler.NewCartHandler(cartService, validate)
	orderHandler := handler.NewOrderHandler(orderService, validate)
	catalogHandler := handler.NewCatalogHandler(catalogService, validate)
	intakeHandler := handler.NewIntakeHandler(intakeService, validate)
	healthHandler := handler.NewHealthHandler(pool)

	app.Get("/health", healthHandler.Check)

	// Catalog routes
	app.Get("/api/products", catalogHandler.ListProducts)
	app.Get("/api/products/:id", catalogHandler.GetProduct)
	app.Get("/api/products/:id/reviews", catalogHandler.ListReviews)
	app.Post("/api/products/:id/reviews", catalogHandler.CreateReview)

	// Coupon routes
	app.Get("/api/coupons", couponHandler.ListCoupons)
	app.Post("/api/coupons/validate", couponHandler.ValidateCoupon)

	admin := handler.AdminOnly(cfg.Admin.Token)
	app.Post("/api/coupons", admin, couponHandler.CreateCoupon)
	app.Put("/api/coupons/:code", admin, couponHandler.UpdateCoupon)
	app.Delete("/api/coupons/:code", admin, couponHandler.DeleteCoupon)

	// Cart routes
	app.Get("/api/cart/:userId", cartHandler.GetCart)
	app.Post("/api/cart/add", cartHandler.AddItem)
	app.Put("/api/cart/update", cartHandler.UpdateItem)
	app.Delete("/api/cart/remove", cartHandler.RemoveItem)
	app.Post("/api/cart/apply-coupon", cartHandler.ApplyCoupon)
	app.Post("/api/cart/remove-coupon", cartHandler.RemoveCoupon)
	app.Delete("/api/cart/clear/:userId", cartHandler.ClearCart)

	// Order routes
	app.Post("/api/orders", orderHandler.Checkout)
	app.Get("/api/orders/:id", orderHandler.GetOrder)

	// Intake routes
	app.Post("/api/careers/apply", intakeHandler.Apply)
	app.Post("/api/newsletter/subscribe", intakeHandler.Subscribe)

	// Start server with graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// Shutdown server (waits for in-flight requests)
	log.Info().Msg("waiting for in-flight requests to complete...")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close database pool AFTER server shutdown (even if shutdown timed out)
	log.Info().Msg("closing database connections...")
	pool.Close()
	log.Info().Msg("database connections closed")
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	// Set log level
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Log.Pretty {
		// Human-readable output for development
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		// JSON output for production
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
