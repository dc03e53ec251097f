package main

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	"melodia/internal/handlers"
	"melodia/internal/middleware"
	"melodia/internal/models"
	"melodia/internal/repositories"
	"melodia/internal/services"
	"melodia/pkg/mailer"
	"melodia/pkg/rabbitmq"
	"melodia/pkg/recaptcha"
)

// AppConfig carries the settings the HTTP app needs beyond its injected
// dependencies.
type AppConfig struct {
	JWTSecret     string
	RevenueStatus string
	UploadsDir    string
	Payment       services.PaymentConfig
}

// Dependencies holds the external resources the app is wired against. Tests
// inject an in-memory database and mock publisher/mailer/verifier here.
type Dependencies struct {
	DB      *gorm.DB
	MQ      rabbitmq.Publisher
	Mail    mailer.Mailer
	Captcha recaptcha.Verifier
}

// NewApp assembles repositories, services, handlers and middleware into a
// ready-to-listen Fiber app. The AuthService is returned alongside so callers
// (and tests) can mint or validate tokens directly.
func NewApp(cfg AppConfig, deps Dependencies) (*fiber.App, *services.AuthService, error) {
	// --- Repositories ---
	customerRepo := repositories.NewGORMCustomerRepository(deps.DB)
	categoryRepo := repositories.NewGORMCategoryRepository(deps.DB)
	itemRepo := repositories.NewGORMItemRepository(deps.DB)
	cartRepo := repositories.NewGORMCartRepository(deps.DB)
	wishlistRepo := repositories.NewGORMWishlistRepository(deps.DB)
	orderRepo := repositories.NewGORMOrderRepository(deps.DB)
	activityRepo := repositories.NewGORMActivityLogRepository(deps.DB)

	// --- Services ---
	authService := services.NewAuthService(customerRepo, activityRepo, deps.Mail, deps.Captcha, cfg.JWTSecret)
	catalogService := services.NewCatalogService(categoryRepo, itemRepo)
	cartService := services.NewCartService(cartRepo)
	wishlistService := services.NewWishlistService(wishlistRepo, itemRepo)
	orderService := services.NewOrderService(orderRepo, activityRepo, deps.MQ, cfg.RevenueStatus)
	paymentService := services.NewPaymentService(orderService, cartService, cfg.Payment)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)
	orderHandler := handlers.NewOrderHandler(orderService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	activityHandler := handlers.NewActivityHandler(activityRepo)

	app := fiber.New()

	// --- Middleware ---
	app.Use(logger.New())
	// CSRF protects browser-facing routes. The stripe group is exempt because
	// the webhook is signed server-to-server, and cart/order are exempt to
	// keep the legacy storefront clients working.
	app.Use(csrf.New(csrf.Config{
		Next: func(c *fiber.Ctx) bool {
			path := c.Path()
			return strings.HasPrefix(path, "/api/v1/stripe/") ||
				strings.HasPrefix(path, "/api/v1/cart/") ||
				strings.HasPrefix(path, "/api/v1/order/")
		},
	}))

	if cfg.UploadsDir != "" {
		app.Static("/uploads", cfg.UploadsDir)
	}

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")

	// Public surface: auth flow, catalog browsing, gateway callbacks and the
	// cart (addressed by customer id, not by token).
	authHandler.RegisterRoutes(apiV1)
	catalogHandler.RegisterRoutes(apiV1)
	paymentHandler.RegisterRoutes(apiV1)
	cartHandler.RegisterRoutes(apiV1)

	// Token-protected surface.
	protectedRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	wishlistHandler.RegisterRoutes(protectedRoutes)
	orderHandler.RegisterRoutes(protectedRoutes)

	// Admin-only surface.
	adminRoutes := protectedRoutes.Group("", middleware.RoleRequired(models.RoleAdmin))
	activityHandler.RegisterRoutes(adminRoutes)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app, authService, nil
}
