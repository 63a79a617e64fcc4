package service

import (
	"log/slog"
	"net/http"

	"github.com/codythatsme/parted-euro-app/internal/auth"
	"github.com/codythatsme/parted-euro-app/internal/handlers"
	"github.com/codythatsme/parted-euro-app/internal/shipping"
	"github.com/codythatsme/parted-euro-app/storage"
	"github.com/labstack/echo/v4"
)

type Service struct {
	storage         *storage.Storage
	config          *Config
	shippingService *shipping.Service
	shippingHandler *handlers.ShippingHandler
	checkoutHandler *handlers.CheckoutHandler
	adminHandler    *handlers.AdminHandler
}

func New(storage *storage.Storage, config *Config) *Service {
	shippingConfig, err := shipping.LoadConfig(config.Shipping.ConfigPath)
	if err != nil {
		slog.Warn("failed to load shipping config, using defaults", "error", err, "path", config.Shipping.ConfigPath)
		shippingConfig = shipping.DefaultConfig()
	} else {
		slog.Info("loaded shipping configuration", "path", config.Shipping.ConfigPath)
	}

	shippingService := shipping.NewService(shippingConfig)

	return &Service{
		storage:         storage,
		config:          config,
		shippingService: shippingService,
		shippingHandler: handlers.NewShippingHandler(storage.Queries, shippingService),
		checkoutHandler: handlers.NewCheckoutHandler(storage.Queries, config.Stripe.SecretKey),
		adminHandler:    handlers.NewAdminHandler(storage.Queries),
	}
}

func (s *Service) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", s.handleHealthz)

	// Customer-facing API. DetectAdmin only marks the caller; it never
	// rejects, so the same quote endpoint serves the storefront and the
	// admin order screen.
	api := e.Group("/api")
	api.Use(auth.DetectAdmin(s.config.Admin.APIKey))

	api.POST("/shipping/quote", s.shippingHandler.GetShippingQuote)
	api.POST("/shipping/selection", s.shippingHandler.SaveShippingSelection)
	api.GET("/shipping/selection", s.shippingHandler.GetShippingSelection)
	api.POST("/checkout/create-session", s.checkoutHandler.CreateCheckoutSession)

	admin := e.Group("/admin")
	admin.Use(auth.RequireAdmin(s.config.Admin.APIKey))
	admin.GET("/shipping/quotes", s.adminHandler.ListQuoteLogs)
}

func (s *Service) handleHealthz(c echo.Context) error {
	if err := s.storage.DB().PingContext(c.Request().Context()); err != nil {
		slog.Error("health check failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
