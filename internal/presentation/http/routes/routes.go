package routes

import (
	"time"

	"github.com/dmelo/balcao-api/internal/config"
	"github.com/dmelo/balcao-api/internal/presentation/http/handler"
	"github.com/dmelo/balcao-api/internal/presentation/http/middleware"
	"github.com/dmelo/balcao-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Product   *handler.ProductHandler
	Category  *handler.CategoryHandler
	Customer  *handler.CustomerHandler
	Sale      *handler.SaleHandler
	Payment   *handler.PaymentHandler
	Cashbox   *handler.CashboxHandler
	Financial *handler.FinancialHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager *utils.JWTManager
	Cfg        *config.Config
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: deps.Cfg.RateLimit.RequestsPerSecond,
			BurstSize:         deps.Cfg.RateLimit.BurstSize,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		products := protected.Group("/products")
		{
			products.POST("", h.Product.Create)
			products.GET("", h.Product.List)
			products.GET("/report", h.Product.Report)
			products.GET("/report/export", h.Product.Export)
			products.GET("/:id", h.Product.Get)
			products.PATCH("/:id", h.Product.Update)
			products.DELETE("/:id", h.Product.Delete)
		}

		categories := protected.Group("/categories")
		{
			categories.POST("", h.Category.Create)
			categories.GET("", h.Category.List)
		}

		customers := protected.Group("/customers")
		{
			customers.POST("", h.Customer.Create)
			customers.GET("", h.Customer.List)
			customers.GET("/:id", h.Customer.Get)
			customers.PATCH("/:id", h.Customer.Update)
			customers.DELETE("/:id", h.Customer.Delete)
			customers.POST("/:id/payments", h.Payment.Create)
			customers.GET("/:id/payments", h.Payment.List)
		}

		sales := protected.Group("/sales")
		{
			sales.POST("", h.Sale.Create)
			sales.GET("", h.Sale.List)
			sales.GET("/:id", h.Sale.Get)
			sales.PATCH("/:id", h.Sale.Update)
			sales.POST("/:id/cancel", h.Sale.Cancel)
		}

		cashboxes := protected.Group("/cashboxes")
		{
			cashboxes.POST("", h.Cashbox.Create)
			cashboxes.GET("", h.Cashbox.List)
			cashboxes.GET("/:id", h.Cashbox.Get)
			cashboxes.POST("/:id/open", h.Cashbox.Open)
			cashboxes.POST("/:id/close", h.Cashbox.Close)
			cashboxes.GET("/:id/report", h.Cashbox.Report)
		}

		entries := protected.Group("/financial-entries")
		{
			entries.POST("", h.Financial.Create)
			entries.GET("", h.Financial.List)
			entries.GET("/:id", h.Financial.Get)
			entries.PATCH("/:id", h.Financial.Update)
			entries.DELETE("/:id", h.Financial.Delete)
		}
	}

	return router
}
