package main

import (
	"log"

	"github.com/dmelo/balcao-api/internal/application/service"
	"github.com/dmelo/balcao-api/internal/config"
	"github.com/dmelo/balcao-api/internal/infrastructure/database"
	"github.com/dmelo/balcao-api/internal/infrastructure/repository"
	"github.com/dmelo/balcao-api/internal/presentation/http/handler"
	"github.com/dmelo/balcao-api/internal/presentation/http/routes"
	"github.com/dmelo/balcao-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Register the stock guard callbacks. They are the last line of defense
	// against completed sales exceeding available stock.
	if err := database.RegisterStockGuard(db); err != nil {
		log.Fatalf("Failed to register stock guard: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	txManager := repository.NewTxManager(db)
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	paymentRepo := repository.NewCustomerPaymentRepository(db)
	cashboxRepo := repository.NewCashboxRepository(db)
	entryRepo := repository.NewFinancialEntryRepository(db)

	// Initialize services
	stockGuard := service.NewStockGuard(productRepo)
	authService := service.NewAuthService(userRepo, jwtManager)
	productService := service.NewProductService(productRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	customerService := service.NewCustomerService(customerRepo)
	saleService := service.NewSaleService(txManager, saleRepo, productRepo, customerRepo, stockGuard)
	paymentService := service.NewPaymentService(txManager, saleRepo, customerRepo, paymentRepo)
	cashboxService := service.NewCashboxService(txManager, cashboxRepo, saleRepo, entryRepo)
	financialService := service.NewFinancialService(entryRepo, cashboxRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Product:   handler.NewProductHandler(productService),
		Category:  handler.NewCategoryHandler(categoryService),
		Customer:  handler.NewCustomerHandler(customerService, paymentService),
		Sale:      handler.NewSaleHandler(saleService),
		Payment:   handler.NewPaymentHandler(paymentService),
		Cashbox:   handler.NewCashboxHandler(cashboxService),
		Financial: handler.NewFinancialHandler(financialService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager: jwtManager,
		Cfg:        cfg,
	})

	// Start server
	addr := ":" + cfg.App.Port
	log.Printf("Starting %s on %s (env: %s)", cfg.App.Name, addr, cfg.App.Env)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
