package router

import (
	"database/sql"

	"resto_backend/internal/handlers"
	"resto_backend/internal/middleware"
	"resto_backend/internal/repositories"
	"resto_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Setup wires repositories, services and handlers and registers every
// route under /api/v1.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Repositories
	authRepo := repositories.NewAuthRepository(db)
	productRepo := repositories.NewProductRepository(db)
	movementRepo := repositories.NewStockMovementRepository(db)
	poRepo := repositories.NewPurchaseOrderRepository(db)
	stockTakeRepo := repositories.NewStockTakeRepository(db)
	menuRepo := repositories.NewMenuRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	bookingRepo := repositories.NewBookingRepository(db)
	accountingRepo := repositories.NewAccountingRepository(db)
	invoiceRepo := repositories.NewInvoiceRepository(db)
	personnelRepo := repositories.NewPersonnelRepository(db)
	analyticsRepo := repositories.NewAnalyticsRepository(db)

	// Services
	authService := services.NewAuthService(authRepo, db)
	inventoryService := services.NewInventoryService(productRepo, movementRepo, db)
	poService := services.NewPurchaseOrderService(poRepo, productRepo, movementRepo, db)
	stockTakeService := services.NewStockTakeService(stockTakeRepo, productRepo, movementRepo, db)
	menuService := services.NewMenuService(menuRepo, db)
	orderService := services.NewOrderService(orderRepo, menuRepo, productRepo, movementRepo, accountingRepo, db)
	bookingService := services.NewBookingService(bookingRepo, db)
	accountingService := services.NewAccountingService(accountingRepo, db)
	invoiceService := services.NewInvoiceService(invoiceRepo, accountingRepo, db)
	personnelService := services.NewPersonnelService(personnelRepo, db)
	analyticsService := services.NewAnalyticsService(analyticsRepo, productRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	poHandler := handlers.NewPurchaseOrderHandler(poService)
	stockTakeHandler := handlers.NewStockTakeHandler(stockTakeService)
	menuHandler := handlers.NewMenuHandler(menuService)
	orderHandler := handlers.NewOrderHandler(orderService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	accountingHandler := handlers.NewAccountingHandler(accountingService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService)
	personnelHandler := handlers.NewPersonnelHandler(personnelService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	apiV1 := engine.Group("/api/v1")

	SetupAuthRoutes(apiV1, authHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupUserRoutes(authenticated, authHandler)
		SetupInventoryRoutes(authenticated, inventoryHandler)
		SetupPurchaseOrderRoutes(authenticated, poHandler)
		SetupStockTakeRoutes(authenticated, stockTakeHandler)
		SetupMenuRoutes(authenticated, menuHandler)
		SetupOrderRoutes(authenticated, orderHandler)
		SetupBookingRoutes(authenticated, bookingHandler)
		SetupAccountingRoutes(authenticated, accountingHandler)
		SetupInvoiceRoutes(authenticated, invoiceHandler)
		SetupPersonnelRoutes(authenticated, personnelHandler)
		SetupAnalyticsRoutes(authenticated, analyticsHandler)
	}
}
