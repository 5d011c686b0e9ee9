package router

import (
	"resto_backend/internal/handlers"
	"resto_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the public authentication routes plus the
// authenticated /me and /logout endpoints.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/refresh-token", authHandler.RefreshToken)

		authRequired := authRoutes.Group("")
		authRequired.Use(middleware.AuthMiddleware())
		{
			authRequired.POST("/logout", authHandler.Logout)
			authRequired.GET("/me", authHandler.GetProfile)
		}
	}
}

// SetupUserRoutes sets up admin-only user management routes.
func SetupUserRoutes(authenticatedGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	userRoutes := authenticatedGroup.Group("/users")
	userRoutes.Use(middleware.RequirePermission(middleware.ActionManageUsers))
	{
		userRoutes.GET("", authHandler.GetUsers)
		userRoutes.PUT("/:id", authHandler.UpdateUser)
	}
}

// SetupInventoryRoutes sets up product catalog and stock ledger routes.
func SetupInventoryRoutes(authenticatedGroup *gin.RouterGroup, inventoryHandler *handlers.InventoryHandler) {
	inventoryRoutes := authenticatedGroup.Group("/inventory")
	inventoryRoutes.Use(middleware.RequirePermission(middleware.ActionManageInventory))
	{
		inventoryRoutes.POST("/categories", inventoryHandler.CreateCategory)
		inventoryRoutes.GET("/categories", inventoryHandler.GetCategories)
		inventoryRoutes.PUT("/categories/:id", inventoryHandler.UpdateCategory)
		inventoryRoutes.DELETE("/categories/:id", inventoryHandler.DeleteCategory)

		inventoryRoutes.POST("/suppliers", inventoryHandler.CreateSupplier)
		inventoryRoutes.GET("/suppliers", inventoryHandler.GetSuppliers)
		inventoryRoutes.GET("/suppliers/:id", inventoryHandler.GetSupplierByID)
		inventoryRoutes.PUT("/suppliers/:id", inventoryHandler.UpdateSupplier)
		inventoryRoutes.DELETE("/suppliers/:id", inventoryHandler.DeleteSupplier)

		inventoryRoutes.POST("/products", inventoryHandler.CreateProduct)
		inventoryRoutes.GET("/products", inventoryHandler.GetProducts)
		inventoryRoutes.GET("/products/low-stock", inventoryHandler.GetLowStockProducts)
		inventoryRoutes.GET("/products/:id", inventoryHandler.GetProductByID)
		inventoryRoutes.PUT("/products/:id", inventoryHandler.UpdateProduct)
		inventoryRoutes.DELETE("/products/:id", inventoryHandler.DeactivateProduct)

		inventoryRoutes.POST("/movements", inventoryHandler.RecordMovement)
		inventoryRoutes.GET("/movements", inventoryHandler.GetMovements)
		inventoryRoutes.DELETE("/movements/:id", inventoryHandler.DeleteMovement)
	}
}

// SetupPurchaseOrderRoutes sets up purchase order routes.
func SetupPurchaseOrderRoutes(authenticatedGroup *gin.RouterGroup, poHandler *handlers.PurchaseOrderHandler) {
	poRoutes := authenticatedGroup.Group("/purchase-orders")
	poRoutes.Use(middleware.RequirePermission(middleware.ActionManageInventory))
	{
		poRoutes.POST("", poHandler.CreatePurchaseOrder)
		poRoutes.GET("", poHandler.GetPurchaseOrders)
		poRoutes.GET("/:id", poHandler.GetPurchaseOrderByID)
		poRoutes.PATCH("/:id/status", poHandler.UpdateStatus)
		poRoutes.POST("/:id/receive", poHandler.ReceiveItems)
		poRoutes.DELETE("/:id", poHandler.DeletePurchaseOrder)
	}
}

// SetupStockTakeRoutes sets up physical count routes.
func SetupStockTakeRoutes(authenticatedGroup *gin.RouterGroup, stHandler *handlers.StockTakeHandler) {
	stRoutes := authenticatedGroup.Group("/stock-takes")
	stRoutes.Use(middleware.RequirePermission(middleware.ActionManageInventory))
	{
		stRoutes.POST("", stHandler.StartStockTake)
		stRoutes.GET("", stHandler.GetStockTakes)
		stRoutes.GET("/:id", stHandler.GetStockTakeByID)
		stRoutes.POST("/:id/counts", stHandler.RecordCounts)
		stRoutes.POST("/:id/complete", stHandler.CompleteStockTake)
		stRoutes.POST("/:id/cancel", stHandler.CancelStockTake)
		stRoutes.DELETE("/:id", stHandler.DeleteStockTake)
	}
}

// SetupMenuRoutes sets up menu catalog routes. Reading the menu only
// needs authentication; changes need the orders permission.
func SetupMenuRoutes(authenticatedGroup *gin.RouterGroup, menuHandler *handlers.MenuHandler) {
	menuRoutes := authenticatedGroup.Group("/menu")
	{
		menuRoutes.GET("/categories", menuHandler.GetCategories)
		menuRoutes.GET("/items", menuHandler.GetMenuItems)
		menuRoutes.GET("/items/:id", menuHandler.GetMenuItemByID)
	}

	menuManageRoutes := authenticatedGroup.Group("/menu")
	menuManageRoutes.Use(middleware.RequirePermission(middleware.ActionManageInventory))
	{
		menuManageRoutes.POST("/categories", menuHandler.CreateCategory)
		menuManageRoutes.PUT("/categories/:id", menuHandler.UpdateCategory)
		menuManageRoutes.DELETE("/categories/:id", menuHandler.DeleteCategory)

		menuManageRoutes.POST("/items", menuHandler.CreateMenuItem)
		menuManageRoutes.PUT("/items/:id", menuHandler.UpdateMenuItem)
		menuManageRoutes.PATCH("/items/:id/availability", menuHandler.SetAvailability)
		menuManageRoutes.DELETE("/items/:id", menuHandler.DeleteMenuItem)

		menuManageRoutes.POST("/items/:id/ingredients", menuHandler.AddIngredient)
		menuManageRoutes.DELETE("/items/:id/ingredients/:ingredient_id", menuHandler.RemoveIngredient)
	}
}

// SetupOrderRoutes sets up order and kitchen ticket routes.
func SetupOrderRoutes(authenticatedGroup *gin.RouterGroup, orderHandler *handlers.OrderHandler) {
	orderRoutes := authenticatedGroup.Group("/orders")
	orderRoutes.Use(middleware.RequirePermission(middleware.ActionManageOrders))
	{
		orderRoutes.POST("", orderHandler.CreateOrder)
		orderRoutes.GET("", orderHandler.GetOrders)
		orderRoutes.GET("/:id", orderHandler.GetOrderByID)
		orderRoutes.POST("/:id/items", orderHandler.AddItems)
		orderRoutes.PUT("/:id/items/:item_id", orderHandler.UpdateItemQuantity)
		orderRoutes.DELETE("/:id/items/:item_id", orderHandler.RemoveItem)
		orderRoutes.DELETE("/:id", orderHandler.DeleteOrder)
		orderRoutes.PATCH("/:id/status", orderHandler.UpdateStatus)
		orderRoutes.POST("/:id/pay", orderHandler.MarkPaid)
		orderRoutes.PATCH("/:id/discount", orderHandler.SetDiscount)
	}

	ticketRoutes := authenticatedGroup.Group("/kitchen-tickets")
	ticketRoutes.Use(middleware.RequirePermission(middleware.ActionManageOrders))
	{
		ticketRoutes.GET("", orderHandler.GetKitchenTickets)
		ticketRoutes.POST("/:id/start", orderHandler.StartTicket)
		ticketRoutes.POST("/:id/complete", orderHandler.CompleteTicket)
	}
}

// SetupBookingRoutes sets up table, reservation and availability routes.
func SetupBookingRoutes(authenticatedGroup *gin.RouterGroup, bookingHandler *handlers.BookingHandler) {
	bookingRoutes := authenticatedGroup.Group("/bookings")
	bookingRoutes.Use(middleware.RequirePermission(middleware.ActionManageReservations))
	{
		bookingRoutes.POST("/locations", bookingHandler.CreateLocation)
		bookingRoutes.GET("/locations", bookingHandler.GetLocations)
		bookingRoutes.PUT("/locations/:id", bookingHandler.UpdateLocation)
		bookingRoutes.DELETE("/locations/:id", bookingHandler.DeleteLocation)

		bookingRoutes.POST("/tables", bookingHandler.CreateTable)
		bookingRoutes.GET("/tables", bookingHandler.GetTables)
		bookingRoutes.GET("/tables/available", bookingHandler.GetAvailableTables)
		bookingRoutes.GET("/tables/:id", bookingHandler.GetTableByID)
		bookingRoutes.PUT("/tables/:id", bookingHandler.UpdateTable)
		bookingRoutes.DELETE("/tables/:id", bookingHandler.DeleteTable)

		bookingRoutes.POST("/reservations", bookingHandler.CreateReservation)
		bookingRoutes.GET("/reservations", bookingHandler.GetReservations)
		bookingRoutes.GET("/reservations/:id", bookingHandler.GetReservationByID)
		bookingRoutes.PUT("/reservations/:id", bookingHandler.UpdateReservation)
		bookingRoutes.PATCH("/reservations/:id/status", bookingHandler.UpdateReservationStatus)
		bookingRoutes.GET("/reservations/:id/history", bookingHandler.GetReservationHistory)

		bookingRoutes.PUT("/availability", bookingHandler.SetSlotAvailability)
		bookingRoutes.GET("/availability", bookingHandler.GetDayAvailability)
	}
}

// SetupAccountingRoutes sets up the ledger, budget and summary routes.
func SetupAccountingRoutes(authenticatedGroup *gin.RouterGroup, accountingHandler *handlers.AccountingHandler) {
	accountingRoutes := authenticatedGroup.Group("/accounting")
	accountingRoutes.Use(middleware.RequirePermission(middleware.ActionManageAccounting))
	{
		accountingRoutes.POST("/categories", accountingHandler.CreateCategory)
		accountingRoutes.GET("/categories", accountingHandler.GetCategories)
		accountingRoutes.PUT("/categories/:id", accountingHandler.UpdateCategory)
		accountingRoutes.DELETE("/categories/:id", accountingHandler.DeleteCategory)

		accountingRoutes.POST("/transactions", accountingHandler.RecordTransaction)
		accountingRoutes.GET("/transactions", accountingHandler.GetTransactions)
		accountingRoutes.GET("/transactions/:id", accountingHandler.GetTransactionByID)
		accountingRoutes.PUT("/transactions/:id", accountingHandler.UpdateTransaction)
		accountingRoutes.DELETE("/transactions/:id", accountingHandler.DeleteTransaction)
		accountingRoutes.GET("/summary", accountingHandler.GetFinancialSummary)

		accountingRoutes.POST("/budgets", accountingHandler.CreateBudget)
		accountingRoutes.GET("/budgets", accountingHandler.GetBudgets)
		accountingRoutes.GET("/budgets/:id", accountingHandler.GetBudgetByID)
		accountingRoutes.PUT("/budgets/:id", accountingHandler.UpdateBudget)
		accountingRoutes.DELETE("/budgets/:id", accountingHandler.DeleteBudget)
	}
}

// SetupInvoiceRoutes sets up invoice and payment routes.
func SetupInvoiceRoutes(authenticatedGroup *gin.RouterGroup, invoiceHandler *handlers.InvoiceHandler) {
	invoiceRoutes := authenticatedGroup.Group("/invoices")
	invoiceRoutes.Use(middleware.RequirePermission(middleware.ActionManageAccounting))
	{
		invoiceRoutes.POST("", invoiceHandler.CreateInvoice)
		invoiceRoutes.GET("", invoiceHandler.GetInvoices)
		invoiceRoutes.GET("/:id", invoiceHandler.GetInvoiceByID)
		invoiceRoutes.PUT("/:id", invoiceHandler.UpdateInvoice)
		invoiceRoutes.DELETE("/:id", invoiceHandler.DeleteInvoice)
		invoiceRoutes.POST("/:id/send", invoiceHandler.SendInvoice)
		invoiceRoutes.POST("/:id/cancel", invoiceHandler.CancelInvoice)
		invoiceRoutes.POST("/:id/items", invoiceHandler.AddItem)
		invoiceRoutes.PUT("/:id/items/:item_id", invoiceHandler.UpdateItem)
		invoiceRoutes.DELETE("/:id/items/:item_id", invoiceHandler.RemoveItem)
		invoiceRoutes.POST("/:id/payments", invoiceHandler.RecordPayment)
		invoiceRoutes.POST("/mark-overdue", invoiceHandler.MarkOverdueInvoices)
	}
}

// SetupPersonnelRoutes sets up HR routes.
func SetupPersonnelRoutes(authenticatedGroup *gin.RouterGroup, personnelHandler *handlers.PersonnelHandler) {
	personnelRoutes := authenticatedGroup.Group("/personnel")
	personnelRoutes.Use(middleware.RequirePermission(middleware.ActionManagePersonnel))
	{
		personnelRoutes.POST("/departments", personnelHandler.CreateDepartment)
		personnelRoutes.GET("/departments", personnelHandler.GetDepartments)
		personnelRoutes.PUT("/departments/:id", personnelHandler.UpdateDepartment)
		personnelRoutes.DELETE("/departments/:id", personnelHandler.DeleteDepartment)

		personnelRoutes.POST("/employees", personnelHandler.CreateEmployee)
		personnelRoutes.GET("/employees", personnelHandler.GetEmployees)
		personnelRoutes.GET("/employees/:id", personnelHandler.GetEmployeeByID)
		personnelRoutes.PUT("/employees/:id", personnelHandler.UpdateEmployee)
		personnelRoutes.POST("/employees/:id/terminate", personnelHandler.TerminateEmployee)

		personnelRoutes.POST("/employees/:id/contracts", personnelHandler.CreateContract)
		personnelRoutes.GET("/employees/:id/contracts", personnelHandler.GetContracts)
		personnelRoutes.GET("/employees/:id/contracts/active", personnelHandler.GetActiveContract)
		personnelRoutes.PUT("/contracts/:contract_id", personnelHandler.UpdateContract)

		personnelRoutes.POST("/attendance", personnelHandler.RecordAttendance)
		personnelRoutes.GET("/employees/:id/attendance", personnelHandler.GetAttendance)
		personnelRoutes.PUT("/attendance/:id", personnelHandler.UpdateAttendance)
		personnelRoutes.DELETE("/attendance/:id", personnelHandler.DeleteAttendance)

		personnelRoutes.POST("/leaves", personnelHandler.RequestLeave)
		personnelRoutes.GET("/leaves", personnelHandler.GetLeaves)
		personnelRoutes.POST("/leaves/:id/resolve", personnelHandler.ResolveLeave)

		personnelRoutes.POST("/payrolls", personnelHandler.GeneratePayroll)
		personnelRoutes.POST("/payrolls/generate", personnelHandler.GenerateMonthlyPayrolls)
		personnelRoutes.GET("/payrolls", personnelHandler.GetPayrolls)
		personnelRoutes.GET("/payrolls/:id", personnelHandler.GetPayrollByID)
		personnelRoutes.PUT("/payrolls/:id", personnelHandler.UpdatePayroll)
		personnelRoutes.POST("/payrolls/:id/pay", personnelHandler.MarkPayrollPaid)
		personnelRoutes.DELETE("/payrolls/:id", personnelHandler.DeletePayroll)
	}
}

// SetupAnalyticsRoutes sets up read-only reporting routes.
func SetupAnalyticsRoutes(authenticatedGroup *gin.RouterGroup, analyticsHandler *handlers.AnalyticsHandler) {
	analyticsRoutes := authenticatedGroup.Group("/analytics")
	analyticsRoutes.Use(middleware.RequirePermission(middleware.ActionViewAnalytics))
	{
		analyticsRoutes.GET("/dashboard", analyticsHandler.GetDashboard)
		analyticsRoutes.GET("/sales", analyticsHandler.GetSalesSummary)
		analyticsRoutes.GET("/inventory", analyticsHandler.GetInventoryReport)
		analyticsRoutes.GET("/reservations", analyticsHandler.GetReservationStats)
	}
}
