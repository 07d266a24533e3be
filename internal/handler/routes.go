package handler

import (
	"go-shop-ledger/internal/middleware"
	"go-shop-ledger/internal/model"
	"go-shop-ledger/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth      *AuthHandler
	Category  *CategoryHandler
	Inventory *InventoryHandler
	Dashboard *DashboardHandler
	User      *UserHandler
}

// RegisterRoutes mounts the REST API under /api/v1.
func RegisterRoutes(app *fiber.App, h Handlers, userRepo repository.UserRepository) {
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", h.Auth.Login)
	auth.Post("/reset-password", h.Auth.ResetPassword)
	auth.Post("/validate-token", h.Auth.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), h.Auth.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	protected.Get("/dashboard", middleware.RequirePrivilege(model.PrivDashboardView), h.Dashboard.GetDashboard)
	protected.Get("/reports/sales", middleware.RequirePrivilege(model.PrivReportView), h.Dashboard.GetSalesReport)
	protected.Get("/reports/sales.xlsx", middleware.RequirePrivilege(model.PrivReportView), h.Dashboard.ExportSalesReport)

	protected.Get("/categories", middleware.RequirePrivilege(model.PrivCategoryView), h.Category.GetCategories)
	protected.Get("/categories/tree", middleware.RequirePrivilege(model.PrivCategoryView), h.Category.GetCategoryTree)
	protected.Post("/categories", middleware.RequirePrivilege(model.PrivCategoryManage), h.Category.CreateCategory)
	protected.Put("/categories/:id", middleware.RequirePrivilege(model.PrivCategoryManage), h.Category.UpdateCategory)
	protected.Delete("/categories/:id", middleware.RequirePrivilege(model.PrivCategoryManage), h.Category.DeleteCategory)

	protected.Get("/products", middleware.RequirePrivilege(model.PrivProductView), h.Inventory.GetProducts)
	protected.Get("/products/low-stock", middleware.RequirePrivilege(model.PrivProductView), h.Inventory.GetLowStockProducts)
	protected.Get("/products/:id", middleware.RequirePrivilege(model.PrivProductView), h.Inventory.GetProduct)
	protected.Post("/products", middleware.RequirePrivilege(model.PrivProductCreate), h.Inventory.CreateProduct)
	protected.Put("/products/:id", middleware.RequirePrivilege(model.PrivProductUpdate), h.Inventory.UpdateProduct)

	protected.Get("/stock-entries", middleware.RequirePrivilege(model.PrivStockView), h.Inventory.GetStockEntries)
	protected.Post("/stock-entries", middleware.RequirePrivilege(model.PrivStockCreate), h.Inventory.CreateStockEntry)

	protected.Get("/sales", middleware.RequireAnyPrivilege(model.PrivSaleView, model.PrivReportView), h.Inventory.GetSales)
	protected.Post("/sales", middleware.RequirePrivilege(model.PrivSaleCreate), h.Inventory.CreateSale)

	users := protected.Group("/users", middleware.RequirePrivilege(model.PrivUserManage))
	users.Get("", h.User.GetUsers)
	users.Get("/:id", h.User.GetUser)
	users.Post("", h.User.CreateUser)
	users.Put("/:id", h.User.UpdateUser)
	users.Delete("/:id", h.User.DeleteUser)
}
