package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/receipt"
	"github.com/jhoicas/almacen-api/internal/application/report"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/application/workorder"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	RoleUC      *usecase.RoleUseCase
	WarehouseUC *usecase.WarehouseUseCase
	ProductUC   *usecase.ProductUseCase
	OrderUC     *usecase.OrderUseCase
	ProjectUC   *usecase.ProjectUseCase
	MovementUC  *usecase.MovementUseCase
	StockUC     *inventory.StockUseCase
	WorkOrderUC *workorder.UseCase
	ReceiptUC   *receipt.UseCase
	ReportUC    *report.UseCase
	Metrics     *Metrics
	JWTSecret   string
	Log         zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authMW := AuthMiddleware(deps.JWTSecret)
	perm := func(module, action string) fiber.Handler {
		return RequirePermission(module, action, deps.AuthUC, deps.Log)
	}

	// Auth: login público, el resto con token
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", authMW, RequireRole(entity.RoleAdmin), authHandler.Register)
	authGroup.Get("/profile", authMW, authHandler.Profile)
	authGroup.Put("/password", authMW, authHandler.ChangePassword)

	protected := api.Group("/", authMW)

	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", perm(entity.ModuleUsers, entity.ActionRead), userHandler.List)
	users.Get("/:id", perm(entity.ModuleUsers, entity.ActionRead), userHandler.GetByID)
	users.Put("/:id", perm(entity.ModuleUsers, entity.ActionWrite), userHandler.Update)
	users.Delete("/:id", perm(entity.ModuleUsers, entity.ActionDelete), userHandler.Delete)

	roles := protected.Group("/roles")
	roleHandler := NewRoleHandler(deps.RoleUC)
	roles.Post("/", perm(entity.ModuleRoles, entity.ActionWrite), roleHandler.Create)
	roles.Get("/", perm(entity.ModuleRoles, entity.ActionRead), roleHandler.List)
	roles.Get("/:id", perm(entity.ModuleRoles, entity.ActionRead), roleHandler.GetByID)
	roles.Put("/:id", perm(entity.ModuleRoles, entity.ActionWrite), roleHandler.Update)
	roles.Delete("/:id", perm(entity.ModuleRoles, entity.ActionDelete), roleHandler.Delete)

	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", perm(entity.ModuleWarehouses, entity.ActionWrite), warehouseHandler.Create)
	warehouses.Get("/", perm(entity.ModuleWarehouses, entity.ActionRead), warehouseHandler.List)
	warehouses.Get("/:id", perm(entity.ModuleWarehouses, entity.ActionRead), warehouseHandler.GetByID)
	warehouses.Put("/:id", perm(entity.ModuleWarehouses, entity.ActionWrite), warehouseHandler.Update)
	warehouses.Delete("/:id", perm(entity.ModuleWarehouses, entity.ActionDelete), warehouseHandler.Delete)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.StockUC, deps.ReportUC, deps.Metrics)
	products.Post("/", perm(entity.ModuleProducts, entity.ActionWrite), productHandler.Create)
	products.Get("/", perm(entity.ModuleProducts, entity.ActionRead), productHandler.List)
	products.Get("/:id", perm(entity.ModuleProducts, entity.ActionRead), productHandler.GetByID)
	products.Put("/:id", perm(entity.ModuleProducts, entity.ActionWrite), productHandler.Update)
	products.Delete("/:id", perm(entity.ModuleProducts, entity.ActionDelete), productHandler.Delete)
	products.Post("/:id/egress", perm(entity.ModuleMovements, entity.ActionWrite), productHandler.Egress)
	products.Get("/:id/qr", perm(entity.ModuleProducts, entity.ActionRead), productHandler.QR)
	products.Get("/:id/label", perm(entity.ModuleProducts, entity.ActionRead), productHandler.Label)

	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.MovementUC, deps.StockUC)
	movements.Get("/", perm(entity.ModuleMovements, entity.ActionRead), movementHandler.List)
	movements.Post("/transfer", perm(entity.ModuleMovements, entity.ActionWrite), movementHandler.Transfer)
	movements.Post("/adjust", RequireRole(entity.RoleAdmin), movementHandler.Adjust)

	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", perm(entity.ModuleOrders, entity.ActionWrite), orderHandler.Create)
	orders.Get("/", perm(entity.ModuleOrders, entity.ActionRead), orderHandler.List)
	orders.Get("/:id", perm(entity.ModuleOrders, entity.ActionRead), orderHandler.GetByID)
	orders.Put("/:id", perm(entity.ModuleOrders, entity.ActionWrite), orderHandler.Update)
	orders.Patch("/:id/status", perm(entity.ModuleOrders, entity.ActionWrite), orderHandler.UpdateStatus)
	orders.Delete("/:id", perm(entity.ModuleOrders, entity.ActionDelete), orderHandler.Delete)

	projects := protected.Group("/projects")
	projectHandler := NewProjectHandler(deps.ProjectUC)
	projects.Post("/", perm(entity.ModuleProjects, entity.ActionWrite), projectHandler.Create)
	projects.Get("/", perm(entity.ModuleProjects, entity.ActionRead), projectHandler.List)
	projects.Get("/:id", perm(entity.ModuleProjects, entity.ActionRead), projectHandler.GetByID)
	projects.Put("/:id", perm(entity.ModuleProjects, entity.ActionWrite), projectHandler.Update)
	projects.Delete("/:id", perm(entity.ModuleProjects, entity.ActionDelete), projectHandler.Delete)

	workOrders := protected.Group("/work-orders")
	workOrderHandler := NewWorkOrderHandler(deps.WorkOrderUC, deps.ReportUC)
	workOrders.Post("/", perm(entity.ModuleWorkOrders, entity.ActionWrite), workOrderHandler.Create)
	workOrders.Get("/", perm(entity.ModuleWorkOrders, entity.ActionRead), workOrderHandler.List)
	workOrders.Get("/:id", perm(entity.ModuleWorkOrders, entity.ActionRead), workOrderHandler.GetByID)
	workOrders.Get("/:id/pdf", perm(entity.ModuleWorkOrders, entity.ActionRead), workOrderHandler.PDF)
	workOrders.Post("/:id/approve", RequireRole(entity.RoleAdmin, entity.RoleAlmacenero), workOrderHandler.Approve)
	workOrders.Post("/:id/reject", RequireRole(entity.RoleAdmin, entity.RoleAlmacenero), workOrderHandler.Reject)
	workOrders.Post("/:id/deliver", perm(entity.ModuleMovements, entity.ActionWrite), workOrderHandler.Deliver)
	workOrders.Delete("/:id", perm(entity.ModuleWorkOrders, entity.ActionDelete), workOrderHandler.Delete)

	receipts := protected.Group("/receipts")
	receiptHandler := NewReceiptHandler(deps.ReceiptUC, deps.ReportUC, deps.Metrics)
	receipts.Post("/", perm(entity.ModuleReceipts, entity.ActionWrite), receiptHandler.Create)
	receipts.Post("/upload", perm(entity.ModuleReceipts, entity.ActionWrite), receiptHandler.Upload)
	receipts.Get("/", perm(entity.ModuleReceipts, entity.ActionRead), receiptHandler.List)
	receipts.Get("/:id", perm(entity.ModuleReceipts, entity.ActionRead), receiptHandler.GetByID)
	receipts.Get("/:id/pdf", perm(entity.ModuleReceipts, entity.ActionRead), receiptHandler.PDF)
	receipts.Patch("/:id/status", perm(entity.ModuleReceipts, entity.ActionWrite), receiptHandler.UpdateStatus)
	receipts.Delete("/:id", perm(entity.ModuleReceipts, entity.ActionDelete), receiptHandler.Delete)

	reports := protected.Group("/reports", perm(entity.ModuleReports, entity.ActionRead))
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/inventory", reportHandler.Inventory)
	reports.Get("/inventory/pdf", reportHandler.InventoryPDF)
}
