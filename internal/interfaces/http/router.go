package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/myshop-api/internal/application/auth"
	"github.com/jhoicas/myshop-api/internal/application/counting"
	"github.com/jhoicas/myshop-api/internal/application/inventory"
	"github.com/jhoicas/myshop-api/internal/application/purchasing"
	"github.com/jhoicas/myshop-api/internal/application/usecase"
	"github.com/jhoicas/myshop-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	ItemUC      *usecase.ItemUseCase
	MovementUC  *inventory.MovementUseCase
	Replenish   *inventory.ReplenishmentUseCase
	OrderUC     *purchasing.OrderUseCase
	ReceivingUC *purchasing.ReceivingUseCase
	CountUC     *counting.InventoryCountUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	stockRoles := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	protected.Get("/auth/me", authHandler.Me)

	// Items + kardex
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC, deps.MovementUC)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", RequireRole(entity.RoleAdmin), itemHandler.Delete)
	items.Get("/:id/movements", itemHandler.Movements)
	items.Get("/:id/ledger-check", itemHandler.LedgerCheck)

	// Movimientos manuales
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.MovementUC, deps.Replenish)
	invGroup.Post("/movements", stockRoles, inventoryHandler.RegisterMovement)
	invGroup.Get("/replenishment", inventoryHandler.Replenishment)

	// Órdenes de compra y recepción
	orders := protected.Group("/purchase-orders")
	orderHandler := NewPurchaseOrderHandler(deps.OrderUC, deps.ReceivingUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Delete("/:id", stockRoles, orderHandler.Delete)
	orders.Get("/:id/receive", stockRoles, orderHandler.ReceiveView)
	orders.Post("/:id/receive", stockRoles, orderHandler.Receive)

	// Conteos de inventario
	counts := protected.Group("/inventory-counts")
	countHandler := NewInventoryCountHandler(deps.CountUC)
	counts.Post("/", stockRoles, countHandler.Create)
	counts.Get("/", countHandler.List)
	counts.Get("/:id", countHandler.GetByID)
	counts.Get("/:id/pdf", countHandler.PDF)
}
