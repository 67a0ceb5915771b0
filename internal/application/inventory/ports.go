package inventory

import (
	"context"

	"github.com/jhoicas/myshop-api/internal/domain/repository"
)

// Tx agrupa los repositorios atados a una misma transacción de BD.
type Tx interface {
	Items() repository.ItemRepository
	Movements() repository.StockMovementRepository
	PurchaseOrders() repository.PurchaseOrderRepository
	InventoryCounts() repository.InventoryCountRepository
}

// TxRunner ejecuta una función dentro de una transacción, pasando un Tx atado a ella.
// Commit si fn devuelve nil; Rollback en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx Tx) error) error
}
