package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/myshop-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item.
// GetByID/GetForUpdate devuelven (nil, nil) cuando el ítem no existe.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// GetForUpdate bloquea la fila hasta que termine la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Item, error)
	// ListBelowReorder ítems de inventario (no servicios) con existencia <= punto de reorden > 0.
	ListBelowReorder(ctx context.Context) ([]*entity.Item, error)
	// Update modifica solo campos descriptivos y precios; nunca existencia ni costo.
	Update(ctx context.Context, item *entity.Item) error
	// UpdateStock es la única escritura de existencia/costo (usada por el motor de kardex).
	UpdateStock(ctx context.Context, id string, onHand, avgCost decimal.Decimal, costUpdatedAt *time.Time) error
	UpdateDefaultPrices(ctx context.Context, id string, purchase, sale decimal.Decimal) error
	Delete(ctx context.Context, id string) error
}
