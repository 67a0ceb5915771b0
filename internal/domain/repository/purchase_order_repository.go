package repository

import (
	"context"

	"github.com/jhoicas/myshop-api/internal/domain/entity"
)

// PurchaseOrderRepository puerto de persistencia para órdenes de compra (cabecera + líneas).
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	List(ctx context.Context, limit, offset int) ([]*entity.PurchaseOrder, error)
	// UpdateReceipt guarda los datos de recepción de la cabecera y de cada línea.
	UpdateReceipt(ctx context.Context, po *entity.PurchaseOrder) error
	Delete(ctx context.Context, id string) error
}
