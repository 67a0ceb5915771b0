package repository

import (
	"context"

	"github.com/jhoicas/myshop-api/internal/domain/entity"
)

// InventoryCountRepository puerto de persistencia para conteos físicos (solo lectura una vez creados).
type InventoryCountRepository interface {
	Create(ctx context.Context, count *entity.InventoryCount) error
	GetByID(ctx context.Context, id string) (*entity.InventoryCount, error)
	List(ctx context.Context, limit, offset int) ([]*entity.InventoryCount, error)
}
