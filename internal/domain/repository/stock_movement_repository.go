package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/myshop-api/internal/domain/entity"
)

// StockMovementRepository puerto del kardex: solo agrega, nunca modifica ni borra.
type StockMovementRepository interface {
	// Append persiste el movimiento y le asigna ID.
	Append(ctx context.Context, movement *entity.StockMovement) error
	// ListByItem lista en orden fecha, id.
	ListByItem(ctx context.Context, itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	SumQtyByItem(ctx context.Context, itemID string) (decimal.Decimal, error)
	CountByItem(ctx context.Context, itemID string) (int, error)
	// SumOutflowsByItem unidades que salieron por el tipo dado en [from, to), en positivo, por ítem.
	SumOutflowsByItem(ctx context.Context, typ entity.MovementType, from, to time.Time) (map[string]decimal.Decimal, error)
}
