package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/myshop-api/internal/application/dto"
	"github.com/jhoicas/myshop-api/internal/domain"
	"github.com/jhoicas/myshop-api/internal/domain/entity"
	"github.com/jhoicas/myshop-api/internal/domain/inventory"
	"github.com/jhoicas/myshop-api/internal/domain/repository"
)

// MovementUseCase movimientos manuales (ventas, mermas, ajustes) e historial del kardex.
type MovementUseCase struct {
	engine   *PostingEngine
	itemRepo repository.ItemRepository
	movRepo  repository.StockMovementRepository
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(engine *PostingEngine, itemRepo repository.ItemRepository, movRepo repository.StockMovementRepository) *MovementUseCase {
	return &MovementUseCase{engine: engine, itemRepo: itemRepo, movRepo: movRepo}
}

// RegisterMovement adapta el request HTTP y registra el movimiento en su propia transacción.
func (uc *MovementUseCase) RegisterMovement(ctx context.Context, userID string, in dto.RegisterMovementRequest) (*dto.StockMovementResponse, error) {
	if in.ItemID == "" {
		return nil, fmt.Errorf("%w: item_id requerido", domain.ErrInvalidInput)
	}
	mov, err := inventory.NewMovement(entity.MovementType(strings.ToUpper(in.Type)), in.Quantity, in.UnitCost)
	if err != nil {
		return nil, err
	}
	var date time.Time
	if in.Date != nil {
		date = *in.Date
	}
	m, err := uc.engine.Post(ctx, nil, PostInput{
		ItemID:    in.ItemID,
		Movement:  mov,
		Date:      date,
		Notes:     in.Notes,
		CreatedBy: userID,
	})
	if err != nil {
		return nil, err
	}
	out := ToMovementResponse(m)
	return &out, nil
}

// ListByItem historial de movimientos de un ítem en orden fecha, id.
func (uc *MovementUseCase) ListByItem(ctx context.Context, itemID string, from, to *time.Time, limit, offset int) (*dto.StockMovementListResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.movRepo.ListByItem(ctx, itemID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, ToMovementResponse(m))
	}
	return &dto.StockMovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// CheckLedger verifica que la existencia del ítem sea igual a la suma de su kardex.
func (uc *MovementUseCase) CheckLedger(ctx context.Context, itemID string) (*dto.LedgerCheckResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	sum, err := uc.movRepo.SumQtyByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	n, err := uc.movRepo.CountByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return &dto.LedgerCheckResponse{
		ItemID:       itemID,
		OnHandQty:    item.OnHandQty,
		MovementsQty: sum,
		Movements:    n,
		Consistent:   sum.Equal(item.OnHandQty),
	}, nil
}

// ToMovementResponse mapea un movimiento del kardex a su DTO.
func ToMovementResponse(m *entity.StockMovement) dto.StockMovementResponse {
	return dto.StockMovementResponse{
		ID:                  m.ID,
		ItemID:              m.ItemID,
		Date:                m.Date,
		Type:                string(m.Type),
		Qty:                 m.Qty,
		UnitCost:            m.UnitCost,
		AvgCostAfter:        m.AvgCostAfter,
		PurchaseOrderID:     m.Refs.PurchaseOrderID,
		PurchaseOrderLineID: m.Refs.PurchaseOrderLineID,
		InventoryCountID:    m.Refs.InventoryCountID,
		Notes:               m.Notes,
		CreatedAt:           m.CreatedAt,
		CreatedBy:           m.CreatedBy,
	}
}
