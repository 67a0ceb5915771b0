package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/myshop-api/internal/application/dto"
	"github.com/jhoicas/myshop-api/internal/domain/entity"
	"github.com/jhoicas/myshop-api/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición a partir del punto de reorden
// de cada ítem y de las ventas registradas en el kardex.
type ReplenishmentUseCase struct {
	itemRepo repository.ItemRepository
	movRepo  repository.StockMovementRepository
	now      func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(itemRepo repository.ItemRepository, movRepo repository.StockMovementRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{itemRepo: itemRepo, movRepo: movRepo, now: time.Now}
}

// idealFactor stock ideal = punto de reorden × 1.5.
var idealFactor = decimal.NewFromFloat(1.5)

// GenerateReplenishmentList devuelve los ítems en o bajo punto de reorden con la cantidad
// sugerida de pedido, priorizados por margen bruto, luego ventas de 90 días, luego déficit.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestion, error) {
	items, err := uc.itemRepo.ListBelowReorder(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []dto.ReplenishmentSuggestion{}, nil
	}

	end := uc.now().UTC()
	sold, err := uc.movRepo.SumOutflowsByItem(ctx, entity.MovementTypeSale, end.AddDate(0, 0, -90), end)
	if err != nil {
		return nil, err
	}

	hundred := decimal.NewFromInt(100)
	out := make([]dto.ReplenishmentSuggestion, 0, len(items))
	for _, it := range items {
		ideal := it.ReorderLevel.Mul(idealFactor)
		suggested := ideal.Sub(it.OnHandQty)
		if suggested.IsNegative() {
			suggested = decimal.Zero
		}
		unitCost := it.DefaultPurchasePrice
		if !unitCost.IsPositive() {
			unitCost = it.AvgCost
		}
		var margin decimal.Decimal
		if it.DefaultSalePrice.IsPositive() {
			margin = it.DefaultSalePrice.Sub(it.AvgCost).Div(it.DefaultSalePrice).Mul(hundred).Round(2)
		}
		out = append(out, dto.ReplenishmentSuggestion{
			ItemID:              it.ID,
			ItemName:            it.Name,
			Unit:                it.Unit,
			OnHandQty:           it.OnHandQty,
			ReorderLevel:        it.ReorderLevel,
			IdealStock:          ideal,
			SuggestedOrderQty:   suggested,
			UnitCost:            unitCost,
			EstimatedOrderCost:  suggested.Mul(unitCost).Round(2),
			GrossMarginPct:      margin,
			UnitsSoldLast90Days: sold[it.ID],
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.GrossMarginPct.Equal(b.GrossMarginPct) {
			return a.GrossMarginPct.GreaterThan(b.GrossMarginPct)
		}
		if !a.UnitsSoldLast90Days.Equal(b.UnitsSoldLast90Days) {
			return a.UnitsSoldLast90Days.GreaterThan(b.UnitsSoldLast90Days)
		}
		return a.ReorderLevel.Sub(a.OnHandQty).GreaterThan(b.ReorderLevel.Sub(b.OnHandQty))
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}
