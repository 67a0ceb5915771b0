package counting

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/myshop-api/internal/domain/entity"
	"github.com/jhoicas/myshop-api/internal/domain/inventory"
)

// NoiseThreshold diferencias menores (en la unidad del ítem) se consideran ruido de redondeo.
var NoiseThreshold = decimal.New(5, -4)

// AdjustmentFor compara lo contado contra la existencia del sistema. Si la diferencia supera el
// umbral devuelve el ajuste; los aumentos llevan el costo promedio vigente para no moverlo.
func AdjustmentFor(counted decimal.Decimal, item *entity.Item) (inventory.Movement, bool) {
	delta := counted.Sub(item.OnHandQty)
	if delta.Abs().LessThan(NoiseThreshold) {
		return nil, false
	}
	adj := inventory.InventoryAdjustment{Qty: delta}
	if delta.IsPositive() {
		cost := item.AvgCost
		adj.UnitCost = &cost
	}
	return adj, true
}
