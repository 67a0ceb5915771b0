package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un artículo del inventario de la tienda.
// OnHandQty y AvgCost solo los modifica el motor de kardex; el resto son datos descriptivos.
type Item struct {
	ID                   string
	Name                 string
	Unit                 string // kg, pieza, caja, paquete
	CategoryID           string
	CategoryName         string
	DefaultPurchasePrice decimal.Decimal
	DefaultSalePrice     decimal.Decimal
	ReorderLevel         decimal.Decimal
	IsService            bool
	OnHandQty            decimal.Decimal // nunca negativo después de un movimiento exitoso
	AvgCost              decimal.Decimal // costo promedio ponderado (inicia en 0)
	CostUpdatedAt        *time.Time      // nil hasta la primera entrada con costo
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
