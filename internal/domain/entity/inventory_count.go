package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryCount es la foto de un conteo físico. Es un artefacto de reporte:
// los ajustes que dispara quedan en el kardex, no aquí.
type InventoryCount struct {
	ID          string
	Date        time.Time
	Name        string
	Notes       string
	TotalAmount decimal.Decimal // Σ TotalPrice de las líneas
	CreatedBy   string
	CreatedAt   time.Time
	Lines       []InventoryCountLine
}

// InventoryCountLine cantidad contada de un ítem y los valores vigentes al momento del conteo.
type InventoryCountLine struct {
	ID           string
	CountID      string
	ItemID       string
	ItemName     string
	Unit         string
	CategoryID   string
	CategoryName string
	Quantity     decimal.Decimal // contado
	SystemQty    decimal.Decimal // existencia del sistema antes del ajuste
	SalePrice    decimal.Decimal
	TotalPrice   decimal.Decimal // Quantity × SalePrice
}
