package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType clasifica el significado de negocio de un movimiento de stock.
type MovementType string

// Tipos de movimiento del kardex.
const (
	MovementTypePurchaseReceipt     MovementType = "PURCHASE_RECEIPT"     // recepción de compra (+)
	MovementTypeSale                MovementType = "SALE"                 // venta (-)
	MovementTypeInventoryAdjustment MovementType = "INVENTORY_ADJUSTMENT" // ajuste de conteo (+/-)
	MovementTypeWaste               MovementType = "WASTE"                // merma (-)
	MovementTypeReturnToVendor      MovementType = "RETURN_TO_VENDOR"     // devolución a proveedor (-)
)

// Valid indica si el tipo es uno de los conocidos.
func (t MovementType) Valid() bool {
	switch t {
	case MovementTypePurchaseReceipt, MovementTypeSale, MovementTypeInventoryAdjustment,
		MovementTypeWaste, MovementTypeReturnToVendor:
		return true
	}
	return false
}

// MovementRefs referencias opcionales al documento que originó el movimiento (solo trazabilidad).
type MovementRefs struct {
	PurchaseOrderID     string
	PurchaseOrderLineID string
	InventoryCountID    string
}

// StockMovement es un registro inmutable del kardex: un cambio de cantidad y su efecto en el costo.
// AvgCostAfter se calcula una sola vez al registrar y nunca se recalcula.
type StockMovement struct {
	ID           int64 // asignado por el almacenamiento, monótono
	ItemID       string
	Date         time.Time
	Type         MovementType
	Qty          decimal.Decimal // delta con signo
	UnitCost     *decimal.Decimal
	AvgCostAfter decimal.Decimal
	Refs         MovementRefs
	Notes        string
	CreatedAt    time.Time
	CreatedBy    string
}
