package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra.
const (
	PurchaseOrderStatusDraft    = "DRAFT"
	PurchaseOrderStatusSent     = "SENT"
	PurchaseOrderStatusReceived = "RECEIVED"
)

// PurchaseOrder cabecera de una orden de compra a proveedor.
type PurchaseOrder struct {
	ID             string
	VendorID       string
	VendorName     string
	OrderDate      time.Time
	ReceiveDate    *time.Time
	Status         string
	DiscountAmount decimal.Decimal
	PaidAmount     decimal.Decimal
	TotalAmount    decimal.Decimal // Σ(recibido × precio compra) − descuento
	Notes          string
	Lines          []PurchaseOrderLine
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PurchaseOrderLine línea de la orden. ReceivedQuantity es lo ya registrado en el kardex.
type PurchaseOrderLine struct {
	ID               string
	PurchaseOrderID  string
	ItemID           string
	ItemName         string
	Unit             string
	OrderedQuantity  decimal.Decimal
	ReceivedQuantity decimal.Decimal
	PurchasePrice    decimal.Decimal
	SalePrice        decimal.Decimal
	Notes            string
}

// Line devuelve la línea con el id indicado, o nil.
func (po *PurchaseOrder) Line(id string) *PurchaseOrderLine {
	for i := range po.Lines {
		if po.Lines[i].ID == id {
			return &po.Lines[i]
		}
	}
	return nil
}

// HasReceipts indica si alguna línea ya tiene cantidad recibida.
func (po *PurchaseOrder) HasReceipts() bool {
	for _, l := range po.Lines {
		if !l.ReceivedQuantity.IsZero() {
			return true
		}
	}
	return false
}
