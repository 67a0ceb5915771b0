package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseOrderRequest body para POST /api/purchase-orders.
type CreatePurchaseOrderRequest struct {
	VendorID   string                           `json:"vendor_id"`
	VendorName string                           `json:"vendor_name"`
	OrderDate  *time.Time                       `json:"order_date,omitempty"`
	Status     string                           `json:"status,omitempty"`
	Notes      string                           `json:"notes,omitempty"`
	Lines      []CreatePurchaseOrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// CreatePurchaseOrderLineRequest línea de una orden nueva.
type CreatePurchaseOrderLineRequest struct {
	ItemID          string          `json:"item_id" validate:"required"`
	OrderedQuantity decimal.Decimal `json:"ordered_quantity"`
	PurchasePrice   decimal.Decimal `json:"purchase_price"`
	SalePrice       decimal.Decimal `json:"sale_price"`
	Notes           string          `json:"notes,omitempty"`
}

// PurchaseOrderResponse salida de una orden de compra.
type PurchaseOrderResponse struct {
	ID             string                      `json:"id"`
	VendorID       string                      `json:"vendor_id,omitempty"`
	VendorName     string                      `json:"vendor_name"`
	OrderDate      time.Time                   `json:"order_date"`
	ReceiveDate    *time.Time                  `json:"receive_date,omitempty"`
	Status         string                      `json:"status"`
	DiscountAmount decimal.Decimal             `json:"discount_amount"`
	PaidAmount     decimal.Decimal             `json:"paid_amount"`
	TotalAmount    decimal.Decimal             `json:"total_amount"`
	Notes          string                      `json:"notes,omitempty"`
	Lines          []PurchaseOrderLineResponse `json:"lines"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

// PurchaseOrderLineResponse línea de una orden.
type PurchaseOrderLineResponse struct {
	ID               string          `json:"id"`
	ItemID           string          `json:"item_id"`
	ItemName         string          `json:"item_name"`
	Unit             string          `json:"unit"`
	OrderedQuantity  decimal.Decimal `json:"ordered_quantity"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	PurchasePrice    decimal.Decimal `json:"purchase_price"`
	SalePrice        decimal.Decimal `json:"sale_price"`
	Notes            string          `json:"notes,omitempty"`
}

// PurchaseOrderListResponse lista paginada de órdenes.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// PurchaseOrderReceiveView datos para la pantalla de recepción (GET /:id/receive).
type PurchaseOrderReceiveView struct {
	ID             string                         `json:"id"`
	OrderDate      time.Time                      `json:"order_date"`
	VendorName     string                         `json:"vendor_name"`
	Status         string                         `json:"status"`
	DiscountAmount decimal.Decimal                `json:"discount_amount"`
	PaidAmount     decimal.Decimal                `json:"paid_amount"`
	Notes          string                         `json:"notes,omitempty"`
	Lines          []PurchaseOrderReceiveLineView `json:"lines"`
}

// PurchaseOrderReceiveLineView línea propuesta para recibir.
type PurchaseOrderReceiveLineView struct {
	LineID           string          `json:"line_id"`
	ItemID           string          `json:"item_id"`
	ItemName         string          `json:"item_name"`
	Unit             string          `json:"unit"`
	OrderedQuantity  decimal.Decimal `json:"ordered_quantity"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	PurchasePrice    decimal.Decimal `json:"purchase_price"`
	SalePrice        decimal.Decimal `json:"sale_price"`
}

// ReceivePurchaseOrderRequest body para POST /api/purchase-orders/:id/receive.
type ReceivePurchaseOrderRequest struct {
	ReceiveDate    *time.Time                        `json:"receive_date,omitempty"`
	DiscountAmount decimal.Decimal                   `json:"discount_amount"`
	PaidAmount     decimal.Decimal                   `json:"paid_amount"`
	Notes          string                            `json:"notes,omitempty"`
	Lines          []ReceivePurchaseOrderLineRequest `json:"lines" validate:"dive"`
}

// ReceivePurchaseOrderLineRequest cantidad recibida total (no incremental) de una línea.
type ReceivePurchaseOrderLineRequest struct {
	LineID           string          `json:"line_id" validate:"required"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	PurchasePrice    decimal.Decimal `json:"purchase_price"`
	SalePrice        decimal.Decimal `json:"sale_price"`
}

// ReceivePurchaseOrderResponse orden actualizada y movimientos registrados en el kardex.
type ReceivePurchaseOrderResponse struct {
	Order     PurchaseOrderResponse   `json:"order"`
	Movements []StockMovementResponse `json:"movements"`
}
