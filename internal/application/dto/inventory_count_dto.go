package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInventoryCountRequest body para POST /api/inventory-counts.
type CreateInventoryCountRequest struct {
	Date  *time.Time                `json:"date,omitempty"`
	Name  string                    `json:"name"`
	Notes string                    `json:"notes,omitempty"`
	Items []InventoryCountItemInput `json:"items" validate:"required,min=1,dive"`
}

// InventoryCountItemInput cantidad contada de un ítem. SalePrice cero = precio de venta del ítem.
type InventoryCountItemInput struct {
	ItemID    string          `json:"item_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	SalePrice decimal.Decimal `json:"sale_price"`
}

// InventoryCountResponse detalle de un conteo.
type InventoryCountResponse struct {
	ID          string                       `json:"id"`
	Date        time.Time                    `json:"date"`
	Name        string                       `json:"name"`
	Notes       string                       `json:"notes,omitempty"`
	TotalAmount decimal.Decimal              `json:"total_amount"`
	CreatedBy   string                       `json:"created_by,omitempty"`
	CreatedAt   time.Time                    `json:"created_at"`
	Lines       []InventoryCountLineResponse `json:"lines"`
	Movements   []StockMovementResponse      `json:"movements,omitempty"`
}

// InventoryCountLineResponse línea de un conteo.
type InventoryCountLineResponse struct {
	ItemID       string          `json:"item_id"`
	ItemName     string          `json:"item_name"`
	Unit         string          `json:"unit,omitempty"`
	CategoryName string          `json:"category_name,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	SystemQty    decimal.Decimal `json:"system_qty"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

// InventoryCountSummary fila del listado de conteos.
type InventoryCountSummary struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Name        string          `json:"name"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemsCount  int             `json:"items_count"`
	CreatedBy   string          `json:"created_by,omitempty"`
}

// InventoryCountListResponse lista paginada de conteos.
type InventoryCountListResponse struct {
	Items []InventoryCountSummary `json:"items"`
	Page  PageResponse            `json:"page"`
}
