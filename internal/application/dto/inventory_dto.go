package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// Quantity es un delta con signo: negativo para ventas, mermas y devoluciones.
type RegisterMovementRequest struct {
	ItemID   string           `json:"item_id" validate:"required"`
	Type     string           `json:"type" validate:"required"`
	Quantity decimal.Decimal  `json:"quantity"`
	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"`
	Date     *time.Time       `json:"date,omitempty"`
	Notes    string           `json:"notes,omitempty"`
}

// StockMovementResponse salida de un movimiento del kardex.
type StockMovementResponse struct {
	ID                  int64            `json:"id"`
	ItemID              string           `json:"item_id"`
	Date                time.Time        `json:"date"`
	Type                string           `json:"type"`
	Qty                 decimal.Decimal  `json:"qty"`
	UnitCost            *decimal.Decimal `json:"unit_cost,omitempty"`
	AvgCostAfter        decimal.Decimal  `json:"avg_cost_after"`
	PurchaseOrderID     string           `json:"purchase_order_id,omitempty"`
	PurchaseOrderLineID string           `json:"purchase_order_line_id,omitempty"`
	InventoryCountID    string           `json:"inventory_count_id,omitempty"`
	Notes               string           `json:"notes,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
	CreatedBy           string           `json:"created_by,omitempty"`
}

// StockMovementListResponse historial paginado de un ítem.
type StockMovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// LedgerCheckResponse compara la existencia del ítem contra la suma del kardex.
type LedgerCheckResponse struct {
	ItemID       string          `json:"item_id"`
	OnHandQty    decimal.Decimal `json:"on_hand_qty"`
	MovementsQty decimal.Decimal `json:"movements_qty"`
	Movements    int             `json:"movements"`
	Consistent   bool            `json:"consistent"`
}

// ReplenishmentSuggestion ítem en o bajo su punto de reorden con la compra sugerida.
type ReplenishmentSuggestion struct {
	Priority            int             `json:"priority"` // 1 = más urgente
	ItemID              string          `json:"item_id"`
	ItemName            string          `json:"item_name"`
	Unit                string          `json:"unit"`
	OnHandQty           decimal.Decimal `json:"on_hand_qty"`
	ReorderLevel        decimal.Decimal `json:"reorder_level"`
	IdealStock          decimal.Decimal `json:"ideal_stock"`
	SuggestedOrderQty   decimal.Decimal `json:"suggested_order_qty"`
	UnitCost            decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost  decimal.Decimal `json:"estimated_order_cost"`
	GrossMarginPct      decimal.Decimal `json:"gross_margin_pct"`
	UnitsSoldLast90Days decimal.Decimal `json:"units_sold_last_90_days"`
}
