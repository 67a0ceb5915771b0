package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para registrar un ítem. Existencia y costo inician en 0.
type CreateItemRequest struct {
	Name                 string          `json:"name" validate:"required,min=1,max=200"`
	Unit                 string          `json:"unit"`
	CategoryID           string          `json:"category_id"`
	CategoryName         string          `json:"category_name"`
	DefaultPurchasePrice decimal.Decimal `json:"default_purchase_price"`
	DefaultSalePrice     decimal.Decimal `json:"default_sale_price"`
	ReorderLevel         decimal.Decimal `json:"reorder_level"`
	IsService            bool            `json:"is_service"`
}

// UpdateItemRequest entrada para actualizar un ítem (sin existencia ni costo).
type UpdateItemRequest struct {
	Name                 *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Unit                 *string          `json:"unit"`
	CategoryID           *string          `json:"category_id"`
	CategoryName         *string          `json:"category_name"`
	DefaultPurchasePrice *decimal.Decimal `json:"default_purchase_price"`
	DefaultSalePrice     *decimal.Decimal `json:"default_sale_price"`
	ReorderLevel         *decimal.Decimal `json:"reorder_level"`
	IsService            *bool            `json:"is_service"`
}

// ItemResponse salida de un ítem.
type ItemResponse struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	Unit                 string          `json:"unit"`
	CategoryID           string          `json:"category_id,omitempty"`
	CategoryName         string          `json:"category_name,omitempty"`
	DefaultPurchasePrice decimal.Decimal `json:"default_purchase_price"`
	DefaultSalePrice     decimal.Decimal `json:"default_sale_price"`
	ReorderLevel         decimal.Decimal `json:"reorder_level"`
	IsService            bool            `json:"is_service"`
	OnHandQty            decimal.Decimal `json:"on_hand_qty"`
	AvgCost              decimal.Decimal `json:"avg_cost"`
	CostUpdatedAt        *time.Time      `json:"cost_updated_at,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
