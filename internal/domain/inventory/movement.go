package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/myshop-api/internal/domain"
	"github.com/jhoicas/myshop-api/internal/domain/entity"
)

// Movement es la unión cerrada de movimientos que acepta el kardex.
// Cada variante lleva solo los campos que necesita: una venta no puede traer costo unitario.
type Movement interface {
	Type() entity.MovementType
	Quantity() decimal.Decimal
	movement()
}

// PurchaseReceipt entrada por compra; Qty > 0 y UnitCost >= 0.
type PurchaseReceipt struct {
	Qty      decimal.Decimal
	UnitCost decimal.Decimal

	missingCost bool // construida desde un request sin unit_cost
}

// Sale salida por venta; Qty < 0.
type Sale struct{ Qty decimal.Decimal }

// Waste salida por merma; Qty < 0.
type Waste struct{ Qty decimal.Decimal }

// ReturnToVendor devolución al proveedor; Qty < 0.
type ReturnToVendor struct{ Qty decimal.Decimal }

// InventoryAdjustment ajuste de conteo con cualquier signo.
// En un ajuste positivo sin UnitCost se usa el costo promedio vigente.
type InventoryAdjustment struct {
	Qty      decimal.Decimal
	UnitCost *decimal.Decimal
}

func (PurchaseReceipt) Type() entity.MovementType     { return entity.MovementTypePurchaseReceipt }
func (Sale) Type() entity.MovementType                { return entity.MovementTypeSale }
func (Waste) Type() entity.MovementType               { return entity.MovementTypeWaste }
func (ReturnToVendor) Type() entity.MovementType      { return entity.MovementTypeReturnToVendor }
func (InventoryAdjustment) Type() entity.MovementType { return entity.MovementTypeInventoryAdjustment }

func (m PurchaseReceipt) Quantity() decimal.Decimal     { return m.Qty }
func (m Sale) Quantity() decimal.Decimal                { return m.Qty }
func (m Waste) Quantity() decimal.Decimal               { return m.Qty }
func (m ReturnToVendor) Quantity() decimal.Decimal      { return m.Qty }
func (m InventoryAdjustment) Quantity() decimal.Decimal { return m.Qty }

func (PurchaseReceipt) movement()     {}
func (Sale) movement()                {}
func (Waste) movement()               {}
func (ReturnToVendor) movement()      {}
func (InventoryAdjustment) movement() {}

// NormalizeQty lleva una cantidad a QtyScale decimales, la precisión con que se persiste.
func NormalizeQty(q decimal.Decimal) decimal.Decimal { return q.Round(QtyScale) }

// NewMovement construye la variante a partir de un tipo textual (requests HTTP).
// El costo unitario se descarta en los tipos de salida. La falta de costo en una
// recepción se reporta en Apply, después de validar ítem y existencia.
func NewMovement(t entity.MovementType, qty decimal.Decimal, unitCost *decimal.Decimal) (Movement, error) {
	qty = NormalizeQty(qty)
	if qty.IsZero() {
		return nil, fmt.Errorf("%w: movimiento con cantidad cero", domain.ErrInvalidMovement)
	}
	switch t {
	case entity.MovementTypePurchaseReceipt:
		if unitCost == nil {
			return PurchaseReceipt{Qty: qty, missingCost: true}, nil
		}
		return PurchaseReceipt{Qty: qty, UnitCost: *unitCost}, nil
	case entity.MovementTypeSale:
		return Sale{Qty: qty}, nil
	case entity.MovementTypeWaste:
		return Waste{Qty: qty}, nil
	case entity.MovementTypeReturnToVendor:
		return ReturnToVendor{Qty: qty}, nil
	case entity.MovementTypeInventoryAdjustment:
		return InventoryAdjustment{Qty: qty, UnitCost: unitCost}, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnsupported, t)
}

// Position existencia y costo promedio de un ítem antes del movimiento.
type Position struct {
	OnHandQty decimal.Decimal
	AvgCost   decimal.Decimal
}

// Effect resultado de aplicar un movimiento sobre una Position.
type Effect struct {
	Qty         decimal.Decimal // cantidad normalizada que se registra en el movimiento
	OnHandQty   decimal.Decimal
	AvgCost     decimal.Decimal  // costo promedio después del movimiento (AvgCostAfter)
	UnitCost    *decimal.Decimal // costo unitario que queda registrado en el movimiento
	CostChanged bool             // true solo en entradas (rama de aumento)
}

// Apply valida el movimiento contra la posición actual y calcula el nuevo estado.
// Orden de validación: cantidad cero, existencia suficiente, signo y campos por tipo.
// Cantidades y costos se redondean a QtyScale y CostScale antes de validar.
// No tiene efectos secundarios; persistir es responsabilidad del motor.
func Apply(pos Position, m Movement) (Effect, error) {
	if m == nil {
		return Effect{}, fmt.Errorf("%w: movimiento vacío", domain.ErrUnsupported)
	}
	qty := NormalizeQty(m.Quantity())
	if qty.IsZero() {
		return Effect{}, fmt.Errorf("%w: movimiento con cantidad cero", domain.ErrInvalidMovement)
	}
	if qty.IsNegative() && pos.OnHandQty.Add(qty).IsNegative() {
		return Effect{}, fmt.Errorf("%w: existencia %s, movimiento %s", domain.ErrInsufficientStock, pos.OnHandQty, qty)
	}

	switch mv := m.(type) {
	case PurchaseReceipt:
		if !qty.IsPositive() {
			return Effect{}, fmt.Errorf("%w: la recepción de compra debe ser positiva", domain.ErrInvalidMovement)
		}
		if mv.missingCost {
			return Effect{}, fmt.Errorf("%w: la recepción de compra requiere costo unitario", domain.ErrInvalidMovement)
		}
		if mv.UnitCost.IsNegative() {
			return Effect{}, fmt.Errorf("%w: costo unitario negativo", domain.ErrInvalidMovement)
		}
		return increase(pos, qty, mv.UnitCost), nil

	case Sale, Waste, ReturnToVendor:
		if !qty.IsNegative() {
			return Effect{}, fmt.Errorf("%w: %s debe ser negativo", domain.ErrInvalidMovement, mv.Type())
		}
		return decrease(pos, qty), nil

	case InventoryAdjustment:
		if qty.IsNegative() {
			return decrease(pos, qty), nil
		}
		cost := pos.AvgCost
		if mv.UnitCost != nil {
			if mv.UnitCost.IsNegative() {
				return Effect{}, fmt.Errorf("%w: costo unitario negativo", domain.ErrInvalidMovement)
			}
			cost = *mv.UnitCost
		}
		return increase(pos, qty, cost), nil
	}
	return Effect{}, fmt.Errorf("%w: %T", domain.ErrUnsupported, m)
}

// increase rama de aumento: único lugar donde cambia el costo promedio.
func increase(pos Position, qty, unitCost decimal.Decimal) Effect {
	c := unitCost.Round(CostScale)
	return Effect{
		Qty:         qty,
		OnHandQty:   pos.OnHandQty.Add(qty),
		AvgCost:     WeightedAverage(pos.OnHandQty, pos.AvgCost, qty, c),
		UnitCost:    &c,
		CostChanged: true,
	}
}

// decrease las salidas nunca tocan el costo promedio.
func decrease(pos Position, qty decimal.Decimal) Effect {
	return Effect{
		Qty:       qty,
		OnHandQty: pos.OnHandQty.Add(qty),
		AvgCost:   pos.AvgCost,
	}
}
