package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/myshop-api/internal/application/dto"
	appinventory "github.com/jhoicas/myshop-api/internal/application/inventory"
	"github.com/jhoicas/myshop-api/internal/domain"
	"github.com/jhoicas/myshop-api/internal/domain/entity"
	"github.com/jhoicas/myshop-api/internal/domain/inventory"
	"github.com/jhoicas/myshop-api/internal/domain/repository"
)

// ReceiptMovement calcula el movimiento que corresponde a un cambio de cantidad recibida.
// delta > 0: recepción al precio de compra; delta < 0: devolución al proveedor; delta == 0: nada.
func ReceiptMovement(oldReceived, newReceived, purchasePrice decimal.Decimal) (inventory.Movement, bool) {
	delta := newReceived.Sub(oldReceived)
	switch {
	case delta.IsPositive():
		return inventory.PurchaseReceipt{Qty: delta, UnitCost: purchasePrice}, true
	case delta.IsNegative():
		return inventory.ReturnToVendor{Qty: delta}, true
	}
	return nil, false
}

// ReceivingUseCase recibe órdenes de compra: por cada línea registra en el kardex la diferencia
// contra lo ya recibido y actualiza cabecera y líneas, todo en una sola transacción.
type ReceivingUseCase struct {
	txRunner  appinventory.TxRunner
	engine    *appinventory.PostingEngine
	orderRepo repository.PurchaseOrderRepository
	itemRepo  repository.ItemRepository
	log       zerolog.Logger
}

// NewReceivingUseCase construye el caso de uso.
func NewReceivingUseCase(
	txRunner appinventory.TxRunner,
	engine *appinventory.PostingEngine,
	orderRepo repository.PurchaseOrderRepository,
	itemRepo repository.ItemRepository,
	log zerolog.Logger,
) *ReceivingUseCase {
	return &ReceivingUseCase{
		txRunner:  txRunner,
		engine:    engine,
		orderRepo: orderRepo,
		itemRepo:  itemRepo,
		log:       log.With().Str("component", "po_receiving").Logger(),
	}
}

// GetForReceive arma la vista de recepción. Si una línea no tiene nada recibido se propone la
// cantidad pedida; precios en cero se completan con los del ítem.
func (uc *ReceivingUseCase) GetForReceive(ctx context.Context, id string) (*dto.PurchaseOrderReceiveView, error) {
	po, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	view := &dto.PurchaseOrderReceiveView{
		ID:             po.ID,
		OrderDate:      po.OrderDate,
		VendorName:     po.VendorName,
		Status:         po.Status,
		DiscountAmount: po.DiscountAmount,
		PaidAmount:     po.PaidAmount,
		Notes:          po.Notes,
		Lines:          make([]dto.PurchaseOrderReceiveLineView, 0, len(po.Lines)),
	}
	for _, l := range po.Lines {
		lv := dto.PurchaseOrderReceiveLineView{
			LineID:           l.ID,
			ItemID:           l.ItemID,
			ItemName:         l.ItemName,
			Unit:             l.Unit,
			OrderedQuantity:  l.OrderedQuantity,
			ReceivedQuantity: l.ReceivedQuantity,
			PurchasePrice:    l.PurchasePrice,
			SalePrice:        l.SalePrice,
		}
		if !lv.ReceivedQuantity.IsPositive() {
			lv.ReceivedQuantity = l.OrderedQuantity
		}
		if !lv.PurchasePrice.IsPositive() || !lv.SalePrice.IsPositive() {
			item, err := uc.itemRepo.GetByID(ctx, l.ItemID)
			if err != nil {
				return nil, err
			}
			if item != nil {
				if !lv.PurchasePrice.IsPositive() {
					lv.PurchasePrice = item.DefaultPurchasePrice
				}
				if !lv.SalePrice.IsPositive() {
					lv.SalePrice = item.DefaultSalePrice
				}
			}
		}
		view.Lines = append(view.Lines, lv)
	}
	return view, nil
}

// Receive fija cantidades y precios recibidos. Las cantidades del request son totales, no
// incrementales: recibir dos veces la misma cantidad no registra nada la segunda vez.
// Cualquier error del kardex revierte la recepción completa.
func (uc *ReceivingUseCase) Receive(ctx context.Context, userID, id string, in dto.ReceivePurchaseOrderRequest) (*dto.ReceivePurchaseOrderResponse, error) {
	if in.DiscountAmount.IsNegative() || in.PaidAmount.IsNegative() {
		return nil, fmt.Errorf("%w: descuento y pago no pueden ser negativos", domain.ErrInvalidInput)
	}
	for _, l := range in.Lines {
		if l.ReceivedQuantity.IsNegative() || l.PurchasePrice.IsNegative() || l.SalePrice.IsNegative() {
			return nil, fmt.Errorf("%w: línea %s con valores negativos", domain.ErrInvalidInput, l.LineID)
		}
	}

	now := time.Now().UTC()
	receiveDate := now
	if in.ReceiveDate != nil && !in.ReceiveDate.IsZero() {
		receiveDate = *in.ReceiveDate
	}

	var po *entity.PurchaseOrder
	var posted []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(tx appinventory.Tx) error {
		var err error
		po, err = tx.PurchaseOrders().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}

		for _, rl := range in.Lines {
			line := po.Line(rl.LineID)
			if line == nil {
				uc.log.Warn().Str("purchase_order_id", po.ID).Str("line_id", rl.LineID).Msg("línea inexistente ignorada")
				continue
			}
			if m, ok := ReceiptMovement(line.ReceivedQuantity, rl.ReceivedQuantity, rl.PurchasePrice); ok {
				mov, err := uc.engine.Post(ctx, tx, appinventory.PostInput{
					ItemID:   line.ItemID,
					Movement: m,
					Date:     receiveDate,
					Notes:    "Recepción OC " + po.ID,
					Refs: entity.MovementRefs{
						PurchaseOrderID:     po.ID,
						PurchaseOrderLineID: line.ID,
					},
					CreatedBy: userID,
				})
				if err != nil {
					return fmt.Errorf("línea %s: %w", line.ID, err)
				}
				posted = append(posted, mov)
			}
			line.ReceivedQuantity = rl.ReceivedQuantity
			line.PurchasePrice = rl.PurchasePrice
			line.SalePrice = rl.SalePrice
			if err := tx.Items().UpdateDefaultPrices(ctx, line.ItemID, rl.PurchasePrice, rl.SalePrice); err != nil {
				return err
			}
		}

		total := decimal.Zero
		for _, l := range po.Lines {
			total = total.Add(l.ReceivedQuantity.Mul(l.PurchasePrice))
		}
		po.TotalAmount = total.Sub(in.DiscountAmount)
		po.DiscountAmount = in.DiscountAmount
		po.PaidAmount = in.PaidAmount
		po.Notes = in.Notes
		po.ReceiveDate = &receiveDate
		po.Status = entity.PurchaseOrderStatusReceived
		po.UpdatedAt = now
		return tx.PurchaseOrders().UpdateReceipt(ctx, po)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("purchase_order_id", po.ID).
		Int("movements", len(posted)).
		Str("total_amount", po.TotalAmount.String()).
		Msg("orden de compra recibida")

	out := &dto.ReceivePurchaseOrderResponse{
		Order:     *toPurchaseOrderResponse(po),
		Movements: make([]dto.StockMovementResponse, 0, len(posted)),
	}
	for _, m := range posted {
		out.Movements = append(out.Movements, appinventory.ToMovementResponse(m))
	}
	return out, nil
}
