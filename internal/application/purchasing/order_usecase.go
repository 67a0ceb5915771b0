package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/myshop-api/internal/application/dto"
	appinventory "github.com/jhoicas/myshop-api/internal/application/inventory"
	"github.com/jhoicas/myshop-api/internal/domain"
	"github.com/jhoicas/myshop-api/internal/domain/entity"
	"github.com/jhoicas/myshop-api/internal/domain/repository"
)

// OrderUseCase casos de uso CRUD para órdenes de compra. La recepción vive en ReceivingUseCase.
type OrderUseCase struct {
	txRunner appinventory.TxRunner
	repo     repository.PurchaseOrderRepository
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(txRunner appinventory.TxRunner, repo repository.PurchaseOrderRepository) *OrderUseCase {
	return &OrderUseCase{txRunner: txRunner, repo: repo}
}

// Create crea una orden en borrador (o enviada) con sus líneas.
func (uc *OrderUseCase) Create(ctx context.Context, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: la orden no tiene líneas", domain.ErrInvalidInput)
	}
	status := in.Status
	if status == "" {
		status = entity.PurchaseOrderStatusDraft
	}
	if status != entity.PurchaseOrderStatusDraft && status != entity.PurchaseOrderStatusSent {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	now := time.Now().UTC()
	orderDate := now
	if in.OrderDate != nil && !in.OrderDate.IsZero() {
		orderDate = *in.OrderDate
	}
	po := &entity.PurchaseOrder{
		ID:             uuid.New().String(),
		VendorID:       in.VendorID,
		VendorName:     in.VendorName,
		OrderDate:      orderDate,
		Status:         status,
		DiscountAmount: decimal.Zero,
		PaidAmount:     decimal.Zero,
		TotalAmount:    decimal.Zero,
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, l := range in.Lines {
		if l.ItemID == "" || !l.OrderedQuantity.IsPositive() || l.PurchasePrice.IsNegative() || l.SalePrice.IsNegative() {
			return nil, fmt.Errorf("%w: línea inválida para ítem %q", domain.ErrInvalidInput, l.ItemID)
		}
	}
	err := uc.txRunner.Run(ctx, func(tx appinventory.Tx) error {
		for _, l := range in.Lines {
			item, err := tx.Items().GetByID(ctx, l.ItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return fmt.Errorf("%w: ítem %s", domain.ErrNotFound, l.ItemID)
			}
			po.Lines = append(po.Lines, entity.PurchaseOrderLine{
				ID:               uuid.New().String(),
				PurchaseOrderID:  po.ID,
				ItemID:           item.ID,
				ItemName:         item.Name,
				Unit:             item.Unit,
				OrderedQuantity:  l.OrderedQuantity,
				ReceivedQuantity: decimal.Zero,
				PurchasePrice:    l.PurchasePrice,
				SalePrice:        l.SalePrice,
				Notes:            l.Notes,
			})
		}
		return tx.PurchaseOrders().Create(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(po), nil
}

// GetByID obtiene una orden con sus líneas.
func (uc *OrderUseCase) GetByID(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, nil
	}
	return toPurchaseOrderResponse(po), nil
}

// List lista órdenes (más recientes primero) con paginación.
func (uc *OrderUseCase) List(ctx context.Context, limit, offset int) (*dto.PurchaseOrderListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, po := range list {
		items = append(items, *toPurchaseOrderResponse(po))
	}
	return &dto.PurchaseOrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina una orden sin recepciones. Con algo recibido hay que devolver primero vía recepción.
func (uc *OrderUseCase) Delete(ctx context.Context, id string) error {
	po, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if po == nil {
		return domain.ErrNotFound
	}
	if po.HasReceipts() {
		return fmt.Errorf("%w: la orden ya tiene cantidades recibidas", domain.ErrConflict)
	}
	return uc.repo.Delete(ctx, id)
}

func toPurchaseOrderResponse(po *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	if po == nil {
		return nil
	}
	out := &dto.PurchaseOrderResponse{
		ID:             po.ID,
		VendorID:       po.VendorID,
		VendorName:     po.VendorName,
		OrderDate:      po.OrderDate,
		ReceiveDate:    po.ReceiveDate,
		Status:         po.Status,
		DiscountAmount: po.DiscountAmount,
		PaidAmount:     po.PaidAmount,
		TotalAmount:    po.TotalAmount,
		Notes:          po.Notes,
		Lines:          make([]dto.PurchaseOrderLineResponse, 0, len(po.Lines)),
		CreatedAt:      po.CreatedAt,
		UpdatedAt:      po.UpdatedAt,
	}
	for _, l := range po.Lines {
		out.Lines = append(out.Lines, dto.PurchaseOrderLineResponse{
			ID:               l.ID,
			ItemID:           l.ItemID,
			ItemName:         l.ItemName,
			Unit:             l.Unit,
			OrderedQuantity:  l.OrderedQuantity,
			ReceivedQuantity: l.ReceivedQuantity,
			PurchasePrice:    l.PurchasePrice,
			SalePrice:        l.SalePrice,
			Notes:            l.Notes,
		})
	}
	return out
}
