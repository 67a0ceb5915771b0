package counting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/myshop-api/internal/application/dto"
	appinventory "github.com/jhoicas/myshop-api/internal/application/inventory"
	"github.com/jhoicas/myshop-api/internal/application/ports"
	"github.com/jhoicas/myshop-api/internal/domain"
	"github.com/jhoicas/myshop-api/internal/domain/entity"
	"github.com/jhoicas/myshop-api/internal/domain/repository"
)

// InventoryCountUseCase conteos físicos: guarda la foto del conteo y ajusta el kardex
// de cada ítem cuya diferencia supera NoiseThreshold, todo en una transacción.
type InventoryCountUseCase struct {
	txRunner  appinventory.TxRunner
	engine    *appinventory.PostingEngine
	countRepo repository.InventoryCountRepository
	sheet     ports.CountSheetGenerator
	log       zerolog.Logger
}

// NewInventoryCountUseCase construye el caso de uso. sheet puede ser nil si no se exponen PDFs.
func NewInventoryCountUseCase(
	txRunner appinventory.TxRunner,
	engine *appinventory.PostingEngine,
	countRepo repository.InventoryCountRepository,
	sheet ports.CountSheetGenerator,
	log zerolog.Logger,
) *InventoryCountUseCase {
	return &InventoryCountUseCase{
		txRunner:  txRunner,
		engine:    engine,
		countRepo: countRepo,
		sheet:     sheet,
		log:       log.With().Str("component", "inventory_count").Logger(),
	}
}

// Create registra el conteo. Si un ítem aparece dos veces, la segunda línea se compara contra
// la existencia ya ajustada por la primera.
func (uc *InventoryCountUseCase) Create(ctx context.Context, userID string, in dto.CreateInventoryCountRequest) (*dto.InventoryCountResponse, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: el conteo no tiene ítems", domain.ErrInvalidInput)
	}
	for _, it := range in.Items {
		if it.ItemID == "" || it.Quantity.IsNegative() || it.SalePrice.IsNegative() {
			return nil, fmt.Errorf("%w: línea inválida para ítem %q", domain.ErrInvalidInput, it.ItemID)
		}
	}

	now := time.Now().UTC()
	date := now
	if in.Date != nil && !in.Date.IsZero() {
		date = *in.Date
	}
	name := in.Name
	if name == "" {
		name = "Conteo " + date.Format("2006-01-02 15:04")
	}
	count := &entity.InventoryCount{
		ID:        uuid.New().String(),
		Date:      date,
		Name:      name,
		Notes:     in.Notes,
		CreatedBy: userID,
		CreatedAt: now,
	}

	var posted []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(tx appinventory.Tx) error {
		total := decimal.Zero
		for _, ci := range in.Items {
			item, err := tx.Items().GetForUpdate(ctx, ci.ItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return fmt.Errorf("%w: ítem %s", domain.ErrNotFound, ci.ItemID)
			}
			if m, ok := AdjustmentFor(ci.Quantity, item); ok {
				mov, err := uc.engine.Post(ctx, tx, appinventory.PostInput{
					ItemID:    item.ID,
					Movement:  m,
					Date:      date,
					Notes:     name,
					Refs:      entity.MovementRefs{InventoryCountID: count.ID},
					CreatedBy: userID,
				})
				if err != nil {
					return fmt.Errorf("ítem %s: %w", item.ID, err)
				}
				posted = append(posted, mov)
			}
			salePrice := ci.SalePrice
			if salePrice.IsZero() {
				salePrice = item.DefaultSalePrice
			}
			line := entity.InventoryCountLine{
				ID:           uuid.New().String(),
				CountID:      count.ID,
				ItemID:       item.ID,
				ItemName:     item.Name,
				Unit:         item.Unit,
				CategoryID:   item.CategoryID,
				CategoryName: item.CategoryName,
				Quantity:     ci.Quantity,
				SystemQty:    item.OnHandQty,
				SalePrice:    salePrice,
				TotalPrice:   ci.Quantity.Mul(salePrice),
			}
			total = total.Add(line.TotalPrice)
			count.Lines = append(count.Lines, line)
		}
		count.TotalAmount = total
		return tx.InventoryCounts().Create(ctx, count)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("inventory_count_id", count.ID).
		Int("lines", len(count.Lines)).
		Int("adjustments", len(posted)).
		Msg("conteo de inventario registrado")

	out := toCountResponse(count)
	for _, m := range posted {
		out.Movements = append(out.Movements, appinventory.ToMovementResponse(m))
	}
	return out, nil
}

// GetByID devuelve (nil, nil) si el conteo no existe.
func (uc *InventoryCountUseCase) GetByID(ctx context.Context, id string) (*dto.InventoryCountResponse, error) {
	c, err := uc.countRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	return toCountResponse(c), nil
}

// List conteos más recientes primero.
func (uc *InventoryCountUseCase) List(ctx context.Context, limit, offset int) (*dto.InventoryCountListResponse, error) {
	list, err := uc.countRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InventoryCountSummary, 0, len(list))
	for _, c := range list {
		items = append(items, dto.InventoryCountSummary{
			ID:          c.ID,
			Date:        c.Date,
			Name:        c.Name,
			TotalAmount: c.TotalAmount,
			ItemsCount:  len(c.Lines),
			CreatedBy:   c.CreatedBy,
		})
	}
	return &dto.InventoryCountListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// PDF genera la hoja del conteo. Devuelve también el nombre de archivo sugerido.
func (uc *InventoryCountUseCase) PDF(ctx context.Context, id string) ([]byte, string, error) {
	if uc.sheet == nil {
		return nil, "", fmt.Errorf("%w: generador de PDF no configurado", domain.ErrUnsupported)
	}
	c, err := uc.countRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if c == nil {
		return nil, "", domain.ErrNotFound
	}
	b, err := uc.sheet.GenerateCountSheetPDF(ctx, c)
	if err != nil {
		return nil, "", fmt.Errorf("generar PDF del conteo: %w", err)
	}
	return b, fmt.Sprintf("conteo_%s.pdf", c.Date.Format("20060102_1504")), nil
}

func toCountResponse(c *entity.InventoryCount) *dto.InventoryCountResponse {
	out := &dto.InventoryCountResponse{
		ID:          c.ID,
		Date:        c.Date,
		Name:        c.Name,
		Notes:       c.Notes,
		TotalAmount: c.TotalAmount,
		CreatedBy:   c.CreatedBy,
		CreatedAt:   c.CreatedAt,
		Lines:       make([]dto.InventoryCountLineResponse, 0, len(c.Lines)),
	}
	for _, l := range c.Lines {
		out.Lines = append(out.Lines, dto.InventoryCountLineResponse{
			ItemID:       l.ItemID,
			ItemName:     l.ItemName,
			Unit:         l.Unit,
			CategoryName: l.CategoryName,
			Quantity:     l.Quantity,
			SystemQty:    l.SystemQty,
			SalePrice:    l.SalePrice,
			TotalPrice:   l.TotalPrice,
		})
	}
	return out
}
