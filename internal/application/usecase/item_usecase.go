package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/myshop-api/internal/application/dto"
	"github.com/jhoicas/myshop-api/internal/domain"
	"github.com/jhoicas/myshop-api/internal/domain/entity"
	"github.com/jhoicas/myshop-api/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD para ítems. Existencia y costo se manejan vía kardex.
type ItemUseCase struct {
	repo    repository.ItemRepository
	movRepo repository.StockMovementRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository, movRepo repository.StockMovementRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo, movRepo: movRepo}
}

// Create registra un ítem con existencia y costo en 0.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	item, err := NewItem(in)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// NewItem valida el request y arma el ítem nuevo, sin existencia ni costo.
func NewItem(in dto.CreateItemRequest) (*entity.Item, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name requerido", domain.ErrInvalidInput)
	}
	if in.DefaultPurchasePrice.IsNegative() || in.DefaultSalePrice.IsNegative() || in.ReorderLevel.IsNegative() {
		return nil, fmt.Errorf("%w: precios y punto de reorden no pueden ser negativos", domain.ErrInvalidInput)
	}
	if in.Unit == "" {
		in.Unit = "kg"
	}
	now := time.Now().UTC()
	return &entity.Item{
		ID:                   uuid.New().String(),
		Name:                 strings.TrimSpace(in.Name),
		Unit:                 in.Unit,
		CategoryID:           in.CategoryID,
		CategoryName:         in.CategoryName,
		DefaultPurchasePrice: in.DefaultPurchasePrice,
		DefaultSalePrice:     in.DefaultSalePrice,
		ReorderLevel:         in.ReorderLevel,
		IsService:            in.IsService,
		OnHandQty:            decimal.Zero,
		AvgCost:              decimal.Zero,
		CreatedAt:            now,
		UpdatedAt:            now,
	}, nil
}

// GetByID obtiene un ítem por ID.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return toItemResponse(item), nil
}

// Update actualiza un ítem. No permite modificar existencia ni costo.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, fmt.Errorf("%w: name vacío", domain.ErrInvalidInput)
		}
		item.Name = strings.TrimSpace(*in.Name)
	}
	if in.Unit != nil {
		item.Unit = *in.Unit
	}
	if in.CategoryID != nil {
		item.CategoryID = *in.CategoryID
	}
	if in.CategoryName != nil {
		item.CategoryName = *in.CategoryName
	}
	for _, p := range []*decimal.Decimal{in.DefaultPurchasePrice, in.DefaultSalePrice, in.ReorderLevel} {
		if p != nil && p.IsNegative() {
			return nil, fmt.Errorf("%w: valores negativos", domain.ErrInvalidInput)
		}
	}
	if in.DefaultPurchasePrice != nil {
		item.DefaultPurchasePrice = *in.DefaultPurchasePrice
	}
	if in.DefaultSalePrice != nil {
		item.DefaultSalePrice = *in.DefaultSalePrice
	}
	if in.ReorderLevel != nil {
		item.ReorderLevel = *in.ReorderLevel
	}
	if in.IsService != nil {
		item.IsService = *in.IsService
	}
	item.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// List lista ítems con paginación.
func (uc *ItemUseCase) List(ctx context.Context, limit, offset int) (*dto.ItemListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un ítem. Un ítem con movimientos en el kardex no se puede borrar.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) error {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	n, err := uc.movRepo.CountByItem(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: el ítem tiene %d movimientos", domain.ErrConflict, n)
	}
	return uc.repo.Delete(ctx, id)
}

func toItemResponse(it *entity.Item) *dto.ItemResponse {
	if it == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:                   it.ID,
		Name:                 it.Name,
		Unit:                 it.Unit,
		CategoryID:           it.CategoryID,
		CategoryName:         it.CategoryName,
		DefaultPurchasePrice: it.DefaultPurchasePrice,
		DefaultSalePrice:     it.DefaultSalePrice,
		ReorderLevel:         it.ReorderLevel,
		IsService:            it.IsService,
		OnHandQty:            it.OnHandQty,
		AvgCost:              it.AvgCost,
		CostUpdatedAt:        it.CostUpdatedAt,
		CreatedAt:            it.CreatedAt,
		UpdatedAt:            it.UpdatedAt,
	}
}
