package counting_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/myshop-api/internal/application/counting"
	"github.com/jhoicas/myshop-api/internal/application/dto"
	appinventory "github.com/jhoicas/myshop-api/internal/application/inventory"
	"github.com/jhoicas/myshop-api/internal/domain"
	"github.com/jhoicas/myshop-api/internal/domain/entity"
	"github.com/jhoicas/myshop-api/internal/domain/inventory"
	"github.com/jhoicas/myshop-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakeSheet struct {
	got *entity.InventoryCount
}

func (f *fakeSheet) GenerateCountSheetPDF(_ context.Context, c *entity.InventoryCount) ([]byte, error) {
	f.got = c
	return []byte("%PDF-fake"), nil
}

func setup(t *testing.T) (*memory.Store, *counting.InventoryCountUseCase, *fakeSheet) {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	now := time.Now().UTC()
	for _, it := range []*entity.Item{
		{ID: "tomate", Name: "Tomate", Unit: "kg", CategoryName: "Verdura", DefaultSalePrice: d("20"), CreatedAt: now, UpdatedAt: now},
		{ID: "aguacate", Name: "Aguacate", Unit: "kg", CategoryName: "Fruta", DefaultSalePrice: d("60"), CreatedAt: now, UpdatedAt: now},
	} {
		require.NoError(t, s.Items().Create(ctx, it))
	}
	engine := appinventory.NewPostingEngine(s, zerolog.Nop())
	for id, qty := range map[string]string{"tomate": "100.0002", "aguacate": "10"} {
		_, err := engine.Post(ctx, nil, appinventory.PostInput{
			ItemID:   id,
			Movement: inventory.PurchaseReceipt{Qty: d(qty), UnitCost: d("8")},
		})
		require.NoError(t, err)
	}
	sheet := &fakeSheet{}
	return s, counting.NewInventoryCountUseCase(s, engine, s.InventoryCounts(), sheet, zerolog.Nop()), sheet
}

func onHand(t *testing.T, s *memory.Store, id string) *entity.Item {
	t.Helper()
	it, err := s.Items().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, it)
	return it
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AdjustmentFor
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjustmentFor(t *testing.T) {
	item := &entity.Item{OnHandQty: d("100.0002"), AvgCost: d("8")}

	_, ok := counting.AdjustmentFor(d("100"), item)
	assert.False(t, ok, "diferencia menor al umbral es ruido")

	m, ok := counting.AdjustmentFor(d("95"), &entity.Item{OnHandQty: d("100"), AvgCost: d("8")})
	require.True(t, ok)
	adj, isAdj := m.(inventory.InventoryAdjustment)
	require.True(t, isAdj)
	assert.True(t, adj.Qty.Equal(d("-5")))
	assert.Nil(t, adj.UnitCost)

	m, ok = counting.AdjustmentFor(d("101"), &entity.Item{OnHandQty: d("100"), AvgCost: d("8")})
	require.True(t, ok)
	adj = m.(inventory.InventoryAdjustment)
	require.NotNil(t, adj.UnitCost)
	assert.True(t, adj.UnitCost.Equal(d("8")))

	_, ok = counting.AdjustmentFor(d("100.0005"), &entity.Item{OnHandQty: d("100")})
	assert.True(t, ok, "el umbral exacto ya es ajuste")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests InventoryCountUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_AjustaSoloDiferenciasReales(t *testing.T) {
	s, uc, _ := setup(t)
	ctx := context.Background()

	out, err := uc.Create(ctx, "u1", dto.CreateInventoryCountRequest{
		Items: []dto.InventoryCountItemInput{
			{ItemID: "tomate", Quantity: d("100")},
			{ItemID: "aguacate", Quantity: d("9.5"), SalePrice: d("55")},
		},
	})
	require.NoError(t, err)
	require.Len(t, out.Movements, 1)
	mov := out.Movements[0]
	assert.Equal(t, "aguacate", mov.ItemID)
	assert.Equal(t, string(entity.MovementTypeInventoryAdjustment), mov.Type)
	assert.True(t, mov.Qty.Equal(d("-0.5")))
	assert.Equal(t, out.ID, mov.InventoryCountID)

	assert.True(t, onHand(t, s, "tomate").OnHandQty.Equal(d("100.0002")))
	ag := onHand(t, s, "aguacate")
	assert.True(t, ag.OnHandQty.Equal(d("9.5")))
	assert.True(t, ag.AvgCost.Equal(d("8")))

	// 100 × 20 (precio del ítem) + 9.5 × 55
	assert.True(t, out.TotalAmount.Equal(d("2522.5")))
	assert.Contains(t, out.Name, "Conteo ")
}

func TestCreate_FotoConExistenciaDelSistema(t *testing.T) {
	_, uc, _ := setup(t)
	ctx := context.Background()

	out, err := uc.Create(ctx, "u1", dto.CreateInventoryCountRequest{
		Name:  "Cierre de mes",
		Items: []dto.InventoryCountItemInput{{ItemID: "tomate", Quantity: d("95")}, {ItemID: "aguacate", Quantity: d("10")}},
	})
	require.NoError(t, err)

	got, err := uc.GetByID(ctx, out.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Cierre de mes", got.Name)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, "Aguacate", got.Lines[0].ItemName, "líneas ordenadas por nombre")
	assert.Equal(t, "Tomate", got.Lines[1].ItemName)
	assert.True(t, got.Lines[1].SystemQty.Equal(d("100.0002")))
	assert.True(t, got.Lines[1].Quantity.Equal(d("95")))
	assert.Equal(t, "Verdura", got.Lines[1].CategoryName)
}

func TestCreate_ItemDuplicadoSeComparaContraExistenciaAjustada(t *testing.T) {
	s, uc, _ := setup(t)

	out, err := uc.Create(context.Background(), "u1", dto.CreateInventoryCountRequest{
		Items: []dto.InventoryCountItemInput{{ItemID: "aguacate", Quantity: d("8")}, {ItemID: "aguacate", Quantity: d("8")}},
	})
	require.NoError(t, err)
	assert.Len(t, out.Movements, 1)
	assert.True(t, onHand(t, s, "aguacate").OnHandQty.Equal(d("8")))
}

func TestCreate_ErrorRevierteConteoYAjustes(t *testing.T) {
	s, uc, _ := setup(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, "u1", dto.CreateInventoryCountRequest{
		Items: []dto.InventoryCountItemInput{{ItemID: "aguacate", Quantity: d("3")}, {ItemID: "no-existe", Quantity: d("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, onHand(t, s, "aguacate").OnHandQty.Equal(d("10")))

	list, err := uc.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestCreate_Validaciones(t *testing.T) {
	_, uc, _ := setup(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, "u1", dto.CreateInventoryCountRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, "u1", dto.CreateInventoryCountRequest{
		Items: []dto.InventoryCountItemInput{{ItemID: "tomate", Quantity: d("-1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListYPDF(t *testing.T) {
	_, uc, sheet := setup(t)
	ctx := context.Background()
	older := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	first, err := uc.Create(ctx, "u1", dto.CreateInventoryCountRequest{Date: &older, Items: []dto.InventoryCountItemInput{{ItemID: "tomate", Quantity: d("100")}}})
	require.NoError(t, err)
	second, err := uc.Create(ctx, "u1", dto.CreateInventoryCountRequest{Date: &newer, Items: []dto.InventoryCountItemInput{{ItemID: "tomate", Quantity: d("100")}}})
	require.NoError(t, err)

	list, err := uc.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, second.ID, list.Items[0].ID)
	assert.Equal(t, first.ID, list.Items[1].ID)
	assert.Equal(t, 1, list.Items[0].ItemsCount)

	b, name, err := uc.PDF(ctx, first.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, b)
	assert.Equal(t, "conteo_20260101_0900.pdf", name)
	require.NotNil(t, sheet.got)
	assert.Equal(t, first.ID, sheet.got.ID)

	_, _, err = uc.PDF(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
