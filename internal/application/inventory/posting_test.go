package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func newEngine(t *testing.T) (*memory.Store, *appinventory.PostingEngine) {
	t.Helper()
	s := memory.NewStore()
	require.NoError(t, s.Items().Create(context.Background(), &entity.Item{
		ID:        "papa",
		Name:      "Papa",
		Unit:      "kg",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}))
	return s, appinventory.NewPostingEngine(s, zerolog.Nop())
}

func post(t *testing.T, e *appinventory.PostingEngine, m inventory.Movement) (*entity.StockMovement, error) {
	t.Helper()
	return e.Post(context.Background(), nil, appinventory.PostInput{ItemID: "papa", Movement: m})
}

func getItem(t *testing.T, s *memory.Store) *entity.Item {
	t.Helper()
	item, err := s.Items().GetByID(context.Background(), "papa")
	require.NoError(t, err)
	require.NotNil(t, item)
	return item
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests PostingEngine
// ──────────────────────────────────────────────────────────────────────────────

func TestPost_RecepcionesYVentaActualizanCosto(t *testing.T) {
	s, e := newEngine(t)

	m1, err := post(t, e, inventory.PurchaseReceipt{Qty: d("10"), UnitCost: d("6")})
	require.NoError(t, err)
	assert.True(t, m1.AvgCostAfter.Equal(d("6")))
	require.NotNil(t, m1.UnitCost)
	assert.True(t, m1.UnitCost.Equal(d("6")))
	assert.NotNil(t, getItem(t, s).CostUpdatedAt)

	m2, err := post(t, e, inventory.PurchaseReceipt{Qty: d("10"), UnitCost: d("4")})
	require.NoError(t, err)
	assert.True(t, m2.AvgCostAfter.Equal(d("5")))
	assert.Greater(t, m2.ID, m1.ID)

	m3, err := post(t, e, inventory.Sale{Qty: d("-5")})
	require.NoError(t, err)
	assert.Nil(t, m3.UnitCost)
	assert.True(t, m3.AvgCostAfter.Equal(d("5")))

	item := getItem(t, s)
	assert.True(t, item.OnHandQty.Equal(d("15")))
	assert.True(t, item.AvgCost.Equal(d("5")))
}

func TestPost_ExistenciaIgualASumaDelKardex(t *testing.T) {
	s, e := newEngine(t)
	moves := []inventory.Movement{
		inventory.PurchaseReceipt{Qty: d("12.5"), UnitCost: d("3.2")},
		inventory.Sale{Qty: d("-2.25")},
		inventory.Waste{Qty: d("-0.25")},
		inventory.InventoryAdjustment{Qty: d("1.5")},
		inventory.ReturnToVendor{Qty: d("-3")},
	}
	for _, m := range moves {
		_, err := post(t, e, m)
		require.NoError(t, err)
	}

	uc := appinventory.NewMovementUseCase(e, s.Items(), s.Movements())
	check, err := uc.CheckLedger(context.Background(), "papa")
	require.NoError(t, err)
	assert.True(t, check.Consistent)
	assert.Equal(t, len(moves), check.Movements)
	assert.True(t, check.OnHandQty.Equal(d("8.5")))
}

func TestPost_StockInsuficienteNoModificaNada(t *testing.T) {
	s, e := newEngine(t)
	_, err := post(t, e, inventory.PurchaseReceipt{Qty: d("2"), UnitCost: d("10")})
	require.NoError(t, err)

	_, err = post(t, e, inventory.Sale{Qty: d("-3")})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	item := getItem(t, s)
	assert.True(t, item.OnHandQty.Equal(d("2")))
	n, err := s.Movements().CountByItem(context.Background(), "papa")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPost_CantidadCeroYItemInexistente(t *testing.T) {
	_, e := newEngine(t)

	_, err := post(t, e, inventory.Sale{Qty: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidMovement)

	_, err = e.Post(context.Background(), nil, appinventory.PostInput{
		ItemID:   "no-existe",
		Movement: inventory.Sale{Qty: d("-1")},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = post(t, e, nil)
	assert.ErrorIs(t, err, domain.ErrUnsupported)
}

func TestPost_ParticipaEnTransaccionDelLlamador(t *testing.T) {
	s, e := newEngine(t)
	ctx := context.Background()
	boom := errors.New("falla posterior")

	err := s.Run(ctx, func(tx appinventory.Tx) error {
		_, err := e.Post(ctx, tx, appinventory.PostInput{
			ItemID:   "papa",
			Movement: inventory.PurchaseReceipt{Qty: d("4"), UnitCost: d("1")},
		})
		require.NoError(t, err)

		// Dentro de la transacción el cambio ya es visible.
		item, err := tx.Items().GetByID(ctx, "papa")
		require.NoError(t, err)
		assert.True(t, item.OnHandQty.Equal(d("4")))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	assert.True(t, getItem(t, s).OnHandQty.IsZero(), "el rollback del llamador revierte el movimiento")
	n, err := s.Movements().CountByItem(ctx, "papa")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPost_ContextoCancelado(t *testing.T) {
	s, e := newEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Post(ctx, nil, appinventory.PostInput{
		ItemID:   "papa",
		Movement: inventory.PurchaseReceipt{Qty: d("1"), UnitCost: d("1")},
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, getItem(t, s).OnHandQty.IsZero())
}

func TestPost_FechaPorDefectoYReferencias(t *testing.T) {
	_, e := newEngine(t)
	date := time.Date(2026, 5, 2, 8, 30, 0, 0, time.UTC)

	m, err := e.Post(context.Background(), nil, appinventory.PostInput{
		ItemID:    "papa",
		Movement:  inventory.PurchaseReceipt{Qty: d("1"), UnitCost: d("2")},
		Date:      date,
		Refs:      entity.MovementRefs{PurchaseOrderID: "po-1", PurchaseOrderLineID: "l-1"},
		CreatedBy: "u1",
	})
	require.NoError(t, err)
	assert.True(t, m.Date.Equal(date))
	assert.Equal(t, "po-1", m.Refs.PurchaseOrderID)
	assert.Equal(t, "u1", m.CreatedBy)

	m, err = post(t, e, inventory.Sale{Qty: d("-1")})
	require.NoError(t, err)
	assert.False(t, m.Date.IsZero())
}

func TestPost_CantidadFueraDeEscalaSeRegistraRedondeada(t *testing.T) {
	s, e := newEngine(t)

	_, err := post(t, e, inventory.PurchaseReceipt{Qty: d("0.00004"), UnitCost: d("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidMovement)

	m, err := post(t, e, inventory.PurchaseReceipt{Qty: d("2.00004"), UnitCost: d("1.99999")})
	require.NoError(t, err)
	assert.True(t, m.Qty.Equal(d("2")), "qty %s", m.Qty)
	assert.True(t, m.AvgCostAfter.Equal(d("2")), "avg %s", m.AvgCostAfter)

	item := getItem(t, s)
	assert.True(t, item.OnHandQty.Equal(d("2")))
	assert.True(t, item.AvgCost.Equal(d("2")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests MovementUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_TipoEnMinusculasYCostoIgnoradoEnSalida(t *testing.T) {
	s, e := newEngine(t)
	uc := appinventory.NewMovementUseCase(e, s.Items(), s.Movements())
	ctx := context.Background()
	cost := d("9")

	_, err := uc.RegisterMovement(ctx, "u1", dto.RegisterMovementRequest{
		ItemID: "papa", Type: "purchase_receipt", Quantity: d("3"), UnitCost: &cost,
	})
	require.NoError(t, err)

	out, err := uc.RegisterMovement(ctx, "u1", dto.RegisterMovementRequest{
		ItemID: "papa", Type: "WASTE", Quantity: d("-1"), UnitCost: &cost,
	})
	require.NoError(t, err)
	assert.Nil(t, out.UnitCost)
	assert.Equal(t, string(entity.MovementTypeWaste), out.Type)

	_, err = uc.RegisterMovement(ctx, "u1", dto.RegisterMovementRequest{
		ItemID: "papa", Type: "TRANSFER", Quantity: d("1"),
	})
	assert.ErrorIs(t, err, domain.ErrUnsupported)

	list, err := uc.ListByItem(ctx, "papa", nil, nil, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)

	_, err = uc.ListByItem(ctx, "otro", nil, nil, 10, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterMovement_RecepcionSinCostoValidaItemYExistenciaPrimero(t *testing.T) {
	s, e := newEngine(t)
	uc := appinventory.NewMovementUseCase(e, s.Items(), s.Movements())
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, "u1", dto.RegisterMovementRequest{
		ItemID: "no-existe", Type: "PURCHASE_RECEIPT", Quantity: d("3"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.RegisterMovement(ctx, "u1", dto.RegisterMovementRequest{
		ItemID: "papa", Type: "PURCHASE_RECEIPT", Quantity: d("-3"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = uc.RegisterMovement(ctx, "u1", dto.RegisterMovementRequest{
		ItemID: "papa", Type: "PURCHASE_RECEIPT", Quantity: d("3"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidMovement)
	assert.True(t, getItem(t, s).OnHandQty.IsZero())
}
