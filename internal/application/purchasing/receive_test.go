package purchasing_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/myshop-api/internal/application/dto"
	appinventory "github.com/jhoicas/myshop-api/internal/application/inventory"
	"github.com/jhoicas/myshop-api/internal/application/purchasing"
	"github.com/jhoicas/myshop-api/internal/domain"
	"github.com/jhoicas/myshop-api/internal/domain/entity"
	"github.com/jhoicas/myshop-api/internal/domain/inventory"
	"github.com/jhoicas/myshop-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store     *memory.Store
	orders    *purchasing.OrderUseCase
	receiving *purchasing.ReceivingUseCase
	engine    *appinventory.PostingEngine
}

func newFixture(t *testing.T, items ...*entity.Item) *fixture {
	t.Helper()
	s := memory.NewStore()
	for _, it := range items {
		require.NoError(t, s.Items().Create(context.Background(), it))
	}
	engine := appinventory.NewPostingEngine(s, zerolog.Nop())
	return &fixture{
		store:     s,
		orders:    purchasing.NewOrderUseCase(s, s.PurchaseOrders()),
		receiving: purchasing.NewReceivingUseCase(s, engine, s.PurchaseOrders(), s.Items(), zerolog.Nop()),
		engine:    engine,
	}
}

func item(id, name string) *entity.Item {
	now := time.Now().UTC()
	return &entity.Item{
		ID:                   id,
		Name:                 name,
		Unit:                 "kg",
		DefaultPurchasePrice: d("9"),
		DefaultSalePrice:     d("15"),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

func (f *fixture) createOrder(t *testing.T, lines ...dto.CreatePurchaseOrderLineRequest) *dto.PurchaseOrderResponse {
	t.Helper()
	po, err := f.orders.Create(context.Background(), dto.CreatePurchaseOrderRequest{
		VendorName: "Central de Abastos",
		Lines:      lines,
	})
	require.NoError(t, err)
	return po
}

func (f *fixture) receive(t *testing.T, poID string, lines ...dto.ReceivePurchaseOrderLineRequest) (*dto.ReceivePurchaseOrderResponse, error) {
	t.Helper()
	return f.receiving.Receive(context.Background(), "u1", poID, dto.ReceivePurchaseOrderRequest{Lines: lines})
}

func (f *fixture) item(t *testing.T, id string) *entity.Item {
	t.Helper()
	it, err := f.store.Items().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, it)
	return it
}

func orderLine(itemID, qty, price string) dto.CreatePurchaseOrderLineRequest {
	return dto.CreatePurchaseOrderLineRequest{
		ItemID:          itemID,
		OrderedQuantity: d(qty),
		PurchasePrice:   d(price),
		SalePrice:       d("15"),
	}
}

func receiveLine(lineID, qty, price string) dto.ReceivePurchaseOrderLineRequest {
	return dto.ReceivePurchaseOrderLineRequest{
		LineID:           lineID,
		ReceivedQuantity: d(qty),
		PurchasePrice:    d(price),
		SalePrice:        d("15"),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests ReceiptMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestReceiptMovement(t *testing.T) {
	m, ok := purchasing.ReceiptMovement(d("5"), d("8"), d("10"))
	require.True(t, ok)
	r, isReceipt := m.(inventory.PurchaseReceipt)
	require.True(t, isReceipt)
	assert.True(t, r.Qty.Equal(d("3")))
	assert.True(t, r.UnitCost.Equal(d("10")))

	m, ok = purchasing.ReceiptMovement(d("8"), d("6"), d("10"))
	require.True(t, ok)
	ret, isReturn := m.(inventory.ReturnToVendor)
	require.True(t, isReturn)
	assert.True(t, ret.Qty.Equal(d("-2")))

	_, ok = purchasing.ReceiptMovement(d("8"), d("8.000"), d("10"))
	assert.False(t, ok)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests ReceivingUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_RegistraSoloLaDiferencia(t *testing.T) {
	f := newFixture(t, item("frijol", "Frijol"))
	po := f.createOrder(t, orderLine("frijol", "8", "10"))
	lineID := po.Lines[0].ID

	out, err := f.receive(t, po.ID, receiveLine(lineID, "5", "10"))
	require.NoError(t, err)
	require.Len(t, out.Movements, 1)
	assert.True(t, out.Movements[0].Qty.Equal(d("5")))

	out, err = f.receive(t, po.ID, receiveLine(lineID, "8", "10"))
	require.NoError(t, err)
	require.Len(t, out.Movements, 1)
	mov := out.Movements[0]
	assert.Equal(t, string(entity.MovementTypePurchaseReceipt), mov.Type)
	assert.True(t, mov.Qty.Equal(d("3")))
	require.NotNil(t, mov.UnitCost)
	assert.True(t, mov.UnitCost.Equal(d("10")))
	assert.Equal(t, po.ID, mov.PurchaseOrderID)
	assert.Equal(t, lineID, mov.PurchaseOrderLineID)

	assert.True(t, f.item(t, "frijol").OnHandQty.Equal(d("8")))
	assert.Equal(t, entity.PurchaseOrderStatusReceived, out.Order.Status)
	assert.True(t, out.Order.TotalAmount.Equal(d("80")))
	assert.NotNil(t, out.Order.ReceiveDate)
}

func TestReceive_SinCambiosNoRegistraMovimientos(t *testing.T) {
	f := newFixture(t, item("frijol", "Frijol"))
	po := f.createOrder(t, orderLine("frijol", "4", "10"))
	lineID := po.Lines[0].ID

	_, err := f.receive(t, po.ID, receiveLine(lineID, "4", "10"))
	require.NoError(t, err)
	out, err := f.receive(t, po.ID, receiveLine(lineID, "4", "10"))
	require.NoError(t, err)
	assert.Empty(t, out.Movements)

	n, err := f.store.Movements().CountByItem(context.Background(), "frijol")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestReceive_DisminucionEsDevolucionAlProveedor(t *testing.T) {
	f := newFixture(t, item("frijol", "Frijol"))
	po := f.createOrder(t, orderLine("frijol", "8", "10"))
	lineID := po.Lines[0].ID

	_, err := f.receive(t, po.ID, receiveLine(lineID, "8", "10"))
	require.NoError(t, err)
	out, err := f.receive(t, po.ID, receiveLine(lineID, "6", "10"))
	require.NoError(t, err)
	require.Len(t, out.Movements, 1)
	assert.Equal(t, string(entity.MovementTypeReturnToVendor), out.Movements[0].Type)
	assert.True(t, out.Movements[0].Qty.Equal(d("-2")))

	it := f.item(t, "frijol")
	assert.True(t, it.OnHandQty.Equal(d("6")))
	assert.True(t, it.AvgCost.Equal(d("10")), "la devolución no cambia el costo promedio")
}

func TestReceive_FallaDeUnaLineaRevierteTodo(t *testing.T) {
	f := newFixture(t, item("frijol", "Frijol"), item("arroz", "Arroz"))
	po := f.createOrder(t, orderLine("frijol", "5", "10"), orderLine("arroz", "5", "20"))
	frijolLine, arrozLine := po.Lines[0].ID, po.Lines[1].ID

	_, err := f.receive(t, po.ID, receiveLine(frijolLine, "5", "10"), receiveLine(arrozLine, "5", "20"))
	require.NoError(t, err)

	// Se vende todo el arroz; devolver 2 al proveedor ya no es posible.
	_, err = f.engine.Post(context.Background(), nil, appinventory.PostInput{ItemID: "arroz", Movement: inventory.Sale{Qty: d("-5")}})
	require.NoError(t, err)

	_, err = f.receive(t, po.ID, receiveLine(frijolLine, "7", "10"), receiveLine(arrozLine, "3", "20"))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, f.item(t, "frijol").OnHandQty.Equal(d("5")), "la línea de frijol también se revierte")
	got, err := f.orders.GetByID(context.Background(), po.ID)
	require.NoError(t, err)
	assert.True(t, got.Lines[0].ReceivedQuantity.Equal(d("5")))
	assert.True(t, got.Lines[1].ReceivedQuantity.Equal(d("5")))
}

func TestReceive_ActualizaPreciosDelItemYTotales(t *testing.T) {
	f := newFixture(t, item("frijol", "Frijol"))
	po := f.createOrder(t, orderLine("frijol", "10", "10"))

	out, err := f.receiving.Receive(context.Background(), "u1", po.ID, dto.ReceivePurchaseOrderRequest{
		DiscountAmount: d("5"),
		PaidAmount:     d("100"),
		Notes:          "llegó completo",
		Lines: []dto.ReceivePurchaseOrderLineRequest{
			{LineID: po.Lines[0].ID, ReceivedQuantity: d("10"), PurchasePrice: d("11"), SalePrice: d("18")},
			{LineID: "no-existe", ReceivedQuantity: d("3"), PurchasePrice: d("1")},
		},
	})
	require.NoError(t, err)
	require.Len(t, out.Movements, 1)
	assert.True(t, out.Order.TotalAmount.Equal(d("105")))
	assert.True(t, out.Order.PaidAmount.Equal(d("100")))
	assert.Equal(t, "llegó completo", out.Order.Notes)

	it := f.item(t, "frijol")
	assert.True(t, it.DefaultPurchasePrice.Equal(d("11")))
	assert.True(t, it.DefaultSalePrice.Equal(d("18")))
	assert.True(t, it.AvgCost.Equal(d("11")))
}

func TestReceive_Validaciones(t *testing.T) {
	f := newFixture(t, item("frijol", "Frijol"))
	po := f.createOrder(t, orderLine("frijol", "10", "10"))

	_, err := f.receive(t, po.ID, receiveLine(po.Lines[0].ID, "-1", "10"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.receiving.Receive(context.Background(), "u1", po.ID, dto.ReceivePurchaseOrderRequest{DiscountAmount: d("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.receive(t, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetForReceive_ProponeCantidadYPrecios(t *testing.T) {
	f := newFixture(t, item("frijol", "Frijol"))
	po, err := f.orders.Create(context.Background(), dto.CreatePurchaseOrderRequest{
		VendorName: "Central",
		Lines:      []dto.CreatePurchaseOrderLineRequest{{ItemID: "frijol", OrderedQuantity: d("6")}},
	})
	require.NoError(t, err)

	view, err := f.receiving.GetForReceive(context.Background(), po.ID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.True(t, view.Lines[0].ReceivedQuantity.Equal(d("6")))
	assert.True(t, view.Lines[0].PurchasePrice.Equal(d("9")))
	assert.True(t, view.Lines[0].SalePrice.Equal(d("15")))

	_, err = f.receiving.GetForReceive(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests OrderUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestOrder_CreateCopiaDatosDelItem(t *testing.T) {
	f := newFixture(t, item("frijol", "Frijol"))
	po := f.createOrder(t, orderLine("frijol", "3", "10"))
	assert.Equal(t, entity.PurchaseOrderStatusDraft, po.Status)
	require.Len(t, po.Lines, 1)
	assert.Equal(t, "Frijol", po.Lines[0].ItemName)
	assert.Equal(t, "kg", po.Lines[0].Unit)
	assert.True(t, po.Lines[0].ReceivedQuantity.IsZero())

	_, err := f.orders.Create(context.Background(), dto.CreatePurchaseOrderRequest{
		Lines: []dto.CreatePurchaseOrderLineRequest{orderLine("no-existe", "1", "1")},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.orders.Create(context.Background(), dto.CreatePurchaseOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOrder_DeleteSoloSinRecepciones(t *testing.T) {
	f := newFixture(t, item("frijol", "Frijol"))
	ctx := context.Background()
	draft := f.createOrder(t, orderLine("frijol", "3", "10"))
	require.NoError(t, f.orders.Delete(ctx, draft.ID))
	got, err := f.orders.GetByID(ctx, draft.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	received := f.createOrder(t, orderLine("frijol", "3", "10"))
	_, err = f.receive(t, received.ID, receiveLine(received.Lines[0].ID, "3", "10"))
	require.NoError(t, err)
	assert.ErrorIs(t, f.orders.Delete(ctx, received.ID), domain.ErrConflict)

	assert.ErrorIs(t, f.orders.Delete(ctx, "no-existe"), domain.ErrNotFound)
}
