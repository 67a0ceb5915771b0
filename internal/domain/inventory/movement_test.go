package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/myshop-api/internal/domain"
	"github.com/jhoicas/myshop-api/internal/domain/entity"
	"github.com/jhoicas/myshop-api/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func TestWeightedAverage_SinExistenciaTomaCostoEntrada(t *testing.T) {
	got := inventory.WeightedAverage(decimal.Zero, d("9.99"), d("3"), d("4.1234"))
	assert.True(t, got.Equal(d("4.1234")), "got %s", got)
}

func TestWeightedAverage_SinExistenciaRedondeaCostoEntrada(t *testing.T) {
	got := inventory.WeightedAverage(decimal.Zero, decimal.Zero, d("1"), d("2.123456"))
	assert.True(t, got.Equal(d("2.1235")), "got %s", got)
}

func TestWeightedAverage_PromedioPonderado(t *testing.T) {
	got := inventory.WeightedAverage(d("10"), d("6"), d("10"), d("4"))
	assert.True(t, got.Equal(d("5")), "got %s", got)
}

func TestWeightedAverage_RedondeaACuatroDecimales(t *testing.T) {
	// (1*1 + 2*2) / 3 = 1.6666...
	got := inventory.WeightedAverage(d("1"), d("1"), d("2"), d("2"))
	assert.True(t, got.Equal(d("1.6667")), "got %s", got)
}

func TestApply_CantidadCeroSiempreInvalida(t *testing.T) {
	pos := inventory.Position{OnHandQty: d("10"), AvgCost: d("2")}
	movs := []inventory.Movement{
		inventory.PurchaseReceipt{Qty: decimal.Zero, UnitCost: d("1")},
		inventory.Sale{Qty: decimal.Zero},
		inventory.Waste{Qty: decimal.Zero},
		inventory.ReturnToVendor{Qty: decimal.Zero},
		inventory.InventoryAdjustment{Qty: decimal.Zero},
	}
	for _, m := range movs {
		_, err := inventory.Apply(pos, m)
		assert.ErrorIs(t, err, domain.ErrInvalidMovement, "tipo %s", m.Type())
	}
}

func TestApply_RecepcionSobreExistencia(t *testing.T) {
	pos := inventory.Position{OnHandQty: d("10"), AvgCost: d("6")}
	eff, err := inventory.Apply(pos, inventory.PurchaseReceipt{Qty: d("10"), UnitCost: d("4")})
	require.NoError(t, err)
	assert.True(t, eff.OnHandQty.Equal(d("20")))
	assert.True(t, eff.AvgCost.Equal(d("5")))
	assert.True(t, eff.CostChanged)
	require.NotNil(t, eff.UnitCost)
	assert.True(t, eff.UnitCost.Equal(d("4")))
}

func TestApply_EntradaSinExistenciaFijaCosto(t *testing.T) {
	pos := inventory.Position{OnHandQty: decimal.Zero, AvgCost: d("7")}
	cases := []inventory.Movement{
		inventory.PurchaseReceipt{Qty: d("5"), UnitCost: d("3.25")},
		inventory.InventoryAdjustment{Qty: d("5"), UnitCost: dp("3.25")},
	}
	for _, m := range cases {
		eff, err := inventory.Apply(pos, m)
		require.NoError(t, err)
		assert.True(t, eff.AvgCost.Equal(d("3.25")), "tipo %s: got %s", m.Type(), eff.AvgCost)
	}
}

func TestApply_SalidasNoCambianCosto(t *testing.T) {
	pos := inventory.Position{OnHandQty: d("10"), AvgCost: d("6.5")}
	cases := []inventory.Movement{
		inventory.Sale{Qty: d("-3")},
		inventory.Waste{Qty: d("-1.5")},
		inventory.ReturnToVendor{Qty: d("-10")},
		inventory.InventoryAdjustment{Qty: d("-2")},
	}
	for _, m := range cases {
		eff, err := inventory.Apply(pos, m)
		require.NoError(t, err, "tipo %s", m.Type())
		assert.True(t, eff.AvgCost.Equal(d("6.5")), "tipo %s", m.Type())
		assert.True(t, eff.OnHandQty.Equal(d("10").Add(m.Quantity())), "tipo %s", m.Type())
		assert.False(t, eff.CostChanged)
		assert.Nil(t, eff.UnitCost)
	}
}

func TestApply_StockInsuficiente(t *testing.T) {
	pos := inventory.Position{OnHandQty: d("2"), AvgCost: d("1")}
	cases := []inventory.Movement{
		inventory.Sale{Qty: d("-2.001")},
		inventory.Waste{Qty: d("-3")},
		inventory.ReturnToVendor{Qty: d("-5")},
		inventory.InventoryAdjustment{Qty: d("-2.5")},
	}
	for _, m := range cases {
		_, err := inventory.Apply(pos, m)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock, "tipo %s", m.Type())
	}
}

func TestApply_SalidaHastaCeroPermitida(t *testing.T) {
	pos := inventory.Position{OnHandQty: d("2"), AvgCost: d("1")}
	eff, err := inventory.Apply(pos, inventory.Sale{Qty: d("-2")})
	require.NoError(t, err)
	assert.True(t, eff.OnHandQty.IsZero())
}

func TestApply_SignoIncorrectoPorTipo(t *testing.T) {
	pos := inventory.Position{OnHandQty: d("10"), AvgCost: d("1")}
	cases := []inventory.Movement{
		inventory.PurchaseReceipt{Qty: d("-1"), UnitCost: d("1")},
		inventory.Sale{Qty: d("1")},
		inventory.Waste{Qty: d("1")},
		inventory.ReturnToVendor{Qty: d("1")},
	}
	for _, m := range cases {
		_, err := inventory.Apply(pos, m)
		assert.ErrorIs(t, err, domain.ErrInvalidMovement, "tipo %s", m.Type())
	}
}

func TestApply_CostoNegativoInvalido(t *testing.T) {
	pos := inventory.Position{OnHandQty: d("1"), AvgCost: d("1")}
	_, err := inventory.Apply(pos, inventory.PurchaseReceipt{Qty: d("1"), UnitCost: d("-0.01")})
	assert.ErrorIs(t, err, domain.ErrInvalidMovement)
	_, err = inventory.Apply(pos, inventory.InventoryAdjustment{Qty: d("1"), UnitCost: dp("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidMovement)
}

func TestApply_AjustePositivoSinCostoUsaPromedio(t *testing.T) {
	pos := inventory.Position{OnHandQty: d("8"), AvgCost: d("2.5")}
	eff, err := inventory.Apply(pos, inventory.InventoryAdjustment{Qty: d("2")})
	require.NoError(t, err)
	assert.True(t, eff.OnHandQty.Equal(d("10")))
	assert.True(t, eff.AvgCost.Equal(d("2.5")))
	require.NotNil(t, eff.UnitCost)
	assert.True(t, eff.UnitCost.Equal(d("2.5")))
}

func TestApply_MovimientoNilNoSoportado(t *testing.T) {
	_, err := inventory.Apply(inventory.Position{}, nil)
	assert.ErrorIs(t, err, domain.ErrUnsupported)
}

func TestNewMovement(t *testing.T) {
	m, err := inventory.NewMovement(entity.MovementTypeSale, d("-1"), dp("9"))
	require.NoError(t, err)
	sale, ok := m.(inventory.Sale)
	require.True(t, ok)
	assert.True(t, sale.Qty.Equal(d("-1")))

	_, err = inventory.NewMovement(entity.MovementType("TRANSFER"), d("1"), nil)
	assert.ErrorIs(t, err, domain.ErrUnsupported)

	_, err = inventory.NewMovement(entity.MovementType("TRANSFER"), decimal.Zero, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidMovement)
}

func TestNewMovement_RecepcionSinCostoSeRechazaEnApply(t *testing.T) {
	m, err := inventory.NewMovement(entity.MovementTypePurchaseReceipt, d("3"), nil)
	require.NoError(t, err)

	_, err = inventory.Apply(inventory.Position{OnHandQty: d("10"), AvgCost: d("1")}, m)
	assert.ErrorIs(t, err, domain.ErrInvalidMovement)
}

func TestNewMovement_RecepcionSinCostoNegativaReportaStockPrimero(t *testing.T) {
	m, err := inventory.NewMovement(entity.MovementTypePurchaseReceipt, d("-3"), nil)
	require.NoError(t, err)

	_, err = inventory.Apply(inventory.Position{}, m)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestApply_NormalizaEscalaDeCantidadYCosto(t *testing.T) {
	cases := []struct {
		name     string
		pos      inventory.Position
		mov      inventory.Movement
		err      error
		qty      string
		unitCost string
		avgCost  string
	}{
		{
			name: "cantidad menor a la escala es cero",
			mov:  inventory.PurchaseReceipt{Qty: d("0.00004"), UnitCost: d("1")},
			err:  domain.ErrInvalidMovement,
		},
		{
			name: "ajuste negativo menor a la escala es cero",
			pos:  inventory.Position{OnHandQty: d("1"), AvgCost: d("1")},
			mov:  inventory.InventoryAdjustment{Qty: d("-0.00004")},
			err:  domain.ErrInvalidMovement,
		},
		{
			name:     "recepción redondea cantidad y costo",
			mov:      inventory.PurchaseReceipt{Qty: d("1.23456"), UnitCost: d("2.00005")},
			qty:      "1.2346",
			unitCost: "2.0001",
			avgCost:  "2.0001",
		},
		{
			name:    "venta redondea cantidad",
			pos:     inventory.Position{OnHandQty: d("2"), AvgCost: d("3")},
			mov:     inventory.Sale{Qty: d("-1.00001")},
			qty:     "-1",
			avgCost: "3",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			eff, err := inventory.Apply(tc.pos, tc.mov)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.True(t, eff.Qty.Equal(d(tc.qty)), "qty %s", eff.Qty)
			assert.True(t, eff.OnHandQty.Equal(tc.pos.OnHandQty.Add(d(tc.qty))), "on hand %s", eff.OnHandQty)
			assert.True(t, eff.AvgCost.Equal(d(tc.avgCost)), "avg %s", eff.AvgCost)
			if tc.unitCost != "" {
				require.NotNil(t, eff.UnitCost)
				assert.True(t, eff.UnitCost.Equal(d(tc.unitCost)), "unit cost %s", eff.UnitCost)
			}
		})
	}
}

func TestNewMovement_CantidadMenorALaEscalaEsCero(t *testing.T) {
	_, err := inventory.NewMovement(entity.MovementTypeSale, d("-0.00004"), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidMovement)
}
