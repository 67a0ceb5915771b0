package pdf

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/myshop-api/internal/domain/entity"
)

func TestGenerateCountSheetPDF(t *testing.T) {
	g := NewCountSheetGenerator("Abarrotes Lupita", "")
	count := &entity.InventoryCount{
		ID:          "c1",
		Date:        time.Date(2026, 3, 31, 20, 0, 0, 0, time.UTC),
		Name:        "Cierre de marzo",
		TotalAmount: decimal.RequireFromString("2522.5"),
		Lines: []entity.InventoryCountLine{
			{ItemName: "Aguacate", Unit: "kg", Quantity: decimal.RequireFromString("9.5"), SystemQty: decimal.NewFromInt(10),
				SalePrice: decimal.NewFromInt(55), TotalPrice: decimal.RequireFromString("522.5")},
			{ItemName: "Tomate", Unit: "kg", CategoryName: "Verdura", Quantity: decimal.NewFromInt(100), SystemQty: decimal.NewFromInt(100),
				SalePrice: decimal.NewFromInt(20), TotalPrice: decimal.NewFromInt(2000)},
		},
	}

	b, err := g.GenerateCountSheetPDF(context.Background(), count)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}

func TestMoneyYQty_FormatoDelLocale(t *testing.T) {
	g := NewCountSheetGenerator("x", "es-MX")
	money := g.money(decimal.RequireFromString("1234567.5"))
	assert.True(t, strings.HasPrefix(money, "$1"))
	assert.True(t, strings.HasSuffix(money, "50"))
	assert.Len(t, money, len("$1,234,567.50"), "separadores de miles y 2 decimales")
	assert.Len(t, g.qty(decimal.RequireFromString("9.500")), len("9.5"), "sin ceros de relleno")
}
