// Package pdf genera la hoja imprimible de un conteo físico de inventario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda + nombre del conteo │  Fecha + responsable  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Ítem | Categoría | Unidad | Sistema | Contado |     │
//	│         Diferencia | P. venta | Total                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL DEL CONTEO                                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/myshop-api/internal/application/ports"
	"github.com/jhoicas/myshop-api/internal/domain/entity"
)

var _ ports.CountSheetGenerator = (*CountSheetGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// CountSheetGenerator implementa ports.CountSheetGenerator usando Maroto v2.
type CountSheetGenerator struct {
	shopName string
	printer  *message.Printer
}

// NewCountSheetGenerator construye el generador. locale vacío = es-MX.
func NewCountSheetGenerator(shopName, locale string) *CountSheetGenerator {
	tag := language.MustParse("es-MX")
	if locale != "" {
		if t, err := language.Parse(locale); err == nil {
			tag = t
		}
	}
	return &CountSheetGenerator{shopName: shopName, printer: message.NewPrinter(tag)}
}

// GenerateCountSheetPDF genera el PDF y devuelve sus bytes.
func (g *CountSheetGenerator) GenerateCountSheetPDF(_ context.Context, count *entity.InventoryCount) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(count.Name, true).
		WithAuthor(g.shopName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(count))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, r := range g.lineRows(count.Lines) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalRow(count))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *CountSheetGenerator) headerRow(count *entity.InventoryCount) core.Row {
	right := []core.Component{
		text.New("CONTEO FÍSICO", props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
		}),
		text.New("Fecha: "+count.Date.Format("02/01/2006 15:04"), props.Text{
			Size: 8, Align: align.Right, Top: 7, Color: colorGray,
		}),
	}
	if count.CreatedBy != "" {
		right = append(right, text.New("Responsable: "+count.CreatedBy, props.Text{
			Size: 7, Align: align.Right, Top: 12, Color: colorGray,
		}))
	}
	left := []core.Component{
		text.New(g.shopName, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
		text.New(count.Name, props.Text{Size: 10, Top: 9}),
	}
	if count.Notes != "" {
		left = append(left, text.New(count.Notes, props.Text{Size: 7, Top: 14, Color: colorGray}))
	}
	return row.New(20).Add(col.New(7).Add(left...), col.New(5).Add(right...))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7.5, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Ítem", 3, align.Left),
		h("Categoría", 2, align.Left),
		h("Unidad", 1, align.Center),
		h("Sistema", 1, align.Right),
		h("Contado", 1, align.Right),
		h("Dif.", 1, align.Right),
		h("P. venta", 1, align.Right),
		h("Total", 2, align.Right),
	)
}

func (g *CountSheetGenerator) lineRows(lines []entity.InventoryCountLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		diff := l.Quantity.Sub(l.SystemQty)
		diffProps := props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}
		if !diff.IsZero() {
			diffProps.Color = colorAlert
		}
		result = append(result, row.New(6).Add(
			col.New(3).Add(text.New(l.ItemName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(nonEmpty(l.CategoryName, "—"), props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray})),
			col.New(1).Add(text.New(l.Unit, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(g.qty(l.SystemQty), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(g.qty(l.Quantity), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(g.qty(diff), diffProps)),
			col.New(1).Add(text.New(g.money(l.SalePrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(g.money(l.TotalPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func (g *CountSheetGenerator) totalRow(count *entity.InventoryCount) core.Row {
	return row.New(10).Add(
		col.New(8).Add(text.New(fmt.Sprintf("%d ítems contados", len(count.Lines)), props.Text{
			Size: 8, Top: 2, Color: colorGray,
		})),
		col.New(2).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 2,
		})),
		col.New(2).Add(text.New(g.money(count.TotalAmount), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// money importe con separador de miles del locale y 2 decimales.
func (g *CountSheetGenerator) money(d decimal.Decimal) string {
	return "$" + g.printer.Sprint(number.Decimal(d.InexactFloat64(), number.Scale(2)))
}

// qty cantidad con hasta 3 decimales (sin ceros de relleno).
func (g *CountSheetGenerator) qty(d decimal.Decimal) string {
	return g.printer.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(3)))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
