// Package importer carga el catálogo inicial de ítems desde hojas de cálculo exportadas a CSV.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/myshop-api/internal/application/dto"
	"github.com/jhoicas/myshop-api/internal/application/inventory"
	"github.com/jhoicas/myshop-api/internal/application/usecase"
	domaininv "github.com/jhoicas/myshop-api/internal/domain/inventory"
)

// ItemRow fila del CSV de ítems. InitialQty > 0 genera una entrada de compra con InitialCost.
type ItemRow struct {
	Line          int
	Name          string
	Unit          string
	Category      string
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	ReorderLevel  decimal.Decimal
	InitialQty    decimal.Decimal
	InitialCost   decimal.Decimal
}

// Options formato del archivo.
type Options struct {
	Delimiter rune // 0 = ','
	Latin1    bool // archivo en Windows-1252 (Excel en español)
}

// columnas reconocidas; las demás se ignoran.
var columns = []string{"name", "unit", "category", "purchase_price", "sale_price", "reorder_level", "initial_qty", "initial_cost"}

// ParseItems lee el CSV con encabezado. La columna name es obligatoria.
func ParseItems(r io.Reader, opts Options) ([]ItemRow, error) {
	if opts.Latin1 {
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("csv vacío")
	}
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	if _, ok := idx["name"]; !ok {
		return nil, fmt.Errorf("encabezado sin columna name (esperadas: %s)", strings.Join(columns, ", "))
	}

	var rows []ItemRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		row := ItemRow{Line: line, Name: get("name"), Unit: get("unit"), Category: get("category")}
		if row.Name == "" {
			continue
		}
		nums := []struct {
			col string
			dst *decimal.Decimal
		}{
			{"purchase_price", &row.PurchasePrice},
			{"sale_price", &row.SalePrice},
			{"reorder_level", &row.ReorderLevel},
			{"initial_qty", &row.InitialQty},
			{"initial_cost", &row.InitialCost},
		}
		for _, n := range nums {
			v, err := parseNumber(get(n.col))
			if err != nil {
				return nil, fmt.Errorf("línea %d, %s: %w", line, n.col, err)
			}
			*n.dst = v
		}
		if row.InitialCost.IsZero() {
			row.InitialCost = row.PurchasePrice
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseNumber acepta coma decimal ("1,5") además de punto.
func parseNumber(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	if !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}

// Result resumen de la importación.
type Result struct {
	Created   int
	Movements int
}

// Import crea cada ítem y, si trae existencia inicial, la registra como entrada de compra.
// Cada fila va en su propia transacción: el ítem y su existencia inicial quedan juntos o no quedan.
// Se detiene en la primera fila con error; las anteriores quedan confirmadas.
func Import(ctx context.Context, rows []ItemRow, txRunner inventory.TxRunner, engine *inventory.PostingEngine, userID string) (Result, error) {
	var res Result
	for _, row := range rows {
		item, err := usecase.NewItem(dto.CreateItemRequest{
			Name:                 row.Name,
			Unit:                 row.Unit,
			CategoryName:         row.Category,
			DefaultPurchasePrice: row.PurchasePrice,
			DefaultSalePrice:     row.SalePrice,
			ReorderLevel:         row.ReorderLevel,
		})
		if err != nil {
			return res, fmt.Errorf("línea %d (%s): %w", row.Line, row.Name, err)
		}
		posted := false
		err = txRunner.Run(ctx, func(tx inventory.Tx) error {
			if err := tx.Items().Create(ctx, item); err != nil {
				return err
			}
			if !row.InitialQty.IsPositive() {
				return nil
			}
			if _, err := engine.Post(ctx, tx, inventory.PostInput{
				ItemID:    item.ID,
				Movement:  domaininv.PurchaseReceipt{Qty: row.InitialQty, UnitCost: row.InitialCost},
				Notes:     "Existencia inicial (importación)",
				CreatedBy: userID,
			}); err != nil {
				return fmt.Errorf("existencia inicial: %w", err)
			}
			posted = true
			return nil
		})
		if err != nil {
			return res, fmt.Errorf("línea %d (%s): %w", row.Line, row.Name, err)
		}
		res.Created++
		if posted {
			res.Movements++
		}
	}
	return res, nil
}
