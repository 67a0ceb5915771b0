package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/myshop-api/internal/domain/entity"
	"github.com/jhoicas/myshop-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, item_id, date, type, qty, unit_cost, avg_cost_after,
	purchase_order_id, purchase_order_line_id, inventory_count_id, notes, created_at, created_by`

// StockMovementRepo kardex sobre PostgreSQL (usable con pool o tx). Solo INSERT y lecturas.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Append inserta el movimiento; el ID lo asigna la secuencia BIGSERIAL.
func (r *StockMovementRepo) Append(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (item_id, date, type, qty, unit_cost, avg_cost_after,
			purchase_order_id, purchase_order_line_id, inventory_count_id, notes, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		m.ItemID, m.Date, string(m.Type), m.Qty, m.UnitCost, m.AvgCostAfter,
		nullString(m.Refs.PurchaseOrderID), nullString(m.Refs.PurchaseOrderLineID), nullString(m.Refs.InventoryCountID),
		nullString(m.Notes), m.CreatedAt, nullString(m.CreatedBy),
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByItem lista movimientos de un ítem en un rango de fechas, orden fecha, id.
func (r *StockMovementRepo) ListByItem(ctx context.Context, itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE item_id = $1`
	args := []any{itemID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND date <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += " ORDER BY date, id"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
		args = append(args, limit, offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements by item: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// SumQtyByItem Σ qty del kardex de un ítem (debe coincidir con on_hand_qty).
func (r *StockMovementRepo) SumQtyByItem(ctx context.Context, itemID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(qty), 0) FROM stock_movements WHERE item_id = $1`, itemID).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum movements: %w", err)
	}
	return sum, nil
}

// SumOutflowsByItem unidades salidas (qty negativa) del tipo dado en [from, to), agrupadas por ítem.
func (r *StockMovementRepo) SumOutflowsByItem(ctx context.Context, typ entity.MovementType, from, to time.Time) (map[string]decimal.Decimal, error) {
	query := `
		SELECT item_id, SUM(-qty) FROM stock_movements
		WHERE type = $1 AND date >= $2 AND date < $3 AND qty < 0
		GROUP BY item_id`
	rows, err := r.q.Query(ctx, query, string(typ), from, to)
	if err != nil {
		return nil, fmt.Errorf("sum outflows: %w", err)
	}
	defer rows.Close()
	out := make(map[string]decimal.Decimal)
	for rows.Next() {
		var itemID string
		var qty decimal.Decimal
		if err := rows.Scan(&itemID, &qty); err != nil {
			return nil, fmt.Errorf("scan outflow: %w", err)
		}
		out[itemID] = qty
	}
	return out, rows.Err()
}

// CountByItem cantidad de movimientos de un ítem.
func (r *StockMovementRepo) CountByItem(ctx context.Context, itemID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM stock_movements WHERE item_id = $1`, itemID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var typ string
	var poID, lineID, countID, notes, createdBy *string
	err := row.Scan(
		&m.ID, &m.ItemID, &m.Date, &typ, &m.Qty, &m.UnitCost, &m.AvgCostAfter,
		&poID, &lineID, &countID, &notes, &m.CreatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	m.Type = entity.MovementType(typ)
	m.Refs = entity.MovementRefs{
		PurchaseOrderID:     derefString(poID),
		PurchaseOrderLineID: derefString(lineID),
		InventoryCountID:    derefString(countID),
	}
	m.Notes = derefString(notes)
	m.CreatedBy = derefString(createdBy)
	return &m, nil
}
