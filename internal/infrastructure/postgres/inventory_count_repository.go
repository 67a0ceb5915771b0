package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/myshop-api/internal/domain"
	"github.com/jhoicas/myshop-api/internal/domain/entity"
	"github.com/jhoicas/myshop-api/internal/domain/repository"
)

var _ repository.InventoryCountRepository = (*InventoryCountRepo)(nil)

// InventoryCountRepo conteos físicos sobre PostgreSQL (usable con pool o tx).
type InventoryCountRepo struct {
	q Querier
}

// NewInventoryCountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryCountRepository(q Querier) *InventoryCountRepo {
	return &InventoryCountRepo{q: q}
}

// Create inserta cabecera y líneas del conteo.
func (r *InventoryCountRepo) Create(ctx context.Context, c *entity.InventoryCount) error {
	query := `
		INSERT INTO inventory_counts (id, date, name, notes, total_amount, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.q.Exec(ctx, query,
		c.ID, c.Date, c.Name, nullString(c.Notes), c.TotalAmount, nullString(c.CreatedBy), c.CreatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert inventory count: %w", err)
	}
	lineQuery := `
		INSERT INTO inventory_count_lines (id, count_id, item_id, item_name, unit, category_id, category_name,
			quantity, system_qty, sale_price, total_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for _, l := range c.Lines {
		if _, err := r.q.Exec(ctx, lineQuery,
			l.ID, c.ID, l.ItemID, l.ItemName, l.Unit, nullString(l.CategoryID), nullString(l.CategoryName),
			l.Quantity, l.SystemQty, l.SalePrice, l.TotalPrice,
		); err != nil {
			return fmt.Errorf("insert inventory count line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene el conteo con líneas ordenadas por nombre de ítem.
func (r *InventoryCountRepo) GetByID(ctx context.Context, id string) (*entity.InventoryCount, error) {
	query := `SELECT id, date, name, notes, total_amount, created_by, created_at FROM inventory_counts WHERE id = $1`
	c, err := scanCount(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory count: %w", err)
	}

	lineQuery := `
		SELECT id, count_id, item_id, item_name, unit, category_id, category_name, quantity, system_qty,
			sale_price, total_price
		FROM inventory_count_lines WHERE count_id = $1 ORDER BY lower(item_name), id`
	rows, err := r.q.Query(ctx, lineQuery, id)
	if err != nil {
		return nil, fmt.Errorf("list inventory count lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.InventoryCountLine
		var categoryID, categoryName *string
		if err := rows.Scan(&l.ID, &l.CountID, &l.ItemID, &l.ItemName, &l.Unit, &categoryID, &categoryName,
			&l.Quantity, &l.SystemQty, &l.SalePrice, &l.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan inventory count line: %w", err)
		}
		l.CategoryID = derefString(categoryID)
		l.CategoryName = derefString(categoryName)
		c.Lines = append(c.Lines, l)
	}
	return c, rows.Err()
}

// List conteos más recientes primero. Las líneas no se cargan; Lines lleva solo el largo.
func (r *InventoryCountRepo) List(ctx context.Context, limit, offset int) ([]*entity.InventoryCount, error) {
	query := `
		SELECT c.id, c.date, c.name, c.notes, c.total_amount, c.created_by, c.created_at,
			(SELECT count(*) FROM inventory_count_lines l WHERE l.count_id = c.id)
		FROM inventory_counts c
		ORDER BY c.date DESC, c.created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory counts: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryCount
	for rows.Next() {
		var c entity.InventoryCount
		var notes, createdBy *string
		var lines int
		if err := rows.Scan(&c.ID, &c.Date, &c.Name, &notes, &c.TotalAmount, &createdBy, &c.CreatedAt, &lines); err != nil {
			return nil, fmt.Errorf("scan inventory count: %w", err)
		}
		c.Notes = derefString(notes)
		c.CreatedBy = derefString(createdBy)
		c.Lines = make([]entity.InventoryCountLine, lines)
		list = append(list, &c)
	}
	return list, rows.Err()
}

func scanCount(row pgx.Row) (*entity.InventoryCount, error) {
	var c entity.InventoryCount
	var notes, createdBy *string
	if err := row.Scan(&c.ID, &c.Date, &c.Name, &notes, &c.TotalAmount, &createdBy, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Notes = derefString(notes)
	c.CreatedBy = derefString(createdBy)
	return &c, nil
}
