package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/myshop-api/internal/domain"
	"github.com/jhoicas/myshop-api/internal/domain/entity"
	"github.com/jhoicas/myshop-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

const purchaseOrderColumns = `id, vendor_id, vendor_name, order_date, receive_date, status,
	discount_amount, paid_amount, total_amount, notes, created_at, updated_at`

// PurchaseOrderRepo órdenes de compra sobre PostgreSQL (usable con pool o tx).
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create inserta cabecera y líneas. Con el pool cada sentencia es autónoma; usar dentro de TxRunner
// para que la orden se guarde completa o no se guarde.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	query := `INSERT INTO purchase_orders (` + purchaseOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		po.ID, nullString(po.VendorID), po.VendorName, po.OrderDate, po.ReceiveDate, po.Status,
		po.DiscountAmount, po.PaidAmount, po.TotalAmount, nullString(po.Notes), po.CreatedAt, po.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	lineQuery := `
		INSERT INTO purchase_order_lines (id, purchase_order_id, line_no, item_id, item_name, unit,
			ordered_quantity, received_quantity, purchase_price, sale_price, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for i, l := range po.Lines {
		if _, err := r.q.Exec(ctx, lineQuery,
			l.ID, po.ID, i+1, l.ItemID, l.ItemName, l.Unit,
			l.OrderedQuantity, l.ReceivedQuantity, l.PurchasePrice, l.SalePrice, nullString(l.Notes),
		); err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: ítem %s", domain.ErrNotFound, l.ItemID)
			}
			return fmt.Errorf("insert purchase order line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la orden con sus líneas.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, `SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera: dos recepciones simultáneas de la misma orden se serializan.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, `SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *PurchaseOrderRepo) get(ctx context.Context, query, id string) (*entity.PurchaseOrder, error) {
	po, err := scanPurchaseOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	if po.Lines, err = r.lines(ctx, po.ID); err != nil {
		return nil, err
	}
	return po, nil
}

func (r *PurchaseOrderRepo) lines(ctx context.Context, orderID string) ([]entity.PurchaseOrderLine, error) {
	query := `
		SELECT id, purchase_order_id, item_id, item_name, unit, ordered_quantity, received_quantity,
			purchase_price, sale_price, notes
		FROM purchase_order_lines WHERE purchase_order_id = $1 ORDER BY line_no`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list purchase order lines: %w", err)
	}
	defer rows.Close()
	var list []entity.PurchaseOrderLine
	for rows.Next() {
		var l entity.PurchaseOrderLine
		var notes *string
		if err := rows.Scan(&l.ID, &l.PurchaseOrderID, &l.ItemID, &l.ItemName, &l.Unit, &l.OrderedQuantity,
			&l.ReceivedQuantity, &l.PurchasePrice, &l.SalePrice, &notes); err != nil {
			return nil, fmt.Errorf("scan purchase order line: %w", err)
		}
		l.Notes = derefString(notes)
		list = append(list, l)
	}
	return list, rows.Err()
}

// List órdenes más recientes primero, con sus líneas.
func (r *PurchaseOrderRepo) List(ctx context.Context, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders
		ORDER BY order_date DESC, created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	var list []*entity.PurchaseOrder
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, po)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Las líneas se leen después de cerrar rows: una tx no admite dos consultas abiertas.
	for _, po := range list {
		if po.Lines, err = r.lines(ctx, po.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// UpdateReceipt guarda cabecera y cantidades/precios de cada línea.
func (r *PurchaseOrderRepo) UpdateReceipt(ctx context.Context, po *entity.PurchaseOrder) error {
	query := `
		UPDATE purchase_orders SET receive_date = $2, status = $3, discount_amount = $4, paid_amount = $5,
			total_amount = $6, notes = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		po.ID, po.ReceiveDate, po.Status, po.DiscountAmount, po.PaidAmount, po.TotalAmount,
		nullString(po.Notes), po.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	lineQuery := `
		UPDATE purchase_order_lines SET received_quantity = $3, purchase_price = $4, sale_price = $5
		WHERE id = $1 AND purchase_order_id = $2`
	for _, l := range po.Lines {
		if _, err := r.q.Exec(ctx, lineQuery, l.ID, po.ID, l.ReceivedQuantity, l.PurchasePrice, l.SalePrice); err != nil {
			return fmt.Errorf("update purchase order line: %w", err)
		}
	}
	return nil
}

// Delete elimina la orden (las líneas se borran en cascada).
func (r *PurchaseOrderRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM purchase_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanPurchaseOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	var vendorID, notes *string
	err := row.Scan(
		&po.ID, &vendorID, &po.VendorName, &po.OrderDate, &po.ReceiveDate, &po.Status,
		&po.DiscountAmount, &po.PaidAmount, &po.TotalAmount, &notes, &po.CreatedAt, &po.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	po.VendorID = derefString(vendorID)
	po.Notes = derefString(notes)
	return &po, nil
}
