package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/myshop-api/internal/application/inventory"
	"github.com/jhoicas/myshop-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Los bloqueos FOR UPDATE tomados dentro de fn se liberan al terminar la transacción.
func (r *TxRunner) Run(ctx context.Context, fn func(tx inventory.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(newPgTx(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type pgTx struct {
	items     *ItemRepo
	movements *StockMovementRepo
	orders    *PurchaseOrderRepo
	counts    *InventoryCountRepo
}

func newPgTx(q Querier) *pgTx {
	return &pgTx{
		items:     NewItemRepository(q),
		movements: NewStockMovementRepository(q),
		orders:    NewPurchaseOrderRepository(q),
		counts:    NewInventoryCountRepository(q),
	}
}

func (t *pgTx) Items() repository.ItemRepository                     { return t.items }
func (t *pgTx) Movements() repository.StockMovementRepository        { return t.movements }
func (t *pgTx) PurchaseOrders() repository.PurchaseOrderRepository   { return t.orders }
func (t *pgTx) InventoryCounts() repository.InventoryCountRepository { return t.counts }
