package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/myshop-api/internal/domain"
	"github.com/jhoicas/myshop-api/internal/domain/entity"
	"github.com/jhoicas/myshop-api/internal/domain/inventory"
)

// PostingEngine registra movimientos en el kardex: valida contra el ítem, actualiza existencia
// y costo promedio y agrega el movimiento, ambas escrituras en la misma transacción.
//
// La participación en transacciones es explícita: Post con tx == nil abre y confirma su propia
// transacción; con tx != nil participa en la del llamador y nunca hace Commit.
// La fila del ítem se lee con bloqueo (GetForUpdate), que se mantiene hasta que termina la
// transacción dueña; eso serializa los movimientos concurrentes sobre el mismo ítem.
type PostingEngine struct {
	txRunner TxRunner
	log      zerolog.Logger
	now      func() time.Time
}

// NewPostingEngine construye el motor.
func NewPostingEngine(txRunner TxRunner, log zerolog.Logger) *PostingEngine {
	return &PostingEngine{
		txRunner: txRunner,
		log:      log.With().Str("component", "stock_ledger").Logger(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// PostInput movimiento propuesto. Date cero = momento del registro.
type PostInput struct {
	ItemID    string
	Movement  inventory.Movement
	Date      time.Time
	Notes     string
	Refs      entity.MovementRefs
	CreatedBy string
}

// Post valida y aplica el movimiento. Cualquier error deja intactos ítem y kardex.
func (e *PostingEngine) Post(ctx context.Context, tx Tx, in PostInput) (*entity.StockMovement, error) {
	if tx != nil {
		return e.post(ctx, tx, in)
	}
	var out *entity.StockMovement
	err := e.txRunner.Run(ctx, func(tx Tx) error {
		m, err := e.post(ctx, tx, in)
		if err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *PostingEngine) post(ctx context.Context, tx Tx, in PostInput) (*entity.StockMovement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if in.Movement == nil {
		return nil, fmt.Errorf("%w: movimiento vacío", domain.ErrUnsupported)
	}
	if inventory.NormalizeQty(in.Movement.Quantity()).IsZero() {
		return nil, fmt.Errorf("%w: movimiento con cantidad cero", domain.ErrInvalidMovement)
	}

	item, err := tx.Items().GetForUpdate(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: ítem %s", domain.ErrNotFound, in.ItemID)
	}

	eff, err := inventory.Apply(inventory.Position{OnHandQty: item.OnHandQty, AvgCost: item.AvgCost}, in.Movement)
	if err != nil {
		return nil, err
	}

	// Última oportunidad de cancelar: desde aquí las escrituras terminan o fallan juntas.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := e.now()
	costUpdatedAt := item.CostUpdatedAt
	if eff.CostChanged {
		costUpdatedAt = &now
	}
	if err := tx.Items().UpdateStock(ctx, item.ID, eff.OnHandQty, eff.AvgCost, costUpdatedAt); err != nil {
		return nil, err
	}

	date := in.Date
	if date.IsZero() {
		date = now
	}
	mov := &entity.StockMovement{
		ItemID:       item.ID,
		Date:         date,
		Type:         in.Movement.Type(),
		Qty:          eff.Qty,
		UnitCost:     eff.UnitCost,
		AvgCostAfter: eff.AvgCost,
		Refs:         in.Refs,
		Notes:        in.Notes,
		CreatedAt:    now,
		CreatedBy:    in.CreatedBy,
	}
	if err := tx.Movements().Append(ctx, mov); err != nil {
		return nil, err
	}

	e.log.Debug().
		Int64("movement_id", mov.ID).
		Str("item_id", mov.ItemID).
		Str("type", string(mov.Type)).
		Str("qty", mov.Qty.String()).
		Str("on_hand", eff.OnHandQty.String()).
		Str("avg_cost_after", mov.AvgCostAfter.String()).
		Msg("movimiento registrado")
	return mov, nil
}
