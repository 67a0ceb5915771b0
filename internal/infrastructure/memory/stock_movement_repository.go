package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/myshop-api/internal/domain/entity"
)

type movementRepo struct {
	access accessFn
}

// Append asigna el siguiente ID. En rollback el contador vuelve atrás junto con el resto del estado.
func (r *movementRepo) Append(_ context.Context, m *entity.StockMovement) error {
	return r.access(func(st *state) error {
		st.nextMovementID++
		m.ID = st.nextMovementID
		c := *m
		st.movements = append(st.movements, &c)
		return nil
	})
}

func (r *movementRepo) ListByItem(_ context.Context, itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.access(func(st *state) error {
		var list []*entity.StockMovement
		for _, m := range st.movements {
			if m.ItemID != itemID {
				continue
			}
			if from != nil && m.Date.Before(*from) {
				continue
			}
			if to != nil && m.Date.After(*to) {
				continue
			}
			c := *m
			list = append(list, &c)
		}
		sort.SliceStable(list, func(a, b int) bool {
			if !list[a].Date.Equal(list[b].Date) {
				return list[a].Date.Before(list[b].Date)
			}
			return list[a].ID < list[b].ID
		})
		out = page(list, limit, offset)
		return nil
	})
	return out, err
}

func (r *movementRepo) SumQtyByItem(_ context.Context, itemID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	err := r.access(func(st *state) error {
		for _, m := range st.movements {
			if m.ItemID == itemID {
				sum = sum.Add(m.Qty)
			}
		}
		return nil
	})
	return sum, err
}

func (r *movementRepo) SumOutflowsByItem(_ context.Context, typ entity.MovementType, from, to time.Time) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	err := r.access(func(st *state) error {
		for _, m := range st.movements {
			if m.Type != typ || m.Date.Before(from) || !m.Date.Before(to) || !m.Qty.IsNegative() {
				continue
			}
			out[m.ItemID] = out[m.ItemID].Add(m.Qty.Neg())
		}
		return nil
	})
	return out, err
}

func (r *movementRepo) CountByItem(_ context.Context, itemID string) (int, error) {
	n := 0
	err := r.access(func(st *state) error {
		for _, m := range st.movements {
			if m.ItemID == itemID {
				n++
			}
		}
		return nil
	})
	return n, err
}
