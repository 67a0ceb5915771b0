package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/myshop-api/internal/domain"
	"github.com/jhoicas/myshop-api/internal/domain/entity"
)

type itemRepo struct {
	access accessFn
}

func copyItem(i *entity.Item) *entity.Item {
	c := *i
	if i.CostUpdatedAt != nil {
		t := *i.CostUpdatedAt
		c.CostUpdatedAt = &t
	}
	return &c
}

func (r *itemRepo) Create(_ context.Context, item *entity.Item) error {
	return r.access(func(st *state) error {
		if _, ok := st.items[item.ID]; ok {
			return domain.ErrDuplicate
		}
		st.items[item.ID] = copyItem(item)
		return nil
	})
}

func (r *itemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	var out *entity.Item
	err := r.access(func(st *state) error {
		if i, ok := st.items[id]; ok {
			out = copyItem(i)
		}
		return nil
	})
	return out, err
}

// GetForUpdate no necesita bloqueo propio: la transacción ya tiene el store en exclusiva.
func (r *itemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.GetByID(ctx, id)
}

func (r *itemRepo) List(_ context.Context, limit, offset int) ([]*entity.Item, error) {
	var out []*entity.Item
	err := r.access(func(st *state) error {
		all := make([]*entity.Item, 0, len(st.items))
		for _, i := range st.items {
			all = append(all, copyItem(i))
		}
		sort.Slice(all, func(a, b int) bool {
			na, nb := strings.ToLower(all[a].Name), strings.ToLower(all[b].Name)
			if na != nb {
				return na < nb
			}
			return all[a].ID < all[b].ID
		})
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

func (r *itemRepo) ListBelowReorder(_ context.Context) ([]*entity.Item, error) {
	var out []*entity.Item
	err := r.access(func(st *state) error {
		for _, i := range st.items {
			if i.IsService || !i.ReorderLevel.IsPositive() || i.OnHandQty.GreaterThan(i.ReorderLevel) {
				continue
			}
			out = append(out, copyItem(i))
		}
		sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
		return nil
	})
	return out, err
}

func (r *itemRepo) Update(_ context.Context, item *entity.Item) error {
	return r.access(func(st *state) error {
		cur, ok := st.items[item.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Name = item.Name
		cur.Unit = item.Unit
		cur.CategoryID = item.CategoryID
		cur.CategoryName = item.CategoryName
		cur.DefaultPurchasePrice = item.DefaultPurchasePrice
		cur.DefaultSalePrice = item.DefaultSalePrice
		cur.ReorderLevel = item.ReorderLevel
		cur.IsService = item.IsService
		cur.UpdatedAt = item.UpdatedAt
		return nil
	})
}

func (r *itemRepo) UpdateStock(_ context.Context, id string, onHand, avgCost decimal.Decimal, costUpdatedAt *time.Time) error {
	return r.access(func(st *state) error {
		cur, ok := st.items[id]
		if !ok {
			return domain.ErrNotFound
		}
		cur.OnHandQty = onHand
		cur.AvgCost = avgCost
		if costUpdatedAt != nil {
			t := *costUpdatedAt
			cur.CostUpdatedAt = &t
		} else {
			cur.CostUpdatedAt = nil
		}
		cur.UpdatedAt = time.Now().UTC()
		return nil
	})
}

func (r *itemRepo) UpdateDefaultPrices(_ context.Context, id string, purchase, sale decimal.Decimal) error {
	return r.access(func(st *state) error {
		cur, ok := st.items[id]
		if !ok {
			return domain.ErrNotFound
		}
		cur.DefaultPurchasePrice = purchase
		cur.DefaultSalePrice = sale
		cur.UpdatedAt = time.Now().UTC()
		return nil
	})
}

func (r *itemRepo) Delete(_ context.Context, id string) error {
	return r.access(func(st *state) error {
		if _, ok := st.items[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.items, id)
		return nil
	})
}
