package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/myshop-api/internal/domain"
	"github.com/jhoicas/myshop-api/internal/domain/entity"
)

type countRepo struct {
	access accessFn
}

func copyCount(c *entity.InventoryCount) *entity.InventoryCount {
	out := *c
	out.Lines = append([]entity.InventoryCountLine(nil), c.Lines...)
	return &out
}

func (r *countRepo) Create(_ context.Context, c *entity.InventoryCount) error {
	return r.access(func(st *state) error {
		if _, ok := st.counts[c.ID]; ok {
			return domain.ErrDuplicate
		}
		st.counts[c.ID] = copyCount(c)
		return nil
	})
}

// GetByID devuelve las líneas ordenadas por nombre de ítem.
func (r *countRepo) GetByID(_ context.Context, id string) (*entity.InventoryCount, error) {
	var out *entity.InventoryCount
	err := r.access(func(st *state) error {
		c, ok := st.counts[id]
		if !ok {
			return nil
		}
		out = copyCount(c)
		sort.SliceStable(out.Lines, func(a, b int) bool {
			return strings.ToLower(out.Lines[a].ItemName) < strings.ToLower(out.Lines[b].ItemName)
		})
		return nil
	})
	return out, err
}

func (r *countRepo) List(_ context.Context, limit, offset int) ([]*entity.InventoryCount, error) {
	var out []*entity.InventoryCount
	err := r.access(func(st *state) error {
		all := make([]*entity.InventoryCount, 0, len(st.counts))
		for _, c := range st.counts {
			all = append(all, copyCount(c))
		}
		sort.Slice(all, func(a, b int) bool {
			if !all[a].Date.Equal(all[b].Date) {
				return all[a].Date.After(all[b].Date)
			}
			return all[a].CreatedAt.After(all[b].CreatedAt)
		})
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}
