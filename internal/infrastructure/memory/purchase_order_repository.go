package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/myshop-api/internal/domain"
	"github.com/jhoicas/myshop-api/internal/domain/entity"
)

type orderRepo struct {
	access accessFn
}

func copyOrder(po *entity.PurchaseOrder) *entity.PurchaseOrder {
	c := *po
	if po.ReceiveDate != nil {
		t := *po.ReceiveDate
		c.ReceiveDate = &t
	}
	c.Lines = append([]entity.PurchaseOrderLine(nil), po.Lines...)
	return &c
}

func (r *orderRepo) Create(_ context.Context, po *entity.PurchaseOrder) error {
	return r.access(func(st *state) error {
		if _, ok := st.orders[po.ID]; ok {
			return domain.ErrDuplicate
		}
		st.orders[po.ID] = copyOrder(po)
		return nil
	})
}

func (r *orderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := r.access(func(st *state) error {
		if po, ok := st.orders[id]; ok {
			out = copyOrder(po)
		}
		return nil
	})
	return out, err
}

func (r *orderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *orderRepo) List(_ context.Context, limit, offset int) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	err := r.access(func(st *state) error {
		all := make([]*entity.PurchaseOrder, 0, len(st.orders))
		for _, po := range st.orders {
			all = append(all, copyOrder(po))
		}
		sort.Slice(all, func(a, b int) bool {
			if !all[a].OrderDate.Equal(all[b].OrderDate) {
				return all[a].OrderDate.After(all[b].OrderDate)
			}
			return all[a].CreatedAt.After(all[b].CreatedAt)
		})
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

func (r *orderRepo) UpdateReceipt(_ context.Context, po *entity.PurchaseOrder) error {
	return r.access(func(st *state) error {
		cur, ok := st.orders[po.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.ReceiveDate = po.ReceiveDate
		cur.Status = po.Status
		cur.DiscountAmount = po.DiscountAmount
		cur.PaidAmount = po.PaidAmount
		cur.TotalAmount = po.TotalAmount
		cur.Notes = po.Notes
		cur.UpdatedAt = po.UpdatedAt
		for _, l := range po.Lines {
			if line := cur.Line(l.ID); line != nil {
				line.ReceivedQuantity = l.ReceivedQuantity
				line.PurchasePrice = l.PurchasePrice
				line.SalePrice = l.SalePrice
			}
		}
		return nil
	})
}

func (r *orderRepo) Delete(_ context.Context, id string) error {
	return r.access(func(st *state) error {
		if _, ok := st.orders[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.orders, id)
		return nil
	})
}
