// Package memory implementa los repositorios en memoria (desarrollo y pruebas).
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/myshop-api/internal/application/inventory"
	"github.com/jhoicas/myshop-api/internal/domain/entity"
	"github.com/jhoicas/myshop-api/internal/domain/repository"
)

type state struct {
	items          map[string]*entity.Item
	movements      []*entity.StockMovement
	orders         map[string]*entity.PurchaseOrder
	counts         map[string]*entity.InventoryCount
	users          map[string]*entity.User
	nextMovementID int64
}

func newState() *state {
	return &state{
		items:  make(map[string]*entity.Item),
		orders: make(map[string]*entity.PurchaseOrder),
		counts: make(map[string]*entity.InventoryCount),
		users:  make(map[string]*entity.User),
	}
}

// clone copia lo mutable. Movimientos, conteos y usuarios no se modifican una vez guardados,
// así que se comparten los punteros.
func (s *state) clone() *state {
	c := &state{
		items:          make(map[string]*entity.Item, len(s.items)),
		movements:      append([]*entity.StockMovement(nil), s.movements...),
		orders:         make(map[string]*entity.PurchaseOrder, len(s.orders)),
		counts:         make(map[string]*entity.InventoryCount, len(s.counts)),
		users:          make(map[string]*entity.User, len(s.users)),
		nextMovementID: s.nextMovementID,
	}
	for k, v := range s.items {
		c.items[k] = copyItem(v)
	}
	for k, v := range s.orders {
		c.orders[k] = copyOrder(v)
	}
	for k, v := range s.counts {
		c.counts[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	return c
}

// accessFn da acceso exclusivo al estado: el del store o la copia de trabajo de una transacción.
type accessFn func(fn func(st *state) error) error

// Store guarda todo en memoria. Las transacciones se serializan con un único mutex: trabajan
// sobre una copia del estado que reemplaza al original solo en el commit.
// Los repositorios del Store (fuera de Run) no deben usarse dentro de una función de Run.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) access(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// Run implementa inventory.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(tx inventory.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	tx := newTx(func(f func(st *state) error) error { return f(work) })
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Items repositorio fuera de transacción.
func (s *Store) Items() repository.ItemRepository { return &itemRepo{access: s.access} }

// Movements repositorio del kardex fuera de transacción.
func (s *Store) Movements() repository.StockMovementRepository {
	return &movementRepo{access: s.access}
}

// PurchaseOrders repositorio de órdenes fuera de transacción.
func (s *Store) PurchaseOrders() repository.PurchaseOrderRepository {
	return &orderRepo{access: s.access}
}

// InventoryCounts repositorio de conteos fuera de transacción.
func (s *Store) InventoryCounts() repository.InventoryCountRepository {
	return &countRepo{access: s.access}
}

// Users repositorio de usuarios.
func (s *Store) Users() repository.UserRepository { return &userRepo{access: s.access} }

type memTx struct {
	items     *itemRepo
	movements *movementRepo
	orders    *orderRepo
	counts    *countRepo
}

func newTx(access accessFn) *memTx {
	return &memTx{
		items:     &itemRepo{access: access},
		movements: &movementRepo{access: access},
		orders:    &orderRepo{access: access},
		counts:    &countRepo{access: access},
	}
}

func (t *memTx) Items() repository.ItemRepository                   { return t.items }
func (t *memTx) Movements() repository.StockMovementRepository      { return t.movements }
func (t *memTx) PurchaseOrders() repository.PurchaseOrderRepository { return t.orders }
func (t *memTx) InventoryCounts() repository.InventoryCountRepository {
	return t.counts
}

func page[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
