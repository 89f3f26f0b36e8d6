// Package memory implementa los repositorios en memoria. Lo usan los tests de los
// casos de uso y de los handlers; la semántica de transacción imita a postgres
// (serializa transacciones y descarta los cambios si fn devuelve error).
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex

	products   map[string]entity.Product
	users      map[string]entity.User
	roles      map[string]entity.Role
	warehouses map[string]entity.Warehouse
	orders     map[string]entity.Order
	projects   map[string]entity.Project
	workOrders map[string]entity.WorkOrder
	receipts   map[string]entity.Receipt
	movements  []entity.Movement

	warehouseSeq int64

	failures map[string]error
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		products:   map[string]entity.Product{},
		users:      map[string]entity.User{},
		roles:      map[string]entity.Role{},
		warehouses: map[string]entity.Warehouse{},
		orders:     map[string]entity.Order{},
		projects:   map[string]entity.Project{},
		workOrders: map[string]entity.WorkOrder{},
		receipts:   map[string]entity.Receipt{},
		failures:   map[string]error{},
	}
}

// FailOn hace que la próxima llamada a op (p. ej. "movements.create") devuelva err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// fail consume un fallo inyectado. Debe llamarse con s.mu tomado.
func (s *Store) fail(op string) error {
	if err, ok := s.failures[op]; ok {
		delete(s.failures, op)
		return err
	}
	return nil
}

// Repos devuelve los repositorios transaccionales sobre este store.
func (s *Store) Repos() repository.TxRepos {
	return repository.TxRepos{
		Products:   &ProductRepo{s: s},
		Receipts:   &ReceiptRepo{s: s},
		Movements:  &MovementRepo{s: s},
		Orders:     &OrderRepo{s: s},
		WorkOrders: &WorkOrderRepo{s: s},
	}
}

// Movements copia del log de movimientos, en orden de inserción.
func (s *Store) Movements() []entity.Movement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Movement(nil), s.movements...)
}

type snapshot struct {
	products   map[string]entity.Product
	orders     map[string]entity.Order
	workOrders map[string]entity.WorkOrder
	receipts   map[string]entity.Receipt
	movements  []entity.Movement
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		products:   make(map[string]entity.Product, len(s.products)),
		orders:     make(map[string]entity.Order, len(s.orders)),
		workOrders: make(map[string]entity.WorkOrder, len(s.workOrders)),
		receipts:   make(map[string]entity.Receipt, len(s.receipts)),
		movements:  append([]entity.Movement(nil), s.movements...),
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.orders {
		snap.orders[k] = cloneOrder(v)
	}
	for k, v := range s.workOrders {
		snap.workOrders[k] = cloneWorkOrder(v)
	}
	for k, v := range s.receipts {
		snap.receipts[k] = cloneReceipt(v)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.orders = snap.orders
	s.workOrders = snap.workOrders
	s.receipts = snap.receipts
	s.movements = snap.movements
}

// TxRunner ejecuta fn con los repos del store; si fn falla restaura el estado previo.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

var _ repository.TxRunner = (*TxRunner)(nil)

// Run serializa las transacciones; equivale a bloquear todas las filas tocadas.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	snap := r.s.snapshot()
	if err := fn(r.s.Repos()); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

func cloneOrder(o entity.Order) entity.Order {
	o.Items = append([]entity.OrderItem(nil), o.Items...)
	return o
}

func cloneWorkOrder(w entity.WorkOrder) entity.WorkOrder {
	w.Items = append([]entity.WorkOrderItem(nil), w.Items...)
	return w
}

func cloneReceipt(r entity.Receipt) entity.Receipt {
	r.Products = append([]entity.ReceiptProduct(nil), r.Products...)
	return r
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
