package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// WorkOrderRepo órdenes de trabajo en memoria.
type WorkOrderRepo struct {
	s *Store
}

// NewWorkOrderRepository construye el repositorio.
func NewWorkOrderRepository(s *Store) *WorkOrderRepo {
	return &WorkOrderRepo{s: s}
}

var _ repository.WorkOrderRepository = (*WorkOrderRepo)(nil)

func (r *WorkOrderRepo) Create(_ context.Context, wo *entity.WorkOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.workOrders {
		if other.Number == wo.Number {
			return domain.ErrDuplicate
		}
	}
	r.s.workOrders[wo.ID] = cloneWorkOrder(*wo)
	return nil
}

func (r *WorkOrderRepo) get(id string) *entity.WorkOrder {
	wo, ok := r.s.workOrders[id]
	if !ok {
		return nil
	}
	c := cloneWorkOrder(wo)
	for i := range c.Items {
		c.Items[i].ProductName = r.s.products[c.Items[i].ProductID].Name
	}
	return &c
}

func (r *WorkOrderRepo) GetByID(_ context.Context, id string) (*entity.WorkOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.get(id), nil
}

func (r *WorkOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.WorkOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *WorkOrderRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	wo, ok := r.s.workOrders[id]
	if !ok {
		return domain.ErrNotFound
	}
	wo.Status = status
	r.s.workOrders[id] = wo
	return nil
}

func (r *WorkOrderRepo) UpdateItemDelivered(_ context.Context, item *entity.WorkOrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	wo, ok := r.s.workOrders[item.WorkOrderID]
	if !ok {
		return domain.ErrNotFound
	}
	wo = cloneWorkOrder(wo)
	for i := range wo.Items {
		if wo.Items[i].ID == item.ID {
			wo.Items[i].QuantityDelivered = item.QuantityDelivered
			r.s.workOrders[wo.ID] = wo
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *WorkOrderRepo) List(_ context.Context, f repository.WorkOrderFilter) ([]*entity.WorkOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.WorkOrder, 0)
	for id, wo := range r.s.workOrders {
		if f.ProjectID != "" && wo.ProjectID != f.ProjectID {
			continue
		}
		if f.Status != "" && wo.Status != f.Status {
			continue
		}
		out = append(out, r.get(id))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f.Limit, f.Offset), nil
}

func (r *WorkOrderRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.workOrders[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.workOrders, id)
	return nil
}
