package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// WorkOrderFilter filtros del listado de órdenes de trabajo.
type WorkOrderFilter struct {
	ProjectID string
	Status    string
	Limit     int
	Offset    int
}

// WorkOrderRepository define el puerto de persistencia para órdenes de trabajo.
type WorkOrderRepository interface {
	Create(ctx context.Context, wo *entity.WorkOrder) error
	GetByID(ctx context.Context, id string) (*entity.WorkOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.WorkOrder, error)
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateItemDelivered(ctx context.Context, item *entity.WorkOrderItem) error
	List(ctx context.Context, f WorkOrderFilter) ([]*entity.WorkOrder, error)
	Delete(ctx context.Context, id string) error
}
