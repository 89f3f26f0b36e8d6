package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para órdenes de compra (cabecera + ítems).
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetByNumber(ctx context.Context, number string) (*entity.Order, error)
	// Update reemplaza cabecera e ítems.
	Update(ctx context.Context, order *entity.Order) error
	UpdateStatus(ctx context.Context, id, status string) error
	List(ctx context.Context, status string, limit, offset int) ([]*entity.Order, error)
	Delete(ctx context.Context, id string) error
}
