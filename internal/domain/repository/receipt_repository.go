package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ReceiptRepository define el puerto de persistencia para remitos y receipt_products.
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *entity.Receipt) error
	AddProduct(ctx context.Context, line *entity.ReceiptProduct) error
	// GetByID devuelve el remito con sus líneas.
	GetByID(ctx context.Context, id string) (*entity.Receipt, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Receipt, error)
	UpdateStatus(ctx context.Context, id, status string, verified bool) error
	List(ctx context.Context, warehouseID, status string, limit, offset int) ([]*entity.Receipt, error)
	Delete(ctx context.Context, id string) error
}
