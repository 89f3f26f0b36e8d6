package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ProductFilter filtros para listados y reportes de productos.
type ProductFilter struct {
	Search          string // coincide con código o nombre (ILIKE)
	Location        string
	LowStock        bool
	IncludeInactive bool
	Limit           int
	Offset          int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// CreateIfAbsent inserta salvo que ya exista un producto activo con el mismo NameKey;
	// devuelve false si la fila no se insertó (otro remito la creó antes).
	CreateIfAbsent(ctx context.Context, product *entity.Product) (bool, error)
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) dentro de la transacción en curso.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// FindActiveByNameKeyForUpdate busca un producto activo por nombre normalizado y bloquea la fila.
	FindActiveByNameKeyForUpdate(ctx context.Context, nameKey string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// UpdateStock persiste stock, precio, costo y estado activo (motor de inventario).
	UpdateStock(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, f ProductFilter) ([]*entity.Product, error)
	Count(ctx context.Context, f ProductFilter) (int, error)
}
