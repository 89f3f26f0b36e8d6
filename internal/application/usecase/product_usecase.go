package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock se maneja vía remitos, egresos y ajustes.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto. El costo promedio arranca en el precio unitario.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	if in.Code == "" || in.Name == "" {
		return nil, fmt.Errorf("%w: code y name son obligatorios", domain.ErrInvalidInput)
	}
	if in.StockActual.IsNegative() || in.StockMinimo.IsNegative() || in.PrecioUnitario.IsNegative() {
		return nil, fmt.Errorf("%w: stock y precio no pueden ser negativos", domain.ErrInvalidInput)
	}
	existing, err := uc.repo.GetByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.Unit == "" {
		in.Unit = "unidad"
	}
	now := time.Now()
	product := &entity.Product{
		ID:             uuid.New().String(),
		Code:           in.Code,
		Name:           in.Name,
		NameKey:        inventory.NameKey(in.Name),
		Description:    in.Description,
		Unit:           in.Unit,
		StockActual:    in.StockActual,
		StockMinimo:    in.StockMinimo,
		PrecioUnitario: in.PrecioUnitario,
		CostoPromedio:  in.PrecioUnitario,
		Ubicacion:      in.Ubicacion,
		Activo:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// GetByID obtiene un producto por ID (activo o no).
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return ToProductResponse(product), nil
}

// Update actualiza datos descriptivos. Stock y costo promedio no se tocan aquí;
// la ubicación cambia vía transferencia para que quede en el historial.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Code != nil && strings.TrimSpace(*in.Code) != product.Code {
		code := strings.TrimSpace(*in.Code)
		if code == "" {
			return nil, fmt.Errorf("%w: code no puede estar vacío", domain.ErrInvalidInput)
		}
		other, err := uc.repo.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, domain.ErrDuplicate
		}
		product.Code = code
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name no puede estar vacío", domain.ErrInvalidInput)
		}
		product.Name = name
		product.NameKey = inventory.NameKey(name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Unit != nil {
		product.Unit = *in.Unit
	}
	if in.StockMinimo != nil {
		if in.StockMinimo.IsNegative() {
			return nil, fmt.Errorf("%w: stock_minimo no puede ser negativo", domain.ErrInvalidInput)
		}
		product.StockMinimo = *in.StockMinimo
	}
	if in.PrecioUnitario != nil {
		if in.PrecioUnitario.IsNegative() {
			return nil, fmt.Errorf("%w: precio_unitario no puede ser negativo", domain.ErrInvalidInput)
		}
		product.PrecioUnitario = *in.PrecioUnitario
	}
	if in.Activo != nil {
		product.Activo = *in.Activo
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// List lista productos con filtros y total.
func (uc *ProductUseCase) List(ctx context.Context, q dto.ProductListQuery) (*dto.ProductListResponse, error) {
	q.Normalize()
	f := repository.ProductFilter{
		Search:          strings.TrimSpace(q.Search),
		Location:        q.Location,
		LowStock:        q.LowStock,
		IncludeInactive: q.Inactive,
		Limit:           q.Limit,
		Offset:          q.Offset,
	}
	list, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	return &dto.ProductListResponse{
		Items: lo.Map(list, func(p *entity.Product, _ int) dto.ProductResponse { return *ToProductResponse(p) }),
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// Delete baja lógica: el producto queda inactivo y conserva su historial.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if !product.Activo {
		return nil
	}
	product.Activo = false
	product.UpdatedAt = time.Now()
	return uc.repo.Update(ctx, product)
}

// ToProductResponse mapea la entidad a DTO.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:             p.ID,
		Code:           p.Code,
		Name:           p.Name,
		Description:    p.Description,
		Unit:           p.Unit,
		StockActual:    p.StockActual,
		StockMinimo:    p.StockMinimo,
		PrecioUnitario: p.PrecioUnitario,
		CostoPromedio:  p.CostoPromedio,
		Ubicacion:      p.Ubicacion,
		Activo:         p.Activo,
		LowStock:       p.IsLowStock(),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

