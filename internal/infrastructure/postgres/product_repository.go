package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

var productColumns = []string{
	"id", "code", "name", "name_key", "description", "unit", "stock_actual", "stock_minimo",
	"precio_unitario", "costo_promedio", "ubicacion", "activo", "created_at", "updated_at",
}

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row scanner) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.NameKey, &p.Description, &p.Unit, &p.StockActual, &p.StockMinimo,
		&p.PrecioUnitario, &p.CostoPromedio, &p.Ubicacion, &p.Activo, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func productValues(p *entity.Product) []any {
	return []any{p.ID, p.Code, p.Name, p.NameKey, p.Description, p.Unit, p.StockActual, p.StockMinimo,
		p.PrecioUnitario, p.CostoPromedio, p.Ubicacion, p.Activo, p.CreatedAt, p.UpdatedAt}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query, args, err := psql.Insert("products").Columns(productColumns...).Values(productValues(p)...).ToSql()
	if err != nil {
		return fmt.Errorf("build insert product: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// CreateIfAbsent inserta apoyándose en el índice único parcial name_key WHERE activo.
func (r *ProductRepo) CreateIfAbsent(ctx context.Context, p *entity.Product) (bool, error) {
	query, args, err := psql.Insert("products").Columns(productColumns...).Values(productValues(p)...).
		Suffix("ON CONFLICT (name_key) WHERE activo DO NOTHING").ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert product: %w", err)
	}
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return false, domain.ErrDuplicate
		}
		return false, fmt.Errorf("insert product: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ProductRepo) getOne(ctx context.Context, b sq.SelectBuilder, what string) (*entity.Product, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", what, err)
	}
	p, err := scanProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return p, nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !validKey(id) {
		return nil, nil
	}
	return r.getOne(ctx, psql.Select(productColumns...).From("products").Where(sq.Eq{"id": id}), "get product")
}

// GetByCode obtiene un producto por código.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	return r.getOne(ctx, psql.Select(productColumns...).From("products").Where(sq.Eq{"code": code}), "get product by code")
}

// GetForUpdate bloquea la fila hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	if !validKey(id) {
		return nil, nil
	}
	return r.getOne(ctx,
		psql.Select(productColumns...).From("products").Where(sq.Eq{"id": id}).Suffix("FOR UPDATE"),
		"lock product")
}

// FindActiveByNameKeyForUpdate busca por nombre normalizado entre los activos y bloquea la fila.
func (r *ProductRepo) FindActiveByNameKeyForUpdate(ctx context.Context, nameKey string) (*entity.Product, error) {
	return r.getOne(ctx,
		psql.Select(productColumns...).From("products").
			Where(sq.Eq{"name_key": nameKey, "activo": true}).Suffix("FOR UPDATE"),
		"lock product by name")
}

// Update actualiza los datos editables. Stock y costo se manejan con UpdateStock.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query, args, err := psql.Update("products").SetMap(map[string]any{
		"code":            p.Code,
		"name":            p.Name,
		"name_key":        p.NameKey,
		"description":     p.Description,
		"unit":            p.Unit,
		"stock_minimo":    p.StockMinimo,
		"precio_unitario": p.PrecioUnitario,
		"ubicacion":       p.Ubicacion,
		"activo":          p.Activo,
		"updated_at":      p.UpdatedAt,
	}).Where(sq.Eq{"id": p.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("build update product: %w", err)
	}
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStock persiste stock, precio, costo y estado (motor de inventario).
func (r *ProductRepo) UpdateStock(ctx context.Context, p *entity.Product) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE products
		SET stock_actual = $2, precio_unitario = $3, costo_promedio = $4, activo = $5, updated_at = $6
		WHERE id = $1`,
		p.ID, p.StockActual, p.PrecioUnitario, p.CostoPromedio, p.Activo, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func applyProductFilter(b sq.SelectBuilder, f repository.ProductFilter) sq.SelectBuilder {
	if !f.IncludeInactive {
		b = b.Where(sq.Eq{"activo": true})
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		b = b.Where(sq.Or{sq.ILike{"name": like}, sq.ILike{"code": like}})
	}
	if f.Location != "" {
		b = b.Where(sq.Expr("lower(ubicacion) = lower(?)", f.Location))
	}
	if f.LowStock {
		b = b.Where("stock_minimo > 0 AND stock_actual <= stock_minimo")
	}
	return b
}

// List lista productos filtrados, ordenados por nombre. Limit 0 devuelve todos (reportes).
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	b := applyProductFilter(psql.Select(productColumns...).From("products"), f).OrderBy("name")
	query, args, err := paginate(b, f.Limit, f.Offset).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list products: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Count total de productos que cumplen el filtro (sin paginar).
func (r *ProductRepo) Count(ctx context.Context, f repository.ProductFilter) (int, error) {
	query, args, err := applyProductFilter(psql.Select("count(*)").From("products"), f).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count products: %w", err)
	}
	var n int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}
