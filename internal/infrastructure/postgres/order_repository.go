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

var _ repository.OrderRepository = (*OrderRepo)(nil)

var orderColumns = []string{
	"id", "order_number", "supplier", "order_date", "expected_date", "status", "notes", "total",
	"created_by", "created_at", "updated_at",
}

// OrderRepo órdenes de compra (cabecera en orders, detalle en order_items).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

func scanOrder(row scanner) (*entity.Order, error) {
	var o entity.Order
	var createdBy *string
	if err := row.Scan(&o.ID, &o.OrderNumber, &o.Supplier, &o.OrderDate, &o.ExpectedDate, &o.Status,
		&o.Notes, &o.Total, &createdBy, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.CreatedBy = deref(createdBy)
	return &o, nil
}

func insertOrderItems(ctx context.Context, q Querier, o *entity.Order) error {
	if len(o.Items) == 0 {
		return nil
	}
	b := psql.Insert("order_items").
		Columns("id", "order_id", "position", "product_id", "description", "quantity", "unit_price", "subtotal")
	for i, it := range o.Items {
		b = b.Values(it.ID, o.ID, i, nullIfEmpty(it.ProductID), it.Description, it.Quantity, it.UnitPrice, it.Subtotal)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build insert order items: %w", err)
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) || isInvalidTextRepresentation(err) {
			return fmt.Errorf("%w: producto inexistente en la orden", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert order items: %w", err)
	}
	return nil
}

// Create persiste cabecera e ítems en una sola transacción.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	return inTx(ctx, r.q, func(q Querier) error {
		query, args, err := psql.Insert("orders").Columns(orderColumns...).
			Values(o.ID, o.OrderNumber, o.Supplier, o.OrderDate, o.ExpectedDate, o.Status, o.Notes, o.Total,
				nullIfEmpty(o.CreatedBy), o.CreatedAt, o.UpdatedAt).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert order: %w", err)
		}
		if _, err := q.Exec(ctx, query, args...); err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert order: %w", err)
		}
		return insertOrderItems(ctx, q, o)
	})
}

func (r *OrderRepo) getOne(ctx context.Context, where sq.Eq) (*entity.Order, error) {
	query, args, err := psql.Select(orderColumns...).From("orders").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get order: %w", err)
	}
	o, err := scanOrder(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// loadItems completa los ítems de varias órdenes con una sola consulta.
func (r *OrderRepo) loadItems(ctx context.Context, orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Order, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, description, quantity, unit_price, subtotal
		FROM order_items WHERE order_id = ANY($1::uuid[]) ORDER BY order_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.OrderItem
		var productID *string
		if err := rows.Scan(&it.ID, &it.OrderID, &productID, &it.Description, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		it.ProductID = deref(productID)
		if o := byID[it.OrderID]; o != nil {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	if !validKey(id) {
		return nil, nil
	}
	return r.getOne(ctx, sq.Eq{"id": id})
}

func (r *OrderRepo) GetByNumber(ctx context.Context, number string) (*entity.Order, error) {
	return r.getOne(ctx, sq.Eq{"order_number": number})
}

// Update reemplaza cabecera e ítems.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	return inTx(ctx, r.q, func(q Querier) error {
		tag, err := q.Exec(ctx, `
			UPDATE orders SET order_number = $2, supplier = $3, order_date = $4, expected_date = $5,
				status = $6, notes = $7, total = $8, updated_at = $9
			WHERE id = $1`,
			o.ID, o.OrderNumber, o.Supplier, o.OrderDate, o.ExpectedDate, o.Status, o.Notes, o.Total, o.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("update order: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		if _, err := q.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, o.ID); err != nil {
			return fmt.Errorf("delete order items: %w", err)
		}
		return insertOrderItems(ctx, q, o)
	})
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if !validKey(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.Order, error) {
	b := psql.Select(orderColumns...).From("orders").OrderBy("order_date DESC", "order_number DESC")
	if status != "" {
		b = b.Where(sq.Eq{"status": status})
	}
	query, args, err := paginate(b, limit, offset).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list orders: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	list := make([]*entity.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Delete elimina la orden (los ítems caen por ON DELETE CASCADE). Con remitos asociados devuelve ErrConflict.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	if !validKey(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: la orden tiene remitos asociados", domain.ErrConflict)
		}
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
