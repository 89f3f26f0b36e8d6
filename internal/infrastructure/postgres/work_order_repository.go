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

var _ repository.WorkOrderRepository = (*WorkOrderRepo)(nil)

var workOrderColumns = []string{
	"id", "number", "project_id", "requested_by", "status", "notes", "created_at", "updated_at",
}

// WorkOrderRepo órdenes de trabajo e ítems.
type WorkOrderRepo struct {
	q Querier
}

// NewWorkOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWorkOrderRepository(q Querier) *WorkOrderRepo {
	return &WorkOrderRepo{q: q}
}

func scanWorkOrder(row scanner) (*entity.WorkOrder, error) {
	var wo entity.WorkOrder
	var requestedBy *string
	if err := row.Scan(&wo.ID, &wo.Number, &wo.ProjectID, &requestedBy, &wo.Status, &wo.Notes,
		&wo.CreatedAt, &wo.UpdatedAt); err != nil {
		return nil, err
	}
	wo.RequestedBy = deref(requestedBy)
	return &wo, nil
}

// Create persiste la orden y sus ítems.
func (r *WorkOrderRepo) Create(ctx context.Context, wo *entity.WorkOrder) error {
	return inTx(ctx, r.q, func(q Querier) error {
		query, args, err := psql.Insert("work_orders").Columns(workOrderColumns...).
			Values(wo.ID, wo.Number, wo.ProjectID, nullIfEmpty(wo.RequestedBy), wo.Status, wo.Notes, wo.CreatedAt, wo.UpdatedAt).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert work order: %w", err)
		}
		if _, err := q.Exec(ctx, query, args...); err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			if isForeignKeyViolation(err) || isInvalidTextRepresentation(err) {
				return fmt.Errorf("%w: proyecto inexistente", domain.ErrInvalidInput)
			}
			return fmt.Errorf("insert work order: %w", err)
		}
		if len(wo.Items) == 0 {
			return nil
		}
		b := psql.Insert("work_order_items").
			Columns("id", "work_order_id", "position", "product_id", "quantity_requested", "quantity_delivered")
		for i, it := range wo.Items {
			b = b.Values(it.ID, wo.ID, i, it.ProductID, it.QuantityRequested, it.QuantityDelivered)
		}
		query, args, err = b.ToSql()
		if err != nil {
			return fmt.Errorf("build insert work order items: %w", err)
		}
		if _, err := q.Exec(ctx, query, args...); err != nil {
			if isForeignKeyViolation(err) || isInvalidTextRepresentation(err) {
				return fmt.Errorf("%w: producto inexistente", domain.ErrInvalidInput)
			}
			return fmt.Errorf("insert work order items: %w", err)
		}
		return nil
	})
}

func (r *WorkOrderRepo) getOne(ctx context.Context, b sq.SelectBuilder) (*entity.WorkOrder, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get work order: %w", err)
	}
	wo, err := scanWorkOrder(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get work order: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.WorkOrder{wo}); err != nil {
		return nil, err
	}
	return wo, nil
}

func (r *WorkOrderRepo) loadItems(ctx context.Context, list []*entity.WorkOrder) error {
	if len(list) == 0 {
		return nil
	}
	byID := make(map[string]*entity.WorkOrder, len(list))
	ids := make([]string, 0, len(list))
	for _, wo := range list {
		byID[wo.ID] = wo
		ids = append(ids, wo.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT i.id, i.work_order_id, i.product_id, p.name, i.quantity_requested, i.quantity_delivered
		FROM work_order_items i JOIN products p ON p.id = i.product_id
		WHERE i.work_order_id = ANY($1::uuid[]) ORDER BY i.work_order_id, i.position`, ids)
	if err != nil {
		return fmt.Errorf("list work order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.WorkOrderItem
		if err := rows.Scan(&it.ID, &it.WorkOrderID, &it.ProductID, &it.ProductName,
			&it.QuantityRequested, &it.QuantityDelivered); err != nil {
			return fmt.Errorf("scan work order item: %w", err)
		}
		if wo := byID[it.WorkOrderID]; wo != nil {
			wo.Items = append(wo.Items, it)
		}
	}
	return rows.Err()
}

func (r *WorkOrderRepo) GetByID(ctx context.Context, id string) (*entity.WorkOrder, error) {
	if !validKey(id) {
		return nil, nil
	}
	return r.getOne(ctx, psql.Select(workOrderColumns...).From("work_orders").Where(sq.Eq{"id": id}))
}

// GetForUpdate bloquea la cabecera; las entregas concurrentes de la misma orden se serializan.
func (r *WorkOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.WorkOrder, error) {
	if !validKey(id) {
		return nil, nil
	}
	return r.getOne(ctx, psql.Select(workOrderColumns...).From("work_orders").Where(sq.Eq{"id": id}).Suffix("FOR UPDATE"))
}

func (r *WorkOrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if !validKey(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `UPDATE work_orders SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update work order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *WorkOrderRepo) UpdateItemDelivered(ctx context.Context, item *entity.WorkOrderItem) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE work_order_items SET quantity_delivered = $3 WHERE id = $1 AND work_order_id = $2`,
		item.ID, item.WorkOrderID, item.QuantityDelivered,
	)
	if err != nil {
		return fmt.Errorf("update work order item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *WorkOrderRepo) List(ctx context.Context, f repository.WorkOrderFilter) ([]*entity.WorkOrder, error) {
	if f.ProjectID != "" && !validKey(f.ProjectID) {
		return []*entity.WorkOrder{}, nil
	}
	b := psql.Select(workOrderColumns...).From("work_orders").OrderBy("created_at DESC")
	if f.ProjectID != "" {
		b = b.Where(sq.Eq{"project_id": f.ProjectID})
	}
	if f.Status != "" {
		b = b.Where(sq.Eq{"status": f.Status})
	}
	query, args, err := paginate(b, f.Limit, f.Offset).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list work orders: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list work orders: %w", err)
	}
	list := make([]*entity.WorkOrder, 0)
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan work order: %w", err)
		}
		list = append(list, wo)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list work orders: %w", err)
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *WorkOrderRepo) Delete(ctx context.Context, id string) error {
	if !validKey(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM work_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete work order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
