package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

var movementColumns = []string{
	"id", "product_id", "type", "quantity", "stock_before", "stock_after", "from_location", "to_location",
	"reference_type", "reference_id", "user_id", "notes", "created_at",
}

// MovementRepo log de movimientos de stock (solo inserción).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query, args, err := psql.Insert("movements").Columns(movementColumns...).
		Values(m.ID, m.ProductID, m.Type, m.Quantity, m.StockBefore, m.StockAfter, m.FromLocation, m.ToLocation,
			m.ReferenceType, m.ReferenceID, nullIfEmpty(m.UserID), m.Notes, m.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert movement: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// List más recientes primero. To es exclusivo.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	if f.ProductID != "" && !validKey(f.ProductID) {
		return []*entity.Movement{}, nil
	}
	b := psql.Select(movementColumns...).From("movements").OrderBy("created_at DESC")
	if f.ProductID != "" {
		b = b.Where(sq.Eq{"product_id": f.ProductID})
	}
	if f.Type != "" {
		b = b.Where(sq.Eq{"type": f.Type})
	}
	if f.From != nil {
		b = b.Where(sq.GtOrEq{"created_at": *f.From})
	}
	if f.To != nil {
		b = b.Where(sq.Lt{"created_at": *f.To})
	}
	query, args, err := paginate(b, f.Limit, f.Offset).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list movements: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Movement, 0)
	for rows.Next() {
		var m entity.Movement
		var userID *string
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.StockBefore, &m.StockAfter,
			&m.FromLocation, &m.ToLocation, &m.ReferenceType, &m.ReferenceID, &userID, &m.Notes, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.UserID = deref(userID)
		list = append(list, &m)
	}
	return list, rows.Err()
}
