package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.ReceiptRepository = (*ReceiptRepo)(nil)

var receiptColumns = []string{
	"id", "warehouse_id", "entry_date", "order_id", "status", "verification_status", "source",
	"created_by", "created_at", "updated_at",
}

// receiptSelectColumns warehouse_id es BIGINT; se lee como texto.
var receiptSelectColumns = append([]string{"id", "warehouse_id::text"}, receiptColumns[2:]...)

// ReceiptRepo remitos (receipts) y sus líneas (receipt_products).
type ReceiptRepo struct {
	q Querier
}

// NewReceiptRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReceiptRepository(q Querier) *ReceiptRepo {
	return &ReceiptRepo{q: q}
}

func scanReceipt(row scanner) (*entity.Receipt, error) {
	var rc entity.Receipt
	var orderID, createdBy *string
	if err := row.Scan(&rc.ID, &rc.WarehouseID, &rc.EntryDate, &orderID, &rc.Status, &rc.VerificationStatus,
		&rc.Source, &createdBy, &rc.CreatedAt, &rc.UpdatedAt); err != nil {
		return nil, err
	}
	rc.OrderID = deref(orderID)
	rc.CreatedBy = deref(createdBy)
	return &rc, nil
}

// Create inserta la cabecera; las líneas se agregan con AddProduct.
func (r *ReceiptRepo) Create(ctx context.Context, rc *entity.Receipt) error {
	whKey, ok := warehouseKey(rc.WarehouseID)
	if !ok {
		return fmt.Errorf("%w: almacén inexistente", domain.ErrInvalidInput)
	}
	query, args, err := psql.Insert("receipts").Columns(receiptColumns...).
		Values(rc.ID, whKey, rc.EntryDate, nullIfEmpty(rc.OrderID), rc.Status, rc.VerificationStatus,
			rc.Source, nullIfEmpty(rc.CreatedBy), rc.CreatedAt, rc.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert receipt: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) || isInvalidTextRepresentation(err) {
			return fmt.Errorf("%w: almacén u orden inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert receipt: %w", err)
	}
	return nil
}

// AddProduct inserta una fila de receipt_products.
func (r *ReceiptRepo) AddProduct(ctx context.Context, line *entity.ReceiptProduct) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO receipt_products (receipt_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)`,
		line.ReceiptID, line.ProductID, line.Quantity, line.UnitPrice,
	)
	if err != nil {
		return fmt.Errorf("insert receipt product: %w", err)
	}
	return nil
}

func (r *ReceiptRepo) getOne(ctx context.Context, b sq.SelectBuilder) (*entity.Receipt, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get receipt: %w", err)
	}
	rc, err := scanReceipt(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receipt: %w", err)
	}
	if err := r.loadLines(ctx, []*entity.Receipt{rc}); err != nil {
		return nil, err
	}
	return rc, nil
}

// loadLines completa las líneas con el nombre del producto.
func (r *ReceiptRepo) loadLines(ctx context.Context, list []*entity.Receipt) error {
	if len(list) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Receipt, len(list))
	ids := make([]string, 0, len(list))
	for _, rc := range list {
		byID[rc.ID] = rc
		ids = append(ids, rc.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT rp.receipt_id, rp.product_id, p.name, rp.quantity, rp.unit_price
		FROM receipt_products rp JOIN products p ON p.id = rp.product_id
		WHERE rp.receipt_id = ANY($1::uuid[]) ORDER BY rp.receipt_id, rp.id`, ids)
	if err != nil {
		return fmt.Errorf("list receipt products: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var line entity.ReceiptProduct
		var price decimal.NullDecimal
		if err := rows.Scan(&line.ReceiptID, &line.ProductID, &line.ProductName, &line.Quantity, &price); err != nil {
			return fmt.Errorf("scan receipt product: %w", err)
		}
		if price.Valid {
			line.UnitPrice = &price.Decimal
		}
		if rc := byID[line.ReceiptID]; rc != nil {
			rc.Products = append(rc.Products, line)
		}
	}
	return rows.Err()
}

func (r *ReceiptRepo) GetByID(ctx context.Context, id string) (*entity.Receipt, error) {
	if !validKey(id) {
		return nil, nil
	}
	return r.getOne(ctx, psql.Select(receiptSelectColumns...).From("receipts").Where(sq.Eq{"id": id}))
}

func (r *ReceiptRepo) GetForUpdate(ctx context.Context, id string) (*entity.Receipt, error) {
	if !validKey(id) {
		return nil, nil
	}
	return r.getOne(ctx, psql.Select(receiptSelectColumns...).From("receipts").Where(sq.Eq{"id": id}).Suffix("FOR UPDATE"))
}

func (r *ReceiptRepo) UpdateStatus(ctx context.Context, id, status string, verified bool) error {
	if !validKey(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE receipts SET status = $2, verification_status = $3, updated_at = now() WHERE id = $1`,
		id, status, verified,
	)
	if err != nil {
		return fmt.Errorf("update receipt status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReceiptRepo) List(ctx context.Context, warehouseID, status string, limit, offset int) ([]*entity.Receipt, error) {
	b := psql.Select(receiptSelectColumns...).From("receipts").OrderBy("entry_date DESC", "created_at DESC")
	if warehouseID != "" {
		whKey, ok := warehouseKey(warehouseID)
		if !ok {
			return []*entity.Receipt{}, nil
		}
		b = b.Where(sq.Eq{"warehouse_id": whKey})
	}
	if status != "" {
		b = b.Where(sq.Eq{"status": status})
	}
	query, args, err := paginate(b, limit, offset).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list receipts: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	list := make([]*entity.Receipt, 0)
	for rows.Next() {
		rc, err := scanReceipt(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		list = append(list, rc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	if err := r.loadLines(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Delete elimina el remito; receipt_products cae por ON DELETE CASCADE.
func (r *ReceiptRepo) Delete(ctx context.Context, id string) error {
	if !validKey(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM receipts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete receipt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
