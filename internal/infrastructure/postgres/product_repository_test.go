package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

func TestApplyProductFilter(t *testing.T) {
	t.Run("por defecto solo activos", func(t *testing.T) {
		sql, args, err := applyProductFilter(psql.Select("id").From("products"), repository.ProductFilter{}).ToSql()
		require.NoError(t, err)
		assert.Equal(t, "SELECT id FROM products WHERE activo = $1", sql)
		assert.Equal(t, []any{true}, args)
	})

	t.Run("todos los filtros", func(t *testing.T) {
		f := repository.ProductFilter{Search: "bolt", Location: "A-1", LowStock: true, IncludeInactive: true}
		sql, args, err := applyProductFilter(psql.Select("id").From("products"), f).ToSql()
		require.NoError(t, err)
		assert.Contains(t, sql, "name ILIKE $1")
		assert.Contains(t, sql, "code ILIKE $2")
		assert.Contains(t, sql, "lower(ubicacion) = lower($3)")
		assert.Contains(t, sql, "stock_minimo > 0 AND stock_actual <= stock_minimo")
		assert.NotContains(t, sql, "activo")
		assert.Equal(t, []any{"%bolt%", "%bolt%", "A-1"}, args)
	})
}

func TestPaginate(t *testing.T) {
	sql, _, err := paginate(psql.Select("id").From("products"), 0, 0).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM products", sql)

	sql, _, err = paginate(psql.Select("id").From("products"), 20, 40).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM products LIMIT 20 OFFSET 40", sql)
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	assert.Equal(t, "x", nullIfEmpty("x"))
}

func TestClavesMalFormadas_NoConsultanLaBase(t *testing.T) {
	ctx := context.Background()
	// Sin Querier: cualquier consulta haría panic.
	p, err := NewProductRepository(nil).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, p)

	rc, err := NewReceiptRepository(nil).GetForUpdate(ctx, "1; DROP TABLE")
	require.NoError(t, err)
	assert.Nil(t, rc)

	assert.ErrorIs(t, NewOrderRepository(nil).UpdateStatus(ctx, "x", "approved"), domain.ErrNotFound)
	assert.ErrorIs(t, NewWorkOrderRepository(nil).Delete(ctx, "not-a-uuid"), domain.ErrNotFound)

	wh, err := NewWarehouseRepository(nil).GetByID(ctx, gofakeit.UUID())
	require.NoError(t, err)
	assert.Nil(t, wh, "los almacenes tienen clave numérica")
	assert.ErrorIs(t, NewWarehouseRepository(nil).Delete(ctx, "-3"), domain.ErrNotFound)

	list, err := NewMovementRepository(nil).List(ctx, repository.MovementFilter{ProductID: "abc"})
	require.NoError(t, err)
	assert.Empty(t, list)

	receipts, err := NewReceiptRepository(nil).List(ctx, "central", "", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, receipts)
}

func TestIsInvalidTextRepresentation(t *testing.T) {
	assert.True(t, isInvalidTextRepresentation(fmt.Errorf("get product: %w", &pgconn.PgError{Code: "22P02"})))
	assert.False(t, isInvalidTextRepresentation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isInvalidTextRepresentation(errors.New("x")))

	key, ok := warehouseKey("42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), key)
	_, ok = warehouseKey("0")
	assert.False(t, ok)
}
