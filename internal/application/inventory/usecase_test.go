package inventory_test

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
)

func setup(t *testing.T, stock string) (*inventory.StockUseCase, *memory.Store, *memory.ProductRepo, *entity.Product) {
	t.Helper()
	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	name := gofakeit.ProductName()
	p := &entity.Product{
		ID:          gofakeit.UUID(),
		Code:        "P-" + gofakeit.DigitN(6),
		Name:        name,
		NameKey:     name,
		StockActual: decimal.RequireFromString(stock),
		Ubicacion:   "A-01",
		Activo:      true,
	}
	require.NoError(t, products.Create(context.Background(), p))
	return inventory.NewStockUseCase(memory.NewTxRunner(store), zerolog.Nop()), store, products, p
}

func TestEgress(t *testing.T) {
	uc, store, products, p := setup(t, "10")

	out, err := uc.Egress(context.Background(), "u1", p.ID, dto.EgressRequest{Quantity: decimal.NewFromInt(4), Notes: "obra"})
	require.NoError(t, err)
	assert.Equal(t, "10", out.StockBefore.String())
	assert.Equal(t, "6", out.StockAfter.String())
	assert.False(t, out.Deleted)

	movs := store.Movements()
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeEgreso, movs[0].Type)
	assert.Equal(t, "-4", movs[0].Quantity.String())
	assert.Equal(t, "A-01", movs[0].FromLocation)

	got, err := products.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "6", got.StockActual.String())
}

func TestEgress_HastaCeroDesactiva(t *testing.T) {
	uc, _, products, p := setup(t, "3")

	out, err := uc.Egress(context.Background(), "u1", p.ID, dto.EgressRequest{Quantity: decimal.NewFromInt(3)})
	require.NoError(t, err)
	assert.True(t, out.Deleted)

	got, err := products.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.False(t, got.Activo)

	_, err = uc.Egress(context.Background(), "u1", p.ID, dto.EgressRequest{Quantity: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrProductInactive)
}

func TestEgress_Errores(t *testing.T) {
	uc, store, products, p := setup(t, "2")

	_, err := uc.Egress(context.Background(), "u1", p.ID, dto.EgressRequest{Quantity: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = uc.Egress(context.Background(), "u1", p.ID, dto.EgressRequest{Quantity: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Egress(context.Background(), "u1", "no-existe", dto.EgressRequest{Quantity: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Empty(t, store.Movements())
	got, err := products.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "2", got.StockActual.String(), "un egreso rechazado no toca el stock")
	assert.True(t, got.Activo)
}

func TestTransfer(t *testing.T) {
	uc, store, products, p := setup(t, "8")

	mov, err := uc.Transfer(context.Background(), "u1", dto.TransferRequest{ProductID: p.ID, ToLocation: " B-07 "})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeTransferencia, mov.Type)
	assert.Equal(t, "A-01", mov.FromLocation)
	assert.Equal(t, "B-07", mov.ToLocation)
	assert.True(t, mov.Quantity.IsZero())

	got, err := products.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "B-07", got.Ubicacion)
	assert.Equal(t, "8", got.StockActual.String())

	_, err = uc.Transfer(context.Background(), "u1", dto.TransferRequest{ProductID: p.ID, ToLocation: "b-07"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Len(t, store.Movements(), 1)
}

func TestAdjust(t *testing.T) {
	uc, _, products, p := setup(t, "5")

	_, err := uc.Adjust(context.Background(), "admin", dto.AdjustRequest{ProductID: p.ID, Quantity: decimal.NewFromInt(-2), Notes: "conteo físico"})
	require.NoError(t, err)
	got, err := products.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "3", got.StockActual.String())

	_, err = uc.Adjust(context.Background(), "admin", dto.AdjustRequest{ProductID: p.ID, Quantity: decimal.NewFromInt(-4), Notes: "rotura"})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = uc.Adjust(context.Background(), "admin", dto.AdjustRequest{ProductID: p.ID, Quantity: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "notes es obligatorio")
}

func TestAdjust_ActivoSigueAlStock(t *testing.T) {
	uc, store, products, p := setup(t, "2")
	ctx := context.Background()

	_, err := uc.Adjust(ctx, "admin", dto.AdjustRequest{ProductID: p.ID, Quantity: decimal.NewFromInt(-2), Notes: "faltante"})
	require.NoError(t, err)
	got, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.StockActual.IsZero())
	assert.False(t, got.Activo, "stock cero desactiva")

	_, err = uc.Egress(ctx, "u1", p.ID, dto.EgressRequest{Quantity: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrProductInactive)

	mov, err := uc.Adjust(ctx, "admin", dto.AdjustRequest{ProductID: p.ID, Quantity: decimal.NewFromInt(4), Notes: "apareció en depósito"})
	require.NoError(t, err)
	assert.True(t, mov.StockBefore.IsZero())
	assert.Equal(t, "4", mov.StockAfter.String())
	got, err = products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Activo, "stock positivo reactiva")

	movs := store.Movements()
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, entity.MovementTypeAjuste, m.Type)
	}
}
