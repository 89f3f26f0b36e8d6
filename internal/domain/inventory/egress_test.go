package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/inventory"
)

func product(stock int64, active bool) *entity.Product {
	return &entity.Product{ID: "p1", StockActual: decimal.NewFromInt(stock), Activo: active}
}

func TestPlanEgress_TodoElStockDesactiva(t *testing.T) {
	plan, err := inventory.PlanEgress(product(10, true), decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.True(t, plan.StockAfter.IsZero())
	assert.True(t, plan.Deactivate, "egreso del stock completo debe dar de baja el producto")
	assert.True(t, plan.StockBefore.Equal(decimal.NewFromInt(10)))
}

func TestPlanEgress_ParcialMantieneActivo(t *testing.T) {
	plan, err := inventory.PlanEgress(product(10, true), decimal.NewFromInt(3))
	require.NoError(t, err)
	assert.True(t, plan.StockAfter.Equal(decimal.NewFromInt(7)))
	assert.False(t, plan.Deactivate)
}

func TestPlanEgress_Rechazos(t *testing.T) {
	cases := []struct {
		name    string
		p       *entity.Product
		qty     decimal.Decimal
		wantErr error
	}{
		{"cantidad cero", product(5, true), decimal.Zero, domain.ErrInvalidInput},
		{"cantidad negativa", product(5, true), decimal.NewFromInt(-1), domain.ErrInvalidInput},
		{"stock insuficiente", product(5, true), decimal.NewFromInt(6), domain.ErrInsufficientStock},
		{"producto inactivo", product(5, false), decimal.NewFromInt(1), domain.ErrProductInactive},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := inventory.PlanEgress(tc.p, tc.qty)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestNameKey(t *testing.T) {
	assert.Equal(t, "tornillo m8", inventory.NameKey("  Tornillo   M8 "))
	assert.Equal(t, inventory.NameKey("BOLT"), inventory.NameKey("bolt"))
	assert.Equal(t, inventory.NameKey("Válvula"), inventory.NameKey("VÁLVULA"))
}

func TestCostCalculator(t *testing.T) {
	// (10*2 + 10*4) / 20 = 3
	got := inventory.CostCalculator(decimal.NewFromInt(10), decimal.NewFromInt(2), decimal.NewFromInt(10), decimal.NewFromInt(4))
	assert.True(t, got.Equal(decimal.NewFromInt(3)), "got %s", got)
	assert.True(t, inventory.CostCalculator(decimal.Zero, decimal.Zero, decimal.Zero, decimal.NewFromInt(4)).IsZero())
}
