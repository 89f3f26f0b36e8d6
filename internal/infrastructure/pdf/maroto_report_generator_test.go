package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$0,00", formatMoney(decimal.Zero))
	assert.Equal(t, "$25.000,00", formatMoney(decimal.NewFromInt(25000)))
	assert.Equal(t, "$1.234.567,50", formatMoney(decimal.RequireFromString("1234567.5")))
	assert.Equal(t, "-$999,99", formatMoney(decimal.RequireFromString("-999.99")))
}

func TestGenerators_ProducenPDF(t *testing.T) {
	g := NewMarotoReportGenerator("almacen-api")
	ctx := context.Background()
	price := decimal.RequireFromString("1.20")

	inv, err := g.InventoryPDF(ctx, &dto.InventoryReport{
		GeneratedAt: time.Now(),
		Rows: []dto.InventoryReportRow{
			{Code: "B-1", Name: "Bolt", StockActual: decimal.NewFromInt(5), PrecioUnitario: price, Valorizado: price.Mul(decimal.NewFromInt(5)), LowStock: true},
		},
		TotalProducts: 1,
		TotalValue:    decimal.NewFromInt(6),
		LowStockCount: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(inv[:4]))

	rc, err := g.ReceiptPDF(ctx, &entity.Receipt{
		ID: "0f8e2a4c-aaaa-bbbb-cccc-000000000001", EntryDate: time.Now(), Status: entity.ReceiptStatusPending, Source: entity.ReceiptSourceManual,
		Products: []entity.ReceiptProduct{{ProductName: "Bolt", Quantity: decimal.NewFromInt(5), UnitPrice: &price}},
	}, &entity.Warehouse{Name: "Central"})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(rc[:4]))

	wo, err := g.WorkOrderPDF(ctx, &entity.WorkOrder{
		Number: "OT-1", Status: entity.WorkOrderStatusApproved, CreatedAt: time.Now(),
		Items: []entity.WorkOrderItem{{ProductName: "Bolt", QuantityRequested: decimal.NewFromInt(2)}},
	}, &entity.Project{Code: "P-1", Name: "Obra"})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(wo[:4]))

	label, err := g.LabelPDF(ctx, &entity.Product{ID: "p1", Code: "B-1", Name: "Bolt"}, `{"id":"p1"}`)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(label[:4]))
}
