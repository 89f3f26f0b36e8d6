package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryReportQuery filtros del reporte de inventario.
type InventoryReportQuery struct {
	Search          string `query:"search"`
	Location        string `query:"location"`
	LowStock        bool   `query:"low_stock"`
	IncludeInactive bool   `query:"include_inactive"`
}

// InventoryReportRow fila del reporte de inventario.
type InventoryReportRow struct {
	ProductID      string          `json:"product_id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Ubicacion      string          `json:"ubicacion"`
	StockActual    decimal.Decimal `json:"stock_actual"`
	StockMinimo    decimal.Decimal `json:"stock_minimo"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Valorizado     decimal.Decimal `json:"valorizado"` // stock_actual * precio_unitario
	LowStock       bool            `json:"low_stock"`
	Activo         bool            `json:"activo"`
}

// InventoryReport reporte de inventario con totales.
type InventoryReport struct {
	GeneratedAt   time.Time            `json:"generated_at"`
	Filters       InventoryReportQuery `json:"filters"`
	Rows          []InventoryReportRow `json:"rows"`
	TotalProducts int                  `json:"total_products"`
	TotalValue    decimal.Decimal      `json:"total_value"`
	LowStockCount int                  `json:"low_stock_count"`
}
