package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Unit           string          `json:"unit"`
	StockActual    decimal.Decimal `json:"stock_actual"`
	StockMinimo    decimal.Decimal `json:"stock_minimo"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Ubicacion      string          `json:"ubicacion"`
}

// UpdateProductRequest entrada para actualizar un producto (el stock se maneja vía movimientos).
type UpdateProductRequest struct {
	Code           *string          `json:"code"`
	Name           *string          `json:"name"`
	Description    *string          `json:"description"`
	Unit           *string          `json:"unit"`
	StockMinimo    *decimal.Decimal `json:"stock_minimo"`
	PrecioUnitario *decimal.Decimal `json:"precio_unitario"`
	Activo         *bool            `json:"activo"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Unit           string          `json:"unit"`
	StockActual    decimal.Decimal `json:"stock_actual"`
	StockMinimo    decimal.Decimal `json:"stock_minimo"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	CostoPromedio  decimal.Decimal `json:"costo_promedio"`
	Ubicacion      string          `json:"ubicacion"`
	Activo         bool            `json:"activo"`
	LowStock       bool            `json:"low_stock"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ProductListQuery filtros de GET /api/products.
type ProductListQuery struct {
	PageRequest
	Search   string `query:"search"`
	Location string `query:"location"`
	LowStock bool   `query:"low_stock"`
	Inactive bool   `query:"include_inactive"`
}
