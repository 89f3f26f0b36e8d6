package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo del almacén.
// NameKey es el nombre normalizado (minúsculas, espacios colapsados) usado para
// conciliar líneas de remito sin product_id; es único entre productos activos.
type Product struct {
	ID             string
	Code           string // código único; "AUTO-xxxxxxxx" si nació desde un remito
	Name           string
	NameKey        string
	Description    string
	Unit           string
	StockActual    decimal.Decimal
	StockMinimo    decimal.Decimal
	PrecioUnitario decimal.Decimal
	CostoPromedio  decimal.Decimal // promedio ponderado de los ingresos
	Ubicacion      string
	Activo         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsLowStock informa si el stock actual está en o por debajo del mínimo.
func (p *Product) IsLowStock() bool {
	return p.StockMinimo.GreaterThan(decimal.Zero) && p.StockActual.LessThanOrEqual(p.StockMinimo)
}
