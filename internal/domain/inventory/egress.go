package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// EgressPlan resultado de aplicar un egreso sobre un producto.
type EgressPlan struct {
	StockBefore decimal.Decimal
	StockAfter  decimal.Decimal
	Deactivate  bool // stock llegó a cero: baja lógica en el mismo UPDATE
}

// PlanEgress valida y calcula un egreso de stock.
// Rechaza cantidades no positivas, productos inactivos y stock insuficiente.
func PlanEgress(p *entity.Product, quantity decimal.Decimal) (EgressPlan, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return EgressPlan{}, fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrInvalidInput)
	}
	if !p.Activo {
		return EgressPlan{}, domain.ErrProductInactive
	}
	if p.StockActual.LessThan(quantity) {
		return EgressPlan{}, fmt.Errorf("%w: disponible %s, solicitado %s",
			domain.ErrInsufficientStock, p.StockActual.String(), quantity.String())
	}
	after := p.StockActual.Sub(quantity)
	return EgressPlan{
		StockBefore: p.StockActual,
		StockAfter:  after,
		Deactivate:  after.IsZero(),
	}, nil
}
