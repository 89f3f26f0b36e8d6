package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra.
const (
	OrderStatusPending   = "pendiente"
	OrderStatusApproved  = "aprobada"
	OrderStatusReceived  = "recibida"
	OrderStatusCancelled = "cancelada"
)

// Order representa una orden de compra a un proveedor.
type Order struct {
	ID           string
	OrderNumber  string
	Supplier     string
	OrderDate    time.Time
	ExpectedDate *time.Time
	Status       string
	Notes        string
	Total        decimal.Decimal
	CreatedBy    string
	Items        []OrderItem
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OrderItem línea de una orden de compra.
type OrderItem struct {
	ID          string
	OrderID     string
	ProductID   string // opcional
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// CanTransition valida el flujo pendiente → aprobada → recibida y la cancelación.
func (o *Order) CanTransition(to string) bool {
	switch o.Status {
	case OrderStatusPending:
		return to == OrderStatusApproved || to == OrderStatusCancelled || to == OrderStatusReceived
	case OrderStatusApproved:
		return to == OrderStatusReceived || to == OrderStatusCancelled
	}
	return false
}
