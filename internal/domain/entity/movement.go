package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeIngreso       = "ingreso"
	MovementTypeEgreso        = "egreso"
	MovementTypeTransferencia = "transferencia"
	MovementTypeAjuste        = "ajuste"
)

// Referencias de movimiento.
const (
	MovementRefReceipt   = "receipt"
	MovementRefWorkOrder = "work_order"
	MovementRefManual    = "manual"
)

// Movement registra cada cambio de stock o ubicación de un producto.
type Movement struct {
	ID            string
	ProductID     string
	Type          string
	Quantity      decimal.Decimal // positivo entrada, negativo salida, cero en transferencias
	StockBefore   decimal.Decimal
	StockAfter    decimal.Decimal
	FromLocation  string
	ToLocation    string
	ReferenceType string
	ReferenceID   string
	UserID        string
	Notes         string
	CreatedAt     time.Time
}
