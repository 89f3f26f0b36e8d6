package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de trabajo.
const (
	WorkOrderStatusPending   = "pendiente"
	WorkOrderStatusApproved  = "aprobada"
	WorkOrderStatusDelivered = "entregada"
	WorkOrderStatusRejected  = "rechazada"
)

// WorkOrder es un pedido interno de materiales asociado a un proyecto.
type WorkOrder struct {
	ID          string
	Number      string
	ProjectID   string
	RequestedBy string
	Status      string
	Notes       string
	Items       []WorkOrderItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WorkOrderItem material solicitado.
type WorkOrderItem struct {
	ID                string
	WorkOrderID       string
	ProductID         string
	ProductName       string // solo lectura
	QuantityRequested decimal.Decimal
	QuantityDelivered decimal.Decimal
}
