package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkOrderItemRequest material solicitado.
type WorkOrderItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateWorkOrderRequest entrada para crear una orden de trabajo.
type CreateWorkOrderRequest struct {
	ProjectID string                 `json:"project_id"`
	Notes     string                 `json:"notes"`
	Items     []WorkOrderItemRequest `json:"items"`
}

// WorkOrderItemResponse salida de un ítem.
type WorkOrderItemResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name,omitempty"`
	QuantityRequested decimal.Decimal `json:"quantity_requested"`
	QuantityDelivered decimal.Decimal `json:"quantity_delivered"`
}

// WorkOrderResponse salida de una orden de trabajo.
type WorkOrderResponse struct {
	ID          string                  `json:"id"`
	Number      string                  `json:"number"`
	ProjectID   string                  `json:"project_id"`
	RequestedBy string                  `json:"requested_by"`
	Status      string                  `json:"status"`
	Notes       string                  `json:"notes"`
	Items       []WorkOrderItemResponse `json:"items"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}
