package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// EgressRequest body para POST /api/products/:id/egress.
type EgressRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	Notes    string          `json:"notes"`
}

// EgressResponse resultado de un egreso de stock.
type EgressResponse struct {
	ProductID   string          `json:"product_id"`
	StockBefore decimal.Decimal `json:"stock_before"`
	StockAfter  decimal.Decimal `json:"stock_after"`
	Deleted     bool            `json:"deleted"`
}

// TransferRequest body para POST /api/movements/transfer.
type TransferRequest struct {
	ProductID  string `json:"product_id"`
	ToLocation string `json:"to_location"`
	Notes      string `json:"notes"`
}

// AdjustRequest body para POST /api/movements/adjust (cantidad con signo).
type AdjustRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Notes     string          `json:"notes"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	StockBefore   decimal.Decimal `json:"stock_before"`
	StockAfter    decimal.Decimal `json:"stock_after"`
	FromLocation  string          `json:"from_location,omitempty"`
	ToLocation    string          `json:"to_location,omitempty"`
	ReferenceType string          `json:"reference_type,omitempty"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	UserID        string          `json:"user_id,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// MovementListQuery filtros de GET /api/movements (fechas YYYY-MM-DD).
type MovementListQuery struct {
	PageRequest
	ProductID string `query:"product_id"`
	Type      string `query:"type"`
	From      string `query:"from"`
	To        string `query:"to"`
}
