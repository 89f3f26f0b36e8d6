package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptLineRequest línea de producto de un remito.
// ProductID es la clave estable; sin él la línea se concilia por nombre normalizado.
type ReceiptLineRequest struct {
	ProductID   string           `json:"product_id,omitempty"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
}

// CreateReceiptRequest body para POST /api/receipts (y resultado normalizado de los extractores).
type CreateReceiptRequest struct {
	WarehouseID string               `json:"warehouse_id"`
	EntryDate   string               `json:"entry_date"` // YYYY-MM-DD
	OrderID     string               `json:"order_id,omitempty"`
	Status      string               `json:"status,omitempty"`
	Products    []ReceiptLineRequest `json:"products"`
}

// UnmarshalJSON acepta warehouse_id como string o como entero JSON ({"warehouse_id": 1}).
func (r *CreateReceiptRequest) UnmarshalJSON(b []byte) error {
	type plain CreateReceiptRequest
	aux := struct {
		*plain
		WarehouseID FlexibleID `json:"warehouse_id"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	r.WarehouseID = string(aux.WarehouseID)
	return nil
}

// FlexibleID id que llega como string o como entero no negativo.
type FlexibleID string

func (id *FlexibleID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null":
		*id = ""
	case strings.HasPrefix(s, `"`):
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*id = FlexibleID(v)
	default:
		if _, err := strconv.ParseUint(s, 10, 64); err != nil {
			return fmt.Errorf("id inválido: %s", s)
		}
		*id = FlexibleID(s)
	}
	return nil
}

// UpdateReceiptStatusRequest body para PATCH /api/receipts/:id/status.
type UpdateReceiptStatusRequest struct {
	Status string `json:"status"`
}

// ReceiptLineResponse línea persistida.
type ReceiptLineResponse struct {
	ProductID   string           `json:"product_id"`
	ProductName string           `json:"product_name,omitempty"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
}

// ReceiptResponse salida de un remito.
type ReceiptResponse struct {
	ID                 string                `json:"id"`
	WarehouseID        string                `json:"warehouse_id"`
	EntryDate          time.Time             `json:"entry_date"`
	OrderID            string                `json:"order_id,omitempty"`
	Status             string                `json:"status"`
	VerificationStatus bool                  `json:"verification_status"`
	Source             string                `json:"source"`
	CreatedBy          string                `json:"created_by,omitempty"`
	Products           []ReceiptLineResponse `json:"products"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

// CreateReceiptResponse respuesta 201 de la creación de remitos.
type CreateReceiptResponse struct {
	Receipt         ReceiptResponse `json:"receipt"`
	ProductsCreated int             `json:"products_created"`
	ProductsUpdated int             `json:"products_updated"`
}
