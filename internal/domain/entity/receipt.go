package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un remito.
const (
	ReceiptStatusPending  = "Pending"
	ReceiptStatusVerified = "Verified"
	ReceiptStatusRejected = "Rejected"
)

// Origen del remito.
const (
	ReceiptSourceManual = "manual"
	ReceiptSourcePDF    = "pdf"
	ReceiptSourceCSV    = "csv"
	ReceiptSourceImage  = "image"
)

// Receipt representa un remito de ingreso de mercadería.
type Receipt struct {
	ID                 string
	WarehouseID        string
	EntryDate          time.Time
	OrderID            string // opcional
	Status             string
	VerificationStatus bool
	Source             string
	CreatedBy          string
	Products           []ReceiptProduct
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ReceiptProduct fila de receipt_products: cantidad entregada de un producto.
type ReceiptProduct struct {
	ReceiptID   string
	ProductID   string
	ProductName string // solo lectura
	Quantity    decimal.Decimal
	UnitPrice   *decimal.Decimal
}
