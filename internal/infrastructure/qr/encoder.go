package qr

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	bqr "github.com/boombuler/barcode/qr"

	"github.com/jhoicas/almacen-api/internal/application/report"
)

// Encoder genera códigos QR en PNG con corrección de errores media.
type Encoder struct{}

// NewEncoder construye el encoder.
func NewEncoder() *Encoder { return &Encoder{} }

var _ report.QREncoder = (*Encoder)(nil)

// PNG codifica content y escala la matriz a size×size píxeles.
func (e *Encoder) PNG(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("qr: contenido vacío")
	}
	code, err := bqr.Encode(content, bqr.M, bqr.Auto)
	if err != nil {
		return nil, fmt.Errorf("qr: encode: %w", err)
	}
	scaled, err := barcode.Scale(code, size, size)
	if err != nil {
		return nil, fmt.Errorf("qr: scale: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("qr: png: %w", err)
	}
	return buf.Bytes(), nil
}
