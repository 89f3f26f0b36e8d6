package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/inventory"
)

// Alias de encabezado aceptados (comparados con NameKey, sin tildes).
var headerAliases = map[string][]string{
	"name":        {"nombre", "name", "producto", "product", "articulo", "artículo"},
	"description": {"descripcion", "descripción", "description", "detalle"},
	"quantity":    {"cantidad", "quantity", "cant", "qty"},
	"unit_price":  {"precio_unitario", "unit_price", "precio", "price", "p_unit"},
	"product_id":  {"product_id", "id_producto", "producto_id"},
}

// TextExtractor lee CSV (coma, punto y coma o tabulador) y texto plano.
// Sin encabezado reconocible cae en las heurísticas línea a línea de ParseLines.
type TextExtractor struct{}

// NewTextExtractor construye el extractor.
func NewTextExtractor() *TextExtractor { return &TextExtractor{} }

// Extract implementa receipt.Extractor.
func (e *TextExtractor) Extract(_ context.Context, r io.ReadSeeker, _ int64) (*dto.ExtractedReceipt, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ingest: leer texto: %w", err)
	}
	text, err := DecodeText(raw)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return &dto.ExtractedReceipt{}, nil
	}
	delim := detectDelimiter(text)
	if delim != 0 {
		if out, ok, err := parseCSV(text, delim); err != nil || ok {
			return out, err
		}
	}
	return ParseLines(text), nil
}

// DecodeText devuelve el contenido como UTF-8: quita el BOM y transcodifica desde
// Latin-1 (ISO-8859-1) cuando los bytes no son UTF-8 válido.
func DecodeText(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	out, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
	if err != nil {
		return "", fmt.Errorf("ingest: transcodificar latin-1: %w", err)
	}
	return string(out), nil
}

// detectDelimiter elige el separador más frecuente de la primera línea no vacía.
func detectDelimiter(text string) rune {
	first := ""
	for _, ln := range strings.Split(text, "\n") {
		if strings.TrimSpace(ln) != "" {
			first = ln
			break
		}
	}
	best, bestN := rune(0), 0
	for _, d := range []rune{';', '\t', ','} {
		if n := strings.Count(first, string(d)); n > bestN {
			best, bestN = d, n
		}
	}
	return best
}

// parseCSV devuelve ok=false si el encabezado no tiene nombre/product_id y cantidad.
func parseCSV(text string, delim rune) (*dto.ExtractedReceipt, bool, error) {
	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, false, nil
	}
	cols := mapHeader(header)
	_, hasName := cols["name"]
	_, hasID := cols["product_id"]
	if _, hasQty := cols["quantity"]; !hasQty || (!hasName && !hasID) {
		return nil, false, nil
	}

	out := &dto.ExtractedReceipt{}
	for rowNum := 2; ; rowNum++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, true, fmt.Errorf("%w: fila %d: %v", domain.ErrInvalidInput, rowNum, err)
		}
		get := func(k string) string {
			if i, ok := cols[k]; ok && i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}
		name, pid, qtyRaw := get("name"), get("product_id"), get("quantity")
		if name == "" && pid == "" && qtyRaw == "" {
			continue
		}
		qty, err := ParseNumber(qtyRaw)
		if err != nil {
			return nil, true, fmt.Errorf("%w: fila %d: cantidad %q inválida", domain.ErrInvalidInput, rowNum, qtyRaw)
		}
		line := dto.ReceiptLineRequest{
			ProductID:   pid,
			Name:        name,
			Description: get("description"),
			Quantity:    qty,
		}
		if p := get("unit_price"); p != "" {
			price, err := ParseNumber(p)
			if err != nil {
				return nil, true, fmt.Errorf("%w: fila %d: precio %q inválido", domain.ErrInvalidInput, rowNum, p)
			}
			line.UnitPrice = &price
		}
		out.Products = append(out.Products, line)
	}
	return out, true, nil
}

func mapHeader(header []string) map[string]int {
	cols := map[string]int{}
	for i, h := range header {
		key := strings.ReplaceAll(inventory.NameKey(h), " ", "_")
		for field, aliases := range headerAliases {
			for _, a := range aliases {
				if key == a {
					if _, dup := cols[field]; !dup {
						cols[field] = i
					}
				}
			}
		}
	}
	return cols
}
