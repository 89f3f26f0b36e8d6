package ingest

import (
	"regexp"
	"strings"

	"github.com/jhoicas/almacen-api/internal/application/dto"
)

var (
	dateRe = regexp.MustCompile(`(?i)fecha\s*(?:de\s+ingreso|de\s+entrega)?\s*:?\s*(\d{1,2})[/.-](\d{1,2})[/.-](\d{4})`)
	// <cantidad> [x] <nombre> [<precio>]; el precio lleva "$" o parte decimal.
	lineRe = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s+(?:[xX]\s+)?(.*?\pL.*?)(?:\s+(\$\s*\d[\d.,]*|\d[\d.,]*[.,]\d{1,2}))?$`)
	// encabezados y pies que empiezan con número pero no son líneas de producto
	skipRe = regexp.MustCompile(`(?i)^(remito|fecha|total|subtotal|cuit|tel|p[aá]gina|hoja)\b`)
)

// ParseLines aplica las heurísticas de texto libre: "Fecha: dd/mm/yyyy" para la cabecera y
// "<cantidad> <nombre> [<precio>]" por línea de producto. Las demás líneas se ignoran.
func ParseLines(text string) *dto.ExtractedReceipt {
	out := &dto.ExtractedReceipt{}
	for _, raw := range strings.Split(text, "\n") {
		ln := strings.Join(strings.Fields(raw), " ")
		if ln == "" {
			continue
		}
		if out.EntryDate == "" {
			if m := dateRe.FindStringSubmatch(ln); m != nil {
				out.EntryDate = m[3] + "-" + pad(m[2]) + "-" + pad(m[1])
				continue
			}
		}
		m := lineRe.FindStringSubmatch(ln)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[2])
		if skipRe.MatchString(name) {
			continue
		}
		qty, err := ParseNumber(m[1])
		if err != nil || !qty.IsPositive() {
			continue
		}
		line := dto.ReceiptLineRequest{Name: name, Quantity: qty}
		if m[3] != "" {
			if price, err := ParseNumber(m[3]); err == nil && !price.IsNegative() {
				line.UnitPrice = &price
			}
		}
		out.Products = append(out.Products, line)
	}
	return out
}

func pad(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

