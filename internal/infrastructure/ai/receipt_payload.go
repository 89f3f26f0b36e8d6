package ai

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/infrastructure/ingest"
)

// llmReceipt forma que se le pide al modelo. Cantidades y precios como strings
// ("5", "1.20"); unit_price vacío cuando el documento no lo trae.
type llmReceipt struct {
	EntryDate string    `json:"entry_date" jsonschema:"description=Fecha de ingreso YYYY-MM-DD o vacío"`
	Products  []llmLine `json:"products"`
}

type llmLine struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
}

const receiptInstructions = `Eres un asistente de recepción de mercadería en un almacén.
Extrae del remito (nota de entrega) la fecha y cada línea de producto.
Devuelve ÚNICAMENTE un objeto JSON con esta estructura:
{"entry_date": "YYYY-MM-DD o vacío", "products": [{"name": "...", "description": "...", "quantity": "5", "unit_price": "1.20 o vacío"}]}
Reglas:
- quantity y unit_price son strings numéricos con punto decimal.
- No inventes productos ni precios; si un dato no figura usa "".
- Omite encabezados, totales y firmas.`

// toExtracted convierte la respuesta del modelo al remito normalizado; las líneas con
// cantidad ilegible se descartan.
func (r llmReceipt) toExtracted() (*dto.ExtractedReceipt, error) {
	out := &dto.ExtractedReceipt{EntryDate: strings.TrimSpace(r.EntryDate)}
	for _, l := range r.Products {
		name := strings.TrimSpace(l.Name)
		if name == "" {
			continue
		}
		qty, err := ingest.ParseNumber(l.Quantity)
		if err != nil || !qty.IsPositive() {
			continue
		}
		line := dto.ReceiptLineRequest{Name: name, Description: strings.TrimSpace(l.Description), Quantity: qty}
		if strings.TrimSpace(l.UnitPrice) != "" {
			price, err := ingest.ParseNumber(l.UnitPrice)
			if err != nil {
				return nil, fmt.Errorf("AI: precio %q inválido en %s", l.UnitPrice, name)
			}
			line.UnitPrice = &price
		}
		out.Products = append(out.Products, line)
	}
	return out, nil
}

// jsonBlockRe extrae el primer objeto JSON del texto aunque el modelo lo envuelva en markdown.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// extractJSON extrae el primer objeto JSON bien formado de un texto libre.
// Primero quita bloques de código markdown y luego, si hace falta, captura el primer { … }.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if end := strings.LastIndex(after, "```"); end != -1 {
			after = after[:end]
		}
		text = strings.TrimSpace(after)
	}
	if strings.HasPrefix(text, "{") {
		return text
	}
	return strings.TrimSpace(jsonBlockRe.FindString(text))
}
