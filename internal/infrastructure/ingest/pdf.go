package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rs/zerolog"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
)

// TextStructurer convierte el texto libre de un remito en líneas estructuradas (LLM).
type TextStructurer interface {
	Structure(ctx context.Context, text string) (*dto.ExtractedReceipt, error)
}

var disableConfigDir sync.Once

// PDFExtractor valida el documento con pdfcpu, extrae el texto por renglón con
// ledongthuc/pdf y aplica ParseLines. Si las heurísticas no encuentran productos y hay
// structurer, le delega el texto.
type PDFExtractor struct {
	structurer TextStructurer
	log        zerolog.Logger
}

// NewPDFExtractor construye el extractor. structurer puede ser nil.
func NewPDFExtractor(structurer TextStructurer, log zerolog.Logger) *PDFExtractor {
	disableConfigDir.Do(func() { model.ConfigPath = "disable" })
	return &PDFExtractor{structurer: structurer, log: log}
}

// Extract implementa receipt.Extractor.
func (e *PDFExtractor) Extract(ctx context.Context, r io.ReadSeeker, _ int64) (*dto.ExtractedReceipt, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ingest: leer pdf: %w", err)
	}
	text, err := PDFText(raw)
	if err != nil {
		return nil, err
	}
	out := ParseLines(text)
	if len(out.Products) > 0 || e.structurer == nil || strings.TrimSpace(text) == "" {
		return out, nil
	}
	e.log.Debug().Int("chars", len(text)).Msg("heurísticas sin productos, se estructura el texto con LLM")
	structured, err := e.structurer.Structure(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("ingest: estructurar texto: %w", err)
	}
	if structured.EntryDate == "" {
		structured.EntryDate = out.EntryDate
	}
	return structured, nil
}

// PDFText concatena el texto de todas las páginas, una línea por renglón del documento.
// Un PDF ilegible, cifrado o con anidamiento excesivo es ErrInvalidInput. El anidamiento se
// controla antes de que cualquiera de los parsers recorra el documento.
func PDFText(raw []byte) (text string, err error) {
	if err := checkNesting(raw); err != nil {
		return "", fmt.Errorf("%w: pdf: %v", domain.ErrInvalidInput, err)
	}

	// ledongthuc/pdf informa los errores de sintaxis con panic.
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("%w: pdf ilegible: %v", domain.ErrInvalidInput, rec)
		}
	}()
	doc, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("%w: pdf ilegible: %v", domain.ErrInvalidInput, err)
	}
	pages := make([]pdf.Page, 0, doc.NumPage())
	for n := 1; n <= doc.NumPage(); n++ {
		page := doc.Page(n)
		if page.V.IsNull() {
			continue
		}
		if err := checkPageContents(page.V.Key("Contents")); err != nil {
			return "", fmt.Errorf("%w: página %d: %v", domain.ErrInvalidInput, n, err)
		}
		pages = append(pages, page)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.Validate(bytes.NewReader(raw), conf); err != nil {
		return "", fmt.Errorf("%w: pdf ilegible: %v", domain.ErrInvalidInput, err)
	}

	var sb strings.Builder
	for i, page := range pages {
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("%w: página %d: %v", domain.ErrInvalidInput, i+1, err)
		}
		writeRows(&sb, rows)
	}
	return sb.String(), nil
}

// checkPageContents aplica checkNesting a los content streams decodificados de la página.
func checkPageContents(contents pdf.Value) error {
	streams := []pdf.Value{contents}
	if contents.Kind() == pdf.Array {
		streams = streams[:0]
		for i := 0; i < contents.Len(); i++ {
			streams = append(streams, contents.Index(i))
		}
	}
	for _, s := range streams {
		if s.Kind() != pdf.Stream {
			continue
		}
		rc := s.Reader()
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return err
		}
		if err := checkNesting(data); err != nil {
			return err
		}
	}
	return nil
}

// writeRows escribe un renglón por fila (de arriba hacia abajo). Los fragmentos que empiezan
// en la misma X son partes de un mismo TJ y se pegan sin espacio.
func writeRows(sb *strings.Builder, rows pdf.Rows) {
	for _, row := range rows {
		var line strings.Builder
		for i, t := range row.Content {
			if i > 0 && t.X != row.Content[i-1].X {
				line.WriteByte(' ')
			}
			line.WriteString(t.S)
		}
		if s := strings.Join(strings.Fields(line.String()), " "); s != "" {
			sb.WriteString(s)
			sb.WriteByte('\n')
		}
	}
}
