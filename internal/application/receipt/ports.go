package receipt

import (
	"context"
	"io"

	"github.com/jhoicas/almacen-api/internal/application/dto"
)

// Extractor convierte el contenido de un archivo en un remito normalizado.
// Los campos de cabecera pueden volver vacíos; las líneas sin nombre se descartan aguas arriba.
type Extractor interface {
	Extract(ctx context.Context, r io.ReadSeeker, size int64) (*dto.ExtractedReceipt, error)
}

// ExtractorFunc adapta una función a Extractor.
type ExtractorFunc func(ctx context.Context, r io.ReadSeeker, size int64) (*dto.ExtractedReceipt, error)

// Extract implementa Extractor.
func (f ExtractorFunc) Extract(ctx context.Context, r io.ReadSeeker, size int64) (*dto.ExtractedReceipt, error) {
	return f(ctx, r, size)
}

// Extractors extractores por formato. Image puede ser nil si no hay servicio de visión configurado.
type Extractors struct {
	PDF   Extractor
	Text  Extractor
	Image Extractor
}
