package receipt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// Limits tamaños máximos por formato y directorio de archivos temporales.
type Limits struct {
	TempDir          string
	MaxDocumentBytes int64 // PDF e imágenes
	MaxTextBytes     int64 // CSV y texto
}

// Upload archivo recibido por multipart. Size es el declarado por el cliente.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// UploadFields campos del formulario; si vienen, pisan lo extraído del archivo.
type UploadFields struct {
	WarehouseID string
	EntryDate   string
	OrderID     string
	Status      string
}

var imageTypes = []string{"image/png", "image/jpeg", "image/webp"}

// DetectKind determina el formato a partir del contenido y la extensión.
// Devuelve ErrUnsupportedFile para cualquier otro tipo.
func DetectKind(head []byte, filename string) (string, error) {
	sniffed, _, _ := mime.ParseMediaType(http.DetectContentType(head))
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case sniffed == "application/pdf":
		return entity.ReceiptSourcePDF, nil
	case lo.Contains(imageTypes, sniffed):
		return entity.ReceiptSourceImage, nil
	case sniffed == "text/plain" || sniffed == "text/csv":
		if ext == "" || ext == ".csv" || ext == ".txt" || ext == ".tsv" {
			return entity.ReceiptSourceCSV, nil
		}
	}
	return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFile, sniffed)
}

// IngestFile guarda el archivo en un temporal, detecta el formato, aplica el límite de tamaño,
// extrae las líneas y registra el remito en la misma transacción que el alta manual.
// El temporal se elimina siempre, con o sin error.
func (uc *UseCase) IngestFile(ctx context.Context, userID string, up Upload, fields UploadFields) (*dto.CreateReceiptResponse, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(up.Content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return nil, fmt.Errorf("%w: archivo vacío", domain.ErrInvalidInput)
	}
	kind, err := DetectKind(head, up.Filename)
	if err != nil {
		uc.log.Warn().Str("filename", up.Filename).Msg("tipo de archivo rechazado")
		return nil, err
	}
	limit := uc.limits.MaxDocumentBytes
	if kind == entity.ReceiptSourceCSV {
		limit = uc.limits.MaxTextBytes
	}
	if up.Size > limit {
		return nil, fmt.Errorf("%w: %d bytes, máximo %d", domain.ErrFileTooLarge, up.Size, limit)
	}

	extractor := uc.extractorFor(kind)
	if extractor == nil {
		return nil, fmt.Errorf("%w: extracción de %s no configurada", domain.ErrUnsupportedFile, kind)
	}

	tmp, err := os.CreateTemp(uc.limits.TempDir, "remito-*"+filepath.Ext(up.Filename))
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		if rmErr := os.Remove(tmp.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			uc.log.Error().Err(rmErr).Str("path", tmp.Name()).Msg("no se pudo eliminar el temporal")
		}
	}()

	// El tamaño declarado puede mentir: se corta al superar el límite.
	written, err := io.Copy(tmp, io.LimitReader(io.MultiReader(bytes.NewReader(head), up.Content), limit+1))
	if err != nil {
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if written > limit {
		return nil, fmt.Errorf("%w: máximo %d bytes", domain.ErrFileTooLarge, limit)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	extracted, err := extractor.Extract(ctx, tmp, written)
	if err != nil {
		uc.log.Warn().Err(err).Str("kind", kind).Str("filename", up.Filename).Msg("extracción fallida")
		return nil, err
	}
	req := mergeFields(extracted, fields, uc.now().Format("2006-01-02"))
	if len(req.Products) == 0 {
		return nil, domain.ErrEmptyExtraction
	}
	uc.log.Info().Str("kind", kind).Str("filename", up.Filename).Int("lines", len(req.Products)).Msg("archivo procesado")
	return uc.create(ctx, userID, kind, req)
}

func (uc *UseCase) extractorFor(kind string) Extractor {
	switch kind {
	case entity.ReceiptSourcePDF:
		return uc.extractors.PDF
	case entity.ReceiptSourceImage:
		return uc.extractors.Image
	case entity.ReceiptSourceCSV:
		return uc.extractors.Text
	}
	return nil
}

// mergeFields combina cabecera extraída con el formulario (el formulario gana) y descarta
// líneas sin nombre ni product_id. Sin fecha en ninguno de los dos se usa today.
func mergeFields(ex *dto.ExtractedReceipt, f UploadFields, today string) dto.CreateReceiptRequest {
	var req dto.CreateReceiptRequest
	if ex != nil {
		req = *ex
	}
	req.WarehouseID = lo.Ternary(f.WarehouseID != "", f.WarehouseID, req.WarehouseID)
	req.EntryDate = lo.Ternary(f.EntryDate != "", f.EntryDate, req.EntryDate)
	req.OrderID = lo.Ternary(f.OrderID != "", f.OrderID, req.OrderID)
	req.Status = lo.Ternary(f.Status != "", f.Status, req.Status)
	if strings.TrimSpace(req.EntryDate) == "" {
		req.EntryDate = today
	}
	req.Products = lo.Filter(req.Products, func(l dto.ReceiptLineRequest, _ int) bool {
		return strings.TrimSpace(l.Name) != "" || strings.TrimSpace(l.ProductID) != ""
	})
	return req
}
