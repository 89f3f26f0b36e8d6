package report

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// PDFGenerator genera las representaciones imprimibles del almacén.
type PDFGenerator interface {
	InventoryPDF(ctx context.Context, report *dto.InventoryReport) ([]byte, error)
	ReceiptPDF(ctx context.Context, receipt *entity.Receipt, warehouse *entity.Warehouse) ([]byte, error)
	WorkOrderPDF(ctx context.Context, wo *entity.WorkOrder, project *entity.Project) ([]byte, error)
	LabelPDF(ctx context.Context, product *entity.Product, qrPayload string) ([]byte, error)
}

// QREncoder codifica un contenido como imagen PNG de size×size píxeles.
type QREncoder interface {
	PNG(content string, size int) ([]byte, error)
}
