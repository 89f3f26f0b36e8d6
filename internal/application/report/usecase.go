package report

import (
	"context"
	"encoding/json"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// QRSize lado en píxeles del PNG de producto.
const QRSize = 256

// UseCase reportes de inventario, documentos PDF y códigos QR.
type UseCase struct {
	productRepo   repository.ProductRepository
	receiptRepo   repository.ReceiptRepository
	warehouseRepo repository.WarehouseRepository
	workOrderRepo repository.WorkOrderRepository
	projectRepo   repository.ProjectRepository
	pdf           PDFGenerator
	qr            QREncoder
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	productRepo repository.ProductRepository,
	receiptRepo repository.ReceiptRepository,
	warehouseRepo repository.WarehouseRepository,
	workOrderRepo repository.WorkOrderRepository,
	projectRepo repository.ProjectRepository,
	pdf PDFGenerator,
	qr QREncoder,
) *UseCase {
	return &UseCase{
		productRepo:   productRepo,
		receiptRepo:   receiptRepo,
		warehouseRepo: warehouseRepo,
		workOrderRepo: workOrderRepo,
		projectRepo:   projectRepo,
		pdf:           pdf,
		qr:            qr,
	}
}

// Inventory arma el reporte filtrado en la consulta; los totales se calculan sobre las filas.
func (uc *UseCase) Inventory(ctx context.Context, q dto.InventoryReportQuery) (*dto.InventoryReport, error) {
	products, err := uc.productRepo.List(ctx, repository.ProductFilter{
		Search:          q.Search,
		Location:        q.Location,
		LowStock:        q.LowStock,
		IncludeInactive: q.IncludeInactive,
	})
	if err != nil {
		return nil, err
	}
	rows := lo.Map(products, func(p *entity.Product, _ int) dto.InventoryReportRow {
		return dto.InventoryReportRow{
			ProductID:      p.ID,
			Code:           p.Code,
			Name:           p.Name,
			Ubicacion:      p.Ubicacion,
			StockActual:    p.StockActual,
			StockMinimo:    p.StockMinimo,
			PrecioUnitario: p.PrecioUnitario,
			Valorizado:     p.StockActual.Mul(p.PrecioUnitario),
			LowStock:       p.IsLowStock(),
			Activo:         p.Activo,
		}
	})
	total := lo.Reduce(rows, func(acc decimal.Decimal, r dto.InventoryReportRow, _ int) decimal.Decimal {
		return acc.Add(r.Valorizado)
	}, decimal.Zero)
	return &dto.InventoryReport{
		GeneratedAt:   time.Now(),
		Filters:       q,
		Rows:          rows,
		TotalProducts: len(rows),
		TotalValue:    total,
		LowStockCount: lo.CountBy(rows, func(r dto.InventoryReportRow) bool { return r.LowStock }),
	}, nil
}

// InventoryPDF reporte de inventario en PDF.
func (uc *UseCase) InventoryPDF(ctx context.Context, q dto.InventoryReportQuery) ([]byte, error) {
	rep, err := uc.Inventory(ctx, q)
	if err != nil {
		return nil, err
	}
	return uc.pdf.InventoryPDF(ctx, rep)
}

// ReceiptPDF comprobante de un remito.
func (uc *UseCase) ReceiptPDF(ctx context.Context, id string) ([]byte, error) {
	rc, err := uc.receiptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rc == nil {
		return nil, domain.ErrNotFound
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, rc.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		wh = &entity.Warehouse{ID: rc.WarehouseID}
	}
	return uc.pdf.ReceiptPDF(ctx, rc, wh)
}

// WorkOrderPDF vale de entrega de una orden de trabajo.
func (uc *UseCase) WorkOrderPDF(ctx context.Context, id string) ([]byte, error) {
	wo, err := uc.workOrderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wo == nil {
		return nil, domain.ErrNotFound
	}
	project, err := uc.projectRepo.GetByID(ctx, wo.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		project = &entity.Project{ID: wo.ProjectID}
	}
	return uc.pdf.WorkOrderPDF(ctx, wo, project)
}

// QRPayload contenido del QR de un producto: JSON con id, código y nombre.
func QRPayload(p *entity.Product) string {
	b, _ := json.Marshal(struct {
		ID   string `json:"id"`
		Code string `json:"code"`
		Name string `json:"name"`
	}{p.ID, p.Code, p.Name})
	return string(b)
}

func (uc *UseCase) product(ctx context.Context, id string) (*entity.Product, error) {
	p, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// ProductQR PNG con el QR del producto.
func (uc *UseCase) ProductQR(ctx context.Context, id string) ([]byte, error) {
	p, err := uc.product(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.qr.PNG(QRPayload(p), QRSize)
}

// ProductLabel etiqueta imprimible con QR, código y nombre.
func (uc *UseCase) ProductLabel(ctx context.Context, id string) ([]byte, error) {
	p, err := uc.product(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.pdf.LabelPDF(ctx, p, QRPayload(p))
}
