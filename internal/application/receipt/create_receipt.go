package receipt

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var receiptStatuses = []string{entity.ReceiptStatusPending, entity.ReceiptStatusVerified, entity.ReceiptStatusRejected}

// UseCase remitos: alta manual o desde archivo, consulta, cambio de estado y baja con reversión de stock.
type UseCase struct {
	txRunner      repository.TxRunner
	receiptRepo   repository.ReceiptRepository
	warehouseRepo repository.WarehouseRepository
	extractors    Extractors
	limits        Limits
	log           zerolog.Logger
	now           func() time.Time
}

// NewUseCase construye el caso de uso de remitos.
func NewUseCase(
	txRunner repository.TxRunner,
	receiptRepo repository.ReceiptRepository,
	warehouseRepo repository.WarehouseRepository,
	extractors Extractors,
	limits Limits,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		receiptRepo:   receiptRepo,
		warehouseRepo: warehouseRepo,
		extractors:    extractors,
		limits:        limits,
		log:           log,
		now:           time.Now,
	}
}

// validate revisa cabecera y líneas antes de tocar la base.
func validate(in *dto.CreateReceiptRequest) (time.Time, error) {
	in.WarehouseID = strings.TrimSpace(in.WarehouseID)
	if in.WarehouseID == "" || strings.TrimSpace(in.EntryDate) == "" || len(in.Products) == 0 {
		return time.Time{}, fmt.Errorf("%w: Missing required fields", domain.ErrInvalidInput)
	}
	entry, err := parseEntryDate(in.EntryDate)
	if err != nil {
		return time.Time{}, err
	}
	if in.Status == "" {
		in.Status = entity.ReceiptStatusPending
	}
	if !slices.Contains(receiptStatuses, in.Status) {
		return time.Time{}, fmt.Errorf("%w: status debe ser uno de %v", domain.ErrInvalidInput, receiptStatuses)
	}
	// Un remito nace sin verificar; la verificación pasa por UpdateStatus.
	if in.Status == entity.ReceiptStatusVerified {
		return time.Time{}, fmt.Errorf("%w: un remito no puede crearse verificado", domain.ErrInvalidInput)
	}
	for i := range in.Products {
		line := &in.Products[i]
		line.Name = strings.TrimSpace(line.Name)
		line.ProductID = strings.TrimSpace(line.ProductID)
		if line.ProductID == "" && line.Name == "" {
			return time.Time{}, fmt.Errorf("%w: producto %d: name o product_id es obligatorio", domain.ErrInvalidInput, i+1)
		}
		if !line.Quantity.IsPositive() {
			return time.Time{}, fmt.Errorf("%w: producto %d: la cantidad debe ser mayor a cero", domain.ErrInvalidInput, i+1)
		}
		if line.UnitPrice != nil && line.UnitPrice.IsNegative() {
			return time.Time{}, fmt.Errorf("%w: producto %d: unit_price no puede ser negativo", domain.ErrInvalidInput, i+1)
		}
	}
	return entry, nil
}

func parseEntryDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", time.RFC3339, "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: entry_date debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
}

// Create registra un remito manual.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreateReceiptRequest) (*dto.CreateReceiptResponse, error) {
	return uc.create(ctx, userID, entity.ReceiptSourceManual, in)
}

// create valida y ejecuta en una sola transacción: cabecera, conciliación de cada línea
// (por product_id o por nombre normalizado), stock, movimientos y estado de la orden.
func (uc *UseCase) create(ctx context.Context, userID, source string, in dto.CreateReceiptRequest) (*dto.CreateReceiptResponse, error) {
	entryDate, err := validate(&in)
	if err != nil {
		uc.log.Warn().Err(err).Str("source", source).Msg("remito rechazado")
		return nil, err
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, fmt.Errorf("%w: almacén inexistente", domain.ErrInvalidInput)
	}

	now := uc.now()
	rc := &entity.Receipt{
		ID:                 uuid.New().String(),
		WarehouseID:        in.WarehouseID,
		EntryDate:          entryDate,
		OrderID:            strings.TrimSpace(in.OrderID),
		Status:             in.Status,
		VerificationStatus: false,
		Source:             source,
		CreatedBy:          userID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	var created, updated int

	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		created, updated = 0, 0
		rc.Products = rc.Products[:0]
		if rc.OrderID != "" {
			if err := receiveOrder(ctx, repos, rc.OrderID); err != nil {
				return err
			}
		}
		if err := repos.Receipts.Create(ctx, rc); err != nil {
			return err
		}
		for _, line := range in.Products {
			product, isNew, err := resolveProduct(ctx, repos, line, now)
			if err != nil {
				return err
			}
			before := product.StockActual
			if isNew {
				created++
				before = decimal.Zero
			} else {
				updated++
				applyIngress(product, line, now)
				if err := repos.Products.UpdateStock(ctx, product); err != nil {
					return err
				}
			}
			rp := entity.ReceiptProduct{
				ReceiptID:   rc.ID,
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
			}
			if err := repos.Receipts.AddProduct(ctx, &rp); err != nil {
				return err
			}
			rc.Products = append(rc.Products, rp)
			if err := repos.Movements.Create(ctx, &entity.Movement{
				ID:            uuid.New().String(),
				ProductID:     product.ID,
				Type:          entity.MovementTypeIngreso,
				Quantity:      line.Quantity,
				StockBefore:   before,
				StockAfter:    product.StockActual,
				ToLocation:    product.Ubicacion,
				ReferenceType: entity.MovementRefReceipt,
				ReferenceID:   rc.ID,
				UserID:        userID,
				CreatedAt:     now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.log.Error().Err(err).Str("receipt_id", rc.ID).Str("source", source).Msg("remito revertido")
		return nil, err
	}
	uc.log.Info().
		Str("receipt_id", rc.ID).
		Str("source", source).
		Int("lines", len(rc.Products)).
		Int("products_created", created).
		Int("products_updated", updated).
		Msg("remito registrado")
	return &dto.CreateReceiptResponse{
		Receipt:         *ToReceiptResponse(rc),
		ProductsCreated: created,
		ProductsUpdated: updated,
	}, nil
}

// receiveOrder pasa la orden asociada a recibida. Una orden ya recibida admite remitos parciales.
func receiveOrder(ctx context.Context, repos repository.TxRepos, orderID string) error {
	order, err := repos.Orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return fmt.Errorf("%w: orden de compra inexistente", domain.ErrInvalidInput)
	}
	if order.Status == entity.OrderStatusReceived {
		return nil
	}
	if !order.CanTransition(entity.OrderStatusReceived) {
		return fmt.Errorf("%w: la orden está %s", domain.ErrConflict, order.Status)
	}
	return repos.Orders.UpdateStatus(ctx, orderID, entity.OrderStatusReceived)
}

// resolveProduct devuelve el producto de la línea bloqueado. Sin product_id busca por nombre
// normalizado y, si no existe, lo crea con INSERT ... ON CONFLICT DO NOTHING; si otra transacción
// lo creó antes, vuelve a leerlo. isNew indica que la fila nació en esta línea con el stock ya cargado.
func resolveProduct(ctx context.Context, repos repository.TxRepos, line dto.ReceiptLineRequest, now time.Time) (*entity.Product, bool, error) {
	if line.ProductID != "" {
		p, err := repos.Products.GetForUpdate(ctx, line.ProductID)
		if err != nil {
			return nil, false, err
		}
		if p == nil {
			return nil, false, fmt.Errorf("%w: producto %s inexistente", domain.ErrInvalidInput, line.ProductID)
		}
		return p, false, nil
	}

	key := inventory.NameKey(line.Name)
	p, err := repos.Products.FindActiveByNameKeyForUpdate(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if p != nil {
		return p, false, nil
	}

	price := decimal.Zero
	if line.UnitPrice != nil {
		price = *line.UnitPrice
	}
	p = &entity.Product{
		ID:             uuid.New().String(),
		Code:           autoCode(),
		Name:           line.Name,
		NameKey:        key,
		Description:    line.Description,
		Unit:           "unidad",
		StockActual:    line.Quantity,
		StockMinimo:    decimal.Zero,
		PrecioUnitario: price,
		CostoPromedio:  price,
		Activo:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	inserted, err := repos.Products.CreateIfAbsent(ctx, p)
	if err != nil {
		return nil, false, err
	}
	if inserted {
		return p, true, nil
	}
	p, err = repos.Products.FindActiveByNameKeyForUpdate(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if p == nil {
		return nil, false, fmt.Errorf("%w: producto %q en conflicto", domain.ErrConflict, line.Name)
	}
	return p, false, nil
}

// applyIngress suma la cantidad y, con precio informado, actualiza precio y costo promedio ponderado.
func applyIngress(p *entity.Product, line dto.ReceiptLineRequest, now time.Time) {
	if line.UnitPrice != nil {
		p.CostoPromedio = inventory.CostCalculator(p.StockActual, p.CostoPromedio, line.Quantity, *line.UnitPrice)
		p.PrecioUnitario = *line.UnitPrice
	}
	p.StockActual = p.StockActual.Add(line.Quantity)
	p.Activo = true
	p.UpdatedAt = now
}

func autoCode() string {
	return "AUTO-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

// ToReceiptResponse mapea la entidad a DTO.
func ToReceiptResponse(r *entity.Receipt) *dto.ReceiptResponse {
	return &dto.ReceiptResponse{
		ID:                 r.ID,
		WarehouseID:        r.WarehouseID,
		EntryDate:          r.EntryDate,
		OrderID:            r.OrderID,
		Status:             r.Status,
		VerificationStatus: r.VerificationStatus,
		Source:             r.Source,
		CreatedBy:          r.CreatedBy,
		Products: lo.Map(r.Products, func(p entity.ReceiptProduct, _ int) dto.ReceiptLineResponse {
			return dto.ReceiptLineResponse{
				ProductID:   p.ProductID,
				ProductName: p.ProductName,
				Quantity:    p.Quantity,
				UnitPrice:   p.UnitPrice,
			}
		}),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
