package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// StockUseCase egresos, transferencias de ubicación y ajustes de stock.
// Cada operación corre en una transacción con la fila del producto bloqueada (SELECT FOR UPDATE).
type StockUseCase struct {
	txRunner repository.TxRunner
	log      zerolog.Logger
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(txRunner repository.TxRunner, log zerolog.Logger) *StockUseCase {
	return &StockUseCase{txRunner: txRunner, log: log}
}

// EgressInput salida de stock de un producto.
type EgressInput struct {
	ProductID     string
	Quantity      decimal.Decimal
	UserID        string
	Notes         string
	ReferenceType string
	ReferenceID   string
}

// Egress descuenta stock. Si el stock queda en cero el producto pasa a inactivo (deleted=true).
func (uc *StockUseCase) Egress(ctx context.Context, userID, productID string, in dto.EgressRequest) (*dto.EgressResponse, error) {
	var out *dto.EgressResponse
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		res, err := EgressInTx(ctx, repos, EgressInput{
			ProductID:     productID,
			Quantity:      in.Quantity,
			UserID:        userID,
			Notes:         in.Notes,
			ReferenceType: entity.MovementRefManual,
		}, time.Now())
		out = res
		return err
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("product_id", productID).Str("quantity", in.Quantity.String()).Msg("egreso rechazado")
		return nil, err
	}
	uc.log.Info().Str("product_id", productID).Str("stock_after", out.StockAfter.String()).Bool("deleted", out.Deleted).Msg("egreso registrado")
	return out, nil
}

// EgressInTx ejecuta un egreso usando los repositorios de la transacción del caller
// (lo usa también la entrega de órdenes de trabajo).
func EgressInTx(ctx context.Context, repos repository.TxRepos, in EgressInput, now time.Time) (*dto.EgressResponse, error) {
	product, err := repos.Products.GetForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	plan, err := inventory.PlanEgress(product, in.Quantity)
	if err != nil {
		return nil, err
	}
	product.StockActual = plan.StockAfter
	if plan.Deactivate {
		product.Activo = false
	}
	product.UpdatedAt = now
	if err := repos.Products.UpdateStock(ctx, product); err != nil {
		return nil, err
	}
	mov := &entity.Movement{
		ID:            uuid.New().String(),
		ProductID:     product.ID,
		Type:          entity.MovementTypeEgreso,
		Quantity:      in.Quantity.Neg(),
		StockBefore:   plan.StockBefore,
		StockAfter:    plan.StockAfter,
		FromLocation:  product.Ubicacion,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		UserID:        in.UserID,
		Notes:         in.Notes,
		CreatedAt:     now,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return &dto.EgressResponse{
		ProductID:   product.ID,
		StockBefore: plan.StockBefore,
		StockAfter:  plan.StockAfter,
		Deleted:     plan.Deactivate,
	}, nil
}

// Transfer cambia la ubicación del producto y registra el movimiento de transferencia.
func (uc *StockUseCase) Transfer(ctx context.Context, userID string, in dto.TransferRequest) (*dto.MovementResponse, error) {
	to := strings.TrimSpace(in.ToLocation)
	if in.ProductID == "" || to == "" {
		return nil, fmt.Errorf("%w: product_id y to_location son obligatorios", domain.ErrInvalidInput)
	}
	var mov *entity.Movement
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		product, err := repos.Products.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if !product.Activo {
			return domain.ErrProductInactive
		}
		if strings.EqualFold(product.Ubicacion, to) {
			return fmt.Errorf("%w: el producto ya está en %s", domain.ErrInvalidInput, to)
		}
		now := time.Now()
		mov = &entity.Movement{
			ID:            uuid.New().String(),
			ProductID:     product.ID,
			Type:          entity.MovementTypeTransferencia,
			Quantity:      decimal.Zero,
			StockBefore:   product.StockActual,
			StockAfter:    product.StockActual,
			FromLocation:  product.Ubicacion,
			ToLocation:    to,
			ReferenceType: entity.MovementRefManual,
			UserID:        userID,
			Notes:         in.Notes,
			CreatedAt:     now,
		}
		product.Ubicacion = to
		product.UpdatedAt = now
		if err := repos.Products.Update(ctx, product); err != nil {
			return err
		}
		return repos.Movements.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", in.ProductID).Str("from", mov.FromLocation).Str("to", mov.ToLocation).Msg("transferencia registrada")
	return ToMovementResponse(mov), nil
}

// Adjust corrige el stock con una cantidad con signo; el resultado no puede ser negativo.
// El producto queda activo solo si le queda stock.
func (uc *StockUseCase) Adjust(ctx context.Context, userID string, in dto.AdjustRequest) (*dto.MovementResponse, error) {
	if in.ProductID == "" || in.Quantity.IsZero() {
		return nil, fmt.Errorf("%w: product_id y una cantidad distinta de cero son obligatorios", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Notes) == "" {
		return nil, fmt.Errorf("%w: notes es obligatorio en un ajuste", domain.ErrInvalidInput)
	}
	var mov *entity.Movement
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		product, err := repos.Products.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		after := product.StockActual.Add(in.Quantity)
		if after.IsNegative() {
			return fmt.Errorf("%w: el ajuste dejaría stock %s", domain.ErrInsufficientStock, after.String())
		}
		now := time.Now()
		mov = &entity.Movement{
			ID:            uuid.New().String(),
			ProductID:     product.ID,
			Type:          entity.MovementTypeAjuste,
			Quantity:      in.Quantity,
			StockBefore:   product.StockActual,
			StockAfter:    after,
			ReferenceType: entity.MovementRefManual,
			UserID:        userID,
			Notes:         in.Notes,
			CreatedAt:     now,
		}
		product.StockActual = after
		// Misma regla que egresos e ingresos: sin stock se desactiva, con stock vuelve a estar activo.
		product.Activo = after.IsPositive()
		product.UpdatedAt = now
		if err := repos.Products.UpdateStock(ctx, product); err != nil {
			return err
		}
		return repos.Movements.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", in.ProductID).Str("quantity", in.Quantity.String()).Msg("ajuste registrado")
	return ToMovementResponse(mov), nil
}

// ToMovementResponse mapea la entidad a DTO.
func ToMovementResponse(m *entity.Movement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		StockBefore:   m.StockBefore,
		StockAfter:    m.StockAfter,
		FromLocation:  m.FromLocation,
		ToLocation:    m.ToLocation,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		UserID:        m.UserID,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
	}
}
