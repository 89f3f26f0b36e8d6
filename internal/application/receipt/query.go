package receipt

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// GetByID devuelve el remito con sus líneas y nombres de producto.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.ReceiptResponse, error) {
	rc, err := uc.receiptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rc == nil {
		return nil, domain.ErrNotFound
	}
	return ToReceiptResponse(rc), nil
}

// Find devuelve la entidad (para reportes).
func (uc *UseCase) Find(ctx context.Context, id string) (*entity.Receipt, error) {
	rc, err := uc.receiptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rc == nil {
		return nil, domain.ErrNotFound
	}
	return rc, nil
}

// List lista remitos por almacén y estado.
func (uc *UseCase) List(ctx context.Context, warehouseID, status string, page dto.PageRequest) ([]dto.ReceiptResponse, error) {
	page.Normalize()
	list, err := uc.receiptRepo.List(ctx, warehouseID, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(r *entity.Receipt, _ int) dto.ReceiptResponse { return *ToReceiptResponse(r) }), nil
}

// UpdateStatus cambia el estado. Verified marca verification_status y es definitivo.
func (uc *UseCase) UpdateStatus(ctx context.Context, id, status string) (*dto.ReceiptResponse, error) {
	if !slices.Contains(receiptStatuses, status) {
		return nil, fmt.Errorf("%w: status debe ser uno de %v", domain.ErrInvalidInput, receiptStatuses)
	}
	var rc *entity.Receipt
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		rc, err = repos.Receipts.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if rc == nil {
			return domain.ErrNotFound
		}
		if rc.VerificationStatus && status != entity.ReceiptStatusVerified {
			return fmt.Errorf("%w: el remito ya fue verificado", domain.ErrConflict)
		}
		rc.Status = status
		rc.VerificationStatus = status == entity.ReceiptStatusVerified
		return repos.Receipts.UpdateStatus(ctx, id, rc.Status, rc.VerificationStatus)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("receipt_id", id).Str("status", status).Msg("estado de remito actualizado")
	return ToReceiptResponse(rc), nil
}

// Delete elimina un remito no verificado y revierte el stock que sumó cada línea.
// Si algún producto ya no tiene stock suficiente para revertir, no se borra nada.
func (uc *UseCase) Delete(ctx context.Context, userID, id string) error {
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		rc, err := repos.Receipts.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if rc == nil {
			return domain.ErrNotFound
		}
		if rc.VerificationStatus {
			return fmt.Errorf("%w: no se puede eliminar un remito verificado", domain.ErrConflict)
		}
		now := time.Now()
		for _, line := range rc.Products {
			p, err := repos.Products.GetForUpdate(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.ErrNotFound
			}
			if p.StockActual.LessThan(line.Quantity) {
				return fmt.Errorf("%w: %s tiene stock %s, el remito sumó %s",
					domain.ErrConflict, p.Name, p.StockActual.String(), line.Quantity.String())
			}
			before := p.StockActual
			p.StockActual = p.StockActual.Sub(line.Quantity)
			if p.StockActual.IsZero() {
				p.Activo = false
			}
			p.UpdatedAt = now
			if err := repos.Products.UpdateStock(ctx, p); err != nil {
				return err
			}
			if err := repos.Movements.Create(ctx, &entity.Movement{
				ID:            uuid.New().String(),
				ProductID:     p.ID,
				Type:          entity.MovementTypeAjuste,
				Quantity:      line.Quantity.Neg(),
				StockBefore:   before,
				StockAfter:    p.StockActual,
				ReferenceType: entity.MovementRefReceipt,
				ReferenceID:   rc.ID,
				UserID:        userID,
				Notes:         "reversión por baja de remito",
				CreatedAt:     now,
			}); err != nil {
				return err
			}
		}
		return repos.Receipts.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("receipt_id", id).Msg("remito eliminado y stock revertido")
	return nil
}
