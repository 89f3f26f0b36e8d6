package usecase

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var movementTypes = []string{
	entity.MovementTypeIngreso, entity.MovementTypeEgreso,
	entity.MovementTypeTransferencia, entity.MovementTypeAjuste,
}

// MovementUseCase consulta del historial de movimientos.
type MovementUseCase struct {
	repo repository.MovementRepository
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(repo repository.MovementRepository) *MovementUseCase {
	return &MovementUseCase{repo: repo}
}

// List filtra por producto, tipo y rango de fechas [from, to] (to inclusive por día).
func (uc *MovementUseCase) List(ctx context.Context, q dto.MovementListQuery) ([]dto.MovementResponse, error) {
	q.Normalize()
	if q.Type != "" && !lo.Contains(movementTypes, q.Type) {
		return nil, fmt.Errorf("%w: type debe ser uno de %v", domain.ErrInvalidInput, movementTypes)
	}
	from, err := ParseDate("from", q.From)
	if err != nil {
		return nil, err
	}
	to, err := ParseDate("to", q.To)
	if err != nil {
		return nil, err
	}
	if to != nil {
		end := to.AddDate(0, 0, 1)
		to = &end
	}
	list, err := uc.repo.List(ctx, repository.MovementFilter{
		ProductID: q.ProductID,
		Type:      q.Type,
		From:      from,
		To:        to,
		Limit:     q.Limit,
		Offset:    q.Offset,
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(m *entity.Movement, _ int) dto.MovementResponse { return *inventory.ToMovementResponse(m) }), nil
}
