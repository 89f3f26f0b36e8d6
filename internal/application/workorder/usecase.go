package workorder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// UseCase órdenes de trabajo: pedido de materiales de un proyecto, aprobación y entrega.
type UseCase struct {
	txRunner    repository.TxRunner
	repo        repository.WorkOrderRepository
	projectRepo repository.ProjectRepository
	productRepo repository.ProductRepository
	log         zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner repository.TxRunner,
	repo repository.WorkOrderRepository,
	projectRepo repository.ProjectRepository,
	productRepo repository.ProductRepository,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{txRunner: txRunner, repo: repo, projectRepo: projectRepo, productRepo: productRepo, log: log}
}

// Create registra una orden pendiente. El proyecto debe estar activo y los productos activos.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreateWorkOrderRequest) (*dto.WorkOrderResponse, error) {
	if in.ProjectID == "" || len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: project_id e items son obligatorios", domain.ErrInvalidInput)
	}
	project, err := uc.projectRepo.GetByID(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("%w: proyecto inexistente", domain.ErrInvalidInput)
	}
	if project.Status != entity.ProjectStatusActive {
		return nil, fmt.Errorf("%w: el proyecto está %s", domain.ErrConflict, project.Status)
	}

	now := time.Now()
	wo := &entity.WorkOrder{
		ID:          uuid.New().String(),
		Number:      fmt.Sprintf("OT-%s-%s", now.Format("20060102"), uuid.New().String()[:6]),
		ProjectID:   project.ID,
		RequestedBy: userID,
		Status:      entity.WorkOrderStatusPending,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	seen := map[string]bool{}
	for i, it := range in.Items {
		if !it.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: ítem %d: la cantidad debe ser mayor a cero", domain.ErrInvalidInput, i+1)
		}
		if seen[it.ProductID] {
			return nil, fmt.Errorf("%w: ítem %d: producto repetido", domain.ErrInvalidInput, i+1)
		}
		seen[it.ProductID] = true
		p, err := uc.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: ítem %d: producto inexistente", domain.ErrInvalidInput, i+1)
		}
		if !p.Activo {
			return nil, fmt.Errorf("%w: ítem %d: %s", domain.ErrProductInactive, i+1, p.Name)
		}
		wo.Items = append(wo.Items, entity.WorkOrderItem{
			ID:                uuid.New().String(),
			WorkOrderID:       wo.ID,
			ProductID:         p.ID,
			ProductName:       p.Name,
			QuantityRequested: it.Quantity,
		})
	}
	if err := uc.repo.Create(ctx, wo); err != nil {
		return nil, err
	}
	uc.log.Info().Str("work_order_id", wo.ID).Str("number", wo.Number).Int("items", len(wo.Items)).Msg("orden de trabajo creada")
	return ToResponse(wo), nil
}

// GetByID obtiene una orden de trabajo con sus ítems.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.WorkOrderResponse, error) {
	wo, err := uc.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToResponse(wo), nil
}

// Find devuelve la entidad (para reportes).
func (uc *UseCase) Find(ctx context.Context, id string) (*entity.WorkOrder, error) {
	wo, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wo == nil {
		return nil, domain.ErrNotFound
	}
	return wo, nil
}

// List filtra por proyecto y estado.
func (uc *UseCase) List(ctx context.Context, projectID, status string, page dto.PageRequest) ([]dto.WorkOrderResponse, error) {
	page.Normalize()
	list, err := uc.repo.List(ctx, repository.WorkOrderFilter{ProjectID: projectID, Status: status, Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(w *entity.WorkOrder, _ int) dto.WorkOrderResponse { return *ToResponse(w) }), nil
}

// Approve pendiente → aprobada.
func (uc *UseCase) Approve(ctx context.Context, id string) (*dto.WorkOrderResponse, error) {
	return uc.transition(ctx, id, entity.WorkOrderStatusPending, entity.WorkOrderStatusApproved)
}

// Reject pendiente → rechazada.
func (uc *UseCase) Reject(ctx context.Context, id string) (*dto.WorkOrderResponse, error) {
	return uc.transition(ctx, id, entity.WorkOrderStatusPending, entity.WorkOrderStatusRejected)
}

func (uc *UseCase) transition(ctx context.Context, id, from, to string) (*dto.WorkOrderResponse, error) {
	wo, err := uc.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if wo.Status != from {
		return nil, fmt.Errorf("%w: la orden está %s", domain.ErrConflict, wo.Status)
	}
	if err := uc.repo.UpdateStatus(ctx, id, to); err != nil {
		return nil, err
	}
	wo.Status = to
	uc.log.Info().Str("work_order_id", id).Str("status", to).Msg("orden de trabajo actualizada")
	return ToResponse(wo), nil
}

// Deliver entrega una orden aprobada: egresa cada ítem con las reglas de egreso en una sola
// transacción. Si algún ítem no tiene stock, no se entrega nada.
func (uc *UseCase) Deliver(ctx context.Context, userID, id string) (*dto.WorkOrderResponse, error) {
	var wo *entity.WorkOrder
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		wo, err = repos.WorkOrders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if wo == nil {
			return domain.ErrNotFound
		}
		if wo.Status != entity.WorkOrderStatusApproved {
			return fmt.Errorf("%w: solo se entregan órdenes aprobadas (estado %s)", domain.ErrConflict, wo.Status)
		}
		now := time.Now()
		for i := range wo.Items {
			item := &wo.Items[i]
			if _, err := inventory.EgressInTx(ctx, repos, inventory.EgressInput{
				ProductID:     item.ProductID,
				Quantity:      item.QuantityRequested,
				UserID:        userID,
				Notes:         "entrega " + wo.Number,
				ReferenceType: entity.MovementRefWorkOrder,
				ReferenceID:   wo.ID,
			}, now); err != nil {
				return fmt.Errorf("ítem %s: %w", item.ProductName, err)
			}
			item.QuantityDelivered = item.QuantityRequested
			if err := repos.WorkOrders.UpdateItemDelivered(ctx, item); err != nil {
				return err
			}
		}
		wo.Status = entity.WorkOrderStatusDelivered
		return repos.WorkOrders.UpdateStatus(ctx, id, wo.Status)
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("work_order_id", id).Msg("entrega rechazada")
		return nil, err
	}
	uc.log.Info().Str("work_order_id", id).Msg("orden de trabajo entregada")
	return ToResponse(wo), nil
}

// Delete elimina una orden que no fue entregada.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	wo, err := uc.Find(ctx, id)
	if err != nil {
		return err
	}
	if wo.Status == entity.WorkOrderStatusDelivered {
		return fmt.Errorf("%w: la orden ya fue entregada", domain.ErrConflict)
	}
	return uc.repo.Delete(ctx, id)
}

// ToResponse mapea la entidad a DTO.
func ToResponse(w *entity.WorkOrder) *dto.WorkOrderResponse {
	return &dto.WorkOrderResponse{
		ID:          w.ID,
		Number:      w.Number,
		ProjectID:   w.ProjectID,
		RequestedBy: w.RequestedBy,
		Status:      w.Status,
		Notes:       w.Notes,
		Items: lo.Map(w.Items, func(it entity.WorkOrderItem, _ int) dto.WorkOrderItemResponse {
			return dto.WorkOrderItemResponse{
				ID:                it.ID,
				ProductID:         it.ProductID,
				ProductName:       it.ProductName,
				QuantityRequested: it.QuantityRequested,
				QuantityDelivered: it.QuantityDelivered,
			}
		}),
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
