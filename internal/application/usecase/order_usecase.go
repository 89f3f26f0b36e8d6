package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// OrderUseCase órdenes de compra: alta con totales calculados, edición en estado pendiente y flujo de estados.
type OrderUseCase struct {
	repo        repository.OrderRepository
	productRepo repository.ProductRepository
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(repo repository.OrderRepository, productRepo repository.ProductRepository) *OrderUseCase {
	return &OrderUseCase{repo: repo, productRepo: productRepo}
}

// Create crea una orden pendiente.
func (uc *OrderUseCase) Create(ctx context.Context, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	order := &entity.Order{
		ID:        uuid.New().String(),
		Status:    entity.OrderStatusPending,
		CreatedBy: userID,
	}
	if err := uc.apply(ctx, order, in); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByNumber(ctx, order.OrderNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	if err := uc.repo.Create(ctx, order); err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// Update reemplaza cabecera e ítems. Solo órdenes pendientes.
func (uc *OrderUseCase) Update(ctx context.Context, id string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	order, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.Status != entity.OrderStatusPending {
		return nil, fmt.Errorf("%w: solo se editan órdenes pendientes", domain.ErrConflict)
	}
	prevNumber := order.OrderNumber
	if err := uc.apply(ctx, order, in); err != nil {
		return nil, err
	}
	if order.OrderNumber != prevNumber {
		other, err := uc.repo.GetByNumber(ctx, order.OrderNumber)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, domain.ErrDuplicate
		}
	}
	order.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, order); err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// apply valida la entrada y vuelca cabecera, ítems y total sobre order.
func (uc *OrderUseCase) apply(ctx context.Context, order *entity.Order, in dto.CreateOrderRequest) error {
	in.OrderNumber = strings.TrimSpace(in.OrderNumber)
	in.Supplier = strings.TrimSpace(in.Supplier)
	if in.OrderNumber == "" || in.Supplier == "" {
		return fmt.Errorf("%w: order_number y supplier son obligatorios", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: la orden debe tener al menos un ítem", domain.ErrInvalidInput)
	}
	orderDate, err := ParseDate("order_date", in.OrderDate)
	if err != nil {
		return err
	}
	if orderDate == nil {
		now := time.Now().Truncate(24 * time.Hour)
		orderDate = &now
	}
	expected, err := ParseDate("expected_date", in.ExpectedDate)
	if err != nil {
		return err
	}
	if expected != nil && expected.Before(*orderDate) {
		return fmt.Errorf("%w: expected_date anterior a order_date", domain.ErrInvalidInput)
	}

	items := make([]entity.OrderItem, 0, len(in.Items))
	total := decimal.Zero
	for i, it := range in.Items {
		if !it.Quantity.IsPositive() || it.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: ítem %d: cantidad debe ser positiva y precio no negativo", domain.ErrInvalidInput, i+1)
		}
		desc := strings.TrimSpace(it.Description)
		if it.ProductID != "" {
			p, err := uc.productRepo.GetByID(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("%w: ítem %d: producto inexistente", domain.ErrInvalidInput, i+1)
			}
			if desc == "" {
				desc = p.Name
			}
		}
		if desc == "" {
			return fmt.Errorf("%w: ítem %d: description o product_id obligatorio", domain.ErrInvalidInput, i+1)
		}
		subtotal := it.Quantity.Mul(it.UnitPrice)
		total = total.Add(subtotal)
		items = append(items, entity.OrderItem{
			ID:          uuid.New().String(),
			OrderID:     order.ID,
			ProductID:   it.ProductID,
			Description: desc,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    subtotal,
		})
	}

	order.OrderNumber = in.OrderNumber
	order.Supplier = in.Supplier
	order.OrderDate = *orderDate
	order.ExpectedDate = expected
	order.Notes = in.Notes
	order.Items = items
	order.Total = total
	return nil
}

// GetByID obtiene una orden con sus ítems.
func (uc *OrderUseCase) GetByID(ctx context.Context, id string) (*dto.OrderResponse, error) {
	order, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return toOrderResponse(order), nil
}

// List lista órdenes, opcionalmente por estado.
func (uc *OrderUseCase) List(ctx context.Context, status string, page dto.PageRequest) ([]dto.OrderResponse, error) {
	page.Normalize()
	list, err := uc.repo.List(ctx, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(o *entity.Order, _ int) dto.OrderResponse { return *toOrderResponse(o) }), nil
}

// UpdateStatus aplica una transición válida de estado.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, id, status string) (*dto.OrderResponse, error) {
	order, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if !order.CanTransition(status) {
		return nil, fmt.Errorf("%w: transición %s → %s no permitida", domain.ErrConflict, order.Status, status)
	}
	if err := uc.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	order.Status = status
	return toOrderResponse(order), nil
}

// Delete elimina una orden pendiente o cancelada.
func (uc *OrderUseCase) Delete(ctx context.Context, id string) error {
	order, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrNotFound
	}
	if order.Status != entity.OrderStatusPending && order.Status != entity.OrderStatusCancelled {
		return fmt.Errorf("%w: la orden está %s", domain.ErrConflict, order.Status)
	}
	return uc.repo.Delete(ctx, id)
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	return &dto.OrderResponse{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		Supplier:     o.Supplier,
		OrderDate:    o.OrderDate,
		ExpectedDate: o.ExpectedDate,
		Status:       o.Status,
		Notes:        o.Notes,
		Total:        o.Total,
		CreatedBy:    o.CreatedBy,
		Items: lo.Map(o.Items, func(it entity.OrderItem, _ int) dto.OrderItemResponse {
			return dto.OrderItemResponse{
				ID:          it.ID,
				ProductID:   it.ProductID,
				Description: it.Description,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
				Subtotal:    it.Subtotal,
			}
		}),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
