package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/report"
	"github.com/jhoicas/almacen-api/internal/application/workorder"
)

// WorkOrderHandler pedidos internos de materiales: alta, aprobación y entrega.
type WorkOrderHandler struct {
	uc      *workorder.UseCase
	reports *report.UseCase
}

func NewWorkOrderHandler(uc *workorder.UseCase, reports *report.UseCase) *WorkOrderHandler {
	return &WorkOrderHandler{uc: uc, reports: reports}
}

// Create godoc
// @Summary      Crear orden de trabajo
// @Tags         work-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWorkOrderRequest  true  "project_id, items"
// @Success      201   {object}  dto.WorkOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/work-orders [post]
func (h *WorkOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWorkOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// @Summary  Listar órdenes de trabajo
// @Tags     work-orders
// @Security Bearer
// @Param    project_id  query  string  false  "Proyecto"
// @Param    status      query  string  false  "pendiente | aprobada | entregada | rechazada"
// @Success  200  {array}  dto.WorkOrderResponse
// @Router   /api/work-orders [get]
func (h *WorkOrderHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Query("project_id"), c.Query("status"), page(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// @Summary  Obtener orden de trabajo
// @Tags     work-orders
// @Security Bearer
// @Param    id   path  string  true  "ID de la orden"
// @Success  200  {object}  dto.WorkOrderResponse
// @Router   /api/work-orders/{id} [get]
func (h *WorkOrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// @Summary  Aprobar orden de trabajo
// @Tags     work-orders
// @Security Bearer
// @Param    id   path  string  true  "ID de la orden"
// @Success  200  {object}  dto.WorkOrderResponse
// @Failure  409  {object}  dto.ErrorResponse
// @Router   /api/work-orders/{id}/approve [post]
func (h *WorkOrderHandler) Approve(c *fiber.Ctx) error {
	out, err := h.uc.Approve(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// @Summary  Rechazar orden de trabajo
// @Tags     work-orders
// @Security Bearer
// @Param    id   path  string  true  "ID de la orden"
// @Success  200  {object}  dto.WorkOrderResponse
// @Failure  409  {object}  dto.ErrorResponse
// @Router   /api/work-orders/{id}/reject [post]
func (h *WorkOrderHandler) Reject(c *fiber.Ctx) error {
	out, err := h.uc.Reject(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Deliver godoc
// @Summary      Entregar materiales
// @Description  Egresa cada ítem en una sola transacción; si falta stock en cualquier línea no se descuenta nada.
// @Tags         work-orders
// @Security     Bearer
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.WorkOrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id}/deliver [post]
func (h *WorkOrderHandler) Deliver(c *fiber.Ctx) error {
	out, err := h.uc.Deliver(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// @Summary  Eliminar orden de trabajo (no entregada)
// @Tags     work-orders
// @Security Bearer
// @Param    id  path  string  true  "ID de la orden"
// @Success  204
// @Router   /api/work-orders/{id} [delete]
func (h *WorkOrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// @Summary  Orden de trabajo en PDF
// @Tags     work-orders
// @Security Bearer
// @Produce  application/pdf
// @Param    id  path  string  true  "ID de la orden"
// @Success  200
// @Router   /api/work-orders/{id}/pdf [get]
func (h *WorkOrderHandler) PDF(c *fiber.Ctx) error {
	pdf, err := h.reports.WorkOrderPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, pdf, "orden-trabajo-"+c.Params("id")+".pdf")
}
