package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/receipt"
	"github.com/jhoicas/almacen-api/internal/application/report"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ReceiptHandler remitos: alta manual, ingesta de archivos, consulta, estado, baja y PDF.
type ReceiptHandler struct {
	uc      *receipt.UseCase
	reports *report.UseCase
	metrics *Metrics
}

// NewReceiptHandler construye el handler.
func NewReceiptHandler(uc *receipt.UseCase, reports *report.UseCase, metrics *Metrics) *ReceiptHandler {
	return &ReceiptHandler{uc: uc, reports: reports, metrics: metrics}
}

// Create godoc
// @Summary      Registrar remito
// @Description  Crea el remito y sus líneas en una transacción: concilia o crea productos, suma stock y registra movimientos de ingreso.
// @Tags         receipts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReceiptRequest  true  "warehouse_id, entry_date, products"
// @Success      201   {object}  dto.CreateReceiptResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/receipts [post]
func (h *ReceiptHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	h.metrics.receiptCreated(entity.ReceiptSourceManual, out.ProductsCreated)
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Upload godoc
// @Summary      Registrar remito desde archivo (PDF, CSV, imagen)
// @Tags         receipts
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file          formData  file    true   "Remito"
// @Param        warehouse_id  formData  string  false  "Almacén (pisa lo extraído)"
// @Param        entry_date    formData  string  false  "Fecha de ingreso"
// @Param        order_id      formData  string  false  "Orden de compra"
// @Param        status        formData  string  false  "Pending | Verified | Rejected"
// @Success      201  {object}  dto.CreateReceiptResponse
// @Failure      413  {object}  dto.ErrorResponse
// @Failure      415  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/receipts/upload [post]
func (h *ReceiptHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "el campo file es requerido"})
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, err)
	}
	defer f.Close()

	out, err := h.uc.IngestFile(c.UserContext(), GetUserID(c),
		receipt.Upload{Filename: fh.Filename, Size: fh.Size, Content: f},
		receipt.UploadFields{
			WarehouseID: c.FormValue("warehouse_id"),
			EntryDate:   c.FormValue("entry_date"),
			OrderID:     c.FormValue("order_id"),
			Status:      c.FormValue("status"),
		},
	)
	if err != nil {
		return writeError(c, err)
	}
	h.metrics.receiptCreated(out.Receipt.Source, out.ProductsCreated)
	return c.Status(fiber.StatusCreated).JSON(out)
}

// @Summary  Listar remitos
// @Tags     receipts
// @Security Bearer
// @Param    warehouse_id  query  string  false  "Almacén"
// @Param    status        query  string  false  "Pending | Verified | Rejected"
// @Success  200  {array}  dto.ReceiptResponse
// @Router   /api/receipts [get]
func (h *ReceiptHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Query("warehouse_id"), c.Query("status"), page(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// @Summary  Obtener remito con sus líneas
// @Tags     receipts
// @Security Bearer
// @Param    id   path  string  true  "ID del remito"
// @Success  200  {object}  dto.ReceiptResponse
// @Router   /api/receipts/{id} [get]
func (h *ReceiptHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado del remito
// @Description  Verified marca verification_status=true y es definitivo.
// @Tags         receipts
// @Security     Bearer
// @Param        id    path  string                          true  "ID del remito"
// @Param        body  body  dto.UpdateReceiptStatusRequest  true  "status"
// @Success      200   {object}  dto.ReceiptResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/receipts/{id}/status [patch]
func (h *ReceiptHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateReceiptStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), c.Params("id"), in.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Anular remito no verificado
// @Description  Revierte el stock ingresado por cada línea y registra movimientos de ajuste.
// @Tags         receipts
// @Security     Bearer
// @Param        id  path  string  true  "ID del remito"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/receipts/{id} [delete]
func (h *ReceiptHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// @Summary  Remito en PDF
// @Tags     receipts
// @Security Bearer
// @Produce  application/pdf
// @Param    id  path  string  true  "ID del remito"
// @Success  200
// @Router   /api/receipts/{id}/pdf [get]
func (h *ReceiptHandler) PDF(c *fiber.Ctx) error {
	pdf, err := h.reports.ReceiptPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, pdf, "remito-"+c.Params("id")+".pdf")
}
