package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/report"
)

// ReportHandler reporte de inventario en JSON y PDF.
type ReportHandler struct {
	uc *report.UseCase
}

func NewReportHandler(uc *report.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

func inventoryQuery(c *fiber.Ctx) dto.InventoryReportQuery {
	return dto.InventoryReportQuery{
		Search:          c.Query("search"),
		Location:        c.Query("location"),
		LowStock:        c.QueryBool("low_stock"),
		IncludeInactive: c.QueryBool("include_inactive"),
	}
}

// Inventory godoc
// @Summary      Reporte de inventario
// @Description  Stock valorizado por producto; los filtros se resuelven en SQL.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        search            query  string  false  "Nombre o código"
// @Param        location          query  string  false  "Ubicación exacta"
// @Param        low_stock         query  bool    false  "Solo bajo stock mínimo"
// @Param        include_inactive  query  bool    false  "Incluir inactivos"
// @Success      200  {object}  dto.InventoryReport
// @Router       /api/reports/inventory [get]
func (h *ReportHandler) Inventory(c *fiber.Ctx) error {
	out, err := h.uc.Inventory(c.UserContext(), inventoryQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// @Summary  Reporte de inventario en PDF
// @Tags     reports
// @Security Bearer
// @Produce  application/pdf
// @Success  200
// @Router   /api/reports/inventory/pdf [get]
func (h *ReportHandler) InventoryPDF(c *fiber.Ctx) error {
	pdf, err := h.uc.InventoryPDF(c.UserContext(), inventoryQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, pdf, "inventario.pdf")
}
