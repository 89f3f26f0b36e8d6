package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
)

// ProjectHandler proyectos (obras) a los que se imputan las órdenes de trabajo.
type ProjectHandler struct {
	uc *usecase.ProjectUseCase
}

func NewProjectHandler(uc *usecase.ProjectUseCase) *ProjectHandler {
	return &ProjectHandler{uc: uc}
}

// @Summary  Crear proyecto
// @Tags     projects
// @Security Bearer
// @Param    body  body  dto.ProjectRequest  true  "Datos del proyecto"
// @Success  201   {object}  dto.ProjectResponse
// @Router   /api/projects [post]
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	var in dto.ProjectRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// @Summary  Listar proyectos
// @Tags     projects
// @Security Bearer
// @Param    status  query  string  false  "activo | pausado | cerrado"
// @Success  200  {array}  dto.ProjectResponse
// @Router   /api/projects [get]
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Query("status"), page(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// @Summary  Obtener proyecto
// @Tags     projects
// @Security Bearer
// @Param    id   path  string  true  "ID del proyecto"
// @Success  200  {object}  dto.ProjectResponse
// @Router   /api/projects/{id} [get]
func (h *ProjectHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// @Summary  Actualizar proyecto
// @Tags     projects
// @Security Bearer
// @Param    id    path  string              true  "ID del proyecto"
// @Param    body  body  dto.ProjectRequest  true  "Datos del proyecto"
// @Success  200   {object}  dto.ProjectResponse
// @Router   /api/projects/{id} [put]
func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	var in dto.ProjectRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// @Summary  Eliminar proyecto
// @Tags     projects
// @Security Bearer
// @Param    id  path  string  true  "ID del proyecto"
// @Success  204
// @Failure  409  {object}  dto.ErrorResponse
// @Router   /api/projects/{id} [delete]
func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
