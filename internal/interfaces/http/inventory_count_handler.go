package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/myshop-api/internal/application/counting"
	"github.com/jhoicas/myshop-api/internal/application/dto"
)

// InventoryCountHandler maneja los conteos físicos de inventario (protegido).
type InventoryCountHandler struct {
	uc *counting.InventoryCountUseCase
}

// NewInventoryCountHandler construye el handler.
func NewInventoryCountHandler(uc *counting.InventoryCountUseCase) *InventoryCountHandler {
	return &InventoryCountHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar conteo de inventario
// @Description  Ajusta la existencia de cada ítem contado a la cantidad física.
// @Tags         inventory-counts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInventoryCountRequest  true  "Ítems contados"
// @Success      201   {object}  dto.InventoryCountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory-counts [post]
func (h *InventoryCountHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInventoryCountRequest
	if e := bindJSON(c, &in); e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener conteo
// @Tags         inventory-counts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del conteo"
// @Success      200  {object}  dto.InventoryCountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory-counts/{id} [get]
func (h *InventoryCountHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "conteo no encontrado")
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar conteos (más recientes primero)
// @Tags         inventory-counts
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.InventoryCountListResponse
// @Router       /api/inventory-counts [get]
func (h *InventoryCountHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.List(c.UserContext(), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Hoja de conteo en PDF
// @Tags         inventory-counts
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del conteo"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory-counts/{id}/pdf [get]
func (h *InventoryCountHandler) PDF(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	data, filename, err := h.uc.PDF(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(data)
}
