package http

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/restaurant-inventory-api/internal/application/dto"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain"
)

// ItemService casos de uso de ítems (lo implementa *inventory.ItemUseCase).
type ItemService interface {
	AddItem(ctx context.Context, tenant domain.Tenant, in dto.CreateItemRequest) (*dto.ItemResponse, error)
	GetByID(ctx context.Context, tenant domain.Tenant, id int64) (*dto.ItemResponse, error)
	List(ctx context.Context, tenant domain.Tenant, q dto.ItemQuery) ([]dto.ItemResponse, error)
	UpdateMeta(ctx context.Context, tenant domain.Tenant, id int64, in dto.UpdateItemRequest) (*dto.ItemResponse, error)
}

// ItemHandler maneja las peticiones HTTP de ítems de inventario (protegido).
type ItemHandler struct {
	svc      ItemService
	validate *validator.Validate
}

// NewItemHandler construye el handler.
func NewItemHandler(svc ItemService, validate *validator.Validate) *ItemHandler {
	return &ItemHandler{svc: svc, validate: validate}
}

// Create godoc
// @Summary      Crear ítem de inventario
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "name, category, quantity inicial opcional"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/add_item [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, CodeInvalidBody, "cuerpo inválido")
	}
	if err := h.validate.Struct(in); err != nil {
		return validationFailed(c, err)
	}
	out, err := h.svc.AddItem(c.Context(), GetTenant(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar ítems de inventario
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id        query  int     false  "ID exacto"
// @Param        name      query  string  false  "subcadena del nombre"
// @Param        category  query  string  false  "categoría"
// @Success      200  {array}   dto.ItemResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory_items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	var q dto.ItemQuery
	if err := c.QueryParser(&q); err != nil {
		return fail(c, fiber.StatusBadRequest, CodeValidation, "parámetros de consulta inválidos")
	}
	list, err := h.svc.List(c.Context(), GetTenant(c), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Obtener ítem por ID
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del ítem"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory_items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fail(c, fiber.StatusBadRequest, CodeValidation, "id: inválido")
	}
	out, err := h.svc.GetByID(c.Context(), GetTenant(c), int64(id))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar nombre o categoría de un ítem
// @Description  La cantidad no se edita: solo cambia mediante movimientos.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                    true  "ID del ítem"
// @Param        body  body  dto.UpdateItemRequest  true  "name y/o category"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory_items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fail(c, fiber.StatusBadRequest, CodeValidation, "id: inválido")
	}
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, CodeInvalidBody, "cuerpo inválido")
	}
	if err := h.validate.Struct(in); err != nil {
		return validationFailed(c, err)
	}
	out, err := h.svc.UpdateMeta(c.Context(), GetTenant(c), int64(id), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
