package http

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/restaurant-inventory-api/internal/application/dto"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain"
)

// MovementRegistrar registra movimientos (lo implementa *inventory.RegisterMovementUseCase).
type MovementRegistrar interface {
	RegisterMovementFromRequest(ctx context.Context, tenant domain.Tenant, in dto.RegisterMovementRequest) (*dto.MovementResponse, error)
}

// MovementReporter arma el reporte de movimientos (lo implementa *analytics.ReportUseCase).
type MovementReporter interface {
	ListStockMovements(ctx context.Context, tenant domain.Tenant, q dto.StockMovementsQuery) ([]dto.MovementViewDTO, error)
}

// InventoryHandler maneja las peticiones HTTP de movimientos (protegido).
type InventoryHandler struct {
	registrar MovementRegistrar
	reporter  MovementReporter
	validate  *validator.Validate
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(registrar MovementRegistrar, reporter MovementReporter, validate *validator.Validate) *InventoryHandler {
	return &InventoryHandler{registrar: registrar, reporter: reporter, validate: validate}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  IN suma y OUT resta a la cantidad del ítem. Una salida mayor al stock se rechaza con 409.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "itemId, type, quantity; price, invoiceUrl y offDate para IN; destination y offDate para OUT"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/movement [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, CodeInvalidBody, "cuerpo inválido")
	}
	if err := h.validate.Struct(in); err != nil {
		return validationFailed(c, err)
	}
	out, err := h.registrar.RegisterMovementFromRequest(c.Context(), GetTenant(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Reporte de movimientos de stock
// @Description  Filtros opcionales combinados con AND. Las fechas aplican sobre la fecha de registro.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        produto          query  string  false  "subcadena del nombre del ítem"
// @Param        categoria        query  string  false  "categoría del ítem"
// @Param        dataInicio       query  string  false  "YYYY-MM-DD o RFC3339 (inclusive)"
// @Param        dataFim          query  string  false  "YYYY-MM-DD (día completo) o RFC3339 (inclusive)"
// @Param        status           query  string  false  "IN | OUT"
// @Param        disponibilidade  query  string  false  "In Stock | Low Stock | Out of Stock"
// @Param        itemId           query  int     false  "solo movimientos del ítem"
// @Success      200  {array}   dto.MovementViewDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var q dto.StockMovementsQuery
	if err := c.QueryParser(&q); err != nil {
		return fail(c, fiber.StatusBadRequest, CodeValidation, "parámetros de consulta inválidos")
	}
	return h.list(c, q)
}

// ListItemMovements godoc
// @Summary      Movimientos de un ítem
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del ítem"
// @Success      200  {array}   dto.MovementViewDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory_items/{id}/movements [get]
func (h *InventoryHandler) ListItemMovements(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fail(c, fiber.StatusBadRequest, CodeValidation, "id: inválido")
	}
	var q dto.StockMovementsQuery
	if err := c.QueryParser(&q); err != nil {
		return fail(c, fiber.StatusBadRequest, CodeValidation, "parámetros de consulta inválidos")
	}
	q.ItemID = int64(id)
	return h.list(c, q)
}

func (h *InventoryHandler) list(c *fiber.Ctx, q dto.StockMovementsQuery) error {
	views, err := h.reporter.ListStockMovements(c.Context(), GetTenant(c), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(views)
}
