package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/restaurant-inventory-api/internal/application/dto"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain"
)

// Códigos de error expuestos en el cuerpo {status, code, error}.
const (
	CodeValidation        = "VALIDATION"
	CodeInvalidBody       = "INVALID_BODY"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeUnavailable       = "UNAVAILABLE"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeMissingToken      = "MISSING_TOKEN"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodeInternal          = "INTERNAL"
)

func fail(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Status: status, Code: code, Error: msg})
}

// writeError traduce un error de dominio a su respuesta HTTP.
// Los errores no clasificados no exponen su detalle.
func writeError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return fail(c, fiber.StatusBadRequest, CodeValidation, verr.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return fail(c, fiber.StatusBadRequest, CodeValidation, "datos inválidos")
	case errors.Is(err, domain.ErrNotFound):
		return fail(c, fiber.StatusNotFound, CodeNotFound, "ítem no encontrado")
	case errors.Is(err, domain.ErrInsufficientStock):
		return fail(c, fiber.StatusConflict, CodeInsufficientStock, domain.ErrInsufficientStock.Error())
	case errors.Is(err, domain.ErrDuplicate):
		return fail(c, fiber.StatusConflict, CodeConflict, "ya existe un ítem con ese nombre")
	case errors.Is(err, domain.ErrConflict):
		return fail(c, fiber.StatusConflict, CodeConflict, "conflicto con el estado actual")
	case domain.IsTransient(err):
		return fail(c, fiber.StatusServiceUnavailable, CodeUnavailable, "servicio no disponible, reintente")
	case errors.Is(err, domain.ErrUnauthorized):
		return fail(c, fiber.StatusUnauthorized, CodeUnauthorized, "token sin restaurante")
	}
	requestLogger(c).Error().Err(err).Msg("error no controlado")
	return fail(c, fiber.StatusInternalServerError, CodeInternal, "error interno")
}

// NewValidator validador de DTOs que reporta los campos con su nombre JSON.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationFailed responde 400 con los campos que no pasaron las reglas del validador.
func validationFailed(c *fiber.Ctx, err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fail(c, fiber.StatusBadRequest, CodeValidation, err.Error())
	}
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		parts = append(parts, fe.Field()+": "+fe.Tag())
	}
	return fail(c, fiber.StatusBadRequest, CodeValidation, strings.Join(parts, "; "))
}

// ErrorHandler manejador de errores de Fiber (rutas inexistentes, body demasiado grande, panics recuperados).
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := strings.ToUpper(strings.ReplaceAll(utils.StatusMessage(fe.Code), " ", "_"))
		return fail(c, fe.Code, code, fe.Message)
	}
	return writeError(c, err)
}
