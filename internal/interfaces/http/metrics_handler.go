package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/restaurant-inventory-api/internal/application/dto"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain"
)

// MetricsProvider lo implementa *analytics.MetricsUseCase.
type MetricsProvider interface {
	GetMetrics(ctx context.Context, tenant domain.Tenant) (*dto.MetricsDTO, error)
}

// MetricsHandler maneja el endpoint de métricas del tablero.
type MetricsHandler struct {
	provider MetricsProvider
}

// NewMetricsHandler construye el handler.
func NewMetricsHandler(provider MetricsProvider) *MetricsHandler {
	return &MetricsHandler{provider: provider}
}

// GetMetrics devuelve totalProducts, lowStock, lowStockItems, highestExit y lowestExit.
// GET /api/metrics
//
// No requiere parámetros. Sin salidas registradas highestExit y lowestExit son {"name": "-", "quantity": 0}.
func (h *MetricsHandler) GetMetrics(c *fiber.Ctx) error {
	m, err := h.provider.GetMetrics(c.Context(), GetTenant(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(m)
}
