package dto

import (
	"time"

	"github.com/jhoicas/restaurant-inventory-api/internal/domain/inventory"
)

// StockMovementsQuery filtros de GET /api/movements (todos opcionales, combinados con AND).
type StockMovementsQuery struct {
	Produto         string `query:"produto"`         // subcadena del nombre del ítem
	Categoria       string `query:"categoria"`       // categoría exacta
	DataInicio      string `query:"dataInicio"`      // fecha inicial inclusiva (entryDate)
	DataFim         string `query:"dataFim"`         // fecha final inclusiva (entryDate)
	Status          string `query:"status"`          // IN | OUT
	Disponibilidade string `query:"disponibilidade"` // In Stock | Low Stock | Out of Stock
	ItemID          int64  `query:"itemId"`
}

// MovementViewDTO fila del reporte de movimientos de stock.
type MovementViewDTO struct {
	ID           int64                  `json:"id"`
	ItemID       int64                  `json:"itemId"`
	ItemName     string                 `json:"itemName"`
	Category     string                 `json:"category"`
	Price        string                 `json:"price"` // "-" si no aplica
	Quantity     int64                  `json:"quantity"`
	Date         time.Time              `json:"date"`        // entryDate
	DisplayDate  string                 `json:"displayDate"` // IN: vencimiento; OUT: fecha de salida
	Destination  string                 `json:"destination"`
	Type         string                 `json:"type"`
	Availability inventory.Availability `json:"availability"`
}

// ExitMetricDTO ítem con mayor o menor salida acumulada.
type ExitMetricDTO struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

// LowStockItemDTO ítem con stock bajo.
type LowStockItemDTO struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

// MetricsDTO respuesta de GET /api/metrics.
type MetricsDTO struct {
	TotalProducts int               `json:"totalProducts"`
	HighestExit   ExitMetricDTO     `json:"highestExit"`
	LowestExit    ExitMetricDTO     `json:"lowestExit"`
	LowStock      int               `json:"lowStock"`
	LowStockItems []LowStockItemDTO `json:"lowStockItems"`
}
