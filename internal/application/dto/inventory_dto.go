package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/movement.
// Quantity se recibe como decimal para poder rechazar valores no enteros.
type RegisterMovementRequest struct {
	ItemID      int64            `json:"itemId" validate:"required,gt=0"`
	Type        string           `json:"type" validate:"required,oneof=IN OUT"`
	Quantity    decimal.Decimal  `json:"quantity"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	InvoiceURL  *string          `json:"invoiceUrl,omitempty" validate:"omitempty,max=2048"`
	OffDate     *string          `json:"offDate,omitempty"`
	Destination *string          `json:"destination,omitempty" validate:"omitempty,oneof=KITCHEN DELIVERY WASTE OTHER"`
}

// MovementResponse movimiento creado.
type MovementResponse struct {
	ID           int64            `json:"id"`
	ItemID       int64            `json:"itemId"`
	RestaurantID string           `json:"restaurantId"`
	Type         string           `json:"type"`
	Quantity     int64            `json:"quantity"`
	EntryDate    time.Time        `json:"entryDate"`
	OffDate      *string          `json:"offDate"`
	Price        *decimal.Decimal `json:"price"`
	InvoiceURL   *string          `json:"invoiceUrl"`
	Destination  *string          `json:"destination"`
}

// CreateItemRequest body para POST /api/add_item.
type CreateItemRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Category string `json:"category" validate:"required"`
	Quantity *int64 `json:"quantity,omitempty" validate:"omitempty,min=0"`
}

// UpdateItemRequest edición de metadatos (nunca la cantidad).
type UpdateItemRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Category *string `json:"category,omitempty"`
}

// ItemQuery filtros de GET /api/inventory_items.
type ItemQuery struct {
	ID       int64  `query:"id"`
	Name     string `query:"name"`
	Category string `query:"category"`
}

// ItemResponse salida de un ítem de inventario.
type ItemResponse struct {
	ID           int64     `json:"id"`
	RestaurantID string    `json:"restaurantId"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Quantity     int64     `json:"quantity"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
