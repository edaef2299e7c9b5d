package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento de inventario.
type MovementType string

// Tipos de movimiento de inventario.
const (
	MovementTypeIN  MovementType = "IN"  // entrada
	MovementTypeOUT MovementType = "OUT" // salida
)

// Valid indica si el tipo es IN u OUT.
func (t MovementType) Valid() bool {
	return t == MovementTypeIN || t == MovementTypeOUT
}

// Destination destino de una salida.
type Destination string

// Destinos válidos para salidas (OUT).
const (
	DestinationKitchen  Destination = "KITCHEN"
	DestinationDelivery Destination = "DELIVERY"
	DestinationWaste    Destination = "WASTE"
	DestinationOther    Destination = "OTHER"
)

// Valid indica si el destino pertenece al conjunto cerrado.
func (d Destination) Valid() bool {
	switch d {
	case DestinationKitchen, DestinationDelivery, DestinationWaste, DestinationOther:
		return true
	}
	return false
}

// Movement es un asiento inmutable del libro de movimientos (entrada o salida).
// Quantity siempre es positiva; el signo lo da Type.
type Movement struct {
	ID           int64
	ItemID       int64
	RestaurantID string
	Type         MovementType
	Quantity     int64
	EntryDate    time.Time        // asignada por el servidor al crear el registro
	OffDate      *time.Time       // IN: vencimiento (nil = no perecible); OUT: fecha de salida
	Price        *decimal.Decimal // solo IN
	InvoiceURL   *string          // solo IN
	Destination  *Destination     // solo OUT
	CreatedBy    string
}

// Delta devuelve la variación con signo que el movimiento aplica al stock.
func (m *Movement) Delta() int64 {
	if m.Type == MovementTypeOUT {
		return -m.Quantity
	}
	return m.Quantity
}
