package domain

import "strings"

// Tenant identidad del llamador entregada por el middleware de autenticación.
// Toda lectura y escritura queda acotada a RestaurantID.
type Tenant struct {
	RestaurantID string
	UserID       string
	Role         string
}

// Validate exige al menos el restaurante.
func (t Tenant) Validate() error {
	if strings.TrimSpace(t.RestaurantID) == "" {
		return ErrUnauthorized
	}
	return nil
}
