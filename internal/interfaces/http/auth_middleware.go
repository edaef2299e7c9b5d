package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/restaurant-inventory-api/internal/domain"
	"github.com/jhoicas/restaurant-inventory-api/pkg/jwt"
)

// Locals keys para la identidad del usuario en Fiber.
const (
	LocalUserID       = "user_id"
	LocalRestaurantID = "restaurant_id"
	LocalRole         = "role"
)

// AuthMiddleware valida el Bearer Token JWT y deja UserID, RestaurantID y Role en c.Locals.
// Un token sin restaurante no sirve para operar el inventario: responde 401.
func AuthMiddleware(jwtSecret, issuer string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fail(c, fiber.StatusUnauthorized, CodeMissingToken, "Authorization header requerido")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fail(c, fiber.StatusUnauthorized, CodeInvalidToken, "formato: Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return fail(c, fiber.StatusUnauthorized, CodeMissingToken, "token vacío")
		}
		claims, err := jwt.Parse(jwtSecret, issuer, tokenString)
		if err != nil {
			return fail(c, fiber.StatusUnauthorized, CodeInvalidToken, "token inválido o expirado")
		}
		if strings.TrimSpace(claims.RestaurantID) == "" {
			return fail(c, fiber.StatusUnauthorized, CodeUnauthorized, "el token no indica restaurante")
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalRestaurantID, claims.RestaurantID)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// GetTenant devuelve la identidad del contexto (después del middleware de auth).
func GetTenant(c *fiber.Ctx) domain.Tenant {
	return domain.Tenant{
		RestaurantID: localString(c, LocalRestaurantID),
		UserID:       localString(c, LocalUserID),
		Role:         localString(c, LocalRole),
	}
}

func localString(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}
