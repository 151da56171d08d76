package middleware

import (
	"net/http"
	"strings"

	"interior-planner/internal/common/token"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Auth Middleware
// ============================================================

const claimsKey = "claims"

// Auth проверяет Bearer-токен и кладёт claims в Locals.
func Auth(tokens *token.Manager) fiber.Handler {
	return func(c fiber.Ctx) error {
		header := c.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
		}
		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// AdminOnly пропускает только администраторов. Ставится после Auth.
func AdminOnly() fiber.Handler {
	return func(c fiber.Ctx) error {
		claims := Claims(c)
		if claims == nil || !claims.IsAdmin() {
			return c.Status(http.StatusForbidden).JSON(fiber.Map{"error": "admin only"})
		}
		return c.Next()
	}
}

// Claims возвращает claims текущего запроса или nil.
func Claims(c fiber.Ctx) *token.Claims {
	claims, _ := c.Locals(claimsKey).(*token.Claims)
	return claims
}
