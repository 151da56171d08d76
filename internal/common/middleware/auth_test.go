package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"interior-planner/internal/common/token"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedApp(tokens *token.Manager) *fiber.App {
	app := fiber.New()
	app.Get("/me", Auth(tokens), func(c fiber.Ctx) error {
		return c.SendString(Claims(c).UserID)
	})
	app.Get("/admin", Auth(tokens), AdminOnly(), func(c fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	tokens := token.NewManager("secret", time.Hour)
	app := newProtectedApp(tokens)

	userToken, err := tokens.Issue("user-1", "user")
	require.NoError(t, err)
	adminToken, err := tokens.Issue("admin-1", token.RoleAdmin)
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"no header", "/me", "", http.StatusUnauthorized},
		{"not bearer", "/me", "Basic abc", http.StatusUnauthorized},
		{"bad token", "/me", "Bearer nope", http.StatusUnauthorized},
		{"valid", "/me", "Bearer " + userToken, http.StatusOK},
		{"user on admin route", "/admin", "Bearer " + userToken, http.StatusForbidden},
		{"admin on admin route", "/admin", "Bearer " + adminToken, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
