package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"insightx/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newProtectedApp(m *auth.JWTManager) *fiber.App {
	app := fiber.New()
	app.Get("/admin", AdminOnly(m, zap.NewNop()), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("username").(string))
	})
	return app
}

func TestAdminOnly(t *testing.T) {
	m := auth.NewJWTManager("secret", time.Hour)
	app := newProtectedApp(m)

	admin, err := m.GenerateToken("ops", auth.RoleAdmin)
	require.NoError(t, err)
	viewer, err := m.GenerateToken("guest", "viewer")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
		{"wrong role", "Bearer " + viewer, http.StatusForbidden},
		{"admin", "Bearer " + admin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
