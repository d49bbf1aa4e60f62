package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"molding-inventory/config"
	"molding-inventory/logger"
	"molding-inventory/models"
	"molding-inventory/services"
	"molding-inventory/types"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*fiber.App, *AuthMiddleware) {
	t.Helper()
	auth := NewAuthMiddleware(&config.Config{JWTSecret: "secret", JWTExpiration: 60}, services.PermissionGate{}, logger.NewNop())
	app := fiber.New()
	app.Get("/count", auth.Authenticate, auth.CheckPermission(types.CapUpdateInventory), func(c *fiber.Ctx) error {
		return c.SendString(Actor(c).Username)
	})
	return app, auth
}

func TestAuthenticateAndCheckPermission(t *testing.T) {
	app, auth := newTestApp(t)

	clerk := models.User{ID: 7, Username: "clerk", Role: types.RoleUser, Permissions: []models.Permission{{Name: string(types.CapUpdateInventory)}}}
	token, sessionID, err := auth.IssueToken(clerk)
	require.NoError(t, err)
	assert.NotEmpty(t, sessionID)

	req := httptest.NewRequest(http.MethodGet, "/count", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	viewer := models.User{ID: 8, Username: "viewer", Role: types.RoleUser}
	token, _, err = auth.IssueToken(viewer)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/count", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAuthenticateRejects(t *testing.T) {
	app, _ := newTestApp(t)
	other := NewAuthMiddleware(&config.Config{JWTSecret: "other", JWTExpiration: 60}, services.PermissionGate{}, logger.NewNop())
	forged, _, err := other.IssueToken(models.User{ID: 1, Username: "admin", Role: types.RoleAdmin})
	require.NoError(t, err)

	for _, header := range []string{"", "Token abc", "Bearer " + forged} {
		req := httptest.NewRequest(http.MethodGet, "/count", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, header)
	}
}
