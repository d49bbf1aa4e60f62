package config

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := FromViper(newViper())

	assert.Equal(t, "/api/v1", cfg.MainRoutes)
	assert.Equal(t, 86400, cfg.JWTExpiration)
	assert.Equal(t, int64(1), cfg.SnowflakeNode)
	assert.Empty(t, cfg.ReorderMailTo)
	assert.True(t, cfg.AllowedOrigins["http://127.0.0.1:3000"])
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("REORDER_MAIL_TO", "buyer@example.com, , planner@example.com")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SMTP_PORT", "2525")

	cfg := FromViper(newViper())

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, []string{"buyer@example.com", "planner@example.com"}, cfg.ReorderMailTo)
	assert.Equal(t, 2525, cfg.SMTPPort)
	assert.True(t, cfg.AllowedOrigins["https://b.example"])
	assert.False(t, cfg.AllowedOrigins["http://127.0.0.1:3000"])
}

func TestSetupCORS(t *testing.T) {
	cfg := &Config{AllowedOrigins: map[string]bool{"https://ok.example": true}}
	app := fiber.New()
	SetupCORS(app, cfg)
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://ok.example")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "https://ok.example", resp.Header.Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("OPTIONS", "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}
