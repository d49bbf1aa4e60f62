package helpers

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"molding-inventory/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, fiber.StatusNotFound, StatusFor(apperr.NotFound))
	assert.Equal(t, fiber.StatusConflict, StatusFor(apperr.DuplicateKey))
	assert.Equal(t, fiber.StatusForbidden, StatusFor(apperr.Denied))
	assert.Equal(t, fiber.StatusUnprocessableEntity, StatusFor(apperr.ConflictingPartitionFlags))
	assert.Equal(t, fiber.StatusBadRequest, StatusFor(apperr.InvalidInput))
	assert.Equal(t, fiber.StatusServiceUnavailable, StatusFor(apperr.StoreUnavailable))
}

func TestFail(t *testing.T) {
	app := fiber.New()
	app.Get("/dup", func(c *fiber.Ctx) error {
		return Fail(c, apperr.New(apperr.DuplicateKey, "Create", "part number exists"))
	})
	app.Get("/raw", func(c *fiber.Ctx) error {
		return Fail(c, errors.New("connection reset"))
	})
	app.Get("/id/:id", func(c *fiber.Ctx) error {
		id, err := ParamID(c, "id")
		if err != nil {
			return Fail(c, err)
		}
		return OK(c, "ok", id)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/dup", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "duplicate_key", body["error"])
	assert.Equal(t, false, body["success"])

	resp, err = app.Test(httptest.NewRequest("GET", "/raw", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/id/0", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/id/12", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
