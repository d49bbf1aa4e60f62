package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"molding-inventory/config"
	"molding-inventory/database"
	"molding-inventory/logger"
	"molding-inventory/migration"
	"molding-inventory/models"
	"molding-inventory/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	app *fiber.App
	db  *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migration.Migrate(db))
	require.NoError(t, database.RunSeeders(db, logger.NewNop()))

	cfg := &config.Config{MainRoutes: "/api/v1", JWTSecret: "test-secret", JWTExpiration: 3600}
	gate := services.PermissionGate{}
	log := logger.NewNop()
	app := fiber.New()
	Setup(app, cfg, db, services.New(db, gate, cfg, log), gate, log)
	return &testServer{app: app, db: db}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.send(t, req)
}

func (s *testServer) send(t *testing.T, req *http.Request) (int, envelope) {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp.StatusCode, env
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.AccessToken)
	return out.AccessToken
}

func (s *testServer) partID(t *testing.T, number string) uint {
	t.Helper()
	var part models.Part
	require.NoError(t, s.db.Where("part_number = ?", number).First(&part).Error)
	return part.ID
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)

	token := s.login(t, "admin", "admin123")
	status, env := s.do(t, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"admin"`)

	status, _ = s.do(t, http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = s.do(t, http.MethodGet, "/auth/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestClerkPermissions(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "inventory_clerk", "clerk123")

	status, env := s.do(t, http.MethodGet, "/catalog/materials?low_stock=false", token, nil)
	require.Equal(t, http.StatusOK, status)
	var materials []models.Material
	require.NoError(t, json.Unmarshal(env.Data, &materials))
	require.Len(t, materials, 3)

	status, env = s.do(t, http.MethodPost, "/inventory/count", token, map[string]any{
		"type": "material", "item_id": materials[0].ID, "quantity": "42.5", "notes": "cycle count",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)

	status, env = s.do(t, http.MethodPost, "/molds", token, map[string]any{"mold_number": "M-9", "total_cavities": 2, "shot_size": "1"})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(t, http.MethodPost, "/catalog/materials", token, map[string]any{"material_name": "Nylon"})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(t, http.MethodGet, fmt.Sprintf("/inventory/history/material/%d", materials[0].ID), token, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestCatalogAndBOMFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "supervisor", "super123")
	partID := s.partID(t, "20638")

	status, env := s.do(t, http.MethodPost, "/catalog/components", token, map[string]any{
		"component_name": "Threaded Insert", "current_stock": 30, "reorder_point": 10,
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var comp models.Component
	require.NoError(t, json.Unmarshal(env.Data, &comp))

	status, env = s.do(t, http.MethodPut, fmt.Sprintf("/parts/%d/bom/component/%d", partID, comp.ID), token, map[string]any{"quantity": 1.5})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "invalid_quantity", env.Error)

	status, _ = s.do(t, http.MethodPut, fmt.Sprintf("/parts/%d/bom/component/%d", partID, comp.ID), token, map[string]any{"quantity": 2})
	require.Equal(t, http.StatusOK, status)

	status, env = s.do(t, http.MethodPost, fmt.Sprintf("/parts/%d/bom/new", partID), token, map[string]any{
		"type":     "packaging",
		"record":   map[string]any{"packaging_name": "Steel Rack", "packaging_category": "Returnable"},
		"quantity": 1,
		"meta":     map[string]any{"built_in_partitions": true},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "invalid_for_category", env.Error)

	status, env = s.do(t, http.MethodGet, fmt.Sprintf("/parts/%d/bom", partID), token, nil)
	require.Equal(t, http.StatusOK, status)
	var bom services.BOM
	require.NoError(t, json.Unmarshal(env.Data, &bom))
	assert.Len(t, bom.Components, 2)
	assert.Len(t, bom.Packaging, 1)

	status, _ = s.do(t, http.MethodPost, "/catalog/components", token, map[string]any{"component_name": ""})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodGet, "/catalog/widgets", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestDeletesAreIdempotent(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "admin", "admin123")
	partID := s.partID(t, "20636")

	var comp models.Component
	require.NoError(t, s.db.Where("component_name = ?", "Gasket Seal").First(&comp).Error)
	status, env := s.do(t, http.MethodPut, fmt.Sprintf("/parts/%d/bom/component/%d", partID, comp.ID), token, map[string]any{"quantity": 1})
	require.Equal(t, http.StatusOK, status, env.Message)

	var mold models.Mold
	require.NoError(t, s.db.Where("mold_number = ?", "20636").First(&mold).Error)

	paths := []string{
		fmt.Sprintf("/parts/%d/bom/component/%d", partID, comp.ID),
		fmt.Sprintf("/molds/%d/cavities/1", mold.ID),
	}
	for _, path := range paths {
		status, env = s.do(t, http.MethodDelete, path, token, nil)
		require.Equal(t, http.StatusOK, status, path)
		assert.JSONEq(t, `{"removed":true}`, string(env.Data), path)

		status, env = s.do(t, http.MethodDelete, path, token, nil)
		require.Equal(t, http.StatusOK, status, path)
		assert.True(t, env.Success, path)
		assert.JSONEq(t, `{"removed":false}`, string(env.Data), path)
	}
}

func TestProductionAndMolds(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "admin", "admin123")
	partID := s.partID(t, "20636")

	status, env := s.do(t, http.MethodGet, fmt.Sprintf("/production/%d?target=100", partID), token, nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	var report services.RequirementReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	require.NotNil(t, report.CyclesNeeded)
	assert.Equal(t, int64(25), *report.CyclesNeeded)

	status, _ = s.do(t, http.MethodGet, fmt.Sprintf("/production/%d?target=0", partID), token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	var mold models.Mold
	require.NoError(t, s.db.Where("mold_number = ?", "20636").First(&mold).Error)
	status, env = s.do(t, http.MethodPut, fmt.Sprintf("/molds/%d/cavities/5", mold.ID), token, map[string]any{"part_id": partID})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "invalid_cavity_index", env.Error)

	status, env = s.do(t, http.MethodGet, fmt.Sprintf("/molds/%d/max-parts?material=26", mold.ID), token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"max_parts":40`)
}

func TestInventoryImport(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "admin", "admin123")

	var comp models.Component
	require.NoError(t, s.db.Where("component_name = ?", "Gasket Seal").First(&comp).Error)

	wb, err := services.BuildInventoryWorkbook([]models.StockItem{&comp})
	require.NoError(t, err)
	require.NoError(t, wb.SetCellValue(services.InventorySheet, "H2", 180))
	var file bytes.Buffer
	require.NoError(t, wb.Write(&file))

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", "count.xlsx")
	require.NoError(t, err)
	_, err = part.Write(file.Bytes())
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/import", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	status, env := s.send(t, req)
	require.Equal(t, http.StatusOK, status, env.Message)

	var result services.BatchResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.Len(t, result.Recorded, 1)
	assert.Empty(t, result.Failed)

	require.NoError(t, s.db.First(&comp, comp.ID).Error)
	assert.Equal(t, 180, comp.CurrentStock)
}

func TestReorderList(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "supervisor", "super123")

	var pkg models.Packaging
	require.NoError(t, s.db.Where("packaging_name = ?", "Protective Insert").First(&pkg).Error)
	status, env := s.do(t, http.MethodPost, "/inventory/batch", token, map[string]any{
		"items": []map[string]any{{"type": "packaging", "item_id": pkg.ID, "quantity": 0}},
	})
	require.Equal(t, http.StatusOK, status)
	var batch services.BatchResult
	require.NoError(t, json.Unmarshal(env.Data, &batch))

	status, env = s.do(t, http.MethodGet, "/inventory/batch/"+batch.BatchID, token, nil)
	require.Equal(t, http.StatusOK, status)
	var rows []models.Transaction
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, pkg.ID, rows[0].ItemID)

	status, env = s.do(t, http.MethodGet, "/inventory/recent?limit=1", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, pkg.ID, rows[0].ItemID)

	status, env = s.do(t, http.MethodGet, "/reorder", token, nil)
	require.Equal(t, http.StatusOK, status)
	var out struct {
		Items []services.ReorderItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.Items)
	assert.Equal(t, "Protective Insert", out.Items[0].Name)
	assert.Equal(t, services.UrgencyCritical, out.Items[0].Urgency)

	status, env = s.do(t, http.MethodPost, "/reorder/notify", token, nil)
	assert.Equal(t, http.StatusBadRequest, status, env.Message)
}
