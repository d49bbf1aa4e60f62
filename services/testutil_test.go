package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"molding-inventory/config"
	"molding-inventory/logger"
	"molding-inventory/migration"
	"molding-inventory/models"
	"molding-inventory/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	admin  = types.UserActor(1, "admin", types.RoleAdmin)
	viewer = types.UserActor(2, "viewer", types.RoleUser, types.CapViewInventory)
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migration.Migrate(db))
	return db
}

func newTestServices(t *testing.T) (*Services, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)
	return New(db, PermissionGate{}, &config.Config{}, logger.NewNop()), db
}

func mustCreate[T models.StockItem](t *testing.T, svc *Services, rec T) T {
	t.Helper()
	_, err := svc.Catalog.Create(context.Background(), admin, rec)
	require.NoError(t, err)
	return rec
}

func mustMold(t *testing.T, svc *Services, number string, cavities int, shotSize string) *models.Mold {
	t.Helper()
	m, err := svc.Molds.CreateMold(context.Background(), admin, &models.Mold{
		MoldNumber:    number,
		TotalCavities: cavities,
		ShotSize:      decimal.RequireFromString(shotSize),
	})
	require.NoError(t, err)
	return m
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
