package database

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"molding-inventory/config"
	"molding-inventory/logger"
	"molding-inventory/migration"
	"molding-inventory/models"
	"molding-inventory/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func TestRunSeedersIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, RunSeeders(db, logger.NewNop()))
	require.NoError(t, RunSeeders(db, logger.NewNop()))

	var n int64
	require.NoError(t, db.Model(&models.Permission{}).Count(&n).Error)
	assert.Equal(t, int64(len(permissionSeeds)), n)
	require.NoError(t, db.Model(&models.User{}).Count(&n).Error)
	assert.Equal(t, int64(len(userSeeds)), n)
	require.NoError(t, db.Model(&models.Part{}).Count(&n).Error)
	assert.Equal(t, int64(2), n)

	var clerk models.User
	require.NoError(t, db.Preload("Permissions").Where("username = ?", "inventory_clerk").First(&clerk).Error)
	assert.True(t, clerk.Active)
	assert.Len(t, clerk.Permissions, 3)
}

func TestSampleCatalogProduction(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, RunSeeders(db, logger.NewNop()))
	svc := services.New(db, services.PermissionGate{}, &config.Config{}, logger.NewNop())
	ctx := context.Background()

	var part models.Part
	require.NoError(t, db.Where("part_number = ?", "20636").First(&part).Error)
	report, err := svc.Molds.ProductionRequirements(ctx, part.ID, 100)
	require.NoError(t, err)
	require.NotNil(t, report.CyclesNeeded)
	assert.Equal(t, int64(25), *report.CyclesNeeded)
	require.Len(t, report.Materials, 1)
	assert.Equal(t, "250", report.Materials[0].Needed.String())
	assert.True(t, report.AllSufficient)

	var base models.Mold
	require.NoError(t, db.Where("mold_number = ?", "20638-BASE").First(&base).Error)
	plan, err := svc.Molds.ShotPlan(ctx, base.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(25), plan.ShotsNeeded)
	assert.Equal(t, "80", plan.MaterialNeeded.String())

	var assembly models.Part
	require.NoError(t, db.Where("part_number = ?", "20638").First(&assembly).Error)
	bom, err := svc.BOM.ListEdges(ctx, assembly.ID)
	require.NoError(t, err)
	assert.Len(t, bom.Components, 1)
	require.Len(t, bom.Consumables, 2)
	assert.Equal(t, "Adhesive Promoter", bom.Consumables[0].Name)
	require.Len(t, bom.Packaging, 1)
	assert.True(t, bom.Packaging[0].PartitionRequired)
}

func TestDialector(t *testing.T) {
	for _, driver := range []string{"postgres", "mysql", "sqlserver", "mssql", "sqlite"} {
		d, err := Dialector(&config.Config{DBDriver: driver, DBHost: "localhost", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "inventory"})
		require.NoError(t, err, driver)
		assert.NotNil(t, d, driver)
	}
	_, err := Dialector(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}
