package database

import (
	"errors"

	"molding-inventory/logger"
	"molding-inventory/models"
	"molding-inventory/types"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var permissionSeeds = []models.Permission{
	{Name: string(types.CapViewInventory), Description: "View current stock levels and inventory data", Category: "inventory"},
	{Name: string(types.CapUpdateInventory), Description: "Perform physical counts and inventory adjustments", Category: "inventory"},
	{Name: string(types.CapManageMaterials), Description: "Add/edit raw materials", Category: "inventory"},
	{Name: string(types.CapManageComponents), Description: "Add/edit components", Category: "inventory"},
	{Name: string(types.CapManageConsumables), Description: "Add/edit consumables", Category: "inventory"},
	{Name: string(types.CapManagePackaging), Description: "Add/edit packaging materials", Category: "inventory"},
	{Name: string(types.CapViewParts), Description: "View parts information and BOMs", Category: "parts"},
	{Name: string(types.CapManageParts), Description: "Add/edit parts and their specifications", Category: "parts"},
	{Name: string(types.CapViewMolds), Description: "View mold information", Category: "production"},
	{Name: string(types.CapManageMolds), Description: "Add/edit mold specifications", Category: "production"},
	{Name: string(types.CapProductionPlanning), Description: "Access production calculation tools", Category: "production"},
	{Name: string(types.CapViewBOM), Description: "View bills of materials", Category: "parts"},
	{Name: string(types.CapManageBOM), Description: "Create/edit bills of materials", Category: "parts"},
	{Name: string(types.CapViewReports), Description: "Access inventory status and reports", Category: "reporting"},
	{Name: string(types.CapReorderManagement), Description: "View and manage reorder lists", Category: "reporting"},
	{Name: string(types.CapExportData), Description: "Export reports and data", Category: "reporting"},
	{Name: string(types.CapViewTransactions), Description: "View inventory transaction history", Category: "reporting"},
	{Name: string(types.CapAdminPanel), Description: "Access user administration", Category: "system"},
	{Name: string(types.CapSystemSettings), Description: "Modify system configuration", Category: "system"},
}

type userSeed struct {
	Username string
	Password string
	FullName string
	Role     string
	Perms    []types.Capability
}

var userSeeds = []userSeed{
	{Username: "admin", Password: "admin123", FullName: "System Administrator", Role: types.RoleAdmin},
	{
		Username: "inventory_clerk", Password: "clerk123", FullName: "Inventory Clerk", Role: types.RoleUser,
		Perms: []types.Capability{types.CapViewInventory, types.CapUpdateInventory, types.CapReorderManagement},
	},
	{
		Username: "supervisor", Password: "super123", FullName: "Production Supervisor", Role: types.RoleUser,
		Perms: []types.Capability{
			types.CapViewInventory, types.CapUpdateInventory, types.CapManageMaterials, types.CapManageComponents,
			types.CapManageConsumables, types.CapManagePackaging, types.CapViewParts, types.CapManageParts,
			types.CapViewMolds, types.CapManageMolds, types.CapProductionPlanning, types.CapViewBOM,
			types.CapManageBOM, types.CapViewReports, types.CapReorderManagement, types.CapExportData,
			types.CapViewTransactions,
		},
	},
}

func RunSeeders(db *gorm.DB, log *logger.Logger) error {
	steps := []struct {
		name string
		fn   func(*gorm.DB) error
	}{
		{"permissions", SeedPermissions},
		{"users", SeedUsers},
		{"catalog", SeedSampleCatalog},
	}
	for _, s := range steps {
		if err := s.fn(db); err != nil {
			log.Error("Seeder failed", "seeder", s.name, "error", err)
			return err
		}
	}
	log.Info("Seeders completed")
	return nil
}

func SeedPermissions(db *gorm.DB) error {
	for _, p := range permissionSeeds {
		var existing models.Permission
		err := db.Where("permission_name = ?", p.Name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&p).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}

func SeedUsers(db *gorm.DB) error {
	for _, u := range userSeeds {
		var existing models.User
		err := db.Where("username = ?", u.Username).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		var perms []models.Permission
		if len(u.Perms) > 0 {
			if err := db.Where("permission_name IN ?", u.Perms).Find(&perms).Error; err != nil {
				return err
			}
		}

		user := models.User{
			Username:    u.Username,
			Password:    string(hash),
			FullName:    u.FullName,
			Role:        u.Role,
			Active:      true,
			Permissions: perms,
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedSampleCatalog loads a small demo catalog. Skipped entirely once any
// part exists so operator data is never touched.
func SeedSampleCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Part{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		materials := []models.Material{
			{Name: "PA66 Black Resin", Type: "Resin", Supplier: "DuPont", LeadTimeDays: 14, CurrentStock: decimal.NewFromInt(500), UnitOfMeasure: "lbs", ReorderPoint: decimal.NewFromInt(100)},
			{Name: "PP Natural Resin", Type: "Resin", Supplier: "ExxonMobil", LeadTimeDays: 10, CurrentStock: decimal.NewFromInt(750), UnitOfMeasure: "lbs", ReorderPoint: decimal.NewFromInt(150)},
			{Name: "Black Colorant", Type: "Colorant", Supplier: "Clariant", LeadTimeDays: 7, CurrentStock: decimal.RequireFromString("25.50"), UnitOfMeasure: "lbs", ReorderPoint: decimal.NewFromInt(5)},
		}
		parts := []models.Part{
			{PartNumber: "20636", Name: "Base Component", Kind: types.PartShootShip, Description: "Injection molded base part", ReorderPoint: 100, CurrentStock: 250},
			{PartNumber: "20638", Name: "Complete Assembly", Kind: types.PartValueAdded, Description: "Assembled part with components", ReorderPoint: 50, CurrentStock: 75},
		}
		molds := []models.Mold{
			{MoldNumber: "20636", TotalCavities: 4, ShotSize: decimal.RequireFromString("2.5"), ShotSizeUnit: "lbs", Notes: "Standard 4-cavity mold"},
			{MoldNumber: "20638-BASE", TotalCavities: 2, ShotSize: decimal.RequireFromString("3.2"), ShotSizeUnit: "lbs", Notes: "2-cavity mold for base part"},
		}
		components := []models.Component{
			{Name: "Hardware Kit A", Type: "Hardware", Supplier: "Fastener Co", LeadTimeDays: 5, CurrentStock: 150, ReorderPoint: 25},
			{Name: "Gasket Seal", Type: "Gasket", Supplier: "Seal Tech", LeadTimeDays: 10, CurrentStock: 200, ReorderPoint: 50},
		}
		consumables := []models.Consumable{
			{Name: "Adhesive Promoter", Type: "Promoter", Supplier: "Henkel", LeadTimeDays: 14, CurrentStock: 3, ContainerSize: "1 gallon", ReorderPoint: 1},
			{Name: "Assembly Adhesive", Type: "Adhesive", Supplier: "3M", LeadTimeDays: 7, CurrentStock: 5, ContainerSize: "32 oz", ReorderPoint: 2},
		}
		packaging := []models.Packaging{
			{Name: "Shipping Box Large", Type: "Box", Category: types.PackagingAlternate, Supplier: "PackCorp", LeadTimeDays: 3, CurrentStock: 100, ReorderPoint: 20},
			{Name: "Protective Insert", Type: "Insert", Category: types.PackagingAlternate, Supplier: "FoamTech", LeadTimeDays: 5, CurrentStock: 50, ReorderPoint: 10},
		}

		for _, batch := range []any{&materials, &parts, &molds, &components, &consumables, &packaging} {
			if err := tx.Create(batch).Error; err != nil {
				return err
			}
		}

		// 20636 runs in its own 4-cavity mold, one part per cavity.
		for i := 1; i <= molds[0].TotalCavities; i++ {
			cavity := models.MoldCavity{MoldID: molds[0].ID, CavityNumber: i, PartID: parts[0].ID, PartsPerShot: 1}
			if err := tx.Create(&cavity).Error; err != nil {
				return err
			}
		}

		edges := []any{
			&models.PartMaterial{PartID: parts[0].ID, MaterialID: materials[0].ID, QuantityPerPart: decimal.RequireFromString("2.5")},
			&models.PartComponent{PartID: parts[1].ID, ComponentID: components[0].ID, QuantityPerPart: 1},
			&models.PartConsumable{PartID: parts[1].ID, ConsumableID: consumables[0].ID, Required: true, ApplicationStep: 1},
			&models.PartConsumable{PartID: parts[1].ID, ConsumableID: consumables[1].ID, Required: true, ApplicationStep: 2},
			&models.PartPackaging{PartID: parts[1].ID, PackagingID: packaging[0].ID, QuantityPerPart: 1, PartitionRequired: true},
		}
		for _, e := range edges {
			if err := tx.Create(e).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
