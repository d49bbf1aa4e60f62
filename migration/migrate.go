package migration

import (
	"molding-inventory/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Permission{},
		&models.Part{},
		&models.Material{},
		&models.Component{},
		&models.Consumable{},
		&models.Packaging{},
		&models.PartMaterial{},
		&models.PartComponent{},
		&models.PartConsumable{},
		&models.PartPackaging{},
		&models.Mold{},
		&models.MoldCavity{},
		&models.Transaction{},
	)
}
