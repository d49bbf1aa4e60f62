package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuantityPerPart on a material edge is the weight consumed per production
// cycle of the part.
type PartMaterial struct {
	PartID          uint            `json:"part_id" gorm:"primaryKey;autoIncrement:false"`
	MaterialID      uint            `json:"material_id" gorm:"primaryKey;autoIncrement:false;index"`
	QuantityPerPart decimal.Decimal `json:"quantity_per_part" gorm:"type:decimal(10,4);not null"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type PartComponent struct {
	PartID          uint      `json:"part_id" gorm:"primaryKey;autoIncrement:false"`
	ComponentID     uint      `json:"component_id" gorm:"primaryKey;autoIncrement:false;index"`
	QuantityPerPart int       `json:"quantity_per_part" gorm:"not null"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type PartConsumable struct {
	PartID          uint      `json:"part_id" gorm:"primaryKey;autoIncrement:false"`
	ConsumableID    uint      `json:"consumable_id" gorm:"primaryKey;autoIncrement:false;index"`
	Required        bool      `json:"required" gorm:"not null"`
	ApplicationStep int       `json:"application_step" gorm:"not null"`
	Notes           string    `json:"notes" gorm:"type:text"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PartPackaging carries at most one of the two partition flags.
type PartPackaging struct {
	PartID            uint      `json:"part_id" gorm:"primaryKey;autoIncrement:false"`
	PackagingID       uint      `json:"packaging_id" gorm:"primaryKey;autoIncrement:false;index"`
	QuantityPerPart   int       `json:"quantity_per_part" gorm:"not null;default:1"`
	PartitionRequired bool      `json:"partition_required" gorm:"not null"`
	BuiltInPartitions bool      `json:"built_in_partitions" gorm:"not null"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (PartPackaging) TableName() string { return "part_packaging" }
