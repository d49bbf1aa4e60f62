package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Mold struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	MoldNumber    string          `json:"mold_number" gorm:"type:varchar(50);uniqueIndex;not null" validate:"required,max=50"`
	TotalCavities int             `json:"total_cavities" gorm:"not null"`
	ShotSize      decimal.Decimal `json:"shot_size" gorm:"type:decimal(8,4);not null"`
	ShotSizeUnit  string          `json:"shot_size_unit" gorm:"type:varchar(10);default:'lbs'" validate:"max=10"`
	Notes         string          `json:"notes" gorm:"type:text"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// MoldCavity assigns one slot of a mold to a part.
type MoldCavity struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	MoldID       uint      `json:"mold_id" gorm:"not null;uniqueIndex:unique_cavity,priority:1"`
	CavityNumber int       `json:"cavity_number" gorm:"not null;uniqueIndex:unique_cavity,priority:2"`
	PartID       uint      `json:"part_id" gorm:"not null;index"`
	PartsPerShot int       `json:"parts_per_shot" gorm:"not null;default:1"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (MoldCavity) TableName() string { return "mold_cavities" }
