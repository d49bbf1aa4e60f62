package models

import (
	"time"

	"molding-inventory/types"

	"github.com/shopspring/decimal"
)

// StockItem is the common view of the five catalog kinds that carry stock.
type StockItem interface {
	ItemKind() types.ItemKind
	ItemID() uint
	DisplayName() string
	NaturalKey() string
	Stock() decimal.Decimal
	ReorderLevel() decimal.Decimal
	Unit() string
	Stamp(by *uint, creating bool)
}

// Audit records who created and last edited a catalog record.
type Audit struct {
	CreatedBy *uint `json:"created_by"`
	UpdatedBy *uint `json:"updated_by"`
}

func (a *Audit) Stamp(by *uint, creating bool) {
	if creating {
		a.CreatedBy = by
	}
	a.UpdatedBy = by
}

var (
	_ StockItem = (*Part)(nil)
	_ StockItem = (*Material)(nil)
	_ StockItem = (*Component)(nil)
	_ StockItem = (*Consumable)(nil)
	_ StockItem = (*Packaging)(nil)
)

type Part struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	PartNumber   string         `json:"part_number" gorm:"type:varchar(50);uniqueIndex;not null" validate:"required,max=50"`
	Name         string         `json:"part_name" gorm:"column:part_name;type:varchar(255)" validate:"max=255"`
	Kind         types.PartKind `json:"part_type" gorm:"column:part_type;type:varchar(20);not null" validate:"required,oneof=shoot_ship value_added"`
	Description  string         `json:"description" gorm:"type:text"`
	CurrentStock int            `json:"current_stock" gorm:"not null;default:0" validate:"gte=0"`
	ReorderPoint int            `json:"reorder_point" gorm:"not null;default:0" validate:"gte=0"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Audit
}

func (p *Part) ItemKind() types.ItemKind      { return types.KindPart }
func (p *Part) ItemID() uint                  { return p.ID }
func (p *Part) DisplayName() string           { return p.PartNumber + " " + p.Name }
func (p *Part) NaturalKey() string            { return p.PartNumber }
func (p *Part) Stock() decimal.Decimal        { return decimal.NewFromInt(int64(p.CurrentStock)) }
func (p *Part) ReorderLevel() decimal.Decimal { return decimal.NewFromInt(int64(p.ReorderPoint)) }
func (p *Part) Unit() string                  { return "pcs" }

type Material struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	Name          string          `json:"material_name" gorm:"column:material_name;type:varchar(255);not null" validate:"required,max=255"`
	Type          string          `json:"material_type" gorm:"column:material_type;type:varchar(100)" validate:"max=100"`
	PartNumber    *string         `json:"part_number" gorm:"type:varchar(50);uniqueIndex" validate:"omitempty,max=50"`
	Supplier      string          `json:"supplier" gorm:"type:varchar(255)" validate:"max=255"`
	LeadTimeDays  int             `json:"lead_time_days" validate:"gte=0"`
	CurrentStock  decimal.Decimal `json:"current_stock" gorm:"type:decimal(10,2);not null"`
	ReorderPoint  decimal.Decimal `json:"reorder_point" gorm:"type:decimal(10,2);not null"`
	UnitOfMeasure string          `json:"unit_of_measure" gorm:"type:varchar(20);default:'lbs'" validate:"max=20"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Audit
}

func (m *Material) ItemKind() types.ItemKind { return types.KindMaterial }
func (m *Material) ItemID() uint             { return m.ID }
func (m *Material) DisplayName() string      { return m.Name }
func (m *Material) NaturalKey() string {
	if m.PartNumber == nil {
		return ""
	}
	return *m.PartNumber
}
func (m *Material) Stock() decimal.Decimal        { return m.CurrentStock }
func (m *Material) ReorderLevel() decimal.Decimal { return m.ReorderPoint }
func (m *Material) Unit() string {
	if m.UnitOfMeasure == "" {
		return "lbs"
	}
	return m.UnitOfMeasure
}

type Component struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"component_name" gorm:"column:component_name;type:varchar(255);not null" validate:"required,max=255"`
	Type         string    `json:"component_type" gorm:"column:component_type;type:varchar(100)" validate:"max=100"`
	Supplier     string    `json:"supplier" gorm:"type:varchar(255)" validate:"max=255"`
	LeadTimeDays int       `json:"lead_time_days" validate:"gte=0"`
	CurrentStock int       `json:"current_stock" gorm:"not null;default:0" validate:"gte=0"`
	ReorderPoint int       `json:"reorder_point" gorm:"not null;default:0" validate:"gte=0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Audit
}

func (c *Component) ItemKind() types.ItemKind      { return types.KindComponent }
func (c *Component) ItemID() uint                  { return c.ID }
func (c *Component) DisplayName() string           { return c.Name }
func (c *Component) NaturalKey() string            { return "" }
func (c *Component) Stock() decimal.Decimal        { return decimal.NewFromInt(int64(c.CurrentStock)) }
func (c *Component) ReorderLevel() decimal.Decimal { return decimal.NewFromInt(int64(c.ReorderPoint)) }
func (c *Component) Unit() string                  { return "pcs" }

type Consumable struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"consumable_name" gorm:"column:consumable_name;type:varchar(255);not null" validate:"required,max=255"`
	Type          string    `json:"consumable_type" gorm:"column:consumable_type;type:varchar(100)" validate:"max=100"`
	Supplier      string    `json:"supplier" gorm:"type:varchar(255)" validate:"max=255"`
	LeadTimeDays  int       `json:"lead_time_days" validate:"gte=0"`
	ContainerSize string    `json:"container_size" gorm:"type:varchar(50)" validate:"max=50"`
	CurrentStock  int       `json:"current_stock" gorm:"not null;default:0" validate:"gte=0"`
	ReorderPoint  int       `json:"reorder_point" gorm:"not null;default:0" validate:"gte=0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Audit
}

func (c *Consumable) ItemKind() types.ItemKind      { return types.KindConsumable }
func (c *Consumable) ItemID() uint                  { return c.ID }
func (c *Consumable) DisplayName() string           { return c.Name }
func (c *Consumable) NaturalKey() string            { return "" }
func (c *Consumable) Stock() decimal.Decimal        { return decimal.NewFromInt(int64(c.CurrentStock)) }
func (c *Consumable) ReorderLevel() decimal.Decimal { return decimal.NewFromInt(int64(c.ReorderPoint)) }
func (c *Consumable) Unit() string                  { return "containers" }

// Packaging may point at a parent packaging record (e.g. a tote inside a
// returnable rack). The reference is weak: no cascade either way.
type Packaging struct {
	ID                uint                    `json:"id" gorm:"primaryKey"`
	Name              string                  `json:"packaging_name" gorm:"column:packaging_name;type:varchar(255);not null" validate:"required,max=255"`
	Type              string                  `json:"packaging_type" gorm:"column:packaging_type;type:varchar(100)" validate:"max=100"`
	PartNumber        *string                 `json:"part_number" gorm:"type:varchar(50);uniqueIndex" validate:"omitempty,max=50"`
	Category          types.PackagingCategory `json:"packaging_category" gorm:"column:packaging_category;type:varchar(20);not null;default:'Alternate'" validate:"omitempty,oneof=Returnable Alternate"`
	ParentPackagingID *uint                   `json:"parent_packaging_id" gorm:"index"`
	QPC               int                     `json:"qpc" gorm:"column:qpc;not null;default:0" validate:"gte=0"`
	ContainersPerSkid int                     `json:"containers_per_skid" gorm:"not null;default:0" validate:"gte=0"`
	Supplier          string                  `json:"supplier" gorm:"type:varchar(255)" validate:"max=255"`
	LeadTimeDays      int                     `json:"lead_time_days" validate:"gte=0"`
	CurrentStock      int                     `json:"current_stock" gorm:"not null;default:0" validate:"gte=0"`
	ReorderPoint      int                     `json:"reorder_point" gorm:"not null;default:0" validate:"gte=0"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
	Audit
}

func (Packaging) TableName() string { return "packaging" }

func (p *Packaging) ItemKind() types.ItemKind { return types.KindPackaging }
func (p *Packaging) ItemID() uint             { return p.ID }
func (p *Packaging) DisplayName() string      { return p.Name }
func (p *Packaging) NaturalKey() string {
	if p.PartNumber == nil {
		return ""
	}
	return *p.PartNumber
}
func (p *Packaging) Stock() decimal.Decimal        { return decimal.NewFromInt(int64(p.CurrentStock)) }
func (p *Packaging) ReorderLevel() decimal.Decimal { return decimal.NewFromInt(int64(p.ReorderPoint)) }
func (p *Packaging) Unit() string                  { return "pcs" }

// NewRecord returns an empty record of the given kind, or nil for an
// unknown kind.
func NewRecord(kind types.ItemKind) StockItem {
	switch kind {
	case types.KindPart:
		return &Part{}
	case types.KindMaterial:
		return &Material{}
	case types.KindComponent:
		return &Component{}
	case types.KindConsumable:
		return &Consumable{}
	case types.KindPackaging:
		return &Packaging{}
	default:
		return nil
	}
}

// SetItemID assigns the primary key of a record decoded from a request.
func SetItemID(rec StockItem, id uint) {
	switch r := rec.(type) {
	case *Part:
		r.ID = id
	case *Material:
		r.ID = id
	case *Component:
		r.ID = id
	case *Consumable:
		r.ID = id
	case *Packaging:
		r.ID = id
	}
}
