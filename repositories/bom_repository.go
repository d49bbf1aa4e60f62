package repositories

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"molding-inventory/logger"
	"molding-inventory/models"
	"molding-inventory/types"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BOMRepository struct {
	DB  *gorm.DB
	log *logger.Logger
}

func NewBOMRepository(DB *gorm.DB, log *logger.Logger) *BOMRepository {
	return &BOMRepository{DB: DB, log: log.With("repo", "BOMRepository")}
}

type MaterialLine struct {
	MaterialID      uint            `json:"material_id"`
	PartNumber      *string         `json:"part_number"`
	Name            string          `json:"material_name"`
	Type            string          `json:"material_type"`
	QuantityPerPart decimal.Decimal `json:"quantity_per_part"`
	CurrentStock    decimal.Decimal `json:"current_stock"`
	UnitOfMeasure   string          `json:"unit_of_measure"`
}

type ComponentLine struct {
	ComponentID     uint   `json:"component_id"`
	Name            string `json:"component_name"`
	Type            string `json:"component_type"`
	QuantityPerPart int    `json:"quantity_per_part"`
	CurrentStock    int    `json:"current_stock"`
}

type ConsumableLine struct {
	ConsumableID    uint   `json:"consumable_id"`
	Name            string `json:"consumable_name"`
	Type            string `json:"consumable_type"`
	ContainerSize   string `json:"container_size"`
	Required        bool   `json:"required"`
	ApplicationStep int    `json:"application_step"`
	Notes           string `json:"notes"`
	CurrentStock    int    `json:"current_stock"`
}

type PackagingLine struct {
	PackagingID       uint                    `json:"packaging_id"`
	PartNumber        *string                 `json:"part_number"`
	Name              string                  `json:"packaging_name"`
	Category          types.PackagingCategory `json:"packaging_category"`
	QPC               int                     `json:"qpc" gorm:"column:qpc"`
	ContainersPerSkid int                     `json:"containers_per_skid"`
	ParentPackagingID *uint                   `json:"parent_packaging_id"`
	ParentName        *string                 `json:"parent_name"`
	QuantityPerPart   int                     `json:"quantity_per_part"`
	PartitionRequired bool                    `json:"partition_required"`
	BuiltInPartitions bool                    `json:"built_in_partitions"`
	CurrentStock      int                     `json:"current_stock"`
}

func (r *BOMRepository) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx == nil {
		tx = r.DB
	}
	return tx.WithContext(ctx)
}

func upsert(cols []string, updates ...string) clause.OnConflict {
	conflict := make([]clause.Column, len(cols))
	for i, c := range cols {
		conflict[i] = clause.Column{Name: c}
	}
	return clause.OnConflict{
		Columns:   conflict,
		DoUpdates: clause.AssignmentColumns(append(updates, "updated_at")),
	}
}

func (r *BOMRepository) UpsertMaterial(ctx context.Context, tx *gorm.DB, e *models.PartMaterial) error {
	return r.conn(ctx, tx).
		Clauses(upsert([]string{"part_id", "material_id"}, "quantity_per_part")).
		Create(e).Error
}

func (r *BOMRepository) UpsertComponent(ctx context.Context, tx *gorm.DB, e *models.PartComponent) error {
	return r.conn(ctx, tx).
		Clauses(upsert([]string{"part_id", "component_id"}, "quantity_per_part")).
		Create(e).Error
}

func (r *BOMRepository) UpsertConsumable(ctx context.Context, tx *gorm.DB, e *models.PartConsumable) error {
	return r.conn(ctx, tx).
		Clauses(upsert([]string{"part_id", "consumable_id"}, "required", "application_step", "notes")).
		Create(e).Error
}

func (r *BOMRepository) UpsertPackaging(ctx context.Context, tx *gorm.DB, e *models.PartPackaging) error {
	return r.conn(ctx, tx).
		Clauses(upsert([]string{"part_id", "packaging_id"}, "quantity_per_part", "partition_required", "built_in_partitions")).
		Create(e).Error
}

// edgeTable returns the edge model and target column for a BOM target kind.
func edgeTable(kind types.ItemKind) (any, string, error) {
	switch kind {
	case types.KindMaterial:
		return &models.PartMaterial{}, "material_id", nil
	case types.KindComponent:
		return &models.PartComponent{}, "component_id", nil
	case types.KindConsumable:
		return &models.PartConsumable{}, "consumable_id", nil
	case types.KindPackaging:
		return &models.PartPackaging{}, "packaging_id", nil
	default:
		return nil, "", fmt.Errorf("%q is not a BOM target kind", kind)
	}
}

func (r *BOMRepository) RemoveEdge(ctx context.Context, tx *gorm.DB, kind types.ItemKind, partID, targetID uint) (int64, error) {
	model, col, err := edgeTable(kind)
	if err != nil {
		return 0, err
	}
	res := r.conn(ctx, tx).Where("part_id = ? AND "+col+" = ?", partID, targetID).Delete(model)
	return res.RowsAffected, res.Error
}

// DeleteForPart removes every edge owned by a part.
func (r *BOMRepository) DeleteForPart(ctx context.Context, tx *gorm.DB, partID uint) error {
	db := r.conn(ctx, tx)
	for _, kind := range []types.ItemKind{types.KindMaterial, types.KindComponent, types.KindConsumable, types.KindPackaging} {
		model, _, _ := edgeTable(kind)
		if err := db.Where("part_id = ?", partID).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// CountPartitionedEdges counts the packaging edges to packagingID that carry
// either partition flag.
func (r *BOMRepository) CountPartitionedEdges(ctx context.Context, tx *gorm.DB, packagingID uint) (int64, error) {
	var n int64
	err := r.conn(ctx, tx).Model(&models.PartPackaging{}).
		Where("packaging_id = ? AND (partition_required = ? OR built_in_partitions = ?)", packagingID, true, true).
		Count(&n).Error
	return n, err
}

// DeleteForTarget removes every edge pointing at a catalog record.
func (r *BOMRepository) DeleteForTarget(ctx context.Context, tx *gorm.DB, kind types.ItemKind, targetID uint) error {
	model, col, err := edgeTable(kind)
	if err != nil {
		return err
	}
	return r.conn(ctx, tx).Where(col+" = ?", targetID).Delete(model).Error
}

func (r *BOMRepository) Materials(ctx context.Context, tx *gorm.DB, partID uint) ([]MaterialLine, error) {
	var lines []MaterialLine
	err := r.conn(ctx, tx).Table("part_materials").
		Select("part_materials.material_id, materials.part_number, materials.material_name AS name, " +
			"materials.material_type AS type, part_materials.quantity_per_part, materials.current_stock, materials.unit_of_measure").
		Joins("JOIN materials ON materials.id = part_materials.material_id").
		Where("part_materials.part_id = ?", partID).
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(lines, func(a, b MaterialLine) int {
		return cmp.Or(cmp.Compare(deref(a.PartNumber), deref(b.PartNumber)), cmp.Compare(a.Name, b.Name))
	})
	return lines, nil
}

func (r *BOMRepository) Components(ctx context.Context, tx *gorm.DB, partID uint) ([]ComponentLine, error) {
	var lines []ComponentLine
	err := r.conn(ctx, tx).Table("part_components").
		Select("part_components.component_id, components.component_name AS name, components.component_type AS type, " +
			"part_components.quantity_per_part, components.current_stock").
		Joins("JOIN components ON components.id = part_components.component_id").
		Where("part_components.part_id = ?", partID).
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(lines, func(a, b ComponentLine) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return lines, nil
}

func (r *BOMRepository) Consumables(ctx context.Context, tx *gorm.DB, partID uint) ([]ConsumableLine, error) {
	var lines []ConsumableLine
	err := r.conn(ctx, tx).Table("part_consumables").
		Select("part_consumables.consumable_id, consumables.consumable_name AS name, consumables.consumable_type AS type, " +
			"consumables.container_size, part_consumables.required, part_consumables.application_step, " +
			"part_consumables.notes, consumables.current_stock").
		Joins("JOIN consumables ON consumables.id = part_consumables.consumable_id").
		Where("part_consumables.part_id = ?", partID).
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(lines, func(a, b ConsumableLine) int {
		return cmp.Or(cmp.Compare(a.ApplicationStep, b.ApplicationStep), cmp.Compare(a.Name, b.Name))
	})
	return lines, nil
}

func (r *BOMRepository) Packaging(ctx context.Context, tx *gorm.DB, partID uint) ([]PackagingLine, error) {
	var lines []PackagingLine
	err := r.conn(ctx, tx).Table("part_packaging").
		Select("part_packaging.packaging_id, packaging.part_number, packaging.packaging_name AS name, " +
			"packaging.packaging_category AS category, packaging.qpc, packaging.containers_per_skid, " +
			"packaging.parent_packaging_id, parent.packaging_name AS parent_name, part_packaging.quantity_per_part, " +
			"part_packaging.partition_required, part_packaging.built_in_partitions, packaging.current_stock").
		Joins("JOIN packaging ON packaging.id = part_packaging.packaging_id").
		Joins("LEFT JOIN packaging parent ON parent.id = packaging.parent_packaging_id").
		Where("part_packaging.part_id = ?", partID).
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(lines, func(a, b PackagingLine) int {
		return cmp.Or(
			cmp.Compare(a.Category, b.Category),
			cmp.Compare(deref(a.PartNumber), deref(b.PartNumber)),
			cmp.Compare(a.Name, b.Name),
		)
	})
	return lines, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
