package repositories

import (
	"context"
	"fmt"

	"molding-inventory/logger"
	"molding-inventory/models"
	"molding-inventory/types"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CatalogRepository struct {
	DB  *gorm.DB
	log *logger.Logger
}

func NewCatalogRepository(DB *gorm.DB, log *logger.Logger) *CatalogRepository {
	return &CatalogRepository{DB: DB, log: log.With("repo", "CatalogRepository")}
}

// ListFilter narrows a catalog listing. Zero value lists everything.
type ListFilter struct {
	Search       string
	LowStockOnly bool
	Limit        int
	Offset       int
}

func (r *CatalogRepository) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx == nil {
		tx = r.DB
	}
	return tx.WithContext(ctx)
}

// nameColumn is the display-name column of each kind's table.
func nameColumn(kind types.ItemKind) (string, error) {
	switch kind {
	case types.KindPart:
		return "part_name", nil
	case types.KindMaterial:
		return "material_name", nil
	case types.KindComponent:
		return "component_name", nil
	case types.KindConsumable:
		return "consumable_name", nil
	case types.KindPackaging:
		return "packaging_name", nil
	default:
		return "", fmt.Errorf("unknown item kind %q", kind)
	}
}

func orderFor(kind types.ItemKind) string {
	switch kind {
	case types.KindPart:
		return "part_number ASC"
	case types.KindPackaging:
		return "packaging_category ASC, packaging_name ASC"
	default:
		col, _ := nameColumn(kind)
		return col + " ASC"
	}
}

func newRecord(kind types.ItemKind) (models.StockItem, error) {
	rec := models.NewRecord(kind)
	if rec == nil {
		return nil, fmt.Errorf("unknown item kind %q", kind)
	}
	return rec, nil
}

func (r *CatalogRepository) Get(ctx context.Context, tx *gorm.DB, kind types.ItemKind, id uint) (models.StockItem, error) {
	rec, err := newRecord(kind)
	if err != nil {
		return nil, err
	}
	if err := r.conn(ctx, tx).First(rec, id).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *CatalogRepository) Exists(ctx context.Context, tx *gorm.DB, kind types.ItemKind, id uint) (bool, error) {
	rec, err := newRecord(kind)
	if err != nil {
		return false, err
	}
	var count int64
	if err := r.conn(ctx, tx).Model(rec).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByNaturalKey looks up parts, materials and packaging by part number.
// Kinds without a natural key always report gorm.ErrRecordNotFound.
func (r *CatalogRepository) FindByNaturalKey(ctx context.Context, tx *gorm.DB, kind types.ItemKind, key string) (models.StockItem, error) {
	switch kind {
	case types.KindPart, types.KindMaterial, types.KindPackaging:
	default:
		return nil, gorm.ErrRecordNotFound
	}
	rec, err := newRecord(kind)
	if err != nil {
		return nil, err
	}
	if err := r.conn(ctx, tx).Where("part_number = ?", key).First(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *CatalogRepository) Create(ctx context.Context, tx *gorm.DB, rec models.StockItem) error {
	return r.conn(ctx, tx).Create(rec).Error
}

// Update writes every column except identity, stock and creation audit.
// Stock moves only through SetStock.
func (r *CatalogRepository) Update(ctx context.Context, tx *gorm.DB, rec models.StockItem) error {
	return r.conn(ctx, tx).Model(rec).
		Select("*").
		Omit("id", "current_stock", "created_at", "created_by").
		Updates(rec).Error
}

func (r *CatalogRepository) Delete(ctx context.Context, tx *gorm.DB, kind types.ItemKind, id uint) (int64, error) {
	rec, err := newRecord(kind)
	if err != nil {
		return 0, err
	}
	res := r.conn(ctx, tx).Delete(rec, id)
	return res.RowsAffected, res.Error
}

// SetStock overwrites current_stock. Whole-unit kinds store the integer part.
// Callers check existence first: MySQL reports zero affected rows when the
// value is unchanged.
func (r *CatalogRepository) SetStock(ctx context.Context, tx *gorm.DB, kind types.ItemKind, id uint, qty decimal.Decimal) error {
	rec, err := newRecord(kind)
	if err != nil {
		return err
	}
	var value any = qty
	if kind.WholeUnits() {
		value = qty.IntPart()
	}
	return r.conn(ctx, tx).Model(rec).Where("id = ?", id).UpdateColumn("current_stock", value).Error
}

// ClearParentPackaging detaches children from a packaging record about to
// be deleted.
func (r *CatalogRepository) ClearParentPackaging(ctx context.Context, tx *gorm.DB, parentID uint) error {
	return r.conn(ctx, tx).Model(&models.Packaging{}).
		Where("parent_packaging_id = ?", parentID).
		UpdateColumn("parent_packaging_id", nil).Error
}

func (r *CatalogRepository) List(ctx context.Context, tx *gorm.DB, kind types.ItemKind, f ListFilter) ([]models.StockItem, error) {
	col, err := nameColumn(kind)
	if err != nil {
		return nil, err
	}

	q := r.conn(ctx, tx).Order(orderFor(kind))
	if f.Search != "" {
		like := "%" + f.Search + "%"
		switch kind {
		case types.KindPart, types.KindMaterial, types.KindPackaging:
			q = q.Where(col+" LIKE ? OR part_number LIKE ?", like, like)
		default:
			q = q.Where(col+" LIKE ?", like)
		}
	}
	if f.LowStockOnly {
		q = q.Where("current_stock <= reorder_point")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	switch kind {
	case types.KindPart:
		return findAll[models.Part](q)
	case types.KindMaterial:
		return findAll[models.Material](q)
	case types.KindComponent:
		return findAll[models.Component](q)
	case types.KindConsumable:
		return findAll[models.Consumable](q)
	case types.KindPackaging:
		return findAll[models.Packaging](q)
	default:
		return nil, fmt.Errorf("unknown item kind %q", kind)
	}
}

// CountStock returns the number of records of a kind and how many of them
// sit at or below their reorder point.
func (r *CatalogRepository) CountStock(ctx context.Context, tx *gorm.DB, kind types.ItemKind) (total, low int64, err error) {
	rec, err := newRecord(kind)
	if err != nil {
		return 0, 0, err
	}
	db := r.conn(ctx, tx)
	if err = db.Model(rec).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err = db.Model(rec).Where("current_stock <= reorder_point").Count(&low).Error; err != nil {
		return 0, 0, err
	}
	return total, low, nil
}

func findAll[T any, PT interface {
	*T
	models.StockItem
}](q *gorm.DB) ([]models.StockItem, error) {
	var rows []T
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.StockItem, len(rows))
	for i := range rows {
		out[i] = PT(&rows[i])
	}
	return out, nil
}
