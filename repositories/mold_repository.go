package repositories

import (
	"context"

	"molding-inventory/logger"
	"molding-inventory/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MoldRepository struct {
	DB  *gorm.DB
	log *logger.Logger
}

func NewMoldRepository(DB *gorm.DB, log *logger.Logger) *MoldRepository {
	return &MoldRepository{DB: DB, log: log.With("repo", "MoldRepository")}
}

// CavityLine is a cavity joined with the mold it belongs to.
type CavityLine struct {
	MoldID        uint            `json:"mold_id"`
	MoldNumber    string          `json:"mold_number"`
	TotalCavities int             `json:"total_cavities"`
	ShotSize      decimal.Decimal `json:"shot_size"`
	CavityNumber  int             `json:"cavity_number"`
	PartID        uint            `json:"part_id"`
	PartNumber    string          `json:"part_number"`
	PartsPerShot  int             `json:"parts_per_shot"`
}

func (r *MoldRepository) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx == nil {
		tx = r.DB
	}
	return tx.WithContext(ctx)
}

func (r *MoldRepository) Create(ctx context.Context, tx *gorm.DB, m *models.Mold) error {
	return r.conn(ctx, tx).Create(m).Error
}

func (r *MoldRepository) Update(ctx context.Context, tx *gorm.DB, m *models.Mold) error {
	return r.conn(ctx, tx).Model(m).Select("*").Omit("id", "created_at").Updates(m).Error
}

func (r *MoldRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) (int64, error) {
	res := r.conn(ctx, tx).Delete(&models.Mold{}, id)
	return res.RowsAffected, res.Error
}

func (r *MoldRepository) Get(ctx context.Context, tx *gorm.DB, id uint) (*models.Mold, error) {
	var m models.Mold
	if err := r.conn(ctx, tx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MoldRepository) GetByNumber(ctx context.Context, tx *gorm.DB, number string) (*models.Mold, error) {
	var m models.Mold
	if err := r.conn(ctx, tx).Where("mold_number = ?", number).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MoldRepository) List(ctx context.Context, tx *gorm.DB) ([]models.Mold, error) {
	var molds []models.Mold
	if err := r.conn(ctx, tx).Order("mold_number ASC").Find(&molds).Error; err != nil {
		return nil, err
	}
	return molds, nil
}

// UpsertCavity replaces whatever part occupied (mold, cavity number).
func (r *MoldRepository) UpsertCavity(ctx context.Context, tx *gorm.DB, c *models.MoldCavity) error {
	return r.conn(ctx, tx).
		Clauses(upsert([]string{"mold_id", "cavity_number"}, "part_id", "parts_per_shot")).
		Create(c).Error
}

func (r *MoldRepository) DeleteCavity(ctx context.Context, tx *gorm.DB, moldID uint, number int) (int64, error) {
	res := r.conn(ctx, tx).Where("mold_id = ? AND cavity_number = ?", moldID, number).Delete(&models.MoldCavity{})
	return res.RowsAffected, res.Error
}

func (r *MoldRepository) DeleteCavitiesForMold(ctx context.Context, tx *gorm.DB, moldID uint) error {
	return r.conn(ctx, tx).Where("mold_id = ?", moldID).Delete(&models.MoldCavity{}).Error
}

func (r *MoldRepository) DeleteCavitiesForPart(ctx context.Context, tx *gorm.DB, partID uint) error {
	return r.conn(ctx, tx).Where("part_id = ?", partID).Delete(&models.MoldCavity{}).Error
}

func (r *MoldRepository) GetCavity(ctx context.Context, tx *gorm.DB, moldID uint, number int) (*models.MoldCavity, error) {
	var c models.MoldCavity
	if err := r.conn(ctx, tx).Where("mold_id = ? AND cavity_number = ?", moldID, number).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *MoldRepository) Cavities(ctx context.Context, tx *gorm.DB, moldID uint) ([]models.MoldCavity, error) {
	var cavities []models.MoldCavity
	if err := r.conn(ctx, tx).Where("mold_id = ?", moldID).Order("cavity_number ASC").Find(&cavities).Error; err != nil {
		return nil, err
	}
	return cavities, nil
}

// MaxCavityNumber is the highest assigned cavity index of a mold, 0 when
// nothing is assigned.
func (r *MoldRepository) MaxCavityNumber(ctx context.Context, tx *gorm.DB, moldID uint) (int, error) {
	var highest int
	err := r.conn(ctx, tx).Model(&models.MoldCavity{}).
		Where("mold_id = ?", moldID).
		Select("COALESCE(MAX(cavity_number), 0)").
		Scan(&highest).Error
	return highest, err
}

func (r *MoldRepository) CavitiesForPart(ctx context.Context, tx *gorm.DB, partID uint) ([]CavityLine, error) {
	var lines []CavityLine
	err := r.conn(ctx, tx).Table("mold_cavities").
		Select("mold_cavities.mold_id, molds.mold_number, molds.total_cavities, molds.shot_size, " +
			"mold_cavities.cavity_number, mold_cavities.part_id, parts.part_number, mold_cavities.parts_per_shot").
		Joins("JOIN molds ON molds.id = mold_cavities.mold_id").
		Joins("JOIN parts ON parts.id = mold_cavities.part_id").
		Where("mold_cavities.part_id = ?", partID).
		Order("molds.mold_number ASC, mold_cavities.cavity_number ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// CavityMap returns every cavity of a mold joined with its part number.
func (r *MoldRepository) CavityMap(ctx context.Context, tx *gorm.DB, moldID uint) ([]CavityLine, error) {
	var lines []CavityLine
	err := r.conn(ctx, tx).Table("mold_cavities").
		Select("mold_cavities.mold_id, molds.mold_number, molds.total_cavities, molds.shot_size, " +
			"mold_cavities.cavity_number, mold_cavities.part_id, parts.part_number, mold_cavities.parts_per_shot").
		Joins("JOIN molds ON molds.id = mold_cavities.mold_id").
		Joins("LEFT JOIN parts ON parts.id = mold_cavities.part_id").
		Where("mold_cavities.mold_id = ?", moldID).
		Order("mold_cavities.cavity_number ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}
