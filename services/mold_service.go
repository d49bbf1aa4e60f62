package services

import (
	"context"
	"errors"
	"math"

	"molding-inventory/apperr"
	"molding-inventory/logger"
	"molding-inventory/models"
	"molding-inventory/repositories"
	"molding-inventory/types"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MoldService struct {
	db    *gorm.DB
	gate  Gate
	items *repositories.CatalogRepository
	bom   *repositories.BOMRepository
	molds *repositories.MoldRepository
	log   *logger.Logger
}

func NewMoldService(db *gorm.DB, gate Gate, items *repositories.CatalogRepository, bom *repositories.BOMRepository, molds *repositories.MoldRepository, log *logger.Logger) *MoldService {
	return &MoldService{
		db:    db,
		gate:  gate,
		items: items,
		bom:   bom,
		molds: molds,
		log:   log.With("service", "MoldService"),
	}
}

func checkMold(op string, m *models.Mold) error {
	if m.ShotSizeUnit == "" {
		m.ShotSizeUnit = "lbs"
	}
	if err := validateStruct(op, m); err != nil {
		return err
	}
	if m.TotalCavities < 1 || m.TotalCavities > math.MaxInt32 {
		return apperr.New(apperr.InvalidQuantity, op, "total cavities must be between 1 and %d, got %d", math.MaxInt32, m.TotalCavities)
	}
	if !m.ShotSize.IsPositive() || m.ShotSize.GreaterThan(maxShotSize) {
		return apperr.New(apperr.InvalidQuantity, op, "shot size must be between 0 and %s, got %s", maxShotSize, m.ShotSize)
	}
	return nil
}

func (s *MoldService) CreateMold(ctx context.Context, actor types.ActorContext, m *models.Mold) (*models.Mold, error) {
	const op = "MoldService.CreateMold"
	if err := authorize(s.gate, actor, types.CapManageMolds, op); err != nil {
		return nil, err
	}
	if m.ID != 0 {
		return nil, apperr.New(apperr.InvalidInput, op, "id is assigned by the store")
	}
	if err := checkMold(op, m); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkMoldNumber(ctx, tx, m, op); err != nil {
			return err
		}
		return s.molds.Create(ctx, tx, m)
	})
	if err != nil {
		return nil, apperr.FromStore(op, err)
	}
	s.log.Info("Mold created", "mold_number", m.MoldNumber, "cavities", m.TotalCavities)
	return m, nil
}

// UpdateMold refuses to shrink a mold below its highest assigned cavity.
func (s *MoldService) UpdateMold(ctx context.Context, actor types.ActorContext, m *models.Mold) (*models.Mold, error) {
	const op = "MoldService.UpdateMold"
	if err := authorize(s.gate, actor, types.CapManageMolds, op); err != nil {
		return nil, err
	}
	if m.ID == 0 {
		return nil, apperr.New(apperr.InvalidInput, op, "id is required")
	}
	if err := checkMold(op, m); err != nil {
		return nil, err
	}

	var fresh *models.Mold
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.molds.Get(ctx, tx, m.ID); err != nil {
			return err
		}
		if err := s.checkMoldNumber(ctx, tx, m, op); err != nil {
			return err
		}
		highest, err := s.molds.MaxCavityNumber(ctx, tx, m.ID)
		if err != nil {
			return err
		}
		if m.TotalCavities < highest {
			return apperr.New(apperr.InvalidCavityIndex, op, "cavity %d is assigned; cannot shrink mold to %d cavities", highest, m.TotalCavities)
		}
		if err := s.molds.Update(ctx, tx, m); err != nil {
			return err
		}
		fresh, err = s.molds.Get(ctx, tx, m.ID)
		return err
	})
	if err != nil {
		return nil, apperr.FromStore(op, err)
	}
	return fresh, nil
}

func (s *MoldService) DeleteMold(ctx context.Context, actor types.ActorContext, id uint) error {
	const op = "MoldService.DeleteMold"
	if err := authorize(s.gate, actor, types.CapManageMolds, op); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.molds.Get(ctx, tx, id); err != nil {
			return err
		}
		if err := s.molds.DeleteCavitiesForMold(ctx, tx, id); err != nil {
			return err
		}
		_, err := s.molds.Delete(ctx, tx, id)
		return err
	})
	if err != nil {
		return apperr.FromStore(op, err)
	}
	s.log.Info("Mold deleted", "mold_id", id, "by", actor.Username)
	return nil
}

func (s *MoldService) GetMold(ctx context.Context, id uint) (*models.Mold, error) {
	m, err := s.molds.Get(ctx, nil, id)
	if err != nil {
		return nil, apperr.FromStore("MoldService.GetMold", err)
	}
	return m, nil
}

func (s *MoldService) ListMolds(ctx context.Context) ([]models.Mold, error) {
	molds, err := s.molds.List(ctx, nil)
	if err != nil {
		return nil, apperr.FromStore("MoldService.ListMolds", err)
	}
	return molds, nil
}

// CavityMap lists a mold's assigned cavities in index order.
func (s *MoldService) CavityMap(ctx context.Context, moldID uint) ([]repositories.CavityLine, error) {
	const op = "MoldService.CavityMap"
	var lines []repositories.CavityLine
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.molds.Get(ctx, tx, moldID); err != nil {
			return err
		}
		var err error
		lines, err = s.molds.CavityMap(ctx, tx, moldID)
		return err
	})
	if err != nil {
		return nil, apperr.FromStore(op, err)
	}
	return lines, nil
}

// AssignCavity puts partID in cavity index of the mold, replacing any
// previous occupant.
func (s *MoldService) AssignCavity(ctx context.Context, actor types.ActorContext, moldID uint, index int, partID uint, partsPerShot int) (*models.MoldCavity, error) {
	const op = "MoldService.AssignCavity"
	if err := authorize(s.gate, actor, types.CapManageMolds, op); err != nil {
		return nil, err
	}
	if index < 1 {
		return nil, apperr.New(apperr.InvalidCavityIndex, op, "cavity index must be at least 1, got %d", index)
	}
	if partsPerShot < 1 || partsPerShot > math.MaxInt32 {
		return nil, apperr.New(apperr.InvalidQuantity, op, "parts per shot must be between 1 and %d, got %d", math.MaxInt32, partsPerShot)
	}

	var cavity *models.MoldCavity
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		mold, err := s.molds.Get(ctx, tx, moldID)
		if err != nil {
			return err
		}
		if index > mold.TotalCavities {
			return apperr.New(apperr.InvalidCavityIndex, op, "mold %s has %d cavities, got index %d", mold.MoldNumber, mold.TotalCavities, index)
		}
		ok, err := s.items.Exists(ctx, tx, types.KindPart, partID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.New(apperr.NotFound, op, "part %d not found", partID)
		}
		if err := s.molds.UpsertCavity(ctx, tx, &models.MoldCavity{
			MoldID: moldID, CavityNumber: index, PartID: partID, PartsPerShot: partsPerShot,
		}); err != nil {
			return err
		}
		cavity, err = s.molds.GetCavity(ctx, tx, moldID, index)
		return err
	})
	if err != nil {
		return nil, apperr.FromStore(op, err)
	}
	return cavity, nil
}

func (s *MoldService) UnassignCavity(ctx context.Context, actor types.ActorContext, moldID uint, index int) (bool, error) {
	const op = "MoldService.UnassignCavity"
	if err := authorize(s.gate, actor, types.CapManageMolds, op); err != nil {
		return false, err
	}
	n, err := s.molds.DeleteCavity(ctx, nil, moldID, index)
	if err != nil {
		return false, apperr.FromStore(op, err)
	}
	return n > 0, nil
}

func (s *MoldService) GetCavity(ctx context.Context, moldID uint, index int) (*models.MoldCavity, error) {
	c, err := s.molds.GetCavity(ctx, nil, moldID, index)
	if err != nil {
		return nil, apperr.FromStore("MoldService.GetCavity", err)
	}
	return c, nil
}

// CavitiesForPart is ordered by mold number then cavity index.
func (s *MoldService) CavitiesForPart(ctx context.Context, partID uint) ([]repositories.CavityLine, error) {
	lines, err := s.molds.CavitiesForPart(ctx, nil, partID)
	if err != nil {
		return nil, apperr.FromStore("MoldService.CavitiesForPart", err)
	}
	return lines, nil
}

// ProductionRequirements reads the part, its material edges and its
// cavities from one snapshot and runs CalculateRequirements. It never
// writes.
func (s *MoldService) ProductionRequirements(ctx context.Context, partID uint, target int64) (*RequirementReport, error) {
	const op = "MoldService.ProductionRequirements"
	if target <= 0 {
		return nil, apperr.New(apperr.InvalidQuantity, op, "target quantity must be positive, got %d", target)
	}

	var (
		part      models.StockItem
		lines     []repositories.CavityLine
		materials []repositories.MaterialLine
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if part, err = s.items.Get(ctx, tx, types.KindPart, partID); err != nil {
			return err
		}
		if materials, err = s.bom.Materials(ctx, tx, partID); err != nil {
			return err
		}
		lines, err = s.molds.CavitiesForPart(ctx, tx, partID)
		return err
	})
	if err != nil {
		return nil, apperr.FromStore(op, err)
	}

	cavities := make([]CavityAssignment, len(lines))
	for i, l := range lines {
		cavities[i] = CavityAssignment{MoldID: l.MoldID, CavityNumber: l.CavityNumber, PartID: l.PartID, PartsPerShot: l.PartsPerShot}
	}
	inputs := make([]MaterialInput, len(materials))
	for i, m := range materials {
		inputs[i] = MaterialInput{
			MaterialID:      m.MaterialID,
			Name:            m.Name,
			Unit:            m.UnitOfMeasure,
			QuantityPerPart: m.QuantityPerPart,
			CurrentStock:    m.CurrentStock,
		}
	}

	report, err := CalculateRequirements(partID, cavities, inputs, target)
	if err != nil {
		return nil, err
	}
	report.PartNumber = part.NaturalKey()
	return &report, nil
}

func (s *MoldService) ShotPlan(ctx context.Context, moldID uint, targetParts int64) (*ShotPlan, error) {
	m, err := s.GetMold(ctx, moldID)
	if err != nil {
		return nil, err
	}
	plan, err := MaterialForParts(*m, targetParts)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (s *MoldService) MaxProducible(ctx context.Context, moldID uint, available decimal.Decimal) (int64, error) {
	m, err := s.GetMold(ctx, moldID)
	if err != nil {
		return 0, err
	}
	return MaxPartsFromMaterial(*m, available)
}

func (s *MoldService) checkMoldNumber(ctx context.Context, tx *gorm.DB, m *models.Mold, op string) error {
	other, err := s.molds.GetByNumber(ctx, tx, m.MoldNumber)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if other.ID != m.ID {
		return apperr.New(apperr.DuplicateKey, op, "mold number %q already exists", m.MoldNumber)
	}
	return nil
}
