package services

import (
	"context"
	"errors"

	"molding-inventory/apperr"
	"molding-inventory/logger"
	"molding-inventory/models"
	"molding-inventory/repositories"
	"molding-inventory/types"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EdgeMeta carries the per-kind attributes of a BOM edge. Fields that do
// not apply to the target kind are ignored.
type EdgeMeta struct {
	Required          *bool  `json:"required"`
	ApplicationStep   int    `json:"application_step"`
	Notes             string `json:"notes"`
	PartitionRequired bool   `json:"partition_required"`
	BuiltInPartitions bool   `json:"built_in_partitions"`
}

// BOM is a part's full bill of materials, each list in display order.
type BOM struct {
	PartID      uint                          `json:"part_id"`
	Materials   []repositories.MaterialLine   `json:"materials"`
	Components  []repositories.ComponentLine  `json:"components"`
	Consumables []repositories.ConsumableLine `json:"consumables"`
	Packaging   []repositories.PackagingLine  `json:"packaging"`
}

type BOMService struct {
	db      *gorm.DB
	gate    Gate
	catalog *CatalogService
	items   *repositories.CatalogRepository
	bom     *repositories.BOMRepository
	log     *logger.Logger
}

func NewBOMService(db *gorm.DB, gate Gate, catalog *CatalogService, items *repositories.CatalogRepository, bom *repositories.BOMRepository, log *logger.Logger) *BOMService {
	return &BOMService{
		db:      db,
		gate:    gate,
		catalog: catalog,
		items:   items,
		bom:     bom,
		log:     log.With("service", "BOMService"),
	}
}

// UpsertEdge links partID to a catalog record, replacing an existing edge
// with the same key.
func (s *BOMService) UpsertEdge(ctx context.Context, actor types.ActorContext, partID uint, kind types.ItemKind, targetID uint, quantity decimal.Decimal, meta EdgeMeta) error {
	const op = "BOMService.UpsertEdge"
	if err := authorize(s.gate, actor, types.CapManageBOM, op); err != nil {
		return err
	}
	quantity, err := checkEdge(op, kind, quantity, meta)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requirePart(ctx, tx, partID, op); err != nil {
			return err
		}
		target, err := s.items.Get(ctx, tx, kind, targetID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, op, "%s %d not found", kind, targetID)
		}
		if err != nil {
			return err
		}
		return s.writeEdge(ctx, tx, op, partID, target, quantity, meta)
	})
	if err != nil {
		return apperr.FromStore(op, err)
	}

	s.log.Debug("BOM edge upserted", "part_id", partID, "kind", kind, "target_id", targetID, "quantity", quantity.String())
	return nil
}

// RemoveEdge reports whether an edge was deleted. Removing a missing edge
// is not an error.
func (s *BOMService) RemoveEdge(ctx context.Context, actor types.ActorContext, partID uint, kind types.ItemKind, targetID uint) (bool, error) {
	const op = "BOMService.RemoveEdge"
	if err := authorize(s.gate, actor, types.CapManageBOM, op); err != nil {
		return false, err
	}
	if !kind.IsBOMTarget() {
		return false, apperr.New(apperr.InvalidInput, op, "%q is not a BOM target kind", kind)
	}
	n, err := s.bom.RemoveEdge(ctx, nil, kind, partID, targetID)
	if err != nil {
		return false, apperr.FromStore(op, err)
	}
	return n > 0, nil
}

// ListEdges reads the four edge lists from one snapshot.
func (s *BOMService) ListEdges(ctx context.Context, partID uint) (*BOM, error) {
	const op = "BOMService.ListEdges"
	out := &BOM{PartID: partID}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requirePart(ctx, tx, partID, op); err != nil {
			return err
		}
		var err error
		if out.Materials, err = s.bom.Materials(ctx, tx, partID); err != nil {
			return err
		}
		if out.Components, err = s.bom.Components(ctx, tx, partID); err != nil {
			return err
		}
		if out.Consumables, err = s.bom.Consumables(ctx, tx, partID); err != nil {
			return err
		}
		out.Packaging, err = s.bom.Packaging(ctx, tx, partID)
		return err
	})
	if err != nil {
		return nil, apperr.FromStore(op, err)
	}
	return out, nil
}

// CreateAndAttach creates a catalog record and links it to partID in one
// store transaction. Nothing is written unless both steps succeed.
func (s *BOMService) CreateAndAttach(ctx context.Context, actor types.ActorContext, rec models.StockItem, partID uint, quantity decimal.Decimal, meta EdgeMeta) (models.StockItem, error) {
	const op = "BOMService.CreateAndAttach"
	if rec == nil {
		return nil, apperr.New(apperr.InvalidInput, op, "record is required")
	}
	kind := rec.ItemKind()
	if err := authorize(s.gate, actor, types.CapManageBOM, op); err != nil {
		return nil, err
	}
	if err := s.catalog.authorizeKind(actor, kind, op); err != nil {
		return nil, err
	}
	if rec.ItemID() != 0 {
		return nil, apperr.New(apperr.InvalidInput, op, "id is assigned by the store")
	}
	quantity, err := checkEdge(op, kind, quantity, meta)
	if err != nil {
		return nil, err
	}
	if err := checkRecord(op, rec); err != nil {
		return nil, err
	}
	if pkg, ok := rec.(*models.Packaging); ok {
		if err := checkPackagingEdge(op, pkg.Category, meta); err != nil {
			return nil, err
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requirePart(ctx, tx, partID, op); err != nil {
			return err
		}
		if err := s.catalog.createInTx(ctx, tx, actor, rec); err != nil {
			return err
		}
		return s.writeEdge(ctx, tx, op, partID, rec, quantity, meta)
	})
	if err != nil {
		return nil, apperr.FromStore(op, err)
	}

	s.log.Info("Catalog record created and attached", "part_id", partID, "kind", kind, "id", rec.ItemID())
	return rec, nil
}

func (s *BOMService) requirePart(ctx context.Context, tx *gorm.DB, partID uint, op string) error {
	ok, err := s.items.Exists(ctx, tx, types.KindPart, partID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.New(apperr.NotFound, op, "part %d not found", partID)
	}
	return nil
}

// writeEdge upserts the edge row for an already loaded target. quantity
// and meta have passed checkEdge.
func (s *BOMService) writeEdge(ctx context.Context, tx *gorm.DB, op string, partID uint, target models.StockItem, quantity decimal.Decimal, meta EdgeMeta) error {
	targetID := target.ItemID()
	switch t := target.(type) {
	case *models.Material:
		return s.bom.UpsertMaterial(ctx, tx, &models.PartMaterial{
			PartID: partID, MaterialID: targetID, QuantityPerPart: quantity,
		})
	case *models.Component:
		return s.bom.UpsertComponent(ctx, tx, &models.PartComponent{
			PartID: partID, ComponentID: targetID, QuantityPerPart: int(quantity.IntPart()),
		})
	case *models.Consumable:
		required := true
		if meta.Required != nil {
			required = *meta.Required
		}
		return s.bom.UpsertConsumable(ctx, tx, &models.PartConsumable{
			PartID: partID, ConsumableID: targetID, Required: required,
			ApplicationStep: meta.ApplicationStep, Notes: meta.Notes,
		})
	case *models.Packaging:
		if err := checkPackagingEdge(op, t.Category, meta); err != nil {
			return err
		}
		return s.bom.UpsertPackaging(ctx, tx, &models.PartPackaging{
			PartID: partID, PackagingID: targetID, QuantityPerPart: int(quantity.IntPart()),
			PartitionRequired: meta.PartitionRequired, BuiltInPartitions: meta.BuiltInPartitions,
		})
	default:
		return apperr.New(apperr.InvalidInput, op, "%q is not a BOM target kind", target.ItemKind())
	}
}

// checkEdge validates quantity and metadata for an edge to kind and returns
// the quantity to store.
func checkEdge(op string, kind types.ItemKind, quantity decimal.Decimal, meta EdgeMeta) (decimal.Decimal, error) {
	switch kind {
	case types.KindMaterial:
		if !quantity.IsPositive() {
			return quantity, apperr.New(apperr.InvalidQuantity, op, "material quantity must be positive, got %s", quantity)
		}
		if quantity.GreaterThan(maxMaterialPerPart) {
			return quantity, apperr.New(apperr.InvalidQuantity, op, "material quantity %s exceeds the maximum of %s", quantity, maxMaterialPerPart)
		}
	case types.KindComponent:
		if !quantity.IsPositive() || !quantity.IsInteger() {
			return quantity, apperr.New(apperr.InvalidQuantity, op, "component quantity must be a positive whole number, got %s", quantity)
		}
		if quantity.GreaterThan(maxWholeQuantity) {
			return quantity, apperr.New(apperr.InvalidQuantity, op, "component quantity %s exceeds the maximum of %s", quantity, maxWholeQuantity)
		}
	case types.KindConsumable:
		if meta.ApplicationStep < 1 {
			return quantity, apperr.New(apperr.InvalidQuantity, op, "application step must be at least 1, got %d", meta.ApplicationStep)
		}
	case types.KindPackaging:
		if quantity.IsZero() {
			quantity = decimal.NewFromInt(1)
		}
		if quantity.IsNegative() || !quantity.IsInteger() {
			return quantity, apperr.New(apperr.InvalidQuantity, op, "packaging quantity must be a positive whole number, got %s", quantity)
		}
		if quantity.GreaterThan(maxWholeQuantity) {
			return quantity, apperr.New(apperr.InvalidQuantity, op, "packaging quantity %s exceeds the maximum of %s", quantity, maxWholeQuantity)
		}
		if meta.PartitionRequired && meta.BuiltInPartitions {
			return quantity, apperr.New(apperr.ConflictingPartitionFlags, op, "partition_required and built_in_partitions are mutually exclusive")
		}
	default:
		return quantity, apperr.New(apperr.InvalidInput, op, "%q is not a BOM target kind", kind)
	}
	return quantity, nil
}
