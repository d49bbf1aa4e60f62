package services

import (
	"context"
	"errors"

	"molding-inventory/apperr"
	"molding-inventory/logger"
	"molding-inventory/models"
	"molding-inventory/repositories"
	"molding-inventory/types"

	"gorm.io/gorm"
)

// CatalogService owns create/update/delete of the five stock-carrying
// kinds. Stock set at creation is journaled; afterwards only the ledger
// moves it.
type CatalogService struct {
	db      *gorm.DB
	gate    Gate
	catalog *repositories.CatalogRepository
	bom     *repositories.BOMRepository
	molds   *repositories.MoldRepository
	ledger  *repositories.TransactionRepository
	log     *logger.Logger
}

func NewCatalogService(
	db *gorm.DB,
	gate Gate,
	catalog *repositories.CatalogRepository,
	bom *repositories.BOMRepository,
	molds *repositories.MoldRepository,
	ledger *repositories.TransactionRepository,
	log *logger.Logger,
) *CatalogService {
	return &CatalogService{
		db:      db,
		gate:    gate,
		catalog: catalog,
		bom:     bom,
		molds:   molds,
		ledger:  ledger,
		log:     log.With("service", "CatalogService"),
	}
}

func (s *CatalogService) Create(ctx context.Context, actor types.ActorContext, rec models.StockItem) (models.StockItem, error) {
	const op = "CatalogService.Create"
	if rec == nil {
		return nil, apperr.New(apperr.InvalidInput, op, "record is required")
	}
	if err := s.authorizeKind(actor, rec.ItemKind(), op); err != nil {
		return nil, err
	}
	if rec.ItemID() != 0 {
		return nil, apperr.New(apperr.InvalidInput, op, "id is assigned by the store")
	}
	if err := checkRecord(op, rec); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.createInTx(ctx, tx, actor, rec)
	})
	if err != nil {
		return nil, apperr.FromStore(op, err)
	}

	s.log.Info("Catalog record created", "kind", rec.ItemKind(), "id", rec.ItemID(), "by", actor.Username)
	return rec, nil
}

// createInTx writes a validated record plus its opening ledger row.
func (s *CatalogService) createInTx(ctx context.Context, tx *gorm.DB, actor types.ActorContext, rec models.StockItem) error {
	const op = "CatalogService.Create"
	if err := s.checkNaturalKey(ctx, tx, rec, op); err != nil {
		return err
	}
	if pkg, ok := rec.(*models.Packaging); ok {
		if err := checkPackagingParent(ctx, tx, s.catalog, pkg); err != nil {
			return err
		}
	}

	rec.Stamp(actor.UserID, true)
	if err := s.catalog.Create(ctx, tx, rec); err != nil {
		return err
	}

	if opening := rec.Stock(); !opening.IsZero() {
		entry := &models.Transaction{
			ItemKind:    rec.ItemKind(),
			ItemID:      rec.ItemID(),
			Action:      types.ActionAdjust,
			NewQuantity: opening,
			Notes:       "initial stock",
			UserID:      actor.UserID,
		}
		if err := s.ledger.Append(ctx, tx, entry); err != nil {
			return err
		}
	}
	return nil
}

// Update overwrites a record's descriptive fields. Current stock in rec is
// ignored; the returned record carries the stored value.
func (s *CatalogService) Update(ctx context.Context, actor types.ActorContext, rec models.StockItem) (models.StockItem, error) {
	const op = "CatalogService.Update"
	if rec == nil {
		return nil, apperr.New(apperr.InvalidInput, op, "record is required")
	}
	kind := rec.ItemKind()
	if err := s.authorizeKind(actor, kind, op); err != nil {
		return nil, err
	}
	if rec.ItemID() == 0 {
		return nil, apperr.New(apperr.InvalidInput, op, "id is required")
	}
	if err := checkRecord(op, rec); err != nil {
		return nil, err
	}

	var fresh models.StockItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.catalog.Get(ctx, tx, kind, rec.ItemID()); err != nil {
			return err
		}
		if err := s.checkNaturalKey(ctx, tx, rec, op); err != nil {
			return err
		}
		if pkg, ok := rec.(*models.Packaging); ok {
			if err := checkPackagingParent(ctx, tx, s.catalog, pkg); err != nil {
				return err
			}
			if err := checkPackagingEdges(ctx, tx, s.bom, pkg); err != nil {
				return err
			}
		}

		rec.Stamp(actor.UserID, false)
		if err := s.catalog.Update(ctx, tx, rec); err != nil {
			return err
		}
		got, err := s.catalog.Get(ctx, tx, kind, rec.ItemID())
		fresh = got
		return err
	})
	if err != nil {
		return nil, apperr.FromStore(op, err)
	}
	return fresh, nil
}

func (s *CatalogService) Get(ctx context.Context, kind types.ItemKind, id uint) (models.StockItem, error) {
	const op = "CatalogService.Get"
	if !kind.Valid() {
		return nil, apperr.New(apperr.InvalidInput, op, "unknown item kind %q", kind)
	}
	rec, err := s.catalog.Get(ctx, nil, kind, id)
	if err != nil {
		return nil, apperr.FromStore(op, err)
	}
	return rec, nil
}

func (s *CatalogService) List(ctx context.Context, kind types.ItemKind, f repositories.ListFilter) ([]models.StockItem, error) {
	const op = "CatalogService.List"
	if !kind.Valid() {
		return nil, apperr.New(apperr.InvalidInput, op, "unknown item kind %q", kind)
	}
	items, err := s.catalog.List(ctx, nil, kind, f)
	if err != nil {
		return nil, apperr.FromStore(op, err)
	}
	return items, nil
}

// Delete removes a record with everything it owns. Ledger rows that
// reference it are kept.
func (s *CatalogService) Delete(ctx context.Context, actor types.ActorContext, kind types.ItemKind, id uint) error {
	const op = "CatalogService.Delete"
	if err := s.authorizeKind(actor, kind, op); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.catalog.Exists(ctx, tx, kind, id)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.New(apperr.NotFound, op, "%s %d not found", kind, id)
		}

		switch kind {
		case types.KindPart:
			if err := s.bom.DeleteForPart(ctx, tx, id); err != nil {
				return err
			}
			if err := s.molds.DeleteCavitiesForPart(ctx, tx, id); err != nil {
				return err
			}
		case types.KindPackaging:
			if err := s.catalog.ClearParentPackaging(ctx, tx, id); err != nil {
				return err
			}
			if err := s.bom.DeleteForTarget(ctx, tx, kind, id); err != nil {
				return err
			}
		case types.KindMaterial, types.KindComponent, types.KindConsumable:
			if err := s.bom.DeleteForTarget(ctx, tx, kind, id); err != nil {
				return err
			}
		default:
			return apperr.New(apperr.InvalidInput, op, "unknown item kind %q", kind)
		}

		_, err = s.catalog.Delete(ctx, tx, kind, id)
		return err
	})
	if err != nil {
		return apperr.FromStore(op, err)
	}

	s.log.Info("Catalog record deleted", "kind", kind, "id", id, "by", actor.Username)
	return nil
}

func (s *CatalogService) authorizeKind(actor types.ActorContext, kind types.ItemKind, op string) error {
	capability, err := manageCapability(kind)
	if err != nil {
		return err
	}
	return authorize(s.gate, actor, capability, op)
}

// checkNaturalKey rejects a part number already used by another record of
// the same kind.
func (s *CatalogService) checkNaturalKey(ctx context.Context, tx *gorm.DB, rec models.StockItem, op string) error {
	key := rec.NaturalKey()
	if key == "" {
		return nil
	}
	other, err := s.catalog.FindByNaturalKey(ctx, tx, rec.ItemKind(), key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if other.ItemID() != rec.ItemID() {
		return apperr.New(apperr.DuplicateKey, op, "%s part number %q already exists", rec.ItemKind(), key)
	}
	return nil
}

// checkRecord runs the checks that need no store access.
func checkRecord(op string, rec models.StockItem) error {
	normalize(rec)
	if err := validateStruct(op, rec); err != nil {
		return err
	}
	if rec.Stock().IsNegative() || rec.ReorderLevel().IsNegative() {
		return apperr.New(apperr.InvalidQuantity, op, "stock and reorder point must not be negative")
	}
	if err := checkStockRange(op, rec.ItemKind(), rec.Stock()); err != nil {
		return err
	}
	if err := checkStockRange(op, rec.ItemKind(), rec.ReorderLevel()); err != nil {
		return err
	}
	if pkg, ok := rec.(*models.Packaging); ok {
		return checkPackagingRecord(op, pkg)
	}
	return nil
}

// normalize fills defaults and drops empty optional keys so they do not
// collide on the unique index.
func normalize(rec models.StockItem) {
	switch r := rec.(type) {
	case *models.Material:
		if r.UnitOfMeasure == "" {
			r.UnitOfMeasure = "lbs"
		}
		if r.PartNumber != nil && *r.PartNumber == "" {
			r.PartNumber = nil
		}
	case *models.Packaging:
		if r.Category == "" {
			r.Category = types.PackagingAlternate
		}
		if r.PartNumber != nil && *r.PartNumber == "" {
			r.PartNumber = nil
		}
	case *models.Part:
		if r.Kind == "" {
			r.Kind = types.PartShootShip
		}
	}
}
