package services

import (
	"molding-inventory/config"
	"molding-inventory/logger"
	"molding-inventory/repositories"

	"gorm.io/gorm"
)

// Services bundles the core services over one store.
type Services struct {
	Catalog  *CatalogService
	BOM      *BOMService
	Molds    *MoldService
	Ledger   *LedgerService
	Reorder  *ReorderService
	Notifier *ReorderNotifier
}

func New(db *gorm.DB, gate Gate, cfg *config.Config, log *logger.Logger) *Services {
	items := repositories.NewCatalogRepository(db, log)
	bom := repositories.NewBOMRepository(db, log)
	molds := repositories.NewMoldRepository(db, log)
	transactions := repositories.NewTransactionRepository(db, log)

	catalog := NewCatalogService(db, gate, items, bom, molds, transactions, log)
	return &Services{
		Catalog:  catalog,
		BOM:      NewBOMService(db, gate, catalog, items, bom, log),
		Molds:    NewMoldService(db, gate, items, bom, molds, log),
		Ledger:   NewLedgerService(db, gate, items, transactions, log),
		Reorder:  NewReorderService(db, items, log),
		Notifier: NewReorderNotifier(cfg, log),
	}
}
