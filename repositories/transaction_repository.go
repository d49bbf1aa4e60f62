package repositories

import (
	"context"

	"molding-inventory/logger"
	"molding-inventory/models"
	"molding-inventory/types"

	"gorm.io/gorm"
)

// TransactionRepository only appends and reads; ledger rows are never
// updated or deleted.
type TransactionRepository struct {
	DB  *gorm.DB
	log *logger.Logger
}

func NewTransactionRepository(DB *gorm.DB, log *logger.Logger) *TransactionRepository {
	return &TransactionRepository{DB: DB, log: log.With("repo", "TransactionRepository")}
}

func (r *TransactionRepository) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx == nil {
		tx = r.DB
	}
	return tx.WithContext(ctx)
}

func (r *TransactionRepository) Append(ctx context.Context, tx *gorm.DB, t *models.Transaction) error {
	return r.conn(ctx, tx).Create(t).Error
}

// ForItem pages through an item's history newest first.
func (r *TransactionRepository) ForItem(ctx context.Context, tx *gorm.DB, kind types.ItemKind, itemID uint, limit, offset int) ([]models.Transaction, error) {
	var rows []models.Transaction
	q := r.conn(ctx, tx).
		Where("transaction_type = ? AND item_id = ?", kind, itemID).
		Order("transaction_date DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *TransactionRepository) ForBatch(ctx context.Context, tx *gorm.DB, batchID string) ([]models.Transaction, error) {
	var rows []models.Transaction
	if err := r.conn(ctx, tx).Where("batch_id = ?", batchID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *TransactionRepository) Recent(ctx context.Context, tx *gorm.DB, limit int) ([]models.Transaction, error) {
	var rows []models.Transaction
	if err := r.conn(ctx, tx).Order("transaction_date DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
