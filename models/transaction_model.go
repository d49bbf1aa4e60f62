package models

import (
	"errors"
	"time"

	"molding-inventory/controllers/idgen"
	"molding-inventory/types"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrImmutableTransaction = errors.New("inventory transactions are append-only")

// Transaction is one ledger row. NewQuantity is the absolute stock after the
// event, not a delta.
type Transaction struct {
	ID              types.SnowflakeID       `json:"id" gorm:"primaryKey;autoIncrement:false"`
	ItemKind        types.ItemKind          `json:"transaction_type" gorm:"column:transaction_type;type:varchar(20);not null;index:idx_tx_item,priority:1"`
	ItemID          uint                    `json:"item_id" gorm:"not null;index:idx_tx_item,priority:2"`
	Action          types.TransactionAction `json:"transaction_action" gorm:"column:transaction_action;type:varchar(20);not null"`
	NewQuantity     decimal.Decimal         `json:"new_quantity" gorm:"type:decimal(12,2);not null"`
	Notes           string                  `json:"notes" gorm:"type:text"`
	TransactionDate time.Time               `json:"transaction_date" gorm:"not null;index"`
	UserID          *uint                   `json:"user_id"`
	BatchID         *string                 `json:"batch_id" gorm:"type:varchar(36);index"`
}

func (Transaction) TableName() string { return "inventory_transactions" }

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == 0 {
		t.ID = types.SnowflakeID(idgen.GenerateID())
	}
	if t.TransactionDate.IsZero() {
		t.TransactionDate = time.Now()
	}
	return nil
}

func (t *Transaction) BeforeUpdate(tx *gorm.DB) error {
	return ErrImmutableTransaction
}

func (t *Transaction) BeforeDelete(tx *gorm.DB) error {
	return ErrImmutableTransaction
}
