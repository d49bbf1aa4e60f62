package services

import (
	"context"
	"iter"

	"molding-inventory/apperr"
	"molding-inventory/logger"
	"molding-inventory/models"
	"molding-inventory/repositories"
	"molding-inventory/types"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	defaultHistoryLimit = 50
	historyPageSize     = 50
)

// CountInput is one stock observation. NewQuantity is absolute.
type CountInput struct {
	Kind        types.ItemKind          `json:"type"`
	ItemID      uint                    `json:"item_id"`
	NewQuantity decimal.Decimal         `json:"quantity"`
	Action      types.TransactionAction `json:"action"`
	Note        string                  `json:"notes"`
}

type ItemFailure struct {
	Index   int         `json:"index"`
	Input   CountInput  `json:"input"`
	Kind    apperr.Kind `json:"error_kind"`
	Message string      `json:"message"`
}

// BatchResult reports what a RecordCounts call applied. Rows in Recorded
// share BatchID.
type BatchResult struct {
	BatchID  string               `json:"batch_id"`
	Recorded []models.Transaction `json:"recorded"`
	Failed   []ItemFailure        `json:"failed"`
}

type LedgerService struct {
	db           *gorm.DB
	gate         Gate
	items        *repositories.CatalogRepository
	transactions *repositories.TransactionRepository
	log          *logger.Logger
}

func NewLedgerService(db *gorm.DB, gate Gate, items *repositories.CatalogRepository, transactions *repositories.TransactionRepository, log *logger.Logger) *LedgerService {
	return &LedgerService{
		db:           db,
		gate:         gate,
		items:        items,
		transactions: transactions,
		log:          log.With("service", "LedgerService"),
	}
}

// RecordCount sets an item's stock and journals it atomically.
func (s *LedgerService) RecordCount(ctx context.Context, actor types.ActorContext, in CountInput) (*models.Transaction, error) {
	const op = "LedgerService.RecordCount"
	if err := authorize(s.gate, actor, types.CapUpdateInventory, op); err != nil {
		return nil, err
	}
	return s.record(ctx, actor, in, nil, op)
}

// RecordCounts applies each input in its own store transaction. A failing
// item does not undo the others.
func (s *LedgerService) RecordCounts(ctx context.Context, actor types.ActorContext, inputs []CountInput) (BatchResult, error) {
	const op = "LedgerService.RecordCounts"
	if err := authorize(s.gate, actor, types.CapUpdateInventory, op); err != nil {
		return BatchResult{}, err
	}

	batchID := uuid.NewString()
	result := BatchResult{BatchID: batchID, Recorded: []models.Transaction{}, Failed: []ItemFailure{}}
	for i, in := range inputs {
		if err := ctx.Err(); err != nil {
			return result, apperr.Wrap(apperr.StoreUnavailable, op, err)
		}
		entry, err := s.record(ctx, actor, in, &batchID, op)
		if err != nil {
			result.Failed = append(result.Failed, ItemFailure{
				Index: i, Input: in, Kind: apperr.KindOf(err), Message: err.Error(),
			})
			continue
		}
		result.Recorded = append(result.Recorded, *entry)
	}

	s.log.Info("Batch count recorded", "batch_id", batchID, "recorded", len(result.Recorded), "failed", len(result.Failed))
	return result, nil
}

func (s *LedgerService) record(ctx context.Context, actor types.ActorContext, in CountInput, batchID *string, op string) (*models.Transaction, error) {
	in, err := checkCount(op, in)
	if err != nil {
		return nil, err
	}

	entry := &models.Transaction{
		ItemKind:    in.Kind,
		ItemID:      in.ItemID,
		Action:      in.Action,
		NewQuantity: in.NewQuantity,
		Notes:       in.Note,
		UserID:      actor.UserID,
		BatchID:     batchID,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.items.Exists(ctx, tx, in.Kind, in.ItemID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.New(apperr.NotFound, op, "%s %d not found", in.Kind, in.ItemID)
		}
		if err := s.items.SetStock(ctx, tx, in.Kind, in.ItemID, in.NewQuantity); err != nil {
			return err
		}
		return s.transactions.Append(ctx, tx, entry)
	})
	if err != nil {
		return nil, apperr.FromStore(op, err)
	}

	s.log.Debug("Stock recorded", "kind", in.Kind, "item_id", in.ItemID, "quantity", in.NewQuantity.String(), "action", in.Action)
	return entry, nil
}

func checkCount(op string, in CountInput) (CountInput, error) {
	if !in.Kind.Valid() {
		return in, apperr.New(apperr.InvalidInput, op, "unknown item kind %q", in.Kind)
	}
	if in.Action == "" {
		in.Action = types.ActionPhysicalCount
	}
	if !in.Action.Valid() {
		return in, apperr.New(apperr.InvalidInput, op, "unknown transaction action %q", in.Action)
	}
	if in.NewQuantity.IsNegative() {
		return in, apperr.New(apperr.InvalidQuantity, op, "quantity must not be negative, got %s", in.NewQuantity)
	}
	if in.Kind.WholeUnits() && !in.NewQuantity.IsInteger() {
		return in, apperr.New(apperr.InvalidQuantity, op, "%s stock is counted in whole units, got %s", in.Kind, in.NewQuantity)
	}
	if err := checkStockRange(op, in.Kind, in.NewQuantity); err != nil {
		return in, err
	}
	return in, nil
}

// History returns up to limit rows for an item, newest first.
func (s *LedgerService) History(ctx context.Context, kind types.ItemKind, itemID uint, limit int) ([]models.Transaction, error) {
	const op = "LedgerService.History"
	if !kind.Valid() {
		return nil, apperr.New(apperr.InvalidInput, op, "unknown item kind %q", kind)
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	rows, err := s.transactions.ForItem(ctx, nil, kind, itemID, limit, 0)
	if err != nil {
		return nil, apperr.FromStore(op, err)
	}
	return rows, nil
}

// Batch returns the rows written by one RecordCounts call in insert order.
func (s *LedgerService) Batch(ctx context.Context, batchID string) ([]models.Transaction, error) {
	const op = "LedgerService.Batch"
	if _, err := uuid.Parse(batchID); err != nil {
		return nil, apperr.New(apperr.InvalidInput, op, "invalid batch id %q", batchID)
	}
	rows, err := s.transactions.ForBatch(ctx, nil, batchID)
	if err != nil {
		return nil, apperr.FromStore(op, err)
	}
	if len(rows) == 0 {
		return nil, apperr.New(apperr.NotFound, op, "batch %s not found", batchID)
	}
	return rows, nil
}

// Recent returns the latest rows across all items.
func (s *LedgerService) Recent(ctx context.Context, limit int) ([]models.Transaction, error) {
	const op = "LedgerService.Recent"
	if limit <= 0 || limit > defaultHistoryLimit {
		limit = defaultHistoryLimit
	}
	rows, err := s.transactions.Recent(ctx, nil, limit)
	if err != nil {
		return nil, apperr.FromStore(op, err)
	}
	return rows, nil
}

// HistoryIter walks an item's history newest first, fetching a page at a
// time. Each range starts again from the newest row. limit <= 0 walks the
// whole history.
func (s *LedgerService) HistoryIter(ctx context.Context, kind types.ItemKind, itemID uint, limit int) iter.Seq2[models.Transaction, error] {
	const op = "LedgerService.HistoryIter"
	return func(yield func(models.Transaction, error) bool) {
		if !kind.Valid() {
			yield(models.Transaction{}, apperr.New(apperr.InvalidInput, op, "unknown item kind %q", kind))
			return
		}
		seen := 0
		for offset := 0; ; offset += historyPageSize {
			size := historyPageSize
			if limit > 0 && limit-seen < size {
				size = limit - seen
			}
			if size <= 0 {
				return
			}
			page, err := s.transactions.ForItem(ctx, nil, kind, itemID, size, offset)
			if err != nil {
				yield(models.Transaction{}, apperr.FromStore(op, err))
				return
			}
			for _, row := range page {
				if !yield(row, nil) {
					return
				}
				seen++
			}
			if len(page) < size {
				return
			}
		}
	}
}
