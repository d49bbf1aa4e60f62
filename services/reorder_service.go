package services

import (
	"cmp"
	"context"
	"slices"

	"molding-inventory/apperr"
	"molding-inventory/logger"
	"molding-inventory/models"
	"molding-inventory/repositories"
	"molding-inventory/types"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyHigh     Urgency = "high"
	UrgencyNormal   Urgency = "normal"
)

func (u Urgency) rank() int {
	switch u {
	case UrgencyCritical:
		return 0
	case UrgencyHigh:
		return 1
	default:
		return 2
	}
}

var half = decimal.RequireFromString("0.5")

// UrgencyFor: critical at or below zero, high at or below half the reorder
// point, normal otherwise.
func UrgencyFor(current, reorder decimal.Decimal) Urgency {
	switch {
	case !current.IsPositive():
		return UrgencyCritical
	case current.LessThanOrEqual(reorder.Mul(half)):
		return UrgencyHigh
	default:
		return UrgencyNormal
	}
}

// SuggestedOrder tops stock up to twice the reorder point, never ordering
// less than one reorder point's worth.
func SuggestedOrder(current, reorder decimal.Decimal) decimal.Decimal {
	return decimal.Max(reorder.Mul(decimal.NewFromInt(2)).Sub(current), reorder)
}

type ReorderItem struct {
	Kind           types.ItemKind  `json:"type"`
	ItemID         uint            `json:"id"`
	Name           string          `json:"name"`
	PartNumber     string          `json:"part_number,omitempty"`
	CurrentStock   decimal.Decimal `json:"current_stock"`
	ReorderPoint   decimal.Decimal `json:"reorder_point"`
	SuggestedOrder decimal.Decimal `json:"suggested_order"`
	Unit           string          `json:"unit"`
	Supplier       string          `json:"supplier"`
	LeadTimeDays   int             `json:"lead_time_days"`
	Urgency        Urgency         `json:"urgency"`
}

type KindSummary struct {
	Kind     types.ItemKind `json:"type"`
	Total    int64          `json:"total"`
	LowStock int64          `json:"low_stock"`
}

type SupplierSummary struct {
	Supplier string         `json:"supplier"`
	Kind     types.ItemKind `json:"type"`
	Items    int            `json:"item_count"`
}

type ReorderService struct {
	db    *gorm.DB
	items *repositories.CatalogRepository
	log   *logger.Logger
}

func NewReorderService(db *gorm.DB, items *repositories.CatalogRepository, log *logger.Logger) *ReorderService {
	return &ReorderService{db: db, items: items, log: log.With("service", "ReorderService")}
}

// LowStock lists every record at or below its reorder point, most urgent
// first.
func (s *ReorderService) LowStock(ctx context.Context) ([]ReorderItem, error) {
	const op = "ReorderService.LowStock"
	var out []ReorderItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, kind := range types.AllItemKinds {
			items, err := s.items.List(ctx, tx, kind, repositories.ListFilter{LowStockOnly: true})
			if err != nil {
				return err
			}
			for _, it := range items {
				out = append(out, newReorderItem(it))
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperr.FromStore(op, err)
	}

	slices.SortStableFunc(out, func(a, b ReorderItem) int {
		return cmp.Compare(a.Urgency.rank(), b.Urgency.rank())
	})
	return out, nil
}

func (s *ReorderService) Summary(ctx context.Context) ([]KindSummary, error) {
	const op = "ReorderService.Summary"
	out := make([]KindSummary, 0, len(types.AllItemKinds))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, kind := range types.AllItemKinds {
			total, low, err := s.items.CountStock(ctx, tx, kind)
			if err != nil {
				return err
			}
			out = append(out, KindSummary{Kind: kind, Total: total, LowStock: low})
		}
		return nil
	})
	if err != nil {
		return nil, apperr.FromStore(op, err)
	}
	return out, nil
}

// Suppliers groups low-stock items by supplier and kind, largest group
// first. Items without a supplier are left out.
func Suppliers(items []ReorderItem) []SupplierSummary {
	type key struct {
		supplier string
		kind     types.ItemKind
	}
	counts := make(map[key]int)
	var order []key
	for _, it := range items {
		if it.Supplier == "" {
			continue
		}
		k := key{it.Supplier, it.Kind}
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
	}

	out := make([]SupplierSummary, 0, len(order))
	for _, k := range order {
		out = append(out, SupplierSummary{Supplier: k.supplier, Kind: k.kind, Items: counts[k]})
	}
	slices.SortStableFunc(out, func(a, b SupplierSummary) int {
		return cmp.Compare(b.Items, a.Items)
	})
	return out
}

func newReorderItem(it models.StockItem) ReorderItem {
	current, reorder := it.Stock(), it.ReorderLevel()
	ri := ReorderItem{
		Kind:           it.ItemKind(),
		ItemID:         it.ItemID(),
		Name:           it.DisplayName(),
		PartNumber:     it.NaturalKey(),
		CurrentStock:   current,
		ReorderPoint:   reorder,
		SuggestedOrder: SuggestedOrder(current, reorder),
		Unit:           it.Unit(),
		Urgency:        UrgencyFor(current, reorder),
	}
	switch r := it.(type) {
	case *models.Material:
		ri.Supplier, ri.LeadTimeDays = r.Supplier, r.LeadTimeDays
	case *models.Component:
		ri.Supplier, ri.LeadTimeDays = r.Supplier, r.LeadTimeDays
	case *models.Consumable:
		ri.Supplier, ri.LeadTimeDays = r.Supplier, r.LeadTimeDays
	case *models.Packaging:
		ri.Supplier, ri.LeadTimeDays = r.Supplier, r.LeadTimeDays
	}
	return ri
}
