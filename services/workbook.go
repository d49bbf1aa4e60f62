package services

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"molding-inventory/apperr"
	"molding-inventory/models"
	"molding-inventory/types"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	InventorySheet = "Inventory"
	ReorderSheet   = "Reorder"
)

var inventoryHeader = []string{"Type", "Item ID", "Name", "Part Number", "Unit", "Current Stock", "Reorder Point", "Quantity", "Action", "Notes"}

var reorderHeader = []string{"Type", "Item ID", "Name", "Part Number", "Current Stock", "Reorder Point", "Suggested Order", "Unit", "Supplier", "Lead Time (days)", "Urgency"}

// BuildInventoryWorkbook writes one row per record. The blank Quantity,
// Action and Notes columns make the file a count sheet that ParseCountSheet
// reads back.
func BuildInventoryWorkbook(items []models.StockItem) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", InventorySheet); err != nil {
		return nil, err
	}
	if err := writeHeader(f, InventorySheet, inventoryHeader); err != nil {
		return nil, err
	}

	for i, it := range items {
		row := []any{
			string(it.ItemKind()),
			it.ItemID(),
			it.DisplayName(),
			it.NaturalKey(),
			it.Unit(),
			it.Stock().InexactFloat64(),
			it.ReorderLevel().InexactFloat64(),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(InventorySheet, cell, &row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func BuildReorderWorkbook(items []ReorderItem) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", ReorderSheet); err != nil {
		return nil, err
	}
	if err := writeHeader(f, ReorderSheet, reorderHeader); err != nil {
		return nil, err
	}

	for i, it := range items {
		row := []any{
			string(it.Kind),
			it.ItemID,
			it.Name,
			it.PartNumber,
			it.CurrentStock.InexactFloat64(),
			it.ReorderPoint.InexactFloat64(),
			it.SuggestedOrder.InexactFloat64(),
			it.Unit,
			it.Supplier,
			it.LeadTimeDays,
			string(it.Urgency),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(ReorderSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func writeHeader(f *excelize.File, sheet string, header []string) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

// RowError points at a spreadsheet row that could not be turned into a
// CountInput.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ParseCountSheet reads the first sheet of an xlsx count sheet. Columns are
// found by header name: Type, Item ID and Quantity are required, Action and
// Notes optional. Rows with an empty Quantity are skipped.
func ParseCountSheet(r io.Reader) ([]CountInput, []RowError, error) {
	const op = "ParseCountSheet"
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.InvalidInput, op, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, apperr.New(apperr.InvalidInput, op, "workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.InvalidInput, op, err)
	}
	if len(rows) < 1 {
		return nil, nil, apperr.New(apperr.InvalidInput, op, "sheet %q is empty", sheets[0])
	}

	cols := make(map[string]int)
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"type", "item id", "quantity"} {
		if _, ok := cols[required]; !ok {
			return nil, nil, apperr.New(apperr.InvalidInput, op, "missing %q column", required)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var inputs []CountInput
	var rowErrs []RowError
	for i, row := range rows[1:] {
		rowNum := i + 2
		qtyText := cell(row, "quantity")
		if qtyText == "" {
			continue
		}

		kind, err := types.ParseItemKind(strings.ToLower(cell(row, "type")))
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: rowNum, Message: err.Error()})
			continue
		}
		id, err := strconv.ParseUint(cell(row, "item id"), 10, 64)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: rowNum, Message: fmt.Sprintf("invalid item id %q", cell(row, "item id"))})
			continue
		}
		qty, err := decimal.NewFromString(qtyText)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: rowNum, Message: fmt.Sprintf("invalid quantity %q", qtyText)})
			continue
		}

		inputs = append(inputs, CountInput{
			Kind:        kind,
			ItemID:      uint(id),
			NewQuantity: qty,
			Action:      types.TransactionAction(strings.ToLower(cell(row, "action"))),
			Note:        cell(row, "notes"),
		})
	}
	return inputs, rowErrs, nil
}
