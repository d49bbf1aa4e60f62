package controllers

import (
	"fmt"
	"time"

	"molding-inventory/controllers/helpers"
	"molding-inventory/logger"
	"molding-inventory/middleware"
	"molding-inventory/models"
	"molding-inventory/repositories"
	"molding-inventory/services"
	"molding-inventory/types"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type InventoryController struct {
	catalog *services.CatalogService
	ledger  *services.LedgerService
	log     *logger.Logger
}

func NewInventoryController(catalog *services.CatalogService, ledger *services.LedgerService, log *logger.Logger) *InventoryController {
	return &InventoryController{catalog: catalog, ledger: ledger, log: log.With("controller", "inventory")}
}

// POST /inventory/count
func (c *InventoryController) Count(ctx *fiber.Ctx) error {
	var input services.CountInput
	if err := ctx.BodyParser(&input); err != nil {
		return helpers.BadRequest(ctx, "Invalid request body")
	}
	entry, err := c.ledger.RecordCount(ctx.UserContext(), middleware.Actor(ctx), input)
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	return helpers.Created(ctx, "Inventory updated", entry)
}

// POST /inventory/batch
func (c *InventoryController) Batch(ctx *fiber.Ctx) error {
	var input struct {
		Items []services.CountInput `json:"items"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return helpers.BadRequest(ctx, "Invalid request body")
	}
	if len(input.Items) == 0 {
		return helpers.BadRequest(ctx, "items is required")
	}
	result, err := c.ledger.RecordCounts(ctx.UserContext(), middleware.Actor(ctx), input.Items)
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	return helpers.OK(ctx, batchMessage(result), result)
}

// POST /inventory/import reads a filled-in count sheet from the "file"
// form field.
func (c *InventoryController) Import(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return helpers.BadRequest(ctx, "Failed to get file")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return helpers.BadRequest(ctx, "Failed to open file")
	}
	defer file.Close()

	inputs, rowErrs, err := services.ParseCountSheet(file)
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	if len(inputs) == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success":    false,
			"message":    "No counts found in file",
			"row_errors": rowErrs,
		})
	}

	result, err := c.ledger.RecordCounts(ctx.UserContext(), middleware.Actor(ctx), inputs)
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	c.log.Info("Count sheet imported", "file", fileHeader.Filename, "rows", len(inputs), "row_errors", len(rowErrs))
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":    true,
		"message":    batchMessage(result),
		"data":       result,
		"row_errors": rowErrs,
	})
}

// GET /inventory/history/:kind/:id?limit=
func (c *InventoryController) History(ctx *fiber.Ctx) error {
	kind, err := kindParam(ctx)
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	id, err := helpers.ParamID(ctx, "id")
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	rows, err := c.ledger.History(ctx.UserContext(), kind, id, ctx.QueryInt("limit"))
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	return helpers.OK(ctx, "Transactions found", rows)
}

// GET /inventory/recent?limit=
func (c *InventoryController) Recent(ctx *fiber.Ctx) error {
	rows, err := c.ledger.Recent(ctx.UserContext(), ctx.QueryInt("limit"))
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	return helpers.OK(ctx, "Transactions found", rows)
}

// GET /inventory/batch/:batchId
func (c *InventoryController) BatchRows(ctx *fiber.Ctx) error {
	rows, err := c.ledger.Batch(ctx.UserContext(), ctx.Params("batchId"))
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	return helpers.OK(ctx, "Transactions found", rows)
}

// GET /inventory/export downloads every record as a count sheet.
func (c *InventoryController) Export(ctx *fiber.Ctx) error {
	var all []models.StockItem
	for _, kind := range types.AllItemKinds {
		items, err := c.catalog.List(ctx.UserContext(), kind, repositories.ListFilter{})
		if err != nil {
			return helpers.Fail(ctx, err)
		}
		all = append(all, items...)
	}

	f, err := services.BuildInventoryWorkbook(all)
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	return sendWorkbook(ctx, f, "inventory")
}

func sendWorkbook(ctx *fiber.Ctx, f *excelize.File, name string) error {
	defer f.Close()
	ctx.Set("Content-Type", xlsxContentType)
	ctx.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-%s.xlsx"`, name, time.Now().Format("20060102")))
	if err := f.Write(ctx.Response().BodyWriter()); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).SendString("Failed to generate Excel")
	}
	return nil
}

func batchMessage(result services.BatchResult) string {
	if len(result.Failed) == 0 {
		return fmt.Sprintf("%d items updated", len(result.Recorded))
	}
	return fmt.Sprintf("%d items updated, %d failed", len(result.Recorded), len(result.Failed))
}
