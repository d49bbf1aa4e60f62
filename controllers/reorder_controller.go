package controllers

import (
	"molding-inventory/controllers/helpers"
	"molding-inventory/services"

	"github.com/gofiber/fiber/v2"
)

type ReorderController struct {
	reorder  *services.ReorderService
	notifier *services.ReorderNotifier
}

func NewReorderController(reorder *services.ReorderService, notifier *services.ReorderNotifier) *ReorderController {
	return &ReorderController{reorder: reorder, notifier: notifier}
}

// GET /reorder lists low-stock records, most urgent first, with a
// per-supplier rollup.
func (c *ReorderController) List(ctx *fiber.Ctx) error {
	items, err := c.reorder.LowStock(ctx.UserContext())
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	return helpers.OK(ctx, "Reorder list", fiber.Map{
		"items":     items,
		"suppliers": services.Suppliers(items),
	})
}

func (c *ReorderController) Summary(ctx *fiber.Ctx) error {
	summary, err := c.reorder.Summary(ctx.UserContext())
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	return helpers.OK(ctx, "Inventory summary", summary)
}

func (c *ReorderController) Export(ctx *fiber.Ctx) error {
	items, err := c.reorder.LowStock(ctx.UserContext())
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	f, err := services.BuildReorderWorkbook(items)
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	return sendWorkbook(ctx, f, "reorder")
}

// POST /reorder/notify mails the current list to the configured recipients.
func (c *ReorderController) Notify(ctx *fiber.Ctx) error {
	items, err := c.reorder.LowStock(ctx.UserContext())
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	if err := c.notifier.Send(ctx.UserContext(), items); err != nil {
		return helpers.Fail(ctx, err)
	}
	return helpers.OK(ctx, "Reorder notification sent", fiber.Map{"items": len(items)})
}
