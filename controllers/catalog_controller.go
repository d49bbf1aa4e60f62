package controllers

import (
	"molding-inventory/controllers/helpers"
	"molding-inventory/middleware"
	"molding-inventory/models"
	"molding-inventory/repositories"
	"molding-inventory/services"
	"molding-inventory/types"

	"github.com/gofiber/fiber/v2"
)

type CatalogController struct {
	catalog *services.CatalogService
}

func NewCatalogController(catalog *services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

func kindParam(ctx *fiber.Ctx) (types.ItemKind, error) {
	kind, err := types.ParseItemKind(ctx.Params("kind"))
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return kind, nil
}

// GET /catalog/:kind?search=&low_stock=&limit=&offset=
func (c *CatalogController) List(ctx *fiber.Ctx) error {
	kind, err := kindParam(ctx)
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	filter := repositories.ListFilter{
		Search:       ctx.Query("search"),
		LowStockOnly: ctx.QueryBool("low_stock"),
		Limit:        ctx.QueryInt("limit"),
		Offset:       ctx.QueryInt("offset"),
	}
	items, err := c.catalog.List(ctx.UserContext(), kind, filter)
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	return helpers.OK(ctx, "Items found", items)
}

func (c *CatalogController) Get(ctx *fiber.Ctx) error {
	kind, err := kindParam(ctx)
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	id, err := helpers.ParamID(ctx, "id")
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	item, err := c.catalog.Get(ctx.UserContext(), kind, id)
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	return helpers.OK(ctx, "Item found", item)
}

func (c *CatalogController) Create(ctx *fiber.Ctx) error {
	kind, err := kindParam(ctx)
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	rec := models.NewRecord(kind)
	if err := ctx.BodyParser(rec); err != nil {
		return helpers.BadRequest(ctx, "Invalid request body")
	}
	created, err := c.catalog.Create(ctx.UserContext(), middleware.Actor(ctx), rec)
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	return helpers.Created(ctx, "Item created successfully", created)
}

// Update replaces the editable fields. current_stock in the body is ignored;
// stock only moves through the inventory endpoints.
func (c *CatalogController) Update(ctx *fiber.Ctx) error {
	kind, err := kindParam(ctx)
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	id, err := helpers.ParamID(ctx, "id")
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	rec := models.NewRecord(kind)
	if err := ctx.BodyParser(rec); err != nil {
		return helpers.BadRequest(ctx, "Invalid request body")
	}
	models.SetItemID(rec, id)

	updated, err := c.catalog.Update(ctx.UserContext(), middleware.Actor(ctx), rec)
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	return helpers.OK(ctx, "Item updated successfully", updated)
}

func (c *CatalogController) Delete(ctx *fiber.Ctx) error {
	kind, err := kindParam(ctx)
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	id, err := helpers.ParamID(ctx, "id")
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	if err := c.catalog.Delete(ctx.UserContext(), middleware.Actor(ctx), kind, id); err != nil {
		return helpers.Fail(ctx, err)
	}
	return helpers.OK(ctx, "Item deleted successfully", nil)
}

// GET /catalog/packaging/:id/chain
func (c *CatalogController) ParentChain(ctx *fiber.Ctx) error {
	id, err := helpers.ParamID(ctx, "id")
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	chain, err := c.catalog.ParentChain(ctx.UserContext(), id)
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	return helpers.OK(ctx, "Packaging chain", chain)
}
