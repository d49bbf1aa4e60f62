package controllers

import (
	"encoding/json"

	"molding-inventory/controllers/helpers"
	"molding-inventory/middleware"
	"molding-inventory/models"
	"molding-inventory/services"
	"molding-inventory/types"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type BOMController struct {
	bom *services.BOMService
}

func NewBOMController(bom *services.BOMService) *BOMController {
	return &BOMController{bom: bom}
}

type edgeInput struct {
	Quantity decimal.Decimal   `json:"quantity"`
	Meta     services.EdgeMeta `json:"meta"`
}

// GET /parts/:partId/bom
func (c *BOMController) Get(ctx *fiber.Ctx) error {
	partID, err := helpers.ParamID(ctx, "partId")
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	bom, err := c.bom.ListEdges(ctx.UserContext(), partID)
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	return helpers.OK(ctx, "BOM found", bom)
}

// PUT /parts/:partId/bom/:kind/:targetId
func (c *BOMController) UpsertEdge(ctx *fiber.Ctx) error {
	partID, targetID, kind, err := edgeParams(ctx)
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	var input edgeInput
	if err := ctx.BodyParser(&input); err != nil {
		return helpers.BadRequest(ctx, "Invalid request body")
	}
	if err := c.bom.UpsertEdge(ctx.UserContext(), middleware.Actor(ctx), partID, kind, targetID, input.Quantity, input.Meta); err != nil {
		return helpers.Fail(ctx, err)
	}
	return helpers.OK(ctx, "BOM entry saved", nil)
}

// DELETE /parts/:partId/bom/:kind/:targetId
func (c *BOMController) RemoveEdge(ctx *fiber.Ctx) error {
	partID, targetID, kind, err := edgeParams(ctx)
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	removed, err := c.bom.RemoveEdge(ctx.UserContext(), middleware.Actor(ctx), partID, kind, targetID)
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	if !removed {
		return helpers.OK(ctx, "BOM entry was not present", fiber.Map{"removed": false})
	}
	return helpers.OK(ctx, "BOM entry removed", fiber.Map{"removed": true})
}

// POST /parts/:partId/bom/new creates a catalog record and links it to the
// part in one step.
func (c *BOMController) CreateAndAttach(ctx *fiber.Ctx) error {
	partID, err := helpers.ParamID(ctx, "partId")
	if err != nil {
		return helpers.Fail(ctx, err)
	}

	var input struct {
		Kind   string          `json:"type"`
		Record json.RawMessage `json:"record"`
		edgeInput
	}
	if err := ctx.BodyParser(&input); err != nil {
		return helpers.BadRequest(ctx, "Invalid request body")
	}
	kind, err := types.ParseItemKind(input.Kind)
	if err != nil || !kind.IsBOMTarget() {
		return helpers.BadRequest(ctx, "type must be material, component, consumable or packaging")
	}
	rec := models.NewRecord(kind)
	if len(input.Record) == 0 {
		return helpers.BadRequest(ctx, "record is required")
	}
	if err := json.Unmarshal(input.Record, rec); err != nil {
		return helpers.BadRequest(ctx, "Invalid record")
	}

	created, err := c.bom.CreateAndAttach(ctx.UserContext(), middleware.Actor(ctx), rec, partID, input.Quantity, input.Meta)
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	return helpers.Created(ctx, "Item created and added to BOM", created)
}

func edgeParams(ctx *fiber.Ctx) (partID, targetID uint, kind types.ItemKind, err error) {
	if partID, err = helpers.ParamID(ctx, "partId"); err != nil {
		return
	}
	if targetID, err = helpers.ParamID(ctx, "targetId"); err != nil {
		return
	}
	kind, err = kindParam(ctx)
	return
}
