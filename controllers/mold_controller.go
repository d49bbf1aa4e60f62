package controllers

import (
	"molding-inventory/controllers/helpers"
	"molding-inventory/middleware"
	"molding-inventory/models"
	"molding-inventory/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type MoldController struct {
	molds *services.MoldService
}

func NewMoldController(molds *services.MoldService) *MoldController {
	return &MoldController{molds: molds}
}

func (c *MoldController) List(ctx *fiber.Ctx) error {
	molds, err := c.molds.ListMolds(ctx.UserContext())
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	return helpers.OK(ctx, "Molds found", molds)
}

// Get returns the mold with its cavity map.
func (c *MoldController) Get(ctx *fiber.Ctx) error {
	id, err := helpers.ParamID(ctx, "id")
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	mold, err := c.molds.GetMold(ctx.UserContext(), id)
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	cavities, err := c.molds.CavityMap(ctx.UserContext(), id)
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	return helpers.OK(ctx, "Mold found", fiber.Map{
		"mold":     mold,
		"cavities": cavities,
	})
}

func (c *MoldController) Create(ctx *fiber.Ctx) error {
	var mold models.Mold
	if err := ctx.BodyParser(&mold); err != nil {
		return helpers.BadRequest(ctx, "Invalid request body")
	}
	created, err := c.molds.CreateMold(ctx.UserContext(), middleware.Actor(ctx), &mold)
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	return helpers.Created(ctx, "Mold created successfully", created)
}

func (c *MoldController) Update(ctx *fiber.Ctx) error {
	id, err := helpers.ParamID(ctx, "id")
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	var mold models.Mold
	if err := ctx.BodyParser(&mold); err != nil {
		return helpers.BadRequest(ctx, "Invalid request body")
	}
	mold.ID = id
	updated, err := c.molds.UpdateMold(ctx.UserContext(), middleware.Actor(ctx), &mold)
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	return helpers.OK(ctx, "Mold updated successfully", updated)
}

func (c *MoldController) Delete(ctx *fiber.Ctx) error {
	id, err := helpers.ParamID(ctx, "id")
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	if err := c.molds.DeleteMold(ctx.UserContext(), middleware.Actor(ctx), id); err != nil {
		return helpers.Fail(ctx, err)
	}
	return helpers.OK(ctx, "Mold deleted successfully", nil)
}

// PUT /molds/:id/cavities/:index
func (c *MoldController) AssignCavity(ctx *fiber.Ctx) error {
	id, err := helpers.ParamID(ctx, "id")
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	index, err := ctx.ParamsInt("index")
	if err != nil {
		return helpers.BadRequest(ctx, "Invalid cavity index")
	}
	var input struct {
		PartID       uint `json:"part_id"`
		PartsPerShot int  `json:"parts_per_shot"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return helpers.BadRequest(ctx, "Invalid request body")
	}
	if input.PartsPerShot == 0 {
		input.PartsPerShot = 1
	}
	cavity, err := c.molds.AssignCavity(ctx.UserContext(), middleware.Actor(ctx), id, index, input.PartID, input.PartsPerShot)
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	return helpers.OK(ctx, "Cavity assigned", cavity)
}

func (c *MoldController) UnassignCavity(ctx *fiber.Ctx) error {
	id, err := helpers.ParamID(ctx, "id")
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	index, err := ctx.ParamsInt("index")
	if err != nil {
		return helpers.BadRequest(ctx, "Invalid cavity index")
	}
	removed, err := c.molds.UnassignCavity(ctx.UserContext(), middleware.Actor(ctx), id, index)
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	if !removed {
		return helpers.OK(ctx, "Cavity was not assigned", fiber.Map{"removed": false})
	}
	return helpers.OK(ctx, "Cavity cleared", fiber.Map{"removed": true})
}

// GET /molds/:id/shot-plan?target=
func (c *MoldController) ShotPlan(ctx *fiber.Ctx) error {
	id, err := helpers.ParamID(ctx, "id")
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	plan, err := c.molds.ShotPlan(ctx.UserContext(), id, int64(ctx.QueryInt("target")))
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	return helpers.OK(ctx, "Shot plan", plan)
}

// GET /molds/:id/max-parts?material=
func (c *MoldController) MaxParts(ctx *fiber.Ctx) error {
	id, err := helpers.ParamID(ctx, "id")
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	available, err := decimal.NewFromString(ctx.Query("material"))
	if err != nil {
		return helpers.BadRequest(ctx, "material must be a number")
	}
	parts, err := c.molds.MaxProducible(ctx.UserContext(), id, available)
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	return helpers.OK(ctx, "Maximum parts", fiber.Map{
		"mold_id":            id,
		"material_available": available,
		"max_parts":          parts,
	})
}
