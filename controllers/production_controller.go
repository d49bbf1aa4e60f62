package controllers

import (
	"molding-inventory/controllers/helpers"
	"molding-inventory/services"

	"github.com/gofiber/fiber/v2"
)

type ProductionController struct {
	molds *services.MoldService
}

func NewProductionController(molds *services.MoldService) *ProductionController {
	return &ProductionController{molds: molds}
}

// GET /production/:partId?target=
func (c *ProductionController) Requirements(ctx *fiber.Ctx) error {
	partID, err := helpers.ParamID(ctx, "partId")
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	report, err := c.molds.ProductionRequirements(ctx.UserContext(), partID, int64(ctx.QueryInt("target")))
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	return helpers.OK(ctx, "Production requirements", report)
}

// GET /production/:partId/cavities
func (c *ProductionController) Cavities(ctx *fiber.Ctx) error {
	partID, err := helpers.ParamID(ctx, "partId")
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	cavities, err := c.molds.CavitiesForPart(ctx.UserContext(), partID)
	if err != nil {
		return helpers.Fail(ctx, err)
	}
	return helpers.OK(ctx, "Cavities found", cavities)
}
