package routes

import (
	"molding-inventory/controllers"
	"molding-inventory/middleware"
	"molding-inventory/types"

	"github.com/gofiber/fiber/v2"
)

func SetupMoldRoutes(api fiber.Router, auth *middleware.AuthMiddleware, controller *controllers.MoldController) {
	group := api.Group("/molds", auth.Authenticate)
	view := auth.CheckPermission(types.CapViewMolds)
	planning := auth.CheckPermission(types.CapProductionPlanning)

	group.Get("/", view, controller.List)
	group.Get("/:id", view, controller.Get)
	group.Post("/", controller.Create)
	group.Put("/:id", controller.Update)
	group.Delete("/:id", controller.Delete)
	group.Put("/:id/cavities/:index", controller.AssignCavity)
	group.Delete("/:id/cavities/:index", controller.UnassignCavity)
	group.Get("/:id/shot-plan", planning, controller.ShotPlan)
	group.Get("/:id/max-parts", planning, controller.MaxParts)
}
