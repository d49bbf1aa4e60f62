package routes

import (
	"molding-inventory/controllers"
	"molding-inventory/middleware"
	"molding-inventory/types"

	"github.com/gofiber/fiber/v2"
)

func SetupProductionRoutes(api fiber.Router, auth *middleware.AuthMiddleware, controller *controllers.ProductionController) {
	group := api.Group("/production", auth.Authenticate, auth.CheckPermission(types.CapProductionPlanning))
	group.Get("/:partId", controller.Requirements)
	group.Get("/:partId/cavities", controller.Cavities)
}
