package routes

import (
	"molding-inventory/controllers"
	"molding-inventory/middleware"
	"molding-inventory/types"

	"github.com/gofiber/fiber/v2"
)

func SetupBOMRoutes(api fiber.Router, auth *middleware.AuthMiddleware, controller *controllers.BOMController) {
	group := api.Group("/parts/:partId/bom", auth.Authenticate)
	group.Get("/", auth.CheckPermission(types.CapViewBOM), controller.Get)
	group.Post("/new", controller.CreateAndAttach)
	group.Put("/:kind/:targetId", controller.UpsertEdge)
	group.Delete("/:kind/:targetId", controller.RemoveEdge)
}
