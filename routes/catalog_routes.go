package routes

import (
	"molding-inventory/controllers"
	"molding-inventory/middleware"
	"molding-inventory/types"

	"github.com/gofiber/fiber/v2"
)

// Write access per kind is checked by CatalogService, since the required
// permission depends on the :kind parameter.
func SetupCatalogRoutes(api fiber.Router, auth *middleware.AuthMiddleware, controller *controllers.CatalogController) {
	group := api.Group("/catalog", auth.Authenticate)
	group.Get("/packaging/:id/chain", auth.CheckPermission(types.CapViewInventory), controller.ParentChain)
	group.Get("/:kind", auth.CheckPermission(types.CapViewInventory), controller.List)
	group.Get("/:kind/:id", auth.CheckPermission(types.CapViewInventory), controller.Get)
	group.Post("/:kind", controller.Create)
	group.Put("/:kind/:id", controller.Update)
	group.Delete("/:kind/:id", controller.Delete)
}
