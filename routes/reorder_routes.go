package routes

import (
	"molding-inventory/controllers"
	"molding-inventory/middleware"
	"molding-inventory/types"

	"github.com/gofiber/fiber/v2"
)

func SetupReorderRoutes(api fiber.Router, auth *middleware.AuthMiddleware, controller *controllers.ReorderController) {
	group := api.Group("/reorder", auth.Authenticate, auth.CheckPermission(types.CapReorderManagement))
	group.Get("/", controller.List)
	group.Get("/summary", auth.CheckPermission(types.CapViewReports), controller.Summary)
	group.Get("/export", auth.CheckPermission(types.CapExportData), controller.Export)
	group.Post("/notify", controller.Notify)
}
