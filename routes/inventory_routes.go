package routes

import (
	"molding-inventory/controllers"
	"molding-inventory/middleware"
	"molding-inventory/types"

	"github.com/gofiber/fiber/v2"
)

func SetupInventoryRoutes(api fiber.Router, auth *middleware.AuthMiddleware, controller *controllers.InventoryController) {
	group := api.Group("/inventory", auth.Authenticate)
	group.Post("/count", controller.Count)
	group.Post("/batch", controller.Batch)
	group.Post("/import", controller.Import)
	group.Get("/recent", auth.CheckPermission(types.CapViewTransactions), controller.Recent)
	group.Get("/batch/:batchId", auth.CheckPermission(types.CapViewTransactions), controller.BatchRows)
	group.Get("/history/:kind/:id", auth.CheckPermission(types.CapViewTransactions), controller.History)
	group.Get("/export", auth.CheckPermission(types.CapExportData), controller.Export)
}
