package routes

import (
	"molding-inventory/config"
	"molding-inventory/controllers"
	"molding-inventory/logger"
	"molding-inventory/middleware"
	"molding-inventory/repositories"
	"molding-inventory/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup mounts every API group under cfg.MainRoutes.
func Setup(app *fiber.App, cfg *config.Config, db *gorm.DB, svc *services.Services, gate services.Gate, log *logger.Logger) {
	auth := middleware.NewAuthMiddleware(cfg, gate, log)
	app.Use(middleware.RequestLogger(log))

	api := app.Group(cfg.MainRoutes)
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "message": "ok"})
	})

	SetupAuthRoutes(api, auth, controllers.NewAuthController(cfg, auth, repositories.NewUserRepository(db), log))
	SetupCatalogRoutes(api, auth, controllers.NewCatalogController(svc.Catalog))
	SetupBOMRoutes(api, auth, controllers.NewBOMController(svc.BOM))
	SetupMoldRoutes(api, auth, controllers.NewMoldController(svc.Molds))
	SetupProductionRoutes(api, auth, controllers.NewProductionController(svc.Molds))
	SetupInventoryRoutes(api, auth, controllers.NewInventoryController(svc.Catalog, svc.Ledger, log))
	SetupReorderRoutes(api, auth, controllers.NewReorderController(svc.Reorder, svc.Notifier))
}
