package routes

import (
	"molding-inventory/controllers"
	"molding-inventory/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(api fiber.Router, auth *middleware.AuthMiddleware, controller *controllers.AuthController) {
	group := api.Group("/auth")
	group.Post("/login", controller.Login)
	group.Get("/logout", auth.Authenticate, controller.Logout)
	group.Get("/me", auth.Authenticate, controller.Me)
}
