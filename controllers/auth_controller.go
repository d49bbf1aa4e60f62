package controllers

import (
	"errors"
	"time"

	"molding-inventory/config"
	"molding-inventory/controllers/helpers"
	"molding-inventory/logger"
	"molding-inventory/middleware"
	"molding-inventory/repositories"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	cfg   *config.Config
	auth  *middleware.AuthMiddleware
	users *repositories.UserRepository
	log   *logger.Logger
}

func NewAuthController(cfg *config.Config, auth *middleware.AuthMiddleware, users *repositories.UserRepository, log *logger.Logger) *AuthController {
	return &AuthController{cfg: cfg, auth: auth, users: users, log: log.With("controller", "auth")}
}

func (c *AuthController) Login(ctx *fiber.Ctx) error {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return helpers.BadRequest(ctx, "Invalid request")
	}
	if input.Username == "" || input.Password == "" {
		return helpers.BadRequest(ctx, "Missing required fields")
	}

	user, err := c.users.GetByUsername(ctx.UserContext(), input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.log.Warn("Login failed", "username", input.Username, "reason", "USER_NOT_FOUND")
			return invalidCredentials(ctx)
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to look up user",
		})
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		c.log.Warn("Login failed", "username", input.Username, "reason", "WRONG_PASSWORD")
		return invalidCredentials(ctx)
	}
	if !user.Active {
		c.log.Warn("Login failed", "username", input.Username, "reason", "INACTIVE")
		return invalidCredentials(ctx)
	}

	accessToken, sessionID, err := c.auth.IssueToken(*user)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to generate token",
		})
	}

	now := time.Now()
	if err := c.users.TouchLastLogin(ctx.UserContext(), user.ID, now); err != nil {
		c.log.Warn("Failed to update last login", "user_id", user.ID, "error", err)
	}
	user.LastLogin = &now

	ctx.Cookie(c.cfg.GetTokenCookie(accessToken))
	c.log.Info("Login successful", "username", user.Username, "session_id", sessionID)

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":      true,
		"message":      "Login successful",
		"access_token": accessToken,
		"user":         user,
	})
}

func (c *AuthController) Logout(ctx *fiber.Ctx) error {
	ctx.Cookie(c.cfg.GetTokenCookie(""))
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Logout successful",
	})
}

// Me returns the caller's profile together with the permissions carried
// by the token.
func (c *AuthController) Me(ctx *fiber.Ctx) error {
	actor := middleware.Actor(ctx)
	if actor.UserID == nil {
		return helpers.OK(ctx, "Current user", actor)
	}
	user, err := c.users.GetByID(ctx.UserContext(), *actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "User no longer exists",
			})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to look up user",
		})
	}
	return helpers.OK(ctx, "Current user", fiber.Map{
		"user":        user,
		"session_id":  ctx.Locals("sessionID"),
		"permissions": actor.Permissions,
	})
}

func invalidCredentials(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": "Invalid username or password",
	})
}
