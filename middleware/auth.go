package middleware

import (
	"strings"
	"time"

	"molding-inventory/config"
	"molding-inventory/logger"
	"molding-inventory/models"
	"molding-inventory/services"
	"molding-inventory/types"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const actorKey = "actor"

type AuthMiddleware struct {
	secret []byte
	ttl    time.Duration
	gate   services.Gate
	log    *logger.Logger
}

func NewAuthMiddleware(cfg *config.Config, gate services.Gate, log *logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		secret: []byte(cfg.JWTSecret),
		ttl:    time.Duration(cfg.JWTExpiration) * time.Second,
		gate:   gate,
		log:    log.With("middleware", "auth"),
	}
}

// IssueToken signs an access token carrying the user's role and
// permissions, so requests never need a user lookup.
func (a *AuthMiddleware) IssueToken(user models.User) (string, string, error) {
	perms := make([]string, 0, len(user.Permissions))
	for _, p := range user.Permissions {
		perms = append(perms, p.Name)
	}
	sessionID := uuid.NewString()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":     user.ID,
		"username":    user.Username,
		"role":        user.Role,
		"permissions": perms,
		"session_id":  sessionID,
		"exp":         time.Now().Add(a.ttl).Unix(),
		"jti":         uuid.NewString(),
	})
	signed, err := token.SignedString(a.secret)
	return signed, sessionID, err
}

// Authenticate accepts a bearer token or the access_token cookie and
// stores the caller's ActorContext in ctx.Locals.
func (a *AuthMiddleware) Authenticate(ctx *fiber.Ctx) error {
	tokenString := ""
	if authHeader := ctx.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return unauthorized(ctx, "Invalid Authorization header format")
		}
		tokenString = parts[1]
	} else {
		tokenString = ctx.Cookies("access_token")
	}
	if tokenString == "" {
		return unauthorized(ctx, "Missing Authorization header")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized: Invalid signing method")
		}
		return a.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		a.log.Debug("Token rejected", "error", err)
		return unauthorized(ctx, "Unauthorized: Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return unauthorized(ctx, "Unauthorized: Invalid token")
	}
	actor, err := actorFromClaims(claims)
	if err != nil {
		return unauthorized(ctx, err.Error())
	}

	ctx.Locals(actorKey, actor)
	if sid, ok := claims["session_id"].(string); ok {
		ctx.Locals("sessionID", sid)
	}
	return ctx.Next()
}

func actorFromClaims(claims jwt.MapClaims) (types.ActorContext, error) {
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return types.ActorContext{}, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized: Invalid user ID")
	}
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)

	var perms []types.Capability
	if raw, ok := claims["permissions"].([]interface{}); ok {
		for _, p := range raw {
			if s, ok := p.(string); ok {
				perms = append(perms, types.Capability(s))
			}
		}
	}
	return types.UserActor(uint(userID), username, role, perms...), nil
}

// CheckPermission rejects the request unless the gate grants capability.
func (a *AuthMiddleware) CheckPermission(capability types.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := c.Locals(actorKey).(types.ActorContext)
		if !ok {
			return unauthorized(c, "Unauthorized: Invalid user ID")
		}
		if !a.gate.Can(actor, capability) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "Forbidden: You do not have permission",
			})
		}
		return c.Next()
	}
}

// Actor returns the authenticated caller. Handlers behind Authenticate can
// rely on it being set.
func Actor(ctx *fiber.Ctx) types.ActorContext {
	actor, _ := ctx.Locals(actorKey).(types.ActorContext)
	return actor
}

func unauthorized(ctx *fiber.Ctx, message string) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
