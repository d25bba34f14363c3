// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	helper "eventhub_backend/internals/helpers"
	"eventhub_backend/internals/helpers/apperr"
)

// AuthMiddleware verifies the admin JWT from the Authorization header or the
// access_token cookie and stores its claims in Locals.
func AuthMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := helper.GetRawAccessToken(c)
		if raw == "" {
			return helper.JsonFromError(c, apperr.New(apperr.KindUnauthorized, "missing access token"))
		}

		claims, err := ParseAdminToken(secret, raw)
		if err != nil {
			log.Ctx(c.UserContext()).Debug().Err(err).Msg("token rejected")
			return helper.JsonFromError(c, apperr.New(apperr.KindUnauthorized, "invalid or expired token"))
		}

		helper.SetRawAccessToken(c, raw)
		c.Locals(LocAdminEmail, claims.Email)
		c.Locals(LocUserRole, claims.Role)
		return c.Next()
	}
}

// AdminOnly rejects logged-out tokens, verifies the JWT and requires the admin role.
func AdminOnly(secret string, db *gorm.DB) []fiber.Handler {
	return []fiber.Handler{
		RejectRevoked(db, secret),
		AuthMiddleware(secret),
		OnlyRoles("admin access required", RoleAdmin),
	}
}
