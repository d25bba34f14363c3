package auth

import (
	"github.com/gofiber/fiber/v2"

	helper "eventhub_backend/internals/helpers"
	"eventhub_backend/internals/helpers/apperr"
)

// OnlyRoles lets the request through when Locals(userRole) is one of roles.
func OnlyRoles(forbiddenMessage string, roles ...string) fiber.Handler {
	if forbiddenMessage == "" {
		forbiddenMessage = "you are not authorized to access this resource"
	}
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocUserRole).(string)
		if !ok {
			return helper.JsonFromError(c, apperr.New(apperr.KindUnauthorized, "missing role information"))
		}
		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}
		return helper.JsonFromError(c, apperr.New(apperr.KindForbidden, forbiddenMessage))
	}
}
