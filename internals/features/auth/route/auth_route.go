// file: internals/features/auth/route/auth_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	authCtl "eventhub_backend/internals/features/auth/controller"
	service "eventhub_backend/internals/features/auth/service"
	authMw "eventhub_backend/internals/middlewares/auth"
)

// AuthRoutes mounts /api/auth. loginLimiter guards the credential endpoints.
func AuthRoutes(r fiber.Router, svc *service.AuthService, loginLimiter fiber.Handler) {
	ctl := authCtl.NewAuthController(svc)

	grp := r.Group("/auth")
	grp.Post("/login", loginLimiter, ctl.Login)
	grp.Post("/google", loginLimiter, ctl.LoginGoogle)
	grp.Post("/logout", ctl.Logout)
	grp.Get("/me", authMw.RejectRevoked(svc.DB, svc.Secret), authMw.AuthMiddleware(svc.Secret), ctl.Me)
}
