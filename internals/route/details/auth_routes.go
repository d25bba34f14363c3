package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eventhub_backend/internals/configs"
	authRoute "eventhub_backend/internals/features/auth/route"
	authService "eventhub_backend/internals/features/auth/service"
	"eventhub_backend/internals/middlewares"
)

// AuthRoutes
// Example: POST /api/auth/login, POST /api/auth/logout
func AuthRoutes(api fiber.Router, cfg *configs.AppConfig, db *gorm.DB) {
	svc := authService.NewAuthService(cfg, db)
	authRoute.AuthRoutes(api, svc, middlewares.LoginRateLimiter())
}
