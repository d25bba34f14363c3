// file: internals/route/index.go
package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"eventhub_backend/internals/caches"
	"eventhub_backend/internals/configs"
	eventService "eventhub_backend/internals/features/events/events/service"
	regService "eventhub_backend/internals/features/events/registrations/service"
	authMw "eventhub_backend/internals/middlewares/auth"
	routeDetails "eventhub_backend/internals/route/details"
)

var startTime time.Time

// Deps is what the route tree needs from main.
type Deps struct {
	DB    *gorm.DB
	Cfg   *configs.AppConfig
	Cache *caches.CapacityCache
}

func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()

	BaseRoutes(app, d.DB)

	evSvc := eventService.NewEventService(d.DB, capacityCache(d.Cache))
	regSvc := regService.NewRegistrationService(d.DB, invalidator(d.Cache))

	api := app.Group("/api")

	// ===================== AUTH =====================
	log.Info().Msg("mounting auth routes")
	routeDetails.AuthRoutes(api, d.Cfg, d.DB)

	// ===================== PUBLIC =====================
	log.Info().Msg("mounting public routes")
	public := api.Group("/public")
	routeDetails.EventPublicRoutes(public, evSvc, regSvc)

	// ===================== ADMIN =====================
	log.Info().Msg("mounting admin routes")
	admin := api.Group("/a", authMw.AdminOnly(d.Cfg.JWTSecret, d.DB)...)
	routeDetails.EventAdminRoutes(admin, evSvc, regSvc)
}

// A nil *CapacityCache must reach the services as a nil interface.
func capacityCache(c *caches.CapacityCache) eventService.CapacityCache {
	if c == nil {
		return nil
	}
	return c
}

func invalidator(c *caches.CapacityCache) regService.Invalidator {
	if c == nil {
		return nil
	}
	return c
}
