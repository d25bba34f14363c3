package details

import (
	"github.com/gofiber/fiber/v2"

	eventRoute "eventhub_backend/internals/features/events/events/route"
	eventService "eventhub_backend/internals/features/events/events/service"
	regRoute "eventhub_backend/internals/features/events/registrations/route"
	regService "eventhub_backend/internals/features/events/registrations/service"
	"eventhub_backend/internals/middlewares"
)

// EventPublicRoutes
// Example: GET /api/public/events, POST /api/public/events/:id/registrations
func EventPublicRoutes(api fiber.Router, evSvc *eventService.EventService, regSvc *regService.RegistrationService) {
	eventRoute.EventPublicRoutes(api, evSvc)
	regRoute.RegistrationPublicRoutes(api, regSvc, middlewares.RegistrationRateLimiter())
}

// EventAdminRoutes
// Example: PATCH /api/a/events/:id, GET /api/a/registrations/stats
func EventAdminRoutes(api fiber.Router, evSvc *eventService.EventService, regSvc *regService.RegistrationService) {
	eventRoute.EventAdminRoutes(api, evSvc)
	regRoute.RegistrationAdminRoutes(api, regSvc)
}
