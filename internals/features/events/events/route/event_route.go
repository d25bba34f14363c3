// file: internals/features/events/events/route/event_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	evCtl "eventhub_backend/internals/features/events/events/controller"
	service "eventhub_backend/internals/features/events/events/service"
)

// EventPublicRoutes: read-only, mounted under /api/public.
func EventPublicRoutes(r fiber.Router, svc *service.EventService) {
	ctl := evCtl.NewEventController(svc)

	grp := r.Group("/events")
	grp.Get("/", ctl.List)
	grp.Get("/:id", ctl.GetByID)
	grp.Get("/:id/capacity", ctl.Capacity)
}

// EventAdminRoutes: mounted under /api/a behind the admin guard.
func EventAdminRoutes(r fiber.Router, svc *service.EventService) {
	ctl := evCtl.NewEventController(svc)

	grp := r.Group("/events")
	grp.Get("/", ctl.List)
	grp.Post("/", ctl.Create)
	grp.Get("/:id", ctl.GetByID)
	grp.Patch("/:id", ctl.Patch)
	grp.Delete("/:id", ctl.Delete)
	grp.Get("/:id/capacity/live", ctl.LiveCapacity)
}
