// file: internals/features/events/registrations/route/registration_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	regCtl "eventhub_backend/internals/features/events/registrations/controller"
	service "eventhub_backend/internals/features/events/registrations/service"
)

// RegistrationPublicRoutes: self-service signup under /api/public.
// guards run before the handler (e.g. the registration rate limiter).
func RegistrationPublicRoutes(r fiber.Router, svc *service.RegistrationService, guards ...fiber.Handler) {
	ctl := regCtl.NewRegistrationController(svc)

	handlers := append(guards, ctl.Create)
	r.Post("/events/:id/registrations", handlers...)
}

// RegistrationAdminRoutes: mounted under /api/a behind the admin guard.
func RegistrationAdminRoutes(r fiber.Router, svc *service.RegistrationService) {
	ctl := regCtl.NewRegistrationController(svc)

	ev := r.Group("/events/:id/registrations")
	ev.Get("/", ctl.ListForEvent)
	ev.Get("/export", ctl.Export)
	ev.Post("/", ctl.Create)

	grp := r.Group("/registrations")
	grp.Get("/", ctl.ListAll)
	grp.Get("/stats", ctl.Stats)
	grp.Get("/:id", ctl.GetByID)
	grp.Patch("/:id", ctl.Patch)
	grp.Patch("/:id/attendance", ctl.Attendance)
	grp.Delete("/:id", ctl.Delete)
}
