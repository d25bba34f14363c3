// file: internals/features/events/events/controller/event_controller.go
package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	helper "eventhub_backend/internals/helpers"
	"eventhub_backend/internals/helpers/apperr"

	dto "eventhub_backend/internals/features/events/events/dto"
	service "eventhub_backend/internals/features/events/events/service"
)

/* =========================
   Controller
   ========================= */

type EventController struct {
	Svc       *service.EventService
	Validator *validator.Validate
}

func NewEventController(svc *service.EventService) *EventController {
	return &EventController{Svc: svc, Validator: helper.NewValidator()}
}

// ParseID reads a uuid path param. Malformed ids cannot name a record, so they are 404.
func ParseID(c *fiber.Ctx, param, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(param)))
	if err != nil {
		return uuid.Nil, apperr.NotFound(what)
	}
	return id, nil
}

/*
=========================================================

	LIST
	GET /api/public/events
	Query: q|search, status, page, limit, sort_by, sort_order

=========================================================
*/
func (ctl *EventController) List(c *fiber.Ctx) error {
	q := dto.EventListQuery{
		Params: helper.ParseFiber(c, "date", "asc", helper.DefaultOpts),
		Search: firstNonEmpty(c.Query("search"), c.Query("q")),
		Status: c.Query("status"),
	}
	items, page, err := ctl.Svc.List(c.UserContext(), q)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonList(c, "events", items, page)
}

/*
=========================================================

	GET BY ID
	GET /api/public/events/:id

=========================================================
*/
func (ctl *EventController) GetByID(c *fiber.Ctx) error {
	id, err := ParseID(c, "id", "event")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := ctl.Svc.GetByID(c.UserContext(), id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "event", out)
}

/*
=========================================================

	CAPACITY
	GET /api/public/events/:id/capacity     (cached snapshot)
	GET /api/a/events/:id/capacity/live     (live count)

=========================================================
*/
func (ctl *EventController) Capacity(c *fiber.Ctx) error {
	id, err := ParseID(c, "id", "event")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	info, err := ctl.Svc.CapacitySnapshot(c.UserContext(), id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "capacity", info)
}

func (ctl *EventController) LiveCapacity(c *fiber.Ctx) error {
	id, err := ParseID(c, "id", "event")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	info, err := ctl.Svc.CheckCapacity(c.UserContext(), id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "capacity", info)
}

/*
=========================================================

	CREATE
	POST /api/a/events

=========================================================
*/
func (ctl *EventController) Create(c *fiber.Ctx) error {
	var req dto.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := req.Validate(ctl.Validator); err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := ctl.Svc.Create(c.UserContext(), req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "event created", out)
}

/*
=========================================================

	PATCH
	PATCH /api/a/events/:id   (tri-state fields)

=========================================================
*/
func (ctl *EventController) Patch(c *fiber.Ctx) error {
	id, err := ParseID(c, "id", "event")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.PatchEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := req.ValidatePartial(ctl.Validator); err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := ctl.Svc.Update(c.UserContext(), id, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "event updated", out)
}

/*
=========================================================

	DELETE
	DELETE /api/a/events/:id   (cascades to registrations)

=========================================================
*/
func (ctl *EventController) Delete(c *fiber.Ctx) error {
	id, err := ParseID(c, "id", "event")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	removed, err := ctl.Svc.Delete(c.UserContext(), id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "event deleted", fiber.Map{
		"event_id":              id,
		"registrations_removed": removed,
	})
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
