// file: internals/features/events/registrations/controller/registration_controller.go
package controller

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	helper "eventhub_backend/internals/helpers"

	evCtl "eventhub_backend/internals/features/events/events/controller"
	dto "eventhub_backend/internals/features/events/registrations/dto"
	service "eventhub_backend/internals/features/events/registrations/service"
)

type RegistrationController struct {
	Svc       *service.RegistrationService
	Validator *validator.Validate
}

func NewRegistrationController(svc *service.RegistrationService) *RegistrationController {
	return &RegistrationController{Svc: svc, Validator: helper.NewValidator()}
}

func listQuery(c *fiber.Ctx, opt helper.Options) dto.RegistrationListQuery {
	search := strings.TrimSpace(c.Query("search"))
	if search == "" {
		search = strings.TrimSpace(c.Query("q"))
	}
	return dto.RegistrationListQuery{
		Params: helper.ParseFiber(c, "registered_at", "desc", opt),
		Search: search,
		Status: c.Query("status"),
	}
}

/*
=========================================================

	CREATE
	POST /api/public/events/:id/registrations
	POST /api/a/events/:id/registrations     (on behalf of a registrant)

=========================================================
*/
func (ctl *RegistrationController) Create(c *fiber.Ctx) error {
	eventID, err := evCtl.ParseID(c, "id", "event")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.CreateRegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := req.Validate(ctl.Validator); err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := ctl.Svc.Register(c.UserContext(), eventID, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "registration successful", out)
}

/*
=========================================================

	LIST
	GET /api/a/events/:id/registrations
	GET /api/a/registrations
	Query: q|search, status, page, limit, sort_by, sort_order

=========================================================
*/
func (ctl *RegistrationController) ListForEvent(c *fiber.Ctx) error {
	eventID, err := evCtl.ParseID(c, "id", "event")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	items, page, err := ctl.Svc.ListForEvent(c.UserContext(), eventID, listQuery(c, helper.DefaultOpts))
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonList(c, "registrations", items, page)
}

func (ctl *RegistrationController) ListAll(c *fiber.Ctx) error {
	items, page, err := ctl.Svc.ListAll(c.UserContext(), listQuery(c, helper.AdminOpts))
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonList(c, "registrations", items, page)
}

func (ctl *RegistrationController) GetByID(c *fiber.Ctx) error {
	id, err := evCtl.ParseID(c, "id", "registration")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := ctl.Svc.GetByID(c.UserContext(), id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "registration", out)
}

func (ctl *RegistrationController) Stats(c *fiber.Ctx) error {
	out, err := ctl.Svc.Stats(c.UserContext())
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "registration stats", out)
}

/*
=========================================================

	PATCH
	PATCH /api/a/registrations/:id
	PATCH /api/a/registrations/:id/attendance

=========================================================
*/
func (ctl *RegistrationController) Patch(c *fiber.Ctx) error {
	id, err := evCtl.ParseID(c, "id", "registration")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.PatchRegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	out, err := ctl.Svc.Update(c.UserContext(), id, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "registration updated", out)
}

func (ctl *RegistrationController) Attendance(c *fiber.Ctx) error {
	id, err := evCtl.ParseID(c, "id", "registration")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.AttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := helper.ValidateStruct(ctl.Validator, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := ctl.Svc.MarkAttendance(c.UserContext(), id, *req.RegistrationAttended)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "attendance updated", out)
}

/*
=========================================================

	DELETE
	DELETE /api/a/registrations/:id

=========================================================
*/
func (ctl *RegistrationController) Delete(c *fiber.Ctx) error {
	id, err := evCtl.ParseID(c, "id", "registration")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := ctl.Svc.Delete(c.UserContext(), id); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "registration deleted", fiber.Map{"registration_id": id})
}

/*
=========================================================

	EXPORT
	GET /api/a/events/:id/registrations/export?format=json|csv&attended_only=true

=========================================================
*/
func (ctl *RegistrationController) Export(c *fiber.Ctx) error {
	eventID, err := evCtl.ParseID(c, "id", "event")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	attendedOnly, _ := strconv.ParseBool(c.Query("attended_only", "false"))
	opt := dto.ExportOptions{Format: c.Query("format"), AttendedOnly: attendedOnly}

	out, err := ctl.Svc.Export(c.UserContext(), eventID, opt)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if !strings.EqualFold(strings.TrimSpace(opt.Format), dto.ExportCSV) {
		return helper.JsonOK(c, "registrations export", out)
	}

	var buf bytes.Buffer
	if err := out.WriteCSV(&buf); err != nil {
		return helper.JsonFromError(c, err)
	}
	name := fmt.Sprintf("registrations-%s-%s.csv", helper.Slugify(out.EventTitle, 60), out.EventDate)
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(buf.Bytes())
}
