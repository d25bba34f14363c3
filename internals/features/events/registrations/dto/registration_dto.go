// file: internals/features/events/registrations/dto/registration_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	helper "eventhub_backend/internals/helpers"
	"eventhub_backend/internals/helpers/apperr"

	eventModel "eventhub_backend/internals/features/events/events/model"
	model "eventhub_backend/internals/features/events/registrations/model"
)

/* =========================================================
   Requests: CREATE
   ========================================================= */

type CreateRegistrationRequest struct {
	RegistrationFirstName      string  `json:"registration_first_name"       validate:"required,max=100"`
	RegistrationLastName       string  `json:"registration_last_name"        validate:"required,max=100"`
	RegistrationEmail          string  `json:"registration_email"            validate:"required,email,max=255"`
	RegistrationPhone          string  `json:"registration_phone"            validate:"required,phone"`
	RegistrationStatus         string  `json:"registration_status"           validate:"required,oneof=STUDENT GRADUATE"`
	RegistrationCourse         *string `json:"registration_course"           validate:"required_if=RegistrationStatus STUDENT,omitempty,max=200"`
	RegistrationAreaOfInterest string  `json:"registration_area_of_interest" validate:"required,max=200"`
	RegistrationExpectations   *string `json:"registration_expectations"     validate:"omitempty,max=2000"`
}

func (r *CreateRegistrationRequest) Normalize() {
	r.RegistrationFirstName = strings.TrimSpace(r.RegistrationFirstName)
	r.RegistrationLastName = strings.TrimSpace(r.RegistrationLastName)
	r.RegistrationEmail = helper.NormalizeEmail(r.RegistrationEmail)
	r.RegistrationPhone = strings.TrimSpace(r.RegistrationPhone)
	r.RegistrationStatus = strings.ToUpper(strings.TrimSpace(r.RegistrationStatus))
	r.RegistrationCourse = helper.TrimPtr(r.RegistrationCourse)
	r.RegistrationAreaOfInterest = strings.TrimSpace(r.RegistrationAreaOfInterest)
	r.RegistrationExpectations = helper.TrimPtr(r.RegistrationExpectations)

	// course only exists for students
	if r.RegistrationStatus == string(model.RegistrantGraduate) {
		r.RegistrationCourse = nil
	}
}

func (r *CreateRegistrationRequest) Validate(v *validator.Validate) error {
	return helper.ValidateStruct(v, r)
}

func (r *CreateRegistrationRequest) ToModel(eventID uuid.UUID) *model.RegistrationModel {
	return &model.RegistrationModel{
		RegistrationEventID:        eventID,
		RegistrationFirstName:      r.RegistrationFirstName,
		RegistrationLastName:       r.RegistrationLastName,
		RegistrationEmail:          r.RegistrationEmail,
		RegistrationPhone:          r.RegistrationPhone,
		RegistrationStatus:         model.RegistrantStatus(r.RegistrationStatus),
		RegistrationCourse:         r.RegistrationCourse,
		RegistrationAreaOfInterest: r.RegistrationAreaOfInterest,
		RegistrationExpectations:   r.RegistrationExpectations,
	}
}

/* =========================================================
   Requests: PATCH (admin, limited fields)
   ========================================================= */

type PatchRegistrationRequest struct {
	RegistrationPhone          helper.PatchField[string] `json:"registration_phone"`
	RegistrationCourse         helper.PatchField[string] `json:"registration_course"`
	RegistrationAreaOfInterest helper.PatchField[string] `json:"registration_area_of_interest"`
	RegistrationExpectations   helper.PatchField[string] `json:"registration_expectations"`
}

func (p *PatchRegistrationRequest) Normalize() {
	if p.RegistrationPhone.Present && p.RegistrationPhone.Value != nil {
		v := strings.TrimSpace(*p.RegistrationPhone.Value)
		p.RegistrationPhone.Value = &v
	}
	if p.RegistrationAreaOfInterest.Present && p.RegistrationAreaOfInterest.Value != nil {
		v := strings.TrimSpace(*p.RegistrationAreaOfInterest.Value)
		p.RegistrationAreaOfInterest.Value = &v
	}
	if p.RegistrationCourse.Present {
		p.RegistrationCourse.Value = helper.TrimPtr(p.RegistrationCourse.Value)
	}
	if p.RegistrationExpectations.Present {
		p.RegistrationExpectations.Value = helper.TrimPtr(p.RegistrationExpectations.Value)
	}
}

func (p *PatchRegistrationRequest) Empty() bool {
	return !p.RegistrationPhone.Present && !p.RegistrationCourse.Present &&
		!p.RegistrationAreaOfInterest.Present && !p.RegistrationExpectations.Present
}

// ValidatePartial checks the sent fields against the registrant's current status.
func (p *PatchRegistrationRequest) ValidatePartial(status model.RegistrantStatus) error {
	details := map[string]string{}
	if p.RegistrationPhone.Present {
		if v := p.RegistrationPhone.Value; v == nil || !helper.ValidPhone(*v) {
			details["registration_phone"] = "must be a valid phone number"
		}
	}
	if p.RegistrationAreaOfInterest.Present {
		v := p.RegistrationAreaOfInterest.Value
		switch {
		case v == nil || *v == "":
			details["registration_area_of_interest"] = "cannot be empty"
		case len(*v) > 200:
			details["registration_area_of_interest"] = "must be at most 200 characters"
		}
	}
	if p.RegistrationCourse.Present {
		v := p.RegistrationCourse.Value
		switch {
		case status == model.RegistrantStudent && v == nil:
			details["registration_course"] = "is required when status is STUDENT"
		case status == model.RegistrantGraduate && v != nil:
			details["registration_course"] = "must be empty when status is GRADUATE"
		case v != nil && len(*v) > 200:
			details["registration_course"] = "must be at most 200 characters"
		}
	}
	if v := p.RegistrationExpectations.Value; v != nil && len(*v) > 2000 {
		details["registration_expectations"] = "must be at most 2000 characters"
	}
	if len(details) > 0 {
		return apperr.Validation("validation failed", details)
	}
	return nil
}

func (p *PatchRegistrationRequest) ApplyPatch(m *model.RegistrationModel) {
	if v, ok := p.RegistrationPhone.Get(); ok && v != nil {
		m.RegistrationPhone = *v
	}
	if v, ok := p.RegistrationCourse.Get(); ok {
		m.RegistrationCourse = v
	}
	if v, ok := p.RegistrationAreaOfInterest.Get(); ok && v != nil {
		m.RegistrationAreaOfInterest = *v
	}
	if v, ok := p.RegistrationExpectations.Get(); ok {
		m.RegistrationExpectations = v
	}
}

type AttendanceRequest struct {
	RegistrationAttended *bool `json:"registration_attended" validate:"required"`
}

/* =========================================================
   Query (list)
   ========================================================= */

type RegistrationListQuery struct {
	helper.Params
	Search string
	Status string
}

var RegistrationSortColumns = map[string]string{
	"registered_at": "registrations.registration_registered_at",
	"first_name":    "registrations.registration_first_name",
	"last_name":     "registrations.registration_last_name",
	"email":         "registrations.registration_email",
	"status":        "registrations.registration_status",
	"attended":      "registrations.registration_attended",
}

func (q *RegistrationListQuery) Normalize(opt helper.Options) {
	q.Search = strings.TrimSpace(q.Search)
	q.Status = strings.ToUpper(strings.TrimSpace(q.Status))
	q.Params = q.Params.Normalize("registered_at", "desc", opt)
}

func (q *RegistrationListQuery) Validate() error {
	if q.Status != "" && !model.RegistrantStatus(q.Status).Valid() {
		return apperr.Validation("validation failed", map[string]string{
			"status": "must be one of: STUDENT GRADUATE",
		})
	}
	return nil
}

/* =========================================================
   Export options
   ========================================================= */

const (
	ExportJSON = "json"
	ExportCSV  = "csv"
)

type ExportOptions struct {
	Format       string
	AttendedOnly bool
}

func (o *ExportOptions) Normalize() error {
	o.Format = strings.ToLower(strings.TrimSpace(o.Format))
	if o.Format == "" {
		o.Format = ExportJSON
	}
	if o.Format != ExportJSON && o.Format != ExportCSV {
		return apperr.Validation("validation failed", map[string]string{"format": "must be one of: json csv"})
	}
	return nil
}

/* =========================================================
   Responses
   ========================================================= */

type EventSummary struct {
	EventID     uuid.UUID              `json:"event_id"`
	EventTitle  string                 `json:"event_title"`
	EventDate   string                 `json:"event_date"`
	EventTime   string                 `json:"event_time"`
	EventVenue  string                 `json:"event_venue"`
	EventStatus eventModel.EventStatus `json:"event_status"`
}

func NewEventSummary(e *eventModel.EventModel) *EventSummary {
	if e == nil {
		return nil
	}
	return &EventSummary{
		EventID:     e.EventID,
		EventTitle:  e.EventTitle,
		EventDate:   e.Day().Format("2006-01-02"),
		EventTime:   e.EventTime,
		EventVenue:  e.EventVenue,
		EventStatus: e.EventStatus,
	}
}

type RegistrationResponse struct {
	RegistrationID             uuid.UUID              `json:"registration_id"`
	RegistrationEventID        uuid.UUID              `json:"registration_event_id"`
	RegistrationFirstName      string                 `json:"registration_first_name"`
	RegistrationLastName       string                 `json:"registration_last_name"`
	RegistrationEmail          string                 `json:"registration_email"`
	RegistrationPhone          string                 `json:"registration_phone"`
	RegistrationStatus         model.RegistrantStatus `json:"registration_status"`
	RegistrationCourse         *string                `json:"registration_course,omitempty"`
	RegistrationAreaOfInterest string                 `json:"registration_area_of_interest"`
	RegistrationExpectations   *string                `json:"registration_expectations,omitempty"`
	RegistrationAttended       bool                   `json:"registration_attended"`
	RegistrationAttendedAt     *time.Time             `json:"registration_attended_at,omitempty"`
	RegistrationRegisteredAt   time.Time              `json:"registration_registered_at"`
	RegistrationUpdatedAt      time.Time              `json:"registration_updated_at"`

	Event *EventSummary `json:"event,omitempty"`
}

func FromModel(m *model.RegistrationModel) RegistrationResponse {
	return RegistrationResponse{
		RegistrationID:             m.RegistrationID,
		RegistrationEventID:        m.RegistrationEventID,
		RegistrationFirstName:      m.RegistrationFirstName,
		RegistrationLastName:       m.RegistrationLastName,
		RegistrationEmail:          m.RegistrationEmail,
		RegistrationPhone:          m.RegistrationPhone,
		RegistrationStatus:         m.RegistrationStatus,
		RegistrationCourse:         m.RegistrationCourse,
		RegistrationAreaOfInterest: m.RegistrationAreaOfInterest,
		RegistrationExpectations:   m.RegistrationExpectations,
		RegistrationAttended:       m.RegistrationAttended,
		RegistrationAttendedAt:     m.RegistrationAttendedAt,
		RegistrationRegisteredAt:   m.RegistrationRegisteredAt,
		RegistrationUpdatedAt:      m.RegistrationUpdatedAt,
		Event:                      NewEventSummary(m.Event),
	}
}

func FromModels(rows []model.RegistrationModel) []RegistrationResponse {
	out := make([]RegistrationResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

type StatsResponse struct {
	Total     int64                  `json:"total"`
	Students  int64                  `json:"students"`
	Graduates int64                  `json:"graduates"`
	Attended  int64                  `json:"attended"`
	Recent    []RegistrationResponse `json:"recent"`
}
