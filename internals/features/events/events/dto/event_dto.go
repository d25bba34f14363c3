// file: internals/features/events/events/dto/event_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	helper "eventhub_backend/internals/helpers"
	"eventhub_backend/internals/helpers/apperr"

	model "eventhub_backend/internals/features/events/events/model"
)

const DateLayout = "2006-01-02"

/* =========================================================
   Requests: CREATE
   ========================================================= */

type CreateEventRequest struct {
	EventTitle       string  `json:"event_title"       validate:"required,max=200"`
	EventDescription *string `json:"event_description" validate:"omitempty,max=5000"`
	EventDate        string  `json:"event_date"        validate:"required,datetime=2006-01-02"`
	EventTime        string  `json:"event_time"        validate:"required,datetime=15:04"`
	EventVenue       string  `json:"event_venue"       validate:"required,max=255"`
	EventCapacity    int     `json:"event_capacity"    validate:"required,gt=0"`
	EventFlyerURL    *string `json:"event_flyer_url"   validate:"omitempty,url"`
	EventStatus      string  `json:"event_status"      validate:"omitempty,oneof=ACTIVE INACTIVE COMPLETED"`
}

func (r *CreateEventRequest) Normalize() {
	r.EventTitle = strings.TrimSpace(r.EventTitle)
	r.EventDescription = helper.TrimPtr(r.EventDescription)
	r.EventDate = strings.TrimSpace(r.EventDate)
	r.EventTime = strings.TrimSpace(r.EventTime)
	r.EventVenue = strings.TrimSpace(r.EventVenue)
	r.EventFlyerURL = helper.TrimPtr(r.EventFlyerURL)
	r.EventStatus = strings.ToUpper(strings.TrimSpace(r.EventStatus))
}

func (r *CreateEventRequest) Validate(v *validator.Validate) error {
	return helper.ValidateStruct(v, r)
}

func (r *CreateEventRequest) ToModel() *model.EventModel {
	d, _ := time.Parse(DateLayout, r.EventDate)
	status := model.EventActive
	if r.EventStatus != "" {
		status = model.EventStatus(r.EventStatus)
	}
	return &model.EventModel{
		EventTitle:       r.EventTitle,
		EventDescription: r.EventDescription,
		EventDate:        datatypes.Date(d),
		EventTime:        r.EventTime,
		EventVenue:       r.EventVenue,
		EventCapacity:    r.EventCapacity,
		EventFlyerURL:    r.EventFlyerURL,
		EventStatus:      status,
	}
}

/* =========================================================
   Requests: PATCH (partial)
   ========================================================= */

type PatchEventRequest struct {
	EventTitle       helper.PatchField[string] `json:"event_title"`
	EventDescription helper.PatchField[string] `json:"event_description"`
	EventDate        helper.PatchField[string] `json:"event_date"`
	EventTime        helper.PatchField[string] `json:"event_time"`
	EventVenue       helper.PatchField[string] `json:"event_venue"`
	EventCapacity    helper.PatchField[int]    `json:"event_capacity"`
	EventFlyerURL    helper.PatchField[string] `json:"event_flyer_url"`
	EventStatus      helper.PatchField[string] `json:"event_status"`
}

func (p *PatchEventRequest) Normalize() {
	trim := func(f *helper.PatchField[string]) {
		if f.Present && f.Value != nil {
			v := strings.TrimSpace(*f.Value)
			f.Value = &v
		}
	}
	trim(&p.EventTitle)
	trim(&p.EventDate)
	trim(&p.EventTime)
	trim(&p.EventVenue)
	if p.EventStatus.Present && p.EventStatus.Value != nil {
		v := strings.ToUpper(strings.TrimSpace(*p.EventStatus.Value))
		p.EventStatus.Value = &v
	}
	if p.EventDescription.Present {
		p.EventDescription.Value = helper.TrimPtr(p.EventDescription.Value)
	}
	if p.EventFlyerURL.Present {
		p.EventFlyerURL.Value = helper.TrimPtr(p.EventFlyerURL.Value)
	}
}

// ValidatePartial checks only the fields that were sent.
func (p *PatchEventRequest) ValidatePartial(v *validator.Validate) error {
	details := map[string]string{}
	required := func(name string, f helper.PatchField[string]) bool {
		if f.Present && (f.Value == nil || *f.Value == "") {
			details[name] = "cannot be empty"
			return false
		}
		return f.Present
	}

	if required("event_title", p.EventTitle) && len(*p.EventTitle.Value) > 200 {
		details["event_title"] = "must be at most 200 characters"
	}
	if required("event_date", p.EventDate) {
		if _, err := time.Parse(DateLayout, *p.EventDate.Value); err != nil {
			details["event_date"] = "must match format " + DateLayout
		}
	}
	if required("event_time", p.EventTime) {
		if _, err := time.Parse("15:04", *p.EventTime.Value); err != nil {
			details["event_time"] = "must match format 15:04"
		}
	}
	if required("event_venue", p.EventVenue) && len(*p.EventVenue.Value) > 255 {
		details["event_venue"] = "must be at most 255 characters"
	}
	if p.EventCapacity.Present && (p.EventCapacity.Value == nil || *p.EventCapacity.Value <= 0) {
		details["event_capacity"] = "must be greater than 0"
	}
	if required("event_status", p.EventStatus) && !model.EventStatus(*p.EventStatus.Value).Valid() {
		details["event_status"] = "must be one of: ACTIVE INACTIVE COMPLETED"
	}
	if p.EventFlyerURL.Value != nil {
		if err := v.Var(*p.EventFlyerURL.Value, "url"); err != nil {
			details["event_flyer_url"] = "must be a valid URL"
		}
	}
	if len(details) > 0 {
		return apperr.Validation("validation failed", details)
	}
	return nil
}

// NewCapacity returns the requested capacity when the patch changes it.
func (p *PatchEventRequest) NewCapacity() (int, bool) {
	if v, ok := p.EventCapacity.Get(); ok && v != nil {
		return *v, true
	}
	return 0, false
}

// ApplyPatch mutates m in place for every field that was sent.
func (p *PatchEventRequest) ApplyPatch(m *model.EventModel) {
	if val, ok := p.EventTitle.Get(); ok && val != nil {
		m.EventTitle = *val
	}
	if val, ok := p.EventDescription.Get(); ok {
		m.EventDescription = val
	}
	if val, ok := p.EventDate.Get(); ok && val != nil {
		if d, err := time.Parse(DateLayout, *val); err == nil {
			m.EventDate = datatypes.Date(d)
		}
	}
	if val, ok := p.EventTime.Get(); ok && val != nil {
		m.EventTime = *val
	}
	if val, ok := p.EventVenue.Get(); ok && val != nil {
		m.EventVenue = *val
	}
	if val, ok := p.EventCapacity.Get(); ok && val != nil {
		m.EventCapacity = *val
	}
	if val, ok := p.EventFlyerURL.Get(); ok {
		m.EventFlyerURL = val
	}
	if val, ok := p.EventStatus.Get(); ok && val != nil {
		m.EventStatus = model.EventStatus(*val)
	}
}

/* =========================================================
   Query (list): filter/sort/paging
   ========================================================= */

type EventListQuery struct {
	helper.Params
	Search string
	Status string
}

var EventSortColumns = map[string]string{
	"date":       "events.event_date",
	"title":      "events.event_title",
	"capacity":   "events.event_capacity",
	"created_at": "events.event_created_at",
}

func (q *EventListQuery) Normalize() {
	q.Search = strings.TrimSpace(q.Search)
	q.Status = strings.ToUpper(strings.TrimSpace(q.Status))
	q.Params = q.Params.Normalize("date", "asc", helper.DefaultOpts)
}

func (q *EventListQuery) Validate() error {
	if q.Status != "" && !model.EventStatus(q.Status).Valid() {
		return apperr.Validation("validation failed", map[string]string{
			"status": "must be one of: ACTIVE INACTIVE COMPLETED",
		})
	}
	return nil
}

/* =========================================================
   Response DTO
   ========================================================= */

type EventResponse struct {
	EventID                uuid.UUID         `json:"event_id"`
	EventTitle             string            `json:"event_title"`
	EventDescription       *string           `json:"event_description,omitempty"`
	EventDate              string            `json:"event_date"`
	EventTime              string            `json:"event_time"`
	EventVenue             string            `json:"event_venue"`
	EventCapacity          int               `json:"event_capacity"`
	EventFlyerURL          *string           `json:"event_flyer_url,omitempty"`
	EventStatus            model.EventStatus `json:"event_status"`
	EventRegistrationCount int64             `json:"event_registration_count"`
	EventAvailableSpots    int64             `json:"event_available_spots"`
	EventCreatedAt         string            `json:"event_created_at"`
	EventUpdatedAt         string            `json:"event_updated_at"`
}

func FromModel(m *model.EventModel, registrations int64) EventResponse {
	available := int64(m.EventCapacity) - registrations
	if available < 0 {
		available = 0
	}
	return EventResponse{
		EventID:                m.EventID,
		EventTitle:             m.EventTitle,
		EventDescription:       m.EventDescription,
		EventDate:              m.Day().Format(DateLayout),
		EventTime:              m.EventTime,
		EventVenue:             m.EventVenue,
		EventCapacity:          m.EventCapacity,
		EventFlyerURL:          m.EventFlyerURL,
		EventStatus:            m.EventStatus,
		EventRegistrationCount: registrations,
		EventAvailableSpots:    available,
		EventCreatedAt:         m.EventCreatedAt.Format(time.RFC3339),
		EventUpdatedAt:         m.EventUpdatedAt.Format(time.RFC3339),
	}
}

// CapacityInfo answers "does this event have room" from a live count.
type CapacityInfo struct {
	EventID              uuid.UUID `json:"event_id"`
	HasCapacity          bool      `json:"has_capacity"`
	AvailableSpots       int64     `json:"available_spots"`
	TotalCapacity        int       `json:"total_capacity"`
	CurrentRegistrations int64     `json:"current_registrations"`
}

func NewCapacityInfo(m *model.EventModel, count int64) CapacityInfo {
	available := int64(m.EventCapacity) - count
	return CapacityInfo{
		EventID:              m.EventID,
		HasCapacity:          available > 0,
		AvailableSpots:       available,
		TotalCapacity:        m.EventCapacity,
		CurrentRegistrations: count,
	}
}
