// file: internals/features/events/events/model/event_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* ===================== Enums ===================== */

type EventStatus string

const (
	EventActive    EventStatus = "ACTIVE"
	EventInactive  EventStatus = "INACTIVE"
	EventCompleted EventStatus = "COMPLETED"
)

func (s EventStatus) Valid() bool {
	switch s {
	case EventActive, EventInactive, EventCompleted:
		return true
	}
	return false
}

/* ===================== Model ===================== */

// EventModel carries no registration counter; capacity use is always counted live.
type EventModel struct {
	EventID          uuid.UUID      `gorm:"type:uuid;primaryKey;column:event_id"                      json:"event_id"`
	EventTitle       string         `gorm:"type:varchar(200);not null;column:event_title"             json:"event_title"`
	EventDescription *string        `gorm:"type:text;column:event_description"                        json:"event_description,omitempty"`
	EventDate        datatypes.Date `gorm:"not null;index;column:event_date"                          json:"event_date"`
	EventTime        string         `gorm:"type:varchar(5);not null;column:event_time"                json:"event_time"`
	EventVenue       string         `gorm:"type:varchar(255);not null;column:event_venue"             json:"event_venue"`
	EventCapacity    int            `gorm:"not null;column:event_capacity"                            json:"event_capacity"`
	EventFlyerURL    *string        `gorm:"type:text;column:event_flyer_url"                          json:"event_flyer_url,omitempty"`
	EventStatus      EventStatus    `gorm:"type:varchar(16);not null;default:ACTIVE;index;column:event_status" json:"event_status"`

	EventCreatedAt time.Time `gorm:"not null;autoCreateTime;column:event_created_at" json:"event_created_at"`
	EventUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:event_updated_at" json:"event_updated_at"`
}

func (EventModel) TableName() string { return "events" }

func (m *EventModel) BeforeCreate(*gorm.DB) error {
	if m.EventID == uuid.Nil {
		m.EventID = uuid.New()
	}
	if m.EventStatus == "" {
		m.EventStatus = EventActive
	}
	return nil
}

// Day returns the event date truncated to midnight UTC.
func (m *EventModel) Day() time.Time {
	y, mo, d := time.Time(m.EventDate).Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}
