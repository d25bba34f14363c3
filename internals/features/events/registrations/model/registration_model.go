// file: internals/features/events/registrations/model/registration_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	eventModel "eventhub_backend/internals/features/events/events/model"
)

type RegistrantStatus string

const (
	RegistrantStudent  RegistrantStatus = "STUDENT"
	RegistrantGraduate RegistrantStatus = "GRADUATE"
)

func (s RegistrantStatus) Valid() bool {
	return s == RegistrantStudent || s == RegistrantGraduate
}

// RegistrationModel is one person's signup for one event. The row's existence is the
// capacity it consumes.
type RegistrationModel struct {
	RegistrationID      uuid.UUID `gorm:"type:uuid;primaryKey;column:registration_id"                                              json:"registration_id"`
	RegistrationEventID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_registrations_event_email,priority:1;column:registration_event_id" json:"registration_event_id"`

	RegistrationFirstName      string           `gorm:"type:varchar(100);not null;column:registration_first_name"                              json:"registration_first_name"`
	RegistrationLastName       string           `gorm:"type:varchar(100);not null;column:registration_last_name"                               json:"registration_last_name"`
	RegistrationEmail          string           `gorm:"type:varchar(255);not null;uniqueIndex:uq_registrations_event_email,priority:2;column:registration_email" json:"registration_email"`
	RegistrationPhone          string           `gorm:"type:varchar(32);not null;column:registration_phone"                                    json:"registration_phone"`
	RegistrationStatus         RegistrantStatus `gorm:"type:varchar(16);not null;index;column:registration_status"                             json:"registration_status"`
	RegistrationCourse         *string          `gorm:"type:varchar(200);column:registration_course"                                           json:"registration_course,omitempty"`
	RegistrationAreaOfInterest string           `gorm:"type:varchar(200);not null;column:registration_area_of_interest"                       json:"registration_area_of_interest"`
	RegistrationExpectations   *string          `gorm:"type:text;column:registration_expectations"                                             json:"registration_expectations,omitempty"`

	RegistrationAttended   bool       `gorm:"not null;default:false;column:registration_attended" json:"registration_attended"`
	RegistrationAttendedAt *time.Time `gorm:"column:registration_attended_at"                     json:"registration_attended_at,omitempty"`

	RegistrationRegisteredAt time.Time `gorm:"not null;autoCreateTime;index;column:registration_registered_at" json:"registration_registered_at"`
	RegistrationUpdatedAt    time.Time `gorm:"not null;autoUpdateTime;column:registration_updated_at"          json:"registration_updated_at"`

	Event *eventModel.EventModel `gorm:"foreignKey:RegistrationEventID;references:EventID;constraint:OnDelete:CASCADE" json:"-"`
}

func (RegistrationModel) TableName() string { return "registrations" }

func (m *RegistrationModel) BeforeCreate(*gorm.DB) error {
	if m.RegistrationID == uuid.Nil {
		m.RegistrationID = uuid.New()
	}
	return nil
}

func (m *RegistrationModel) FullName() string {
	return m.RegistrationFirstName + " " + m.RegistrationLastName
}
