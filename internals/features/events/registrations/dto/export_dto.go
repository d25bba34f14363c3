// file: internals/features/events/registrations/dto/export_dto.go
package dto

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"

	helper "eventhub_backend/internals/helpers"

	eventModel "eventhub_backend/internals/features/events/events/model"
	model "eventhub_backend/internals/features/events/registrations/model"
)

type ExportRow struct {
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Status         string     `json:"status"`
	Course         string     `json:"course"`
	AreaOfInterest string     `json:"area_of_interest"`
	Expectations   string     `json:"expectations"`
	RegisteredAt   time.Time  `json:"registered_at"`
	Attended       bool       `json:"attended"`
	AttendedAt     *time.Time `json:"attended_at,omitempty"`
}

type ExportResponse struct {
	EventID       uuid.UUID   `json:"event_id"`
	EventTitle    string      `json:"event_title"`
	EventDate     string      `json:"event_date"`
	Registrations []ExportRow `json:"registrations"`
	Total         int         `json:"total"`
	ExportedAt    time.Time   `json:"exported_at"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// NewExport builds the export view. rows are expected in registration order.
func NewExport(e *eventModel.EventModel, rows []model.RegistrationModel, now time.Time) ExportResponse {
	out := ExportResponse{
		EventID:       e.EventID,
		EventTitle:    e.EventTitle,
		EventDate:     e.Day().Format("2006-01-02"),
		Registrations: make([]ExportRow, 0, len(rows)),
		Total:         len(rows),
		ExportedAt:    now.UTC(),
	}
	for _, r := range rows {
		out.Registrations = append(out.Registrations, ExportRow{
			FirstName:      r.RegistrationFirstName,
			LastName:       r.RegistrationLastName,
			Email:          r.RegistrationEmail,
			Phone:          helper.FormatPhone(r.RegistrationPhone),
			Status:         string(r.RegistrationStatus),
			Course:         deref(r.RegistrationCourse),
			AreaOfInterest: r.RegistrationAreaOfInterest,
			Expectations:   deref(r.RegistrationExpectations),
			RegisteredAt:   r.RegistrationRegisteredAt.UTC(),
			Attended:       r.RegistrationAttended,
			AttendedAt:     r.RegistrationAttendedAt,
		})
	}
	return out
}

var csvHeader = []string{
	"First Name", "Last Name", "Email", "Phone", "Status", "Course",
	"Area of Interest", "Expectations", "Registered At", "Attended", "Attended At",
}

// csvCell neutralizes values a spreadsheet would evaluate as a formula.
func csvCell(v string) string {
	if v == "" {
		return v
	}
	switch v[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + v
	}
	return v
}

// WriteCSV renders the same rows as the JSON export, header first.
func (e ExportResponse) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range e.Registrations {
		attendedAt := ""
		if r.AttendedAt != nil {
			attendedAt = r.AttendedAt.UTC().Format(time.RFC3339)
		}
		if err := cw.Write([]string{
			csvCell(r.FirstName), csvCell(r.LastName), csvCell(r.Email), csvCell(r.Phone), r.Status,
			csvCell(r.Course), csvCell(r.AreaOfInterest), csvCell(r.Expectations), r.RegisteredAt.Format(time.RFC3339),
			strconv.FormatBool(r.Attended), attendedAt,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
