// file: internals/features/events/registrations/service/registration_service.go
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	helper "eventhub_backend/internals/helpers"
	"eventhub_backend/internals/helpers/apperr"

	eventModel "eventhub_backend/internals/features/events/events/model"
	eventService "eventhub_backend/internals/features/events/events/service"
	dto "eventhub_backend/internals/features/events/registrations/dto"
	model "eventhub_backend/internals/features/events/registrations/model"
)

const recentLimit = 10

// Invalidator drops cached capacity snapshots after the row count of an event changes.
type Invalidator interface {
	Invalidate(ctx context.Context, eventID uuid.UUID)
}

type RegistrationService struct {
	DB    *gorm.DB
	Cache Invalidator
	Now   func() time.Time
}

func NewRegistrationService(db *gorm.DB, cache Invalidator) *RegistrationService {
	return &RegistrationService{DB: db, Cache: cache, Now: time.Now}
}

func (s *RegistrationService) invalidate(ctx context.Context, eventID uuid.UUID) {
	if s.Cache != nil {
		s.Cache.Invalidate(ctx, eventID)
	}
}

func (s *RegistrationService) find(tx *gorm.DB, id uuid.UUID) (*model.RegistrationModel, error) {
	var m model.RegistrationModel
	if err := tx.Where("registration_id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("registration")
		}
		return nil, apperr.Store("get registration", err)
	}
	return &m, nil
}

/*
=========================================================

	REGISTER (guard)
	event row lock -> open? -> capacity -> duplicate -> insert

=========================================================
*/
func (s *RegistrationService) Register(ctx context.Context, eventID uuid.UUID, req dto.CreateRegistrationRequest) (dto.RegistrationResponse, error) {
	req.Normalize()

	var m *model.RegistrationModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ev, err := eventService.LockEvent(tx, eventID)
		if err != nil {
			return err
		}
		if ev.EventStatus != eventModel.EventActive {
			return apperr.New(apperr.KindEventNotOpen, "event is not open for registration")
		}

		n, err := eventService.CountRegistrations(tx, eventID)
		if err != nil {
			return err
		}
		if n >= int64(ev.EventCapacity) {
			return apperr.New(apperr.KindCapacityExceeded, "event is at full capacity")
		}

		var dup int64
		if err := tx.Model(&model.RegistrationModel{}).
			Where("registration_event_id = ? AND LOWER(registration_email) = ?", eventID, req.RegistrationEmail).
			Count(&dup).Error; err != nil {
			return apperr.Store("check duplicate", err)
		}
		if dup > 0 {
			return duplicateErr()
		}

		m = req.ToModel(eventID)
		if err := tx.Create(m).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return duplicateErr()
			}
			return apperr.Store("create registration", err)
		}
		m.Event = ev
		return nil
	})
	if err != nil {
		return dto.RegistrationResponse{}, err
	}

	s.invalidate(ctx, eventID)
	log.Ctx(ctx).Info().
		Str("event_id", eventID.String()).
		Str("registration_id", m.RegistrationID.String()).
		Msg("registration accepted")
	return dto.FromModel(m), nil
}

func duplicateErr() *apperr.Error {
	return apperr.New(apperr.KindDuplicateRegistration, "already registered for this event")
}

/*
=========================================================

	READS

=========================================================
*/
func (s *RegistrationService) GetByID(ctx context.Context, id uuid.UUID) (dto.RegistrationResponse, error) {
	m, err := s.find(s.DB.WithContext(ctx).Preload("Event"), id)
	if err != nil {
		return dto.RegistrationResponse{}, err
	}
	return dto.FromModel(m), nil
}

// ListForEvent lists one event's registrations. The event must exist.
func (s *RegistrationService) ListForEvent(ctx context.Context, eventID uuid.UUID, q dto.RegistrationListQuery) ([]dto.RegistrationResponse, helper.Pagination, error) {
	var exists int64
	if err := s.DB.WithContext(ctx).Model(&eventModel.EventModel{}).
		Where("event_id = ?", eventID).Count(&exists).Error; err != nil {
		return nil, helper.Pagination{}, apperr.Store("get event", err)
	}
	if exists == 0 {
		return nil, helper.Pagination{}, apperr.NotFound("event")
	}
	return s.list(ctx, &eventID, q, helper.DefaultOpts)
}

// ListAll lists across events; search also matches the event title.
func (s *RegistrationService) ListAll(ctx context.Context, q dto.RegistrationListQuery) ([]dto.RegistrationResponse, helper.Pagination, error) {
	return s.list(ctx, nil, q, helper.AdminOpts)
}

func (s *RegistrationService) list(ctx context.Context, eventID *uuid.UUID, q dto.RegistrationListQuery, opt helper.Options) ([]dto.RegistrationResponse, helper.Pagination, error) {
	q.Normalize(opt)
	if err := q.Validate(); err != nil {
		return nil, helper.Pagination{}, err
	}
	orderExpr, err := q.OrderExpr(dto.RegistrationSortColumns, "registered_at")
	if err != nil {
		return nil, helper.Pagination{}, apperr.Validation(err.Error(), nil)
	}

	base := s.DB.WithContext(ctx).Model(&model.RegistrationModel{})
	if eventID != nil {
		base = base.Where("registrations.registration_event_id = ?", *eventID)
	}
	if q.Status != "" {
		base = base.Where("registrations.registration_status = ?", q.Status)
	}
	if q.Search != "" {
		like := "%" + strings.ToLower(q.Search) + "%"
		cond := []string{
			"LOWER(registrations.registration_first_name) LIKE @q",
			"LOWER(registrations.registration_last_name) LIKE @q",
			"LOWER(registrations.registration_email) LIKE @q",
			"LOWER(COALESCE(registrations.registration_course, '')) LIKE @q",
			"LOWER(registrations.registration_area_of_interest) LIKE @q",
		}
		if eventID == nil {
			base = base.Joins("JOIN events ON events.event_id = registrations.registration_event_id")
			cond = append(cond, "LOWER(events.event_title) LIKE @q")
		}
		base = base.Where("("+strings.Join(cond, " OR ")+")", map[string]any{"q": like})
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, helper.Pagination{}, apperr.Store("count registrations", err)
	}

	var rows []model.RegistrationModel
	if err := base.Session(&gorm.Session{}).
		Select("registrations.*").
		Preload("Event").
		Order(orderExpr).
		Order("registrations.registration_id ASC").
		Limit(q.Limit).
		Offset(q.Offset()).
		Find(&rows).Error; err != nil {
		return nil, helper.Pagination{}, apperr.Store("list registrations", err)
	}
	return dto.FromModels(rows), helper.BuildPagination(total, q.Page, q.Limit), nil
}

/*
=========================================================

	UPDATE (phone, course, area of interest, expectations)

=========================================================
*/
func (s *RegistrationService) Update(ctx context.Context, id uuid.UUID, p dto.PatchRegistrationRequest) (dto.RegistrationResponse, error) {
	p.Normalize()
	if p.Empty() {
		return dto.RegistrationResponse{}, apperr.Validation("no updatable fields provided", nil)
	}

	var m *model.RegistrationModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if m, err = s.find(tx.Clauses(clause.Locking{Strength: "UPDATE"}), id); err != nil {
			return err
		}
		if err := p.ValidatePartial(m.RegistrationStatus); err != nil {
			return err
		}
		p.ApplyPatch(m)
		if err := tx.Model(m).Select(
			"registration_phone", "registration_course",
			"registration_area_of_interest", "registration_expectations",
		).Updates(m).Error; err != nil {
			return apperr.Store("update registration", err)
		}
		var ev eventModel.EventModel
		if err := tx.Where("event_id = ?", m.RegistrationEventID).First(&ev).Error; err != nil {
			return apperr.Store("get event", err)
		}
		m.Event = &ev
		return nil
	})
	if err != nil {
		return dto.RegistrationResponse{}, err
	}
	return dto.FromModel(m), nil
}

/*
=========================================================

	DELETE (hard)

=========================================================
*/
func (s *RegistrationService) Delete(ctx context.Context, id uuid.UUID) error {
	m, err := s.find(s.DB.WithContext(ctx), id)
	if err != nil {
		return err
	}
	res := s.DB.WithContext(ctx).Where("registration_id = ?", id).Delete(&model.RegistrationModel{})
	if res.Error != nil {
		return apperr.Store("delete registration", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("registration")
	}
	s.invalidate(ctx, m.RegistrationEventID)
	return nil
}

/*
=========================================================

	ATTENDANCE
	true: keeps the first attended_at on repeats
	false: clears attended_at

=========================================================
*/
func (s *RegistrationService) MarkAttendance(ctx context.Context, id uuid.UUID, attended bool) (dto.RegistrationResponse, error) {
	var m *model.RegistrationModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if m, err = s.find(tx.Clauses(clause.Locking{Strength: "UPDATE"}), id); err != nil {
			return err
		}
		if attended {
			if m.RegistrationAttended && m.RegistrationAttendedAt != nil {
				return nil
			}
			t := s.Now().UTC()
			m.RegistrationAttended = true
			m.RegistrationAttendedAt = &t
		} else {
			if !m.RegistrationAttended && m.RegistrationAttendedAt == nil {
				return nil
			}
			m.RegistrationAttended = false
			m.RegistrationAttendedAt = nil
		}
		if err := tx.Model(m).Updates(map[string]any{
			"registration_attended":    m.RegistrationAttended,
			"registration_attended_at": m.RegistrationAttendedAt,
		}).Error; err != nil {
			return apperr.Store("mark attendance", err)
		}
		return nil
	})
	if err != nil {
		return dto.RegistrationResponse{}, err
	}
	return dto.FromModel(m), nil
}

/*
=========================================================
	STATS
=========================================================
*/

type statusCount struct {
	Status string
	N      int64
}

func (s *RegistrationService) Stats(ctx context.Context) (dto.StatsResponse, error) {
	db := s.DB.WithContext(ctx)

	var groups []statusCount
	if err := db.Model(&model.RegistrationModel{}).
		Select("registration_status AS status, COUNT(*) AS n").
		Group("registration_status").
		Scan(&groups).Error; err != nil {
		return dto.StatsResponse{}, apperr.Store("registration stats", err)
	}

	var out dto.StatsResponse
	for _, g := range groups {
		out.Total += g.N
		switch model.RegistrantStatus(g.Status) {
		case model.RegistrantStudent:
			out.Students = g.N
		case model.RegistrantGraduate:
			out.Graduates = g.N
		}
	}

	if err := db.Model(&model.RegistrationModel{}).
		Where("registration_attended = ?", true).
		Count(&out.Attended).Error; err != nil {
		return dto.StatsResponse{}, apperr.Store("attendance stats", err)
	}

	var recent []model.RegistrationModel
	if err := db.Preload("Event").
		Order("registration_registered_at DESC").
		Order("registration_id DESC").
		Limit(recentLimit).
		Find(&recent).Error; err != nil {
		return dto.StatsResponse{}, apperr.Store("recent registrations", err)
	}
	out.Recent = dto.FromModels(recent)
	return out, nil
}

/*
=========================================================

	EXPORT (read-only)

=========================================================
*/
func (s *RegistrationService) Export(ctx context.Context, eventID uuid.UUID, opt dto.ExportOptions) (dto.ExportResponse, error) {
	if err := opt.Normalize(); err != nil {
		return dto.ExportResponse{}, err
	}
	db := s.DB.WithContext(ctx)

	var ev eventModel.EventModel
	if err := db.Where("event_id = ?", eventID).First(&ev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ExportResponse{}, apperr.NotFound("event")
		}
		return dto.ExportResponse{}, apperr.Store("get event", err)
	}

	q := db.Where("registration_event_id = ?", eventID)
	if opt.AttendedOnly {
		q = q.Where("registration_attended = ?", true)
	}
	var rows []model.RegistrationModel
	if err := q.Order("registration_registered_at ASC").
		Order("registration_id ASC").
		Find(&rows).Error; err != nil {
		return dto.ExportResponse{}, apperr.Store("export registrations", err)
	}
	return dto.NewExport(&ev, rows, s.Now()), nil
}
