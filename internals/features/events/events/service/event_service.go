// file: internals/features/events/events/service/event_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	helper "eventhub_backend/internals/helpers"
	"eventhub_backend/internals/helpers/apperr"

	dto "eventhub_backend/internals/features/events/events/dto"
	model "eventhub_backend/internals/features/events/events/model"
	regModel "eventhub_backend/internals/features/events/registrations/model"
)

// CapacityCache is the snapshot store behind the public capacity endpoint.
type CapacityCache interface {
	Get(ctx context.Context, eventID uuid.UUID, dst any) bool
	Set(ctx context.Context, eventID uuid.UUID, v any)
	Invalidate(ctx context.Context, eventID uuid.UUID)
}

type EventService struct {
	DB    *gorm.DB
	Cache CapacityCache
}

func NewEventService(db *gorm.DB, cache CapacityCache) *EventService {
	return &EventService{DB: db, Cache: cache}
}

/* =========================
   Shared store helpers
   ========================= */

// LockEvent loads the event row with SELECT ... FOR UPDATE. Every path that
// compares capacity against the registration count must hold this lock.
func LockEvent(tx *gorm.DB, id uuid.UUID) (*model.EventModel, error) {
	var m model.EventModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("event_id = ?", id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("event")
		}
		return nil, apperr.Store("lock event", err)
	}
	return &m, nil
}

// CountRegistrations is the live count; there is no stored counter.
func CountRegistrations(tx *gorm.DB, eventID uuid.UUID) (int64, error) {
	var n int64
	if err := tx.Model(&regModel.RegistrationModel{}).
		Where("registration_event_id = ?", eventID).
		Count(&n).Error; err != nil {
		return 0, apperr.Store("count registrations", err)
	}
	return n, nil
}

func (s *EventService) find(ctx context.Context, id uuid.UUID) (*model.EventModel, error) {
	var m model.EventModel
	if err := s.DB.WithContext(ctx).Where("event_id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("event")
		}
		return nil, apperr.Store("get event", err)
	}
	return &m, nil
}

func (s *EventService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.Cache != nil {
		s.Cache.Invalidate(ctx, id)
	}
}

/* =========================
   Capacity ledger
   ========================= */

func (s *EventService) CheckCapacity(ctx context.Context, eventID uuid.UUID) (dto.CapacityInfo, error) {
	m, err := s.find(ctx, eventID)
	if err != nil {
		return dto.CapacityInfo{}, err
	}
	n, err := CountRegistrations(s.DB.WithContext(ctx), eventID)
	if err != nil {
		return dto.CapacityInfo{}, err
	}
	return dto.NewCapacityInfo(m, n), nil
}

func (s *EventService) RegistrationCount(ctx context.Context, eventID uuid.UUID) (int64, error) {
	if _, err := s.find(ctx, eventID); err != nil {
		return 0, err
	}
	return CountRegistrations(s.DB.WithContext(ctx), eventID)
}

// CapacitySnapshot serves CheckCapacity through the cache. Only read endpoints use it.
func (s *EventService) CapacitySnapshot(ctx context.Context, eventID uuid.UUID) (dto.CapacityInfo, error) {
	var info dto.CapacityInfo
	if s.Cache != nil && s.Cache.Get(ctx, eventID, &info) {
		return info, nil
	}
	info, err := s.CheckCapacity(ctx, eventID)
	if err != nil {
		return info, err
	}
	if s.Cache != nil {
		s.Cache.Set(ctx, eventID, info)
		// A registration committing between the read and Set invalidates before our
		// Set lands; re-read so a stale snapshot does not live for the whole TTL.
		if again, err := s.CheckCapacity(ctx, eventID); err != nil || again != info {
			s.Cache.Invalidate(ctx, eventID)
		}
	}
	return info, nil
}

/* =========================
   CRUD
   ========================= */

func (s *EventService) Create(ctx context.Context, req dto.CreateEventRequest) (dto.EventResponse, error) {
	m := req.ToModel()
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		if helper.IsCheckViolation(err) {
			return dto.EventResponse{}, apperr.Validation("validation failed", map[string]string{
				"event_capacity": "must be greater than 0",
			})
		}
		return dto.EventResponse{}, apperr.Store("create event", err)
	}
	log.Ctx(ctx).Info().Str("event_id", m.EventID.String()).Str("title", m.EventTitle).Msg("event created")
	return dto.FromModel(m, 0), nil
}

func (s *EventService) GetByID(ctx context.Context, id uuid.UUID) (dto.EventResponse, error) {
	m, err := s.find(ctx, id)
	if err != nil {
		return dto.EventResponse{}, err
	}
	n, err := CountRegistrations(s.DB.WithContext(ctx), id)
	if err != nil {
		return dto.EventResponse{}, err
	}
	return dto.FromModel(m, n), nil
}

type eventRow struct {
	model.EventModel
	RegistrationCount int64 `gorm:"column:registration_count"`
}

func (s *EventService) List(ctx context.Context, q dto.EventListQuery) ([]dto.EventResponse, helper.Pagination, error) {
	q.Normalize()
	if err := q.Validate(); err != nil {
		return nil, helper.Pagination{}, err
	}
	orderExpr, err := q.OrderExpr(dto.EventSortColumns, "date")
	if err != nil {
		return nil, helper.Pagination{}, apperr.Validation(err.Error(), nil)
	}

	base := s.DB.WithContext(ctx).Model(&model.EventModel{})
	if q.Status != "" {
		base = base.Where("events.event_status = ?", q.Status)
	}
	if q.Search != "" {
		like := "%" + strings.ToLower(q.Search) + "%"
		base = base.Where("(LOWER(events.event_title) LIKE ? OR LOWER(events.event_venue) LIKE ?)", like, like)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, helper.Pagination{}, apperr.Store("count events", err)
	}

	var rows []eventRow
	if err := base.Session(&gorm.Session{}).
		Select("events.*, (SELECT COUNT(*) FROM registrations r WHERE r.registration_event_id = events.event_id) AS registration_count").
		Order(orderExpr).
		Order("events.event_id ASC").
		Limit(q.Limit).
		Offset(q.Offset()).
		Scan(&rows).Error; err != nil {
		return nil, helper.Pagination{}, apperr.Store("list events", err)
	}

	out := make([]dto.EventResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromModel(&rows[i].EventModel, rows[i].RegistrationCount))
	}
	return out, helper.BuildPagination(total, q.Page, q.Limit), nil
}

// Update applies a partial patch. A capacity below the live registration count is
// rejected with CAPACITY_CONFLICT and nothing is written.
func (s *EventService) Update(ctx context.Context, id uuid.UUID, p dto.PatchEventRequest) (dto.EventResponse, error) {
	var (
		out dto.EventResponse
		m   *model.EventModel
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if m, err = LockEvent(tx, id); err != nil {
			return err
		}
		n, err := CountRegistrations(tx, id)
		if err != nil {
			return err
		}
		if newCap, ok := p.NewCapacity(); ok && int64(newCap) < n {
			e := apperr.New(apperr.KindCapacityConflict,
				fmt.Sprintf("capacity %d is below the current registration count %d", newCap, n))
			e.Details = map[string]string{"event_capacity": fmt.Sprintf("must be at least %d", n)}
			return e
		}
		p.ApplyPatch(m)
		if err := tx.Save(m).Error; err != nil {
			if helper.IsCheckViolation(err) {
				return apperr.Validation("validation failed", map[string]string{"event_capacity": "must be greater than 0"})
			}
			return apperr.Store("update event", err)
		}
		out = dto.FromModel(m, n)
		return nil
	})
	if err != nil {
		return dto.EventResponse{}, err
	}
	s.invalidate(ctx, id)
	return out, nil
}

// Delete removes the event and every registration it owns in one transaction.
func (s *EventService) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	var removed int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := LockEvent(tx, id); err != nil {
			return err
		}
		res := tx.Where("registration_event_id = ?", id).Delete(&regModel.RegistrationModel{})
		if res.Error != nil {
			return apperr.Store("delete registrations", res.Error)
		}
		removed = res.RowsAffected
		if err := tx.Where("event_id = ?", id).Delete(&model.EventModel{}).Error; err != nil {
			return apperr.Store("delete event", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx, id)
	log.Ctx(ctx).Info().Str("event_id", id.String()).Int64("registrations_removed", removed).Msg("event deleted")
	return removed, nil
}
