// Package scheduler runs the periodic event status jobs.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	eventModel "eventhub_backend/internals/features/events/events/model"
)

// Purger drops cached capacity snapshots after a bulk status change.
type Purger interface {
	Purge(ctx context.Context)
}

// CompletePastEvents marks ACTIVE events dated before now's day as COMPLETED and
// returns how many rows changed.
func CompletePastEvents(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	res := db.WithContext(ctx).
		Model(&eventModel.EventModel{}).
		Where("event_status = ? AND event_date < ?", eventModel.EventActive, today).
		Updates(map[string]any{
			"event_status":     eventModel.EventCompleted,
			"event_updated_at": now.UTC(),
		})
	return res.RowsAffected, res.Error
}

type Scheduler struct {
	db      *gorm.DB
	cache   Purger
	cron    *cron.Cron
	now     func() time.Time
	spec    string
	timeout time.Duration
}

func New(db *gorm.DB, cache Purger, spec string) *Scheduler {
	if spec == "" {
		spec = "@every 1h"
	}
	return &Scheduler{
		db:      db,
		cache:   cache,
		cron:    cron.New(cron.WithLocation(time.UTC)),
		now:     time.Now,
		spec:    spec,
		timeout: 30 * time.Second,
	}
}

// RunOnce executes the completion job synchronously.
func (s *Scheduler) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := CompletePastEvents(ctx, s.db, s.now())
	if err != nil {
		log.Error().Err(err).Msg("complete past events")
		return
	}
	if n > 0 {
		if s.cache != nil {
			s.cache.Purge(ctx)
		}
		log.Info().Int64("events", n).Msg("past events marked COMPLETED")
	}
}

// Add registers an extra maintenance job. job returns how many rows it touched.
func (s *Scheduler) Add(spec, name string, job func(ctx context.Context) (int64, error)) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		n, err := job(ctx)
		if err != nil {
			log.Error().Err(err).Str("job", name).Msg("scheduled job failed")
			return
		}
		log.Debug().Str("job", name).Int64("rows", n).Msg("scheduled job done")
	})
	return err
}

// Start registers the completion job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(context.Background()) }); err != nil {
		return err
	}
	s.cron.Start()
	log.Info().Str("spec", s.spec).Msg("event completion scheduler started")
	return nil
}

// Stop waits for a running job to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
