package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"eventhub_backend/internals/databases/dbtest"
	eventModel "eventhub_backend/internals/features/events/events/model"
)

func addEvent(t *testing.T, db *gorm.DB, title string, day time.Time, status eventModel.EventStatus) *eventModel.EventModel {
	t.Helper()
	m := &eventModel.EventModel{
		EventTitle:    title,
		EventDate:     datatypes.Date(day),
		EventTime:     "10:00",
		EventVenue:    "Hall",
		EventCapacity: 10,
		EventStatus:   status,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func statusOf(t *testing.T, db *gorm.DB, m *eventModel.EventModel) eventModel.EventStatus {
	t.Helper()
	var got eventModel.EventModel
	require.NoError(t, db.Where("event_id = ?", m.EventID).First(&got).Error)
	return got.EventStatus
}

type purgeCounter struct{ n int }

func (p *purgeCounter) Purge(context.Context) { p.n++ }

func TestCompletePastEvents(t *testing.T) {
	db := dbtest.Open(t)
	now := time.Date(2030, 6, 10, 15, 0, 0, 0, time.UTC)
	day := func(d int) time.Time { return time.Date(2030, 6, d, 0, 0, 0, 0, time.UTC) }

	past := addEvent(t, db, "past", day(9), eventModel.EventActive)
	today := addEvent(t, db, "today", day(10), eventModel.EventActive)
	future := addEvent(t, db, "future", day(11), eventModel.EventActive)
	pastInactive := addEvent(t, db, "past inactive", day(1), eventModel.EventInactive)

	n, err := CompletePastEvents(context.Background(), db, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	assert.Equal(t, eventModel.EventCompleted, statusOf(t, db, past))
	assert.Equal(t, eventModel.EventActive, statusOf(t, db, today))
	assert.Equal(t, eventModel.EventActive, statusOf(t, db, future))
	assert.Equal(t, eventModel.EventInactive, statusOf(t, db, pastInactive))

	n, err = CompletePastEvents(context.Background(), db, now)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSchedulerRunOncePurgesOnChange(t *testing.T) {
	db := dbtest.Open(t)
	purger := &purgeCounter{}
	s := New(db, purger, "")
	s.now = func() time.Time { return time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC) }

	s.RunOnce(context.Background())
	assert.Zero(t, purger.n)

	addEvent(t, db, "old", time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), eventModel.EventActive)
	s.RunOnce(context.Background())
	assert.Equal(t, 1, purger.n)
}

func TestSchedulerStartStop(t *testing.T) {
	db := dbtest.Open(t)
	s := New(db, nil, "@every 1h")
	require.NoError(t, s.Start())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)

	bad := New(db, nil, "not a cron spec")
	assert.Error(t, bad.Start())
}

func TestSchedulerAddRunsJob(t *testing.T) {
	db := dbtest.Open(t)
	s := New(db, nil, "")

	ran := make(chan struct{}, 1)
	require.NoError(t, s.Add("@every 1s", "tick", func(ctx context.Context) (int64, error) {
		select {
		case ran <- struct{}{}:
		default:
		}
		return 0, nil
	}))
	assert.Error(t, s.Add("bogus", "tick", func(context.Context) (int64, error) { return 0, nil }))

	require.NoError(t, s.Start())
	defer s.Stop(context.Background())

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}
