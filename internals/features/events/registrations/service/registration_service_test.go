package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"eventhub_backend/internals/databases/dbtest"
	helper "eventhub_backend/internals/helpers"
	"eventhub_backend/internals/helpers/apperr"

	eventModel "eventhub_backend/internals/features/events/events/model"
	dto "eventhub_backend/internals/features/events/registrations/dto"
	model "eventhub_backend/internals/features/events/registrations/model"
	service "eventhub_backend/internals/features/events/registrations/service"
)

/* ---------- fixtures ---------- */

func createEvent(t *testing.T, db *gorm.DB, title string, capacity int, status eventModel.EventStatus) *eventModel.EventModel {
	t.Helper()
	m := &eventModel.EventModel{
		EventTitle:    title,
		EventDate:     datatypes.Date(time.Date(2030, 3, 15, 0, 0, 0, 0, time.UTC)),
		EventTime:     "14:00",
		EventVenue:    "Auditorium",
		EventCapacity: capacity,
		EventStatus:   status,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func student(email string) dto.CreateRegistrationRequest {
	course := "Computer Science"
	return dto.CreateRegistrationRequest{
		RegistrationFirstName:      "Ada",
		RegistrationLastName:       "Lovelace",
		RegistrationEmail:          email,
		RegistrationPhone:          "555-123-4567",
		RegistrationStatus:         "student",
		RegistrationCourse:         &course,
		RegistrationAreaOfInterest: "Machine learning",
	}
}

func graduate(email string) dto.CreateRegistrationRequest {
	return dto.CreateRegistrationRequest{
		RegistrationFirstName:      "Grace",
		RegistrationLastName:       "Hopper",
		RegistrationEmail:          email,
		RegistrationPhone:          "+1 555 987 6543",
		RegistrationStatus:         "GRADUATE",
		RegistrationAreaOfInterest: "Compilers",
	}
}

// seed inserts a row directly with a fixed registration time.
func seed(t *testing.T, db *gorm.DB, eventID uuid.UUID, email string, status model.RegistrantStatus, attended bool, at time.Time) *model.RegistrationModel {
	t.Helper()
	m := &model.RegistrationModel{
		RegistrationEventID:        eventID,
		RegistrationFirstName:      "First",
		RegistrationLastName:       email,
		RegistrationEmail:          email,
		RegistrationPhone:          "5551234567",
		RegistrationStatus:         status,
		RegistrationAreaOfInterest: "Robotics",
		RegistrationAttended:       attended,
		RegistrationRegisteredAt:   at,
	}
	if status == model.RegistrantStudent {
		c := "Engineering"
		m.RegistrationCourse = &c
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func countFor(t *testing.T, db *gorm.DB, eventID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.RegistrationModel{}).
		Where("registration_event_id = ?", eventID).Count(&n).Error)
	return n
}

type recordingInvalidator struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (r *recordingInvalidator) Invalidate(_ context.Context, id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, id)
}

/* ---------- register ---------- */

func TestRegisterSucceedsWithinCapacity(t *testing.T) {
	db := dbtest.Open(t)
	inv := &recordingInvalidator{}
	svc := service.NewRegistrationService(db, inv)
	ev := createEvent(t, db, "AI Workshop", 2, eventModel.EventActive)

	out, err := svc.Register(context.Background(), ev.EventID, student("  Ada@Example.COM "))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, out.RegistrationID)
	assert.Equal(t, "ada@example.com", out.RegistrationEmail)
	assert.Equal(t, model.RegistrantStudent, out.RegistrationStatus)
	require.NotNil(t, out.Event)
	assert.Equal(t, "AI Workshop", out.Event.EventTitle)
	assert.False(t, out.RegistrationAttended)

	assert.EqualValues(t, 1, countFor(t, db, ev.EventID))
	assert.Equal(t, []uuid.UUID{ev.EventID}, inv.ids)
}

func TestRegisterRejectsWhenFull(t *testing.T) {
	db := dbtest.Open(t)
	svc := service.NewRegistrationService(db, nil)
	ctx := context.Background()
	ev := createEvent(t, db, "Tiny room", 1, eventModel.EventActive)

	_, err := svc.Register(ctx, ev.EventID, student("first@x.com"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, ev.EventID, graduate("second@x.com"))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindCapacityExceeded))
	assert.EqualValues(t, 1, countFor(t, db, ev.EventID))
}

func TestRegisterRejectsDuplicateEmailIgnoringCase(t *testing.T) {
	db := dbtest.Open(t)
	svc := service.NewRegistrationService(db, nil)
	ctx := context.Background()
	ev := createEvent(t, db, "Meetup", 10, eventModel.EventActive)
	other := createEvent(t, db, "Other meetup", 10, eventModel.EventActive)

	_, err := svc.Register(ctx, ev.EventID, student("User@Example.com"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, ev.EventID, graduate("user@example.com"))
	assert.True(t, apperr.Is(err, apperr.KindDuplicateRegistration))
	assert.EqualValues(t, 1, countFor(t, db, ev.EventID))

	// the same person may register for a different event
	_, err = svc.Register(ctx, other.EventID, graduate("user@example.com"))
	assert.NoError(t, err)
}

func TestRegisterRequiresOpenEvent(t *testing.T) {
	db := dbtest.Open(t)
	svc := service.NewRegistrationService(db, nil)
	ctx := context.Background()

	for _, st := range []eventModel.EventStatus{eventModel.EventInactive, eventModel.EventCompleted} {
		ev := createEvent(t, db, "Closed "+string(st), 10, st)
		_, err := svc.Register(ctx, ev.EventID, student("a@x.com"))
		assert.True(t, apperr.Is(err, apperr.KindEventNotOpen), st)
		assert.Zero(t, countFor(t, db, ev.EventID))
	}

	_, err := svc.Register(ctx, uuid.New(), student("a@x.com"))
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

// TestConcurrentRegistrationsNeverOverbook runs against a single-connection sqlite
// pool, so it proves Register is correct once transactions serialize. It does not
// exercise Postgres FOR UPDATE row locking.
func TestConcurrentRegistrationsNeverOverbook(t *testing.T) {
	db := dbtest.Open(t)
	svc := service.NewRegistrationService(db, nil)
	ev := createEvent(t, db, "Hot ticket", 5, eventModel.EventActive)

	const attempts = 20
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Register(context.Background(), ev.EventID, graduate(fmt.Sprintf("g%02d@x.com", i)))
		}(i)
	}
	wg.Wait()

	var ok, full int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case apperr.Is(err, apperr.KindCapacityExceeded):
			full++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 5, ok)
	assert.Equal(t, attempts-5, full)
	assert.EqualValues(t, 5, countFor(t, db, ev.EventID))
}

// TestConcurrentDuplicateAcceptsOne has the same single-connection caveat as
// TestConcurrentRegistrationsNeverOverbook.
func TestConcurrentDuplicateAcceptsOne(t *testing.T) {
	db := dbtest.Open(t)
	svc := service.NewRegistrationService(db, nil)
	ev := createEvent(t, db, "Popular", 50, eventModel.EventActive)

	const attempts = 10
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Register(context.Background(), ev.EventID, student("same@x.com"))
		}(i)
	}
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case apperr.Is(err, apperr.KindDuplicateRegistration):
			dup++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, attempts-1, dup)
	assert.EqualValues(t, 1, countFor(t, db, ev.EventID))
}

// A row that lands between the duplicate check and the insert is caught by the
// (event, lower(email)) unique index and reported as a duplicate.
func TestRegisterMapsUniqueIndexViolationToDuplicate(t *testing.T) {
	db := dbtest.Open(t)
	svc := service.NewRegistrationService(db, nil)
	ev := createEvent(t, db, "Race", 10, eventModel.EventActive)

	fired := false
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:insert_conflicting_row", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "registrations" {
			return
		}
		fired = true
		now := time.Now().UTC()
		err := tx.Session(&gorm.Session{NewDB: true}).Exec(`INSERT INTO registrations
			(registration_id, registration_event_id, registration_first_name, registration_last_name,
			 registration_email, registration_phone, registration_status, registration_area_of_interest,
			 registration_attended, registration_registered_at, registration_updated_at)
			VALUES (?, ?, 'Other', 'Tab', 'RACER@X.COM', '5551234567', 'GRADUATE', 'data', false, ?, ?)`,
			uuid.NewString(), ev.EventID, now, now).Error
		require.NoError(t, err)
	}))

	_, err := svc.Register(context.Background(), ev.EventID, student("racer@x.com"))
	require.True(t, fired)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindDuplicateRegistration), err)

	// the transaction rolled back, taking the conflicting row with it
	assert.Zero(t, countFor(t, db, ev.EventID))
}

/* ---------- list ---------- */

func TestListForEventPaginates(t *testing.T) {
	db := dbtest.Open(t)
	svc := service.NewRegistrationService(db, nil)
	ctx := context.Background()
	ev := createEvent(t, db, "Conference", 100, eventModel.EventActive)

	base := time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		seed(t, db, ev.EventID, fmt.Sprintf("r%02d@x.com", i), model.RegistrantGraduate, false, base.Add(time.Duration(i)*time.Minute))
	}

	seen := map[uuid.UUID]bool{}
	for page, want := range map[int]int{1: 10, 2: 10, 3: 5} {
		items, p, err := svc.ListForEvent(ctx, ev.EventID, dto.RegistrationListQuery{
			Params: helper.Params{Page: page, Limit: 10},
		})
		require.NoError(t, err)
		assert.Len(t, items, want, "page %d", page)
		assert.EqualValues(t, 25, p.Total)
		assert.Equal(t, 3, p.TotalPages)
		for _, it := range items {
			seen[it.RegistrationID] = true
		}
	}
	assert.Len(t, seen, 25)

	items, _, err := svc.ListForEvent(ctx, ev.EventID, dto.RegistrationListQuery{Params: helper.Params{Limit: 3}})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "r24@x.com", items[0].RegistrationEmail)

	_, _, err = svc.ListForEvent(ctx, uuid.New(), dto.RegistrationListQuery{})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestListAllFiltersAndSearches(t *testing.T) {
	db := dbtest.Open(t)
	svc := service.NewRegistrationService(db, nil)
	ctx := context.Background()
	a := createEvent(t, db, "Robotics Day", 10, eventModel.EventActive)
	b := createEvent(t, db, "Finance Forum", 10, eventModel.EventActive)

	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	seed(t, db, a.EventID, "s1@x.com", model.RegistrantStudent, false, now)
	seed(t, db, a.EventID, "g1@x.com", model.RegistrantGraduate, false, now.Add(time.Minute))
	seed(t, db, b.EventID, "g2@x.com", model.RegistrantGraduate, false, now.Add(2*time.Minute))

	items, p, err := svc.ListAll(ctx, dto.RegistrationListQuery{})
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.EqualValues(t, 3, p.Total)

	items, _, err = svc.ListAll(ctx, dto.RegistrationListQuery{Status: "graduate"})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, _, err = svc.ListAll(ctx, dto.RegistrationListQuery{Search: "finance"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "g2@x.com", items[0].RegistrationEmail)
	require.NotNil(t, items[0].Event)
	assert.Equal(t, "Finance Forum", items[0].Event.EventTitle)

	items, _, err = svc.ListAll(ctx, dto.RegistrationListQuery{
		Params: helper.Params{SortBy: "email", SortOrder: "asc"},
	})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "g1@x.com", items[0].RegistrationEmail)

	_, _, err = svc.ListAll(ctx, dto.RegistrationListQuery{Status: "alumni"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

/* ---------- update / delete ---------- */

func TestUpdateRespectsRegistrantStatus(t *testing.T) {
	db := dbtest.Open(t)
	svc := service.NewRegistrationService(db, nil)
	ctx := context.Background()
	ev := createEvent(t, db, "Fair", 10, eventModel.EventActive)
	now := time.Now().UTC()
	st := seed(t, db, ev.EventID, "s@x.com", model.RegistrantStudent, false, now)
	gr := seed(t, db, ev.EventID, "g@x.com", model.RegistrantGraduate, false, now)

	var clear dto.PatchRegistrationRequest
	require.NoError(t, clear.RegistrationCourse.UnmarshalJSON([]byte("null")))
	_, err := svc.Update(ctx, st.RegistrationID, clear)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Update(ctx, gr.RegistrationID, dto.PatchRegistrationRequest{
		RegistrationCourse: helper.Set("Physics"),
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Update(ctx, st.RegistrationID, dto.PatchRegistrationRequest{})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	out, err := svc.Update(ctx, st.RegistrationID, dto.PatchRegistrationRequest{
		RegistrationPhone:  helper.Set(" (555) 000-1111 "),
		RegistrationCourse: helper.Set("Mathematics"),
	})
	require.NoError(t, err)
	assert.Equal(t, "(555) 000-1111", out.RegistrationPhone)
	require.NotNil(t, out.RegistrationCourse)
	assert.Equal(t, "Mathematics", *out.RegistrationCourse)
	assert.Equal(t, "Robotics", out.RegistrationAreaOfInterest)
	require.NotNil(t, out.Event)

	_, err = svc.Update(ctx, uuid.New(), dto.PatchRegistrationRequest{RegistrationPhone: helper.Set("5551112222")})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDeleteFreesCapacity(t *testing.T) {
	db := dbtest.Open(t)
	inv := &recordingInvalidator{}
	svc := service.NewRegistrationService(db, inv)
	ctx := context.Background()
	ev := createEvent(t, db, "One seat", 1, eventModel.EventActive)

	first, err := svc.Register(ctx, ev.EventID, student("one@x.com"))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, first.RegistrationID))
	assert.Zero(t, countFor(t, db, ev.EventID))

	_, err = svc.Register(ctx, ev.EventID, student("two@x.com"))
	assert.NoError(t, err)
	assert.Len(t, inv.ids, 3)

	err = svc.Delete(ctx, first.RegistrationID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

/* ---------- attendance ---------- */

func TestMarkAttendanceIsIdempotent(t *testing.T) {
	db := dbtest.Open(t)
	svc := service.NewRegistrationService(db, nil)
	ctx := context.Background()
	ev := createEvent(t, db, "Lecture", 10, eventModel.EventActive)
	r := seed(t, db, ev.EventID, "a@x.com", model.RegistrantGraduate, false, time.Now().UTC())

	first := time.Date(2030, 3, 15, 14, 5, 0, 0, time.UTC)
	svc.Now = func() time.Time { return first }
	out, err := svc.MarkAttendance(ctx, r.RegistrationID, true)
	require.NoError(t, err)
	assert.True(t, out.RegistrationAttended)
	require.NotNil(t, out.RegistrationAttendedAt)
	assert.True(t, first.Equal(*out.RegistrationAttendedAt))

	svc.Now = func() time.Time { return first.Add(time.Hour) }
	out, err = svc.MarkAttendance(ctx, r.RegistrationID, true)
	require.NoError(t, err)
	require.NotNil(t, out.RegistrationAttendedAt)
	assert.True(t, first.Equal(*out.RegistrationAttendedAt))

	out, err = svc.MarkAttendance(ctx, r.RegistrationID, false)
	require.NoError(t, err)
	assert.False(t, out.RegistrationAttended)
	assert.Nil(t, out.RegistrationAttendedAt)

	got, err := svc.GetByID(ctx, r.RegistrationID)
	require.NoError(t, err)
	assert.False(t, got.RegistrationAttended)
	assert.Nil(t, got.RegistrationAttendedAt)

	_, err = svc.MarkAttendance(ctx, uuid.New(), true)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

/* ---------- stats / export ---------- */

func TestStats(t *testing.T) {
	db := dbtest.Open(t)
	svc := service.NewRegistrationService(db, nil)
	ctx := context.Background()
	a := createEvent(t, db, "A", 50, eventModel.EventActive)
	b := createEvent(t, db, "B", 50, eventModel.EventActive)

	base := time.Date(2030, 2, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		ev, status := a, model.RegistrantGraduate
		if i%2 == 0 {
			ev = b
		}
		if i < 5 {
			status = model.RegistrantStudent
		}
		seed(t, db, ev.EventID, fmt.Sprintf("s%02d@x.com", i), status, i%4 == 0, base.Add(time.Duration(i)*time.Hour))
	}

	out, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 12, out.Total)
	assert.EqualValues(t, 5, out.Students)
	assert.EqualValues(t, 7, out.Graduates)
	assert.EqualValues(t, 3, out.Attended)
	require.Len(t, out.Recent, 10)
	assert.Equal(t, "s11@x.com", out.Recent[0].RegistrationEmail)
	for i := 1; i < len(out.Recent); i++ {
		assert.False(t, out.Recent[i].RegistrationRegisteredAt.After(out.Recent[i-1].RegistrationRegisteredAt))
	}
	assert.NotNil(t, out.Recent[0].Event)
}

func TestExport(t *testing.T) {
	db := dbtest.Open(t)
	svc := service.NewRegistrationService(db, nil)
	ctx := context.Background()
	ev := createEvent(t, db, "Demo Day", 10, eventModel.EventActive)

	base := time.Date(2030, 3, 1, 10, 0, 0, 0, time.UTC)
	seed(t, db, ev.EventID, "late@x.com", model.RegistrantGraduate, true, base.Add(2*time.Hour))
	seed(t, db, ev.EventID, "early@x.com", model.RegistrantStudent, false, base)
	seed(t, db, ev.EventID, "mid@x.com", model.RegistrantGraduate, true, base.Add(time.Hour))

	out, err := svc.Export(ctx, ev.EventID, dto.ExportOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Demo Day", out.EventTitle)
	assert.Equal(t, "2030-03-15", out.EventDate)
	require.Equal(t, 3, out.Total)
	assert.Equal(t, "early@x.com", out.Registrations[0].Email)
	assert.Equal(t, "mid@x.com", out.Registrations[1].Email)
	assert.Equal(t, "late@x.com", out.Registrations[2].Email)
	assert.Equal(t, "(555) 123-4567", out.Registrations[0].Phone)
	assert.Equal(t, "Engineering", out.Registrations[0].Course)
	assert.Empty(t, out.Registrations[1].Course)

	out, err = svc.Export(ctx, ev.EventID, dto.ExportOptions{Format: "CSV", AttendedOnly: true})
	require.NoError(t, err)
	require.Equal(t, 2, out.Total)

	var buf bytes.Buffer
	require.NoError(t, out.WriteCSV(&buf))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "First Name", records[0][0])
	assert.Equal(t, "Attended At", records[0][len(records[0])-1])
	assert.Equal(t, "mid@x.com", records[1][2])
	assert.Equal(t, "true", records[1][9])

	_, err = svc.Export(ctx, ev.EventID, dto.ExportOptions{Format: "xml"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Export(ctx, uuid.New(), dto.ExportOptions{})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
