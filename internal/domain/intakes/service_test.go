package intakes

import (
	"context"
	"errors"
	"testing"
	"time"

	"med-schedule/internal/domain/courses"
)

// -------------------------
// Test repos (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testCourseRepo struct {
	byID map[string]courses.Course
}

func newTestCourseRepo() *testCourseRepo {
	return &testCourseRepo{byID: map[string]courses.Course{}}
}

func (r *testCourseRepo) Create(ctx context.Context, c courses.Course) error {
	r.byID[c.ID] = c
	return nil
}

func (r *testCourseRepo) Update(ctx context.Context, c courses.Course) error {
	if _, ok := r.byID[c.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[c.ID] = c
	return nil
}

func (r *testCourseRepo) GetByID(ctx context.Context, id string) (courses.Course, error) {
	c, ok := r.byID[id]
	if !ok {
		return courses.Course{}, errRepoNotFound
	}
	return c, nil
}

func (r *testCourseRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]courses.Course, error) {
	out := make([]courses.Course, 0)
	for _, c := range r.byID {
		if c.OwnerUserID == ownerUserID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *testCourseRepo) Delete(ctx context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

type testIntakeRepo struct {
	byKey map[Key]Record
}

func newTestIntakeRepo() *testIntakeRepo {
	return &testIntakeRepo{byKey: map[Key]Record{}}
}

func (r *testIntakeRepo) Set(ctx context.Context, rec Record) error {
	rec.Key.Day = DayOf(rec.Key.Day)
	if rec.Status == StatusPending {
		delete(r.byKey, rec.Key)
		return nil
	}
	r.byKey[rec.Key] = rec
	return nil
}

func (r *testIntakeRepo) Get(ctx context.Context, key Key) (Record, bool, error) {
	key.Day = DayOf(key.Day)
	rec, ok := r.byKey[key]
	return rec, ok, nil
}

func (r *testIntakeRepo) ListByCourseDay(ctx context.Context, courseID string, day time.Time) ([]Record, error) {
	day = DayOf(day)
	out := make([]Record, 0)
	for k, rec := range r.byKey {
		if k.CourseID == courseID && k.Day.Equal(day) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// -------------------------
// Helpers
// -------------------------

var (
	testStart = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	testDay1  = time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)
	testDay3  = time.Date(2026, 3, 12, 13, 0, 0, 0, time.UTC)
)

func newTestServices(t *testing.T) (*Service, *courses.Service, courses.Course) {
	t.Helper()

	coursesSvc := courses.NewService(newTestCourseRepo(), nil)
	c, err := coursesSvc.Create(context.Background(), "user-1", courses.CreateInput{
		Name:      "после лора",
		StartDate: testStart,
		Medications: []courses.MedicationInput{
			{Name: "амоксиклав", Dosage: "1 таблетки", TimesPerDay: 2, DurationInDays: 7},
			{Name: "називин", Dosage: "2 капли", TimesPerDay: 1, DurationInDays: 2},
		},
	})
	if err != nil {
		t.Fatalf("seed course: %v", err)
	}

	svc := NewService(newTestIntakeRepo(), coursesSvc)
	return svc, coursesSvc, c
}

// -------------------------
// Tests
// -------------------------

func TestService_MarkAndStatusRoundtrip(t *testing.T) {
	svc, _, c := newTestServices(t)
	ctx := context.Background()
	medID := c.Medications[0].ID

	key := Key{CourseID: c.ID, MedicationID: medID, SlotIndex: 1, Day: DayOf(testDay1)}

	st, err := svc.StatusFor(ctx, key)
	if err != nil {
		t.Fatalf("StatusFor: %v", err)
	}
	if st != StatusPending {
		t.Fatalf("expected pending before marking, got %s", st)
	}

	if err := svc.Mark(ctx, "user-1", c.ID, medID, 1, testDay1, StatusTaken); err != nil {
		t.Fatalf("Mark taken: %v", err)
	}
	if st, _ = svc.StatusFor(ctx, key); st != StatusTaken {
		t.Fatalf("expected taken, got %s", st)
	}

	if err := svc.Mark(ctx, "user-1", c.ID, medID, 1, testDay1, StatusSkipped); err != nil {
		t.Fatalf("Mark skipped: %v", err)
	}
	if st, _ = svc.StatusFor(ctx, key); st != StatusSkipped {
		t.Fatalf("expected skipped, got %s", st)
	}

	// volver a pending borra la marca
	if err := svc.Mark(ctx, "user-1", c.ID, medID, 1, testDay1, StatusPending); err != nil {
		t.Fatalf("Mark pending: %v", err)
	}
	if st, _ = svc.StatusFor(ctx, key); st != StatusPending {
		t.Fatalf("expected pending after unmark, got %s", st)
	}
}

func TestService_MarkValidatesSlotAndMedication(t *testing.T) {
	svc, _, c := newTestServices(t)
	ctx := context.Background()
	amoks, naz := c.Medications[0].ID, c.Medications[1].ID

	if err := svc.Mark(ctx, "user-1", c.ID, amoks, 99, testDay1, StatusTaken); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for unknown slot, got %v", err)
	}
	// називин (1 toma) solo está en el slot 2
	if err := svc.Mark(ctx, "user-1", c.ID, naz, 1, testDay1, StatusTaken); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for unassigned slot, got %v", err)
	}
	if err := svc.Mark(ctx, "user-2", c.ID, amoks, 1, testDay1, StatusTaken); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Mark(ctx, "user-1", "missing", amoks, 1, testDay1, StatusTaken); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_DayStatusesSortedWithDefaults(t *testing.T) {
	svc, _, c := newTestServices(t)
	ctx := context.Background()
	amoks := c.Medications[0].ID

	if err := svc.Mark(ctx, "user-1", c.ID, amoks, 1, testDay1, StatusTaken); err != nil {
		t.Fatalf("Mark: %v", err)
	}

	planned, err := svc.DayStatuses(ctx, "user-1", c.ID, testDay1)
	if err != nil {
		t.Fatalf("DayStatuses: %v", err)
	}
	// амоксиклав en 8:00 y 20:00, називин en 20:00
	if len(planned) != 3 {
		t.Fatalf("expected 3 planned doses, got %+v", planned)
	}
	if planned[0].Hour != 8 || planned[0].Status != StatusTaken {
		t.Fatalf("expected first dose 8:00 taken, got %+v", planned[0])
	}
	if planned[1].Hour != 20 || planned[1].Status != StatusPending {
		t.Fatalf("expected second dose 20:00 pending, got %+v", planned[1])
	}
	if planned[2].MedicationName != "називин" || planned[2].Status != StatusPending {
		t.Fatalf("expected називин pending, got %+v", planned[2])
	}
}

func TestService_MedicationDropsOffAfterItsDuration(t *testing.T) {
	svc, _, c := newTestServices(t)

	// називин dura 2 días: el día 3 ya no aparece
	planned, err := svc.DayStatuses(context.Background(), "user-1", c.ID, testDay3)
	if err != nil {
		t.Fatalf("DayStatuses: %v", err)
	}
	if len(planned) != 2 {
		t.Fatalf("expected only амоксиклав doses on day 3, got %+v", planned)
	}
	for _, p := range planned {
		if p.MedicationName != "амоксиклав" {
			t.Fatalf("unexpected medication on day 3: %+v", p)
		}
	}
}

func TestService_CourseProgress(t *testing.T) {
	svc, _, c := newTestServices(t)
	ctx := context.Background()
	amoks := c.Medications[0].ID

	svc.now = func() time.Time { return testDay1 }

	if err := svc.Mark(ctx, "user-1", c.ID, amoks, 1, testDay1, StatusTaken); err != nil {
		t.Fatalf("Mark: %v", err)
	}

	p, err := svc.CourseProgress(ctx, "user-1", c.ID)
	if err != nil {
		t.Fatalf("CourseProgress: %v", err)
	}
	if p.TodayPlanned != 3 || p.TodayTaken != 1 {
		t.Fatalf("unexpected today counters: %+v", p)
	}
	if p.TodayRatio != 1.0/3.0 {
		t.Fatalf("unexpected today ratio: %v", p.TodayRatio)
	}
	if p.ElapsedDays != 1 || p.TotalDays != 7 {
		t.Fatalf("unexpected elapsed/total: %+v", p)
	}
	if p.OverallRatio != 1.0/7.0 {
		t.Fatalf("unexpected overall ratio: %v", p.OverallRatio)
	}
}

func TestService_CourseProgressClampsAfterEnd(t *testing.T) {
	svc, _, c := newTestServices(t)

	svc.now = func() time.Time { return testStart.AddDate(0, 0, 30) }

	p, err := svc.CourseProgress(context.Background(), "user-1", c.ID)
	if err != nil {
		t.Fatalf("CourseProgress: %v", err)
	}
	if p.ElapsedDays != 7 || p.OverallRatio != 1.0 {
		t.Fatalf("expected clamped progress, got %+v", p)
	}
	if p.TodayPlanned != 0 {
		t.Fatalf("expected no planned doses after course end, got %+v", p)
	}
}

func TestService_PlannedForDayAcrossCourses(t *testing.T) {
	svc, coursesSvc, _ := newTestServices(t)
	ctx := context.Background()

	// segundo curso del mismo usuario, una toma a las 9:00
	c2, err := coursesSvc.Create(ctx, "user-1", courses.CreateInput{
		StartDate:   testStart,
		Medications: []courses.MedicationInput{{Name: "линекс", TimesPerDay: 1, DurationInDays: 14}},
	})
	if err != nil {
		t.Fatalf("seed second course: %v", err)
	}

	planned, err := svc.PlannedForDay(ctx, "user-1", testDay1)
	if err != nil {
		t.Fatalf("PlannedForDay: %v", err)
	}
	// 8:00 амоксиклав, 9:00 линекс, 20:00 амоксиклав, 20:00 називин
	if len(planned) != 4 {
		t.Fatalf("expected 4 doses across courses, got %+v", planned)
	}
	if planned[0].Hour != 8 || planned[1].Hour != 9 || planned[1].CourseID != c2.ID {
		t.Fatalf("expected doses sorted by hour, got %+v", planned)
	}

	// antes del inicio no hay nada
	before, err := svc.PlannedForDay(ctx, "user-1", testStart.AddDate(0, 0, -1))
	if err != nil {
		t.Fatalf("PlannedForDay before start: %v", err)
	}
	if len(before) != 0 {
		t.Fatalf("expected no doses before start, got %+v", before)
	}
}
