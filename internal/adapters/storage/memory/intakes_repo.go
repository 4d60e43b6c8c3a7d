package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"med-schedule/internal/domain/intakes"
)

type intakeRepo struct {
	mu    sync.RWMutex
	byKey map[intakes.Key]intakes.Record
}

func NewIntakeRepo() intakes.Repository {
	return &intakeRepo{
		byKey: make(map[intakes.Key]intakes.Record),
	}
}

func (r *intakeRepo) Set(ctx context.Context, rec intakes.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec.Key.Day = intakes.DayOf(rec.Key.Day)

	// pending = sin registro
	if rec.Status == intakes.StatusPending {
		delete(r.byKey, rec.Key)
		return nil
	}
	r.byKey[rec.Key] = rec
	return nil
}

func (r *intakeRepo) Get(ctx context.Context, key intakes.Key) (intakes.Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key.Day = intakes.DayOf(key.Day)
	rec, ok := r.byKey[key]
	return rec, ok, nil
}

func (r *intakeRepo) ListByCourseDay(ctx context.Context, courseID string, day time.Time) ([]intakes.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	day = intakes.DayOf(day)
	out := make([]intakes.Record, 0)
	for k, rec := range r.byKey {
		if k.CourseID == courseID && k.Day.Equal(day) {
			out = append(out, rec)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.SlotIndex != out[j].Key.SlotIndex {
			return out[i].Key.SlotIndex < out[j].Key.SlotIndex
		}
		return out[i].Key.MedicationID < out[j].Key.MedicationID
	})
	return out, nil
}
