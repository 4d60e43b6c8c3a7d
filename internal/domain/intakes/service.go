package intakes

import (
	"context"
	"errors"
	"sort"
	"time"

	"med-schedule/internal/domain/courses"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
)

// Service maneja marcas de toma y progreso. No persiste "pending":
// lo que no tiene registro está pendiente.
type Service struct {
	repo    Repository
	courses *courses.Service
	now     func() time.Time
}

func NewService(repo Repository, coursesSvc *courses.Service) *Service {
	return &Service{repo: repo, courses: coursesSvc, now: time.Now}
}

// PlannedDose es una toma esperada de un día concreto, con su estado.
type PlannedDose struct {
	CourseID       string
	CourseName     string
	MedicationID   string
	MedicationName string
	Dosage         string
	Comment        *string
	SlotIndex      int
	Hour           int
	Minute         int
	Status         Status
}

// Progress resume un curso: lo tomado hoy y los días transcurridos.
type Progress struct {
	TodayPlanned int
	TodayTaken   int
	TodayRatio   float64
	ElapsedDays  int
	TotalDays    int
	OverallRatio float64
}

// Mark registra taken/skipped para una toma, o la devuelve a pending.
// Valida que el slot exista y que el medicamento esté asignado a él.
func (s *Service) Mark(ctx context.Context, userID, courseID, medicationID string, slotIndex int, day time.Time, status Status) error {
	c, err := s.ownedCourse(ctx, userID, courseID)
	if err != nil {
		return err
	}

	if _, ok := c.SlotByIndex(slotIndex); !ok {
		return ErrInvalidInput
	}
	assigned := false
	for _, id := range c.MedicationIDsForSlot(slotIndex) {
		if id == medicationID {
			assigned = true
			break
		}
	}
	if !assigned {
		return ErrInvalidInput
	}

	key := Key{CourseID: courseID, MedicationID: medicationID, SlotIndex: slotIndex, Day: DayOf(day)}
	return s.repo.Set(ctx, Record{
		Key:      key,
		Status:   status,
		MarkedAt: s.now(),
		MarkedBy: userID,
	})
}

// StatusFor devuelve el estado de una toma; pending si no hay registro.
func (s *Service) StatusFor(ctx context.Context, key Key) (Status, error) {
	key.Day = DayOf(key.Day)
	rec, ok, err := s.repo.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return StatusPending, nil
	}
	return rec.Status, nil
}

// DayStatuses lista las tomas planificadas de un curso para un día,
// cada una con su estado, ordenadas por hora de slot.
func (s *Service) DayStatuses(ctx context.Context, userID, courseID string, day time.Time) ([]PlannedDose, error) {
	c, err := s.ownedCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	day = DayOf(day)
	planned := plannedForCourse(c, day)
	if err := s.fillStatuses(ctx, courseID, day, planned); err != nil {
		return nil, err
	}
	return planned, nil
}

// CourseProgress calcula el progreso de hoy y del curso entero. El
// ratio global es días transcurridos sobre duración total, acotado a
// [0, 1]; el de hoy es tomas hechas sobre planificadas.
func (s *Service) CourseProgress(ctx context.Context, userID, courseID string) (Progress, error) {
	c, err := s.ownedCourse(ctx, userID, courseID)
	if err != nil {
		return Progress{}, err
	}

	today := DayOf(s.now())
	planned := plannedForCourse(c, today)
	if err := s.fillStatuses(ctx, courseID, today, planned); err != nil {
		return Progress{}, err
	}

	taken := 0
	for _, p := range planned {
		if p.Status == StatusTaken {
			taken++
		}
	}

	p := Progress{
		TodayPlanned: len(planned),
		TodayTaken:   taken,
		TotalDays:    c.TotalDurationInDays,
	}
	if p.TodayPlanned > 0 {
		p.TodayRatio = float64(taken) / float64(p.TodayPlanned)
	}

	elapsed := daysBetween(DayOf(c.StartDate), today) + 1
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > c.TotalDurationInDays {
		elapsed = c.TotalDurationInDays
	}
	p.ElapsedDays = elapsed
	if c.TotalDurationInDays > 0 {
		p.OverallRatio = float64(elapsed) / float64(c.TotalDurationInDays)
	}
	return p, nil
}

// PlannedForDay junta las tomas de todos los cursos activos del usuario
// para un día, ordenadas por hora y, a igual hora, por curso.
func (s *Service) PlannedForDay(ctx context.Context, userID string, day time.Time) ([]PlannedDose, error) {
	all, err := s.courses.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	day = DayOf(day)
	var out []PlannedDose
	for _, c := range all {
		planned := plannedForCourse(c, day)
		if len(planned) == 0 {
			continue
		}
		if err := s.fillStatuses(ctx, c.ID, day, planned); err != nil {
			return nil, err
		}
		out = append(out, planned...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Hour != out[j].Hour {
			return out[i].Hour < out[j].Hour
		}
		if out[i].Minute != out[j].Minute {
			return out[i].Minute < out[j].Minute
		}
		return out[i].CourseID < out[j].CourseID
	})
	return out, nil
}

func (s *Service) ownedCourse(ctx context.Context, userID, courseID string) (courses.Course, error) {
	c, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return courses.Course{}, ErrNotFound
	}
	if c.OwnerUserID != userID {
		return courses.Course{}, ErrForbidden
	}
	return c, nil
}

func (s *Service) fillStatuses(ctx context.Context, courseID string, day time.Time, planned []PlannedDose) error {
	recs, err := s.repo.ListByCourseDay(ctx, courseID, day)
	if err != nil {
		return err
	}
	byKey := make(map[Key]Status, len(recs))
	for _, r := range recs {
		byKey[r.Key] = r.Status
	}
	for i := range planned {
		k := Key{CourseID: courseID, MedicationID: planned[i].MedicationID, SlotIndex: planned[i].SlotIndex, Day: day}
		if st, ok := byKey[k]; ok {
			planned[i].Status = st
		}
	}
	return nil
}

// plannedForCourse expande el horario del curso para un día: cada
// medicamento aporta sus slots mientras su propia duración siga activa.
func plannedForCourse(c courses.Course, day time.Time) []PlannedDose {
	if !c.ActiveOn(day) {
		return nil
	}
	offset := daysBetween(DayOf(c.StartDate), day)

	var out []PlannedDose
	for _, cm := range c.CourseMedications {
		med, ok := c.MedicationByID(cm.MedicationID)
		if !ok {
			continue
		}
		if offset < 0 || offset >= med.DurationInDays {
			continue
		}
		for _, idx := range cm.SlotIndexes {
			slot, ok := c.SlotByIndex(idx)
			if !ok {
				continue
			}
			out = append(out, PlannedDose{
				CourseID:       c.ID,
				CourseName:     c.Name,
				MedicationID:   med.ID,
				MedicationName: med.Name,
				Dosage:         med.Dosage,
				Comment:        med.Comment,
				SlotIndex:      slot.IndexInDay,
				Hour:           slot.Hour,
				Minute:         slot.Minute,
				Status:         StatusPending,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Hour != out[j].Hour {
			return out[i].Hour < out[j].Hour
		}
		if out[i].Minute != out[j].Minute {
			return out[i].Minute < out[j].Minute
		}
		return out[i].SlotIndex < out[j].SlotIndex
	})
	return out
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
