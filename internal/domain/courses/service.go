package courses

import (
	"context"
	"errors"
	"strings"
	"time"

	"med-schedule/internal/ports/reminders"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
)

type Service struct {
	repo      Repository
	reminders reminders.Scheduler
	now       func() time.Time
}

// NewService crea el servicio de cursos. scheduler puede ser nil (dev):
// en ese caso los recordatorios se descartan.
func NewService(repo Repository, scheduler reminders.Scheduler) *Service {
	if scheduler == nil {
		scheduler = reminders.Noop{}
	}
	return &Service{
		repo:      repo,
		reminders: scheduler,
		now:       time.Now,
	}
}

type MedicationInput struct {
	ID             string // opcional: se genera si viene vacío
	Name           string
	Dosage         string
	TimesPerDay    int
	DurationInDays int
	Comment        *string
}

type SlotTimeInput struct {
	Index  int
	Hour   int
	Minute int
}

type CreateInput struct {
	Name        string
	StartDate   time.Time
	Medications []MedicationInput

	// SlotTimes sobrescribe las horas por defecto del planificador.
	SlotTimes []SlotTimeInput

	RemindersEnabled      bool
	ReminderOffsetMinutes int
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Course, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Course{}, ErrInvalidInput
	}
	meds, err := buildMedications(in.Medications)
	if err != nil {
		return Course{}, err
	}

	now := s.now()
	start := in.StartDate
	if start.IsZero() {
		start = now
	}

	c := Course{
		ID:                    uuid.NewString(),
		OwnerUserID:           ownerUserID,
		Name:                  strings.TrimSpace(in.Name),
		CreatedAt:             now,
		StartDate:             start,
		Medications:           meds,
		DoseSlots:             defaultSlotTimes(meds),
		RemindersEnabled:      in.RemindersEnabled,
		ReminderOffsetMinutes: in.ReminderOffsetMinutes,
	}
	applySlotTimes(&c, in.SlotTimes)
	c.CourseMedications = assignSlots(meds, len(c.DoseSlots))
	normalizeSchedule(&c)

	if err := s.repo.Create(ctx, c); err != nil {
		return Course{}, err
	}

	if c.RemindersEnabled {
		// best-effort: un gateway caído no bloquea la creación del curso
		_ = s.reminders.Schedule(ctx, toSchedule(c))
	}

	return c, nil
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name                  *string
	StartDate             *time.Time
	RemindersEnabled      *bool
	ReminderOffsetMinutes *int

	// Medications reemplaza la lista completa y reconstruye el horario.
	Medications []MedicationInput

	SlotTimes []SlotTimeInput
}

func (s *Service) Update(ctx context.Context, id, userID string, in UpdateInput) (Course, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Course{}, err
	}
	if c.OwnerUserID != userID {
		return Course{}, ErrForbidden
	}

	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.StartDate != nil && !in.StartDate.IsZero() {
		c.StartDate = *in.StartDate
	}
	if in.RemindersEnabled != nil {
		c.RemindersEnabled = *in.RemindersEnabled
	}
	if in.ReminderOffsetMinutes != nil {
		c.ReminderOffsetMinutes = *in.ReminderOffsetMinutes
	}

	if in.Medications != nil {
		meds, err := buildMedications(in.Medications)
		if err != nil {
			return Course{}, err
		}
		c.Medications = meds
		c.DoseSlots = rebuildSlots(c, meds)
		c.CourseMedications = assignSlots(meds, len(c.DoseSlots))
	}
	applySlotTimes(&c, in.SlotTimes)
	normalizeSchedule(&c)

	if err := s.repo.Update(ctx, c); err != nil {
		return Course{}, err
	}

	if c.RemindersEnabled {
		_ = s.reminders.Schedule(ctx, toSchedule(c))
	} else {
		_ = s.reminders.Cancel(ctx, c.ID)
	}

	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Course, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Course{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Course, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.OwnerUserID != userID {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.reminders.Cancel(ctx, id)
	return nil
}

func buildMedications(inputs []MedicationInput) ([]MedicationItem, error) {
	if len(inputs) == 0 {
		return nil, ErrInvalidInput
	}

	meds := make([]MedicationItem, 0, len(inputs))
	for _, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" || in.TimesPerDay < 1 || in.DurationInDays < 1 {
			return nil, ErrInvalidInput
		}

		id := strings.TrimSpace(in.ID)
		if id == "" {
			id = uuid.NewString()
		}
		dosage := strings.TrimSpace(in.Dosage)
		if dosage == "" {
			dosage = "1 доза"
		}

		meds = append(meds, MedicationItem{
			ID:             id,
			Name:           name,
			Dosage:         dosage,
			TimesPerDay:    in.TimesPerDay,
			DurationInDays: in.DurationInDays,
			Comment:        in.Comment,
		})
	}
	return meds, nil
}

// rebuildSlots recalcula los slots tras reemplazar medicamentos,
// conservando las horas ya elegidas para los índices que sobreviven.
func rebuildSlots(c Course, meds []MedicationItem) []DoseSlot {
	fresh := defaultSlotTimes(meds)
	for i := range fresh {
		if prev, ok := c.SlotByIndex(fresh[i].IndexInDay); ok {
			fresh[i].Hour = prev.Hour
			fresh[i].Minute = prev.Minute
		}
	}
	return fresh
}

func applySlotTimes(c *Course, times []SlotTimeInput) {
	for _, t := range times {
		for i := range c.DoseSlots {
			if c.DoseSlots[i].IndexInDay == t.Index && validClock(t.Hour, t.Minute) {
				c.DoseSlots[i].Hour = t.Hour
				c.DoseSlots[i].Minute = t.Minute
			}
		}
	}
}

func validClock(hour, minute int) bool {
	return hour >= 0 && hour < 24 && minute >= 0 && minute < 60
}

func toSchedule(c Course) reminders.CourseSchedule {
	times := make([]reminders.DoseTime, 0, len(c.DoseSlots))
	for _, s := range c.DoseSlots {
		times = append(times, reminders.DoseTime{
			SlotIndex: s.IndexInDay,
			Hour:      s.Hour,
			Minute:    s.Minute,
		})
	}
	return reminders.CourseSchedule{
		CourseID:       c.ID,
		UserID:         c.OwnerUserID,
		StartDate:      c.StartDate,
		DurationInDays: c.TotalDurationInDays,
		OffsetMinutes:  c.ReminderOffsetMinutes,
		Times:          times,
	}
}
