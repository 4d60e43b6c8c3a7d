package reminders

import (
	"context"
	"time"
)

// DoseTime es una hora de toma del día.
type DoseTime struct {
	SlotIndex int
	Hour      int
	Minute    int
}

// CourseSchedule es el contrato mínimo que necesita el colaborador de
// recordatorios: cuándo empieza el curso, cuántos días dura y a qué horas
// hay tomas. La mecánica de entrega (push, local, etc.) no es asunto nuestro.
type CourseSchedule struct {
	CourseID       string
	UserID         string
	StartDate      time.Time
	DurationInDays int
	OffsetMinutes  int
	Times          []DoseTime
}

// Scheduler programa o cancela las alertas recurrentes de un curso.
type Scheduler interface {
	Schedule(ctx context.Context, sched CourseSchedule) error
	Cancel(ctx context.Context, courseID string) error
}

// Noop descarta todo. Se usa en dev/tests cuando no hay gateway configurado.
type Noop struct{}

func (Noop) Schedule(context.Context, CourseSchedule) error { return nil }
func (Noop) Cancel(context.Context, string) error           { return nil }
