package intakes

import (
	"fmt"
	"time"
)

// Status es el estado de una toma puntual. "pending" nunca se persiste:
// es el valor implícito cuando no hay registro.
type Status string

const (
	StatusPending Status = "pending"
	StatusTaken   Status = "taken"
	StatusSkipped Status = "skipped"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusTaken, StatusSkipped:
		return Status(s), nil
	}
	return "", fmt.Errorf("invalid intake status %q", s)
}

// Key identifica una toma única: un medicamento en un slot de un día
// concreto dentro de un curso. Day siempre va truncado a medianoche UTC.
type Key struct {
	CourseID     string
	MedicationID string
	SlotIndex    int
	Day          time.Time
}

// Record es una marca persistida (taken o skipped).
type Record struct {
	Key      Key
	Status   Status
	MarkedAt time.Time
	MarkedBy string
}

// DayOf trunca un instante al inicio de su día en UTC. Todas las claves
// de toma se normalizan con esto antes de leer o escribir.
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
