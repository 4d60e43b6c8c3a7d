package courses

import "time"

// MedicationItem es un medicamento confirmado dentro de un curso.
// Inmutable una vez agregado salvo por los flujos de edición explícitos.
type MedicationItem struct {
	ID   string
	Name string

	Dosage string // "2 капли", "500 мг"

	TimesPerDay    int // >= 1
	DurationInDays int // >= 1

	Comment *string // nil si no hay anotaciones
}

// DoseSlot es una posición horaria del día. Los índices son densos y
// empiezan en 1; se renumeran cada vez que el planificador recalcula.
type DoseSlot struct {
	IndexInDay int
	Hour       int
	Minute     int
}

// CourseMedication vincula un medicamento con los slots en que se toma.
// Invariante: todos los índices existen en DoseSlots del curso; las
// entradas sin slots se podan.
type CourseMedication struct {
	MedicationID string
	SlotIndexes  []int // ordenados ascendente
}

// Course es la raíz del agregado: medicamentos, horario diario y
// configuración de recordatorios de una receta.
type Course struct {
	ID          string
	OwnerUserID string

	Name string // opcional

	CreatedAt time.Time
	StartDate time.Time

	// TotalDurationInDays = max DurationInDays entre los medicamentos;
	// se recalcula en cada escritura.
	TotalDurationInDays int

	Medications       []MedicationItem
	DoseSlots         []DoseSlot
	CourseMedications []CourseMedication

	RemindersEnabled      bool
	ReminderOffsetMinutes int
}

// MedicationByID busca un medicamento del curso; ok=false si no está.
func (c Course) MedicationByID(id string) (MedicationItem, bool) {
	for _, m := range c.Medications {
		if m.ID == id {
			return m, true
		}
	}
	return MedicationItem{}, false
}

// SlotByIndex busca un slot por su índice del día.
func (c Course) SlotByIndex(index int) (DoseSlot, bool) {
	for _, s := range c.DoseSlots {
		if s.IndexInDay == index {
			return s, true
		}
	}
	return DoseSlot{}, false
}

// MedicationIDsForSlot devuelve los medicamentos asignados a un slot,
// en el orden de CourseMedications.
func (c Course) MedicationIDsForSlot(index int) []string {
	var out []string
	for _, cm := range c.CourseMedications {
		for _, idx := range cm.SlotIndexes {
			if idx == index {
				out = append(out, cm.MedicationID)
				break
			}
		}
	}
	return out
}

// ActiveOn indica si el curso tiene tomas planificadas en el día dado.
func (c Course) ActiveOn(day time.Time) bool {
	if c.TotalDurationInDays <= 0 {
		return false
	}
	start := startOfDay(c.StartDate)
	day = startOfDay(day)
	if day.Before(start) {
		return false
	}
	daysPassed := int(day.Sub(start).Hours() / 24)
	return daysPassed < c.TotalDurationInDays
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
