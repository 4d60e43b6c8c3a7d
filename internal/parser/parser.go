// Package parser convierte una receta en texto libre (ruso, a menudo
// dictada por voz) en registros estructurados de medicamentos.
//
// El pipeline es puro y sin estado: Normalize -> Segment -> por cada
// segmento, cinco extractores independientes con cascada de estrategias.
// Los segmentos ambiguos se descartan en vez de producir errores: un falso
// negativo lo corrige el usuario al revisar la lista; un falso positivo
// pasaría inadvertido.
package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Medication es un medicamento reconocido en la receta.
type Medication struct {
	ID     string
	Name   string
	Dosage string // "2 капли", "500 мг"

	TimesPerDay int
	// AltTimesPerDay retiene la frecuencia derivada del intervalo cuando
	// contradice a la explícita; 0 si no hay conflicto.
	AltTimesPerDay int

	DurationInDays int
	Comment        string // "" si no hay anotaciones
}

const (
	defaultDosage       = "1 доза"
	defaultTimesPerDay  = 1
	defaultDurationDays = 7

	minNameRunes = 3
)

// Parse analiza el texto completo de la receta y devuelve un medicamento por
// segmento reconocible, en orden de aparición. Lista vacía es salida válida.
func Parse(text string) []Medication {
	normalized := Normalize(text)

	var out []Medication
	for _, segment := range Segment(normalized) {
		if med, ok := parseSegment(segment); ok {
			out = append(out, med)
		}
	}
	return out
}

// parseSegment ensambla un Medication a partir de un segmento. Devuelve
// false si el nombre no supera el gate de validez: el segmento se descarta
// en silencio.
func parseSegment(segment string) (Medication, bool) {
	name, ok := extractName(segment)
	if !ok {
		return Medication{}, false
	}

	gate := strings.TrimSpace(strings.ToLower(name))
	if utf8.RuneCountInString(gate) < minNameRunes || rejectedNames[gate] {
		return Medication{}, false
	}

	med := Medication{
		ID:             uuid.NewString(),
		Name:           name,
		Dosage:         defaultDosage,
		TimesPerDay:    defaultTimesPerDay,
		DurationInDays: defaultDurationDays,
	}

	if dosage, ok := extractDosage(segment); ok {
		med.Dosage = dosage
	}
	if freq, ok := extractFrequency(segment); ok {
		med.TimesPerDay = freq.TimesPerDay
		med.AltTimesPerDay = freq.Alternative
	}
	if days, ok := extractDuration(segment); ok {
		med.DurationInDays = days
	}
	if comment, ok := extractComment(segment); ok {
		med.Comment = comment
	}

	return med, true
}
