package prescriptions

import (
	"errors"
	"strings"

	"med-schedule/internal/parser"
)

var (
	// ErrEmptyInput: el texto llegó vacío o solo espacios.
	ErrEmptyInput = errors.New("empty prescription text")
	// ErrNoMedications: hubo texto pero ningún segmento sobrevivió al parser.
	ErrNoMedications = errors.New("no medications recognized")
)

// Service envuelve el parser de recetas. Es deliberadamente fino: el
// parser es puro y toda la política HTTP (422 vs 400) vive en el handler.
type Service struct{}

func NewService() *Service { return &Service{} }

// Parse analiza el texto libre de una receta y devuelve los
// medicamentos reconocidos en orden de aparición.
func (s *Service) Parse(text string) ([]parser.Medication, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	meds := parser.Parse(text)
	if len(meds) == 0 {
		return nil, ErrNoMedications
	}
	return meds, nil
}
