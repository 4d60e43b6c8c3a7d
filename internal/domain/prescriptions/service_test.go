package prescriptions

import (
	"errors"
	"testing"
)

func TestService_ParseEmptyText(t *testing.T) {
	svc := NewService()

	for _, text := range []string{"", "   ", "\n\t "} {
		if _, err := svc.Parse(text); !errors.Is(err, ErrEmptyInput) {
			t.Fatalf("Parse(%q): expected ErrEmptyInput, got %v", text, err)
		}
	}
}

func TestService_ParseUnrecognizableText(t *testing.T) {
	svc := NewService()

	_, err := svc.Parse("жалобы: насморк, кашель")
	if !errors.Is(err, ErrNoMedications) {
		t.Fatalf("expected ErrNoMedications, got %v", err)
	}
}

func TestService_ParseRecognizesMedications(t *testing.T) {
	svc := NewService()

	meds, err := svc.Parse("Амоксиклав по 1 таблетке 2 раза в день 7 дней")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(meds) != 1 {
		t.Fatalf("expected 1 medication, got %+v", meds)
	}
	m := meds[0]
	if m.Name != "амоксиклав" || m.TimesPerDay != 2 || m.DurationInDays != 7 {
		t.Fatalf("unexpected medication: %+v", m)
	}
}
