package prescriptions

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/prescriptions/parse", parsePrescriptionHandler(svc))
}

type parseRequest struct {
	Text string `json:"text"`
}

type parsedMedicationResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Dosage         string `json:"dosage"`
	TimesPerDay    int    `json:"times_per_day"`
	AltTimesPerDay int    `json:"alt_times_per_day,omitempty"`
	DurationInDays int    `json:"duration_in_days"`
	Comment        string `json:"comment,omitempty"`
}

type parseResponse struct {
	Medications []parsedMedicationResponse `json:"medications"`
}

// parsePrescriptionHandler godoc
// @Summary Analizar texto de receta
// @Description Extrae medicamentos (nombre, dosis, frecuencia, duración, notas) de una receta en texto libre. No requiere auth: no toca datos del usuario.
// @Tags prescriptions
// @Accept json
// @Produce json
// @Param body body parseRequest true "Texto de la receta"
// @Success 200 {object} parseResponse
// @Failure 400 {string} string "empty prescription text"
// @Failure 422 {string} string "no medications recognized"
// @Router /prescriptions/parse [post]
func parsePrescriptionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req parseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		meds, err := svc.Parse(req.Text)
		if err != nil {
			switch {
			case errors.Is(err, ErrEmptyInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNoMedications):
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		out := make([]parsedMedicationResponse, 0, len(meds))
		for _, m := range meds {
			out = append(out, parsedMedicationResponse{
				ID:             m.ID,
				Name:           m.Name,
				Dosage:         m.Dosage,
				TimesPerDay:    m.TimesPerDay,
				AltTimesPerDay: m.AltTimesPerDay,
				DurationInDays: m.DurationInDays,
				Comment:        m.Comment,
			})
		}
		writeJSON(w, http.StatusOK, parseResponse{Medications: out})
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
