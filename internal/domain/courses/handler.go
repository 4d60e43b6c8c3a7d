package courses

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"med-schedule/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/courses", func(cr chi.Router) {
		cr.Post("/", createCourseHandler(svc))
		cr.Get("/", listCoursesHandler(svc))
		cr.Get("/{courseID}", getCourseHandler(svc))
		cr.Patch("/{courseID}", updateCourseHandler(svc))
		cr.Delete("/{courseID}", deleteCourseHandler(svc))
	})
}

type medicationRequest struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Dosage         string  `json:"dosage"`
	TimesPerDay    int     `json:"times_per_day"`
	DurationInDays int     `json:"duration_in_days"`
	Comment        *string `json:"comment"`
}

type slotTimeRequest struct {
	Index  int `json:"index"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

type createCourseRequest struct {
	Name                  string              `json:"name"`
	StartDate             string              `json:"start_date"` // YYYY-MM-DD, opcional
	Medications           []medicationRequest `json:"medications"`
	SlotTimes             []slotTimeRequest   `json:"slot_times"`
	RemindersEnabled      bool                `json:"reminders_enabled"`
	ReminderOffsetMinutes int                 `json:"reminder_offset_minutes"`
}

type updateCourseRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name                  *string             `json:"name"`
	StartDate             *string             `json:"start_date"`
	RemindersEnabled      *bool               `json:"reminders_enabled"`
	ReminderOffsetMinutes *int                `json:"reminder_offset_minutes"`
	Medications           []medicationRequest `json:"medications"`
	SlotTimes             []slotTimeRequest   `json:"slot_times"`
}

type medicationResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Dosage         string  `json:"dosage"`
	TimesPerDay    int     `json:"times_per_day"`
	DurationInDays int     `json:"duration_in_days"`
	Comment        *string `json:"comment,omitempty"`
}

type doseSlotResponse struct {
	IndexInDay int `json:"index_in_day"`
	Hour       int `json:"hour"`
	Minute     int `json:"minute"`
}

type courseMedicationResponse struct {
	MedicationID string `json:"medication_id"`
	SlotIndexes  []int  `json:"slot_indexes"`
}

type courseResponse struct {
	ID                    string                     `json:"id"`
	OwnerUserID           string                     `json:"owner_user_id"`
	Name                  string                     `json:"name,omitempty"`
	CreatedAt             time.Time                  `json:"created_at"`
	StartDate             time.Time                  `json:"start_date"`
	TotalDurationInDays   int                        `json:"total_duration_in_days"`
	Medications           []medicationResponse       `json:"medications"`
	DoseSlots             []doseSlotResponse         `json:"dose_slots"`
	CourseMedications     []courseMedicationResponse `json:"course_medications"`
	RemindersEnabled      bool                       `json:"reminders_enabled"`
	ReminderOffsetMinutes int                        `json:"reminder_offset_minutes"`
}

// createCourseHandler godoc
// @Summary Crear curso de medicación
// @Description Crea un curso a partir de medicamentos (normalmente salidos del parser), construye el horario diario por defecto y programa recordatorios si están habilitados. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>`.
// @Tags courses
// @Accept json
// @Produce json
// @Param body body createCourseRequest true "Curso"
// @Success 201 {object} courseResponse
// @Failure 400 {string} string "invalid input"
// @Router /courses [post]
func createCourseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createCourseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var start time.Time
		if strings.TrimSpace(req.StartDate) != "" {
			t, err := time.Parse("2006-01-02", req.StartDate)
			if err != nil {
				http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			start = t
		}

		c, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:                  req.Name,
			StartDate:             start,
			Medications:           toMedicationInputs(req.Medications),
			SlotTimes:             toSlotTimeInputs(req.SlotTimes),
			RemindersEnabled:      req.RemindersEnabled,
			ReminderOffsetMinutes: req.ReminderOffsetMinutes,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toCourseResponse(c))
	}
}

func listCoursesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]courseResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toCourseResponse(c))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getCourseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		c, err := svc.GetByID(r.Context(), chi.URLParam(r, "courseID"))
		if err != nil {
			http.Error(w, "course not found", http.StatusNotFound)
			return
		}
		if c.OwnerUserID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		writeJSON(w, http.StatusOK, toCourseResponse(c))
	}
}

func updateCourseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateCourseRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			Name:                  req.Name,
			RemindersEnabled:      req.RemindersEnabled,
			ReminderOffsetMinutes: req.ReminderOffsetMinutes,
			SlotTimes:             toSlotTimeInputs(req.SlotTimes),
		}
		if req.StartDate != nil {
			t, err := time.Parse("2006-01-02", *req.StartDate)
			if err != nil {
				http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.StartDate = &t
		}
		if req.Medications != nil {
			in.Medications = toMedicationInputs(req.Medications)
		}

		c, err := svc.Update(r.Context(), chi.URLParam(r, "courseID"), claims.UserID, in)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toCourseResponse(c))
	}
}

func deleteCourseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		err := svc.Delete(r.Context(), chi.URLParam(r, "courseID"), claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "course not found", http.StatusNotFound)
	default:
		// los repos devuelven su propio "not found"
		if strings.Contains(err.Error(), "not found") {
			http.Error(w, "course not found", http.StatusNotFound)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toMedicationInputs(reqs []medicationRequest) []MedicationInput {
	out := make([]MedicationInput, 0, len(reqs))
	for _, m := range reqs {
		out = append(out, MedicationInput{
			ID:             m.ID,
			Name:           m.Name,
			Dosage:         m.Dosage,
			TimesPerDay:    m.TimesPerDay,
			DurationInDays: m.DurationInDays,
			Comment:        m.Comment,
		})
	}
	return out
}

func toSlotTimeInputs(reqs []slotTimeRequest) []SlotTimeInput {
	out := make([]SlotTimeInput, 0, len(reqs))
	for _, t := range reqs {
		out = append(out, SlotTimeInput{Index: t.Index, Hour: t.Hour, Minute: t.Minute})
	}
	return out
}

func toCourseResponse(c Course) courseResponse {
	meds := make([]medicationResponse, 0, len(c.Medications))
	for _, m := range c.Medications {
		meds = append(meds, medicationResponse{
			ID:             m.ID,
			Name:           m.Name,
			Dosage:         m.Dosage,
			TimesPerDay:    m.TimesPerDay,
			DurationInDays: m.DurationInDays,
			Comment:        m.Comment,
		})
	}

	slots := make([]doseSlotResponse, 0, len(c.DoseSlots))
	for _, s := range c.DoseSlots {
		slots = append(slots, doseSlotResponse{IndexInDay: s.IndexInDay, Hour: s.Hour, Minute: s.Minute})
	}

	cms := make([]courseMedicationResponse, 0, len(c.CourseMedications))
	for _, cm := range c.CourseMedications {
		cms = append(cms, courseMedicationResponse{MedicationID: cm.MedicationID, SlotIndexes: cm.SlotIndexes})
	}

	return courseResponse{
		ID:                    c.ID,
		OwnerUserID:           c.OwnerUserID,
		Name:                  c.Name,
		CreatedAt:             c.CreatedAt,
		StartDate:             c.StartDate,
		TotalDurationInDays:   c.TotalDurationInDays,
		Medications:           meds,
		DoseSlots:             slots,
		CourseMedications:     cms,
		RemindersEnabled:      c.RemindersEnabled,
		ReminderOffsetMinutes: c.ReminderOffsetMinutes,
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo
// (courses/intakes/prescriptions) para no crear helpers compartidos antes
// de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
