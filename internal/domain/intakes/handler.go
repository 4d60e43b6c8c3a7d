package intakes

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
	r.Route("/courses/{courseID}", func(cr chi.Router) {
		cr.Put("/intakes", markIntakeHandler(svc))
		cr.Get("/intakes", dayIntakesHandler(svc))
		cr.Get("/progress", courseProgressHandler(svc))
	})
	r.Get("/me/today", todayHandler(svc))
}

type markIntakeRequest struct {
	MedicationID string `json:"medication_id"`
	SlotIndex    int    `json:"slot_index"`
	Day          string `json:"day"` // YYYY-MM-DD, opcional: hoy por defecto
	Status       string `json:"status"`
}

type plannedDoseResponse struct {
	CourseID       string  `json:"course_id"`
	CourseName     string  `json:"course_name,omitempty"`
	MedicationID   string  `json:"medication_id"`
	MedicationName string  `json:"medication_name"`
	Dosage         string  `json:"dosage"`
	Comment        *string `json:"comment,omitempty"`
	SlotIndex      int     `json:"slot_index"`
	Hour           int     `json:"hour"`
	Minute         int     `json:"minute"`
	Status         string  `json:"status"`
}

type progressResponse struct {
	TodayPlanned int     `json:"today_planned"`
	TodayTaken   int     `json:"today_taken"`
	TodayRatio   float64 `json:"today_ratio"`
	ElapsedDays  int     `json:"elapsed_days"`
	TotalDays    int     `json:"total_days"`
	OverallRatio float64 `json:"overall_ratio"`
}

// markIntakeHandler godoc
// @Summary Marcar una toma
// @Description Marca taken/skipped una toma concreta, o pending para deshacer la marca.
// @Tags intakes
// @Accept json
// @Param courseID path string true "ID del curso"
// @Param body body markIntakeRequest true "Marca"
// @Success 204
// @Failure 400 {string} string "invalid input"
// @Router /courses/{courseID}/intakes [put]
func markIntakeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req markIntakeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		status, err := ParseStatus(req.Status)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		day, err := parseDayOrNow(req.Day)
		if err != nil {
			http.Error(w, "day must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		err = svc.Mark(r.Context(), claims.UserID, chi.URLParam(r, "courseID"), req.MedicationID, req.SlotIndex, day, status)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func dayIntakesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		day, err := parseDayOrNow(r.URL.Query().Get("day"))
		if err != nil {
			http.Error(w, "day must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		planned, err := svc.DayStatuses(r.Context(), claims.UserID, chi.URLParam(r, "courseID"), day)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPlannedResponses(planned))
	}
}

// courseProgressHandler godoc
// @Summary Progreso de un curso
// @Tags intakes
// @Produce json
// @Param courseID path string true "ID del curso"
// @Success 200 {object} progressResponse
// @Router /courses/{courseID}/progress [get]
func courseProgressHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.CourseProgress(r.Context(), claims.UserID, chi.URLParam(r, "courseID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, progressResponse{
			TodayPlanned: p.TodayPlanned,
			TodayTaken:   p.TodayTaken,
			TodayRatio:   p.TodayRatio,
			ElapsedDays:  p.ElapsedDays,
			TotalDays:    p.TotalDays,
			OverallRatio: p.OverallRatio,
		})
	}
}

// todayHandler godoc
// @Summary Tomas del día del usuario
// @Description Junta las tomas planificadas de todos los cursos activos, ordenadas por hora. Acepta ?day=YYYY-MM-DD para otro día.
// @Tags intakes
// @Produce json
// @Success 200 {array} plannedDoseResponse
// @Router /me/today [get]
func todayHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		day, err := parseDayOrNow(r.URL.Query().Get("day"))
		if err != nil {
			http.Error(w, "day must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		planned, err := svc.PlannedForDay(r.Context(), claims.UserID, day)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPlannedResponses(planned))
	}
}

func parseDayOrNow(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Now(), nil
	}
	return time.Parse("2006-01-02", raw)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, "invalid input", http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "course not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toPlannedResponses(planned []PlannedDose) []plannedDoseResponse {
	out := make([]plannedDoseResponse, 0, len(planned))
	for _, p := range planned {
		out = append(out, plannedDoseResponse{
			CourseID:       p.CourseID,
			CourseName:     p.CourseName,
			MedicationID:   p.MedicationID,
			MedicationName: p.MedicationName,
			Dosage:         p.Dosage,
			Comment:        p.Comment,
			SlotIndex:      p.SlotIndex,
			Hour:           p.Hour,
			Minute:         p.Minute,
			Status:         string(p.Status),
		})
	}
	return out
}

// writeJSON está duplicado a propósito en los handlers de cada módulo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
