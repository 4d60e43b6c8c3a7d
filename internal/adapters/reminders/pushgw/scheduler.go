package pushgw

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"med-schedule/internal/platform/httpclient"
	"med-schedule/internal/ports/reminders"
)

var ErrNotConfigured = errors.New("push gateway not configured")

// Config del gateway de recordatorios. BaseURL normalmente sale de
// PUSH_GATEWAY_URL.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Scheduler implementa reminders.Scheduler contra un gateway de push
// HTTP. El gateway guarda el horario completo del curso y se encarga
// de disparar las notificaciones; aquí solo se publica y se cancela.
type Scheduler struct {
	client *httpclient.Client
	apiKey string
}

func NewScheduler(cfg Config) (*Scheduler, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, ErrNotConfigured
	}
	client, err := httpclient.NewWithBaseURL(base, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Scheduler{client: client, apiKey: strings.TrimSpace(cfg.APIKey)}, nil
}

type doseTimePayload struct {
	SlotIndex int `json:"slot_index"`
	Hour      int `json:"hour"`
	Minute    int `json:"minute"`
}

type schedulePayload struct {
	UserID         string            `json:"user_id"`
	StartDate      string            `json:"start_date"`
	DurationInDays int               `json:"duration_in_days"`
	OffsetMinutes  int               `json:"offset_minutes"`
	Times          []doseTimePayload `json:"times"`
}

// Schedule publica (o reemplaza) el horario de un curso. PUT es
// idempotente: re-publicar tras editar el curso pisa lo anterior.
func (s *Scheduler) Schedule(ctx context.Context, cs reminders.CourseSchedule) error {
	if s == nil || s.client == nil {
		return ErrNotConfigured
	}

	times := make([]doseTimePayload, 0, len(cs.Times))
	for _, t := range cs.Times {
		times = append(times, doseTimePayload{SlotIndex: t.SlotIndex, Hour: t.Hour, Minute: t.Minute})
	}
	payload := schedulePayload{
		UserID:         cs.UserID,
		StartDate:      cs.StartDate.UTC().Format("2006-01-02"),
		DurationInDays: cs.DurationInDays,
		OffsetMinutes:  cs.OffsetMinutes,
		Times:          times,
	}

	err := s.client.DoJSON(ctx, http.MethodPut, "/v1/reminders/"+cs.CourseID, s.headers(), payload, nil)
	if err != nil {
		return fmt.Errorf("pushgw schedule: %w", err)
	}
	return nil
}

// Cancel borra los recordatorios de un curso. Un 404 del gateway no es
// error: no había nada programado.
func (s *Scheduler) Cancel(ctx context.Context, courseID string) error {
	if s == nil || s.client == nil {
		return ErrNotConfigured
	}

	err := s.client.DoJSON(ctx, http.MethodDelete, "/v1/reminders/"+courseID, s.headers(), nil, nil)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("pushgw cancel: %w", err)
	}
	return nil
}

func (s *Scheduler) headers() map[string]string {
	if s.apiKey == "" {
		return nil
	}
	return map[string]string{"X-Api-Key": s.apiKey}
}
