package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"med-schedule/internal/router"
)

func TestHTTP_EndToEnd_CourseLifecycle(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	ownerID := "user-1"
	strangerID := "user-2"

	// 1) El parser es público: no requiere usuario
	var parsed struct {
		Medications []struct {
			ID             string `json:"id"`
			Name           string `json:"name"`
			Dosage         string `json:"dosage"`
			TimesPerDay    int    `json:"times_per_day"`
			DurationInDays int    `json:"duration_in_days"`
		} `json:"medications"`
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/prescriptions/parse", "", map[string]any{
			"text": "Амоксиклав по 1 таблетке 2 раза в день 7 дней\nНазивин (капли) по 2 капли 1 раз в день 5 дней",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 parse, got %d body=%s", st, string(body))
		}
		_ = json.Unmarshal(body, &parsed)
		if len(parsed.Medications) != 2 {
			t.Fatalf("expected 2 parsed medications, body=%s", string(body))
		}
	}

	// 2) Sin usuario no se pueden crear cursos
	{
		st, _ := doReq(t, ts.URL, "POST", "/courses", "", map[string]any{
			"medications": []map[string]any{{"name": "амоксиклав", "times_per_day": 2, "duration_in_days": 7}},
		})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 without user, got %d", st)
		}
	}

	// 3) Owner crea curso a partir de lo parseado
	meds := make([]map[string]any, 0, len(parsed.Medications))
	for _, m := range parsed.Medications {
		meds = append(meds, map[string]any{
			"id":               m.ID,
			"name":             m.Name,
			"dosage":           m.Dosage,
			"times_per_day":    m.TimesPerDay,
			"duration_in_days": m.DurationInDays,
		})
	}
	course := createCourse(t, ts.URL, ownerID, map[string]any{
		"name":        "после лора",
		"medications": meds,
	})
	if course.TotalDurationInDays != 7 {
		t.Fatalf("expected total duration 7, got %+v", course)
	}
	if len(course.DoseSlots) != 2 || course.DoseSlots[0].Hour != 8 || course.DoseSlots[1].Hour != 20 {
		t.Fatalf("unexpected default slots: %+v", course.DoseSlots)
	}

	// 4) Otro usuario no ve el curso
	{
		st, _ := doReq(t, ts.URL, "GET", "/courses/"+course.ID, strangerID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for stranger, got %d", st)
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/courses/"+course.ID, ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get course, got %d body=%s", st, string(body))
		}
	}

	// 5) Owner lista sus cursos
	{
		st, body := doReq(t, ts.URL, "GET", "/courses", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list courses, got %d body=%s", st, string(body))
		}
		var list []json.RawMessage
		_ = json.Unmarshal(body, &list)
		if len(list) != 1 {
			t.Fatalf("expected 1 course listed, body=%s", string(body))
		}
	}

	// 6) Marca la primera toma de hoy como tomada
	amoksID := course.Medications[0].ID
	{
		st, body := doReq(t, ts.URL, "PUT", "/courses/"+course.ID+"/intakes", ownerID, map[string]any{
			"medication_id": amoksID,
			"slot_index":    1,
			"status":        "taken",
		})
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 mark intake, got %d body=%s", st, string(body))
		}
	}

	// 7) El listado del día refleja la marca
	{
		st, body := doReq(t, ts.URL, "GET", "/courses/"+course.ID+"/intakes", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 day intakes, got %d body=%s", st, string(body))
		}
		var doses []struct {
			MedicationID string `json:"medication_id"`
			SlotIndex    int    `json:"slot_index"`
			Status       string `json:"status"`
		}
		_ = json.Unmarshal(body, &doses)
		if len(doses) != 3 {
			t.Fatalf("expected 3 planned doses today, body=%s", string(body))
		}
		taken := 0
		for _, d := range doses {
			if d.Status == "taken" {
				taken++
				if d.MedicationID != amoksID || d.SlotIndex != 1 {
					t.Fatalf("taken mark on wrong dose: %+v", d)
				}
			}
		}
		if taken != 1 {
			t.Fatalf("expected exactly 1 taken dose, body=%s", string(body))
		}
	}

	// 8) Progreso del curso
	{
		st, body := doReq(t, ts.URL, "GET", "/courses/"+course.ID+"/progress", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 progress, got %d body=%s", st, string(body))
		}
		var p struct {
			TodayPlanned int `json:"today_planned"`
			TodayTaken   int `json:"today_taken"`
			TotalDays    int `json:"total_days"`
		}
		_ = json.Unmarshal(body, &p)
		if p.TodayPlanned != 3 || p.TodayTaken != 1 || p.TotalDays != 7 {
			t.Fatalf("unexpected progress: %+v body=%s", p, string(body))
		}
	}

	// 9) Agenda del día del usuario
	{
		st, body := doReq(t, ts.URL, "GET", "/me/today", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 me/today, got %d body=%s", st, string(body))
		}
		var doses []json.RawMessage
		_ = json.Unmarshal(body, &doses)
		if len(doses) != 3 {
			t.Fatalf("expected 3 doses in agenda, body=%s", string(body))
		}
	}

	// 10) PATCH renombra el curso
	{
		st, body := doReq(t, ts.URL, "PATCH", "/courses/"+course.ID, ownerID, map[string]any{
			"name": "после лора (повтор)",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 patch course, got %d body=%s", st, string(body))
		}
	}

	// 11) Solo el owner borra
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/courses/"+course.ID, strangerID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 delete by stranger, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/courses/"+course.ID, ownerID, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 delete by owner, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/courses/"+course.ID, ownerID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 after delete, got %d", st)
		}
	}
}

func TestHTTP_ParsePrescription_Errors(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	// texto vacío => 400
	{
		st, _ := doReq(t, ts.URL, "POST", "/prescriptions/parse", "", map[string]any{"text": "   "})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for empty text, got %d", st)
		}
	}

	// texto sin medicamentos reconocibles => 422
	{
		st, _ := doReq(t, ts.URL, "POST", "/prescriptions/parse", "", map[string]any{"text": "жалобы: насморк, кашель"})
		if st != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422 for unrecognizable text, got %d", st)
		}
	}
}

func TestHTTP_MarkIntake_Validation(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	course := createCourse(t, ts.URL, "user-1", map[string]any{
		"medications": []map[string]any{
			{"name": "парацетамол", "times_per_day": 2, "duration_in_days": 3},
		},
	})
	medID := course.Medications[0].ID

	// estado desconocido => 400
	{
		st, _ := doReq(t, ts.URL, "PUT", "/courses/"+course.ID+"/intakes", "user-1", map[string]any{
			"medication_id": medID,
			"slot_index":    1,
			"status":        "done",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown status, got %d", st)
		}
	}

	// slot inexistente => 400
	{
		st, _ := doReq(t, ts.URL, "PUT", "/courses/"+course.ID+"/intakes", "user-1", map[string]any{
			"medication_id": medID,
			"slot_index":    9,
			"status":        "taken",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown slot, got %d", st)
		}
	}

	// curso ajeno => 403
	{
		st, _ := doReq(t, ts.URL, "PUT", "/courses/"+course.ID+"/intakes", "user-2", map[string]any{
			"medication_id": medID,
			"slot_index":    1,
			"status":        "taken",
		})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for stranger, got %d", st)
		}
	}

	// curso inexistente => 404
	{
		st, _ := doReq(t, ts.URL, "PUT", "/courses/missing/intakes", "user-1", map[string]any{
			"medication_id": medID,
			"slot_index":    1,
			"status":        "taken",
		})
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 for missing course, got %d", st)
		}
	}
}

func TestHTTP_Health(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	st, body := doReq(t, ts.URL, "GET", "/health", "", nil)
	if st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("expected 200 ok, got %d body=%s", st, string(body))
	}
}

type courseResp struct {
	ID                  string `json:"id"`
	TotalDurationInDays int    `json:"total_duration_in_days"`
	Medications         []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"medications"`
	DoseSlots []struct {
		IndexInDay int `json:"index_in_day"`
		Hour       int `json:"hour"`
		Minute     int `json:"minute"`
	} `json:"dose_slots"`
}

func createCourse(t *testing.T, baseURL, userID string, payload map[string]any) courseResp {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/courses", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create course, got %d body=%s", st, string(body))
	}

	var resp courseResp
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" || len(resp.Medications) == 0 {
		t.Fatalf("create course: incomplete response body=%s", string(body))
	}
	return resp
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
