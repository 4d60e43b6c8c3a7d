package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"med-schedule/internal/domain/courses"
)

// CoursesRepo guarda cada curso como una fila: los campos escalares en
// columnas y los agregados (medicamentos, slots, asignaciones) como
// JSONB. Los agregados siempre se leen y escriben enteros junto al
// curso, así que no ganamos nada normalizándolos en tablas propias.
type CoursesRepo struct {
	db *sql.DB
}

func NewCoursesRepo(db *sql.DB) *CoursesRepo {
	return &CoursesRepo{db: db}
}

type medicationRow struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Dosage         string  `json:"dosage"`
	TimesPerDay    int     `json:"times_per_day"`
	DurationInDays int     `json:"duration_in_days"`
	Comment        *string `json:"comment,omitempty"`
}

type doseSlotRow struct {
	IndexInDay int `json:"index_in_day"`
	Hour       int `json:"hour"`
	Minute     int `json:"minute"`
}

type courseMedicationRow struct {
	MedicationID string `json:"medication_id"`
	SlotIndexes  []int  `json:"slot_indexes"`
}

func (r *CoursesRepo) Create(ctx context.Context, c courses.Course) error {
	meds, slots, cms, err := marshalAggregates(c)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO courses (
			id, owner_user_id, name,
			created_at, start_date, total_duration_days,
			medications, dose_slots, course_medications,
			reminders_enabled, reminder_offset_minutes
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		c.ID,
		c.OwnerUserID,
		c.Name,
		c.CreatedAt,
		c.StartDate,
		c.TotalDurationInDays,
		meds,
		slots,
		cms,
		c.RemindersEnabled,
		c.ReminderOffsetMinutes,
	)
	return err
}

func (r *CoursesRepo) Update(ctx context.Context, c courses.Course) error {
	meds, slots, cms, err := marshalAggregates(c)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE courses
		SET
			name = $2,
			start_date = $3,
			total_duration_days = $4,
			medications = $5,
			dose_slots = $6,
			course_medications = $7,
			reminders_enabled = $8,
			reminder_offset_minutes = $9
		WHERE id = $1
	`,
		c.ID,
		c.Name,
		c.StartDate,
		c.TotalDurationInDays,
		meds,
		slots,
		cms,
		c.RemindersEnabled,
		c.ReminderOffsetMinutes,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CoursesRepo) GetByID(ctx context.Context, id string) (courses.Course, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return courses.Course{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, owner_user_id, name,
			created_at, start_date, total_duration_days,
			medications, dose_slots, course_medications,
			reminders_enabled, reminder_offset_minutes
		FROM courses
		WHERE id = $1
	`, id)

	c, err := scanCourse(row)
	if err == sql.ErrNoRows {
		return courses.Course{}, ErrNotFound
	}
	return c, err
}

func (r *CoursesRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]courses.Course, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, owner_user_id, name,
			created_at, start_date, total_duration_days,
			medications, dose_slots, course_medications,
			reminders_enabled, reminder_offset_minutes
		FROM courses
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]courses.Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CoursesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (courses.Course, error) {
	var c courses.Course
	var meds, slots, cms []byte

	if err := row.Scan(
		&c.ID,
		&c.OwnerUserID,
		&c.Name,
		&c.CreatedAt,
		&c.StartDate,
		&c.TotalDurationInDays,
		&meds,
		&slots,
		&cms,
		&c.RemindersEnabled,
		&c.ReminderOffsetMinutes,
	); err != nil {
		return courses.Course{}, err
	}

	var medRows []medicationRow
	if err := json.Unmarshal(meds, &medRows); err != nil {
		return courses.Course{}, fmt.Errorf("decode medications: %w", err)
	}
	for _, m := range medRows {
		c.Medications = append(c.Medications, courses.MedicationItem{
			ID:             m.ID,
			Name:           m.Name,
			Dosage:         m.Dosage,
			TimesPerDay:    m.TimesPerDay,
			DurationInDays: m.DurationInDays,
			Comment:        m.Comment,
		})
	}

	var slotRows []doseSlotRow
	if err := json.Unmarshal(slots, &slotRows); err != nil {
		return courses.Course{}, fmt.Errorf("decode dose_slots: %w", err)
	}
	for _, s := range slotRows {
		c.DoseSlots = append(c.DoseSlots, courses.DoseSlot{IndexInDay: s.IndexInDay, Hour: s.Hour, Minute: s.Minute})
	}

	var cmRows []courseMedicationRow
	if err := json.Unmarshal(cms, &cmRows); err != nil {
		return courses.Course{}, fmt.Errorf("decode course_medications: %w", err)
	}
	for _, cm := range cmRows {
		c.CourseMedications = append(c.CourseMedications, courses.CourseMedication{
			MedicationID: cm.MedicationID,
			SlotIndexes:  cm.SlotIndexes,
		})
	}

	return c, nil
}

func marshalAggregates(c courses.Course) (meds, slots, cms []byte, err error) {
	medRows := make([]medicationRow, 0, len(c.Medications))
	for _, m := range c.Medications {
		medRows = append(medRows, medicationRow{
			ID:             m.ID,
			Name:           m.Name,
			Dosage:         m.Dosage,
			TimesPerDay:    m.TimesPerDay,
			DurationInDays: m.DurationInDays,
			Comment:        m.Comment,
		})
	}
	if meds, err = json.Marshal(medRows); err != nil {
		return nil, nil, nil, fmt.Errorf("encode medications: %w", err)
	}

	slotRows := make([]doseSlotRow, 0, len(c.DoseSlots))
	for _, s := range c.DoseSlots {
		slotRows = append(slotRows, doseSlotRow{IndexInDay: s.IndexInDay, Hour: s.Hour, Minute: s.Minute})
	}
	if slots, err = json.Marshal(slotRows); err != nil {
		return nil, nil, nil, fmt.Errorf("encode dose_slots: %w", err)
	}

	cmRows := make([]courseMedicationRow, 0, len(c.CourseMedications))
	for _, cm := range c.CourseMedications {
		cmRows = append(cmRows, courseMedicationRow{MedicationID: cm.MedicationID, SlotIndexes: cm.SlotIndexes})
	}
	if cms, err = json.Marshal(cmRows); err != nil {
		return nil, nil, nil, fmt.Errorf("encode course_medications: %w", err)
	}

	return meds, slots, cms, nil
}
