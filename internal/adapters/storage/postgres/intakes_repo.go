package postgres

import (
	"context"
	"database/sql"
	"time"

	"med-schedule/internal/domain/intakes"
)

// IntakesRepo persiste marcas de toma en una tabla con clave compuesta
// (course_id, medication_id, slot_index, day). Solo hay filas para
// taken/skipped; pending es la ausencia de fila.
type IntakesRepo struct {
	db *sql.DB
}

func NewIntakesRepo(db *sql.DB) *IntakesRepo {
	return &IntakesRepo{db: db}
}

func (r *IntakesRepo) Set(ctx context.Context, rec intakes.Record) error {
	rec.Key.Day = intakes.DayOf(rec.Key.Day)

	if rec.Status == intakes.StatusPending {
		_, err := r.db.ExecContext(ctx, `
			DELETE FROM intake_statuses
			WHERE course_id = $1 AND medication_id = $2 AND slot_index = $3 AND day = $4
		`, rec.Key.CourseID, rec.Key.MedicationID, rec.Key.SlotIndex, rec.Key.Day)
		return err
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO intake_statuses (
			course_id, medication_id, slot_index, day,
			status, marked_at, marked_by
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (course_id, medication_id, slot_index, day)
		DO UPDATE SET status = $5, marked_at = $6, marked_by = $7
	`,
		rec.Key.CourseID,
		rec.Key.MedicationID,
		rec.Key.SlotIndex,
		rec.Key.Day,
		string(rec.Status),
		rec.MarkedAt,
		rec.MarkedBy,
	)
	return err
}

func (r *IntakesRepo) Get(ctx context.Context, key intakes.Key) (intakes.Record, bool, error) {
	key.Day = intakes.DayOf(key.Day)

	row := r.db.QueryRowContext(ctx, `
		SELECT status, marked_at, marked_by
		FROM intake_statuses
		WHERE course_id = $1 AND medication_id = $2 AND slot_index = $3 AND day = $4
	`, key.CourseID, key.MedicationID, key.SlotIndex, key.Day)

	var status string
	rec := intakes.Record{Key: key}
	if err := row.Scan(&status, &rec.MarkedAt, &rec.MarkedBy); err != nil {
		if err == sql.ErrNoRows {
			return intakes.Record{}, false, nil
		}
		return intakes.Record{}, false, err
	}
	rec.Status = intakes.Status(status)
	return rec, true, nil
}

func (r *IntakesRepo) ListByCourseDay(ctx context.Context, courseID string, day time.Time) ([]intakes.Record, error) {
	day = intakes.DayOf(day)

	rows, err := r.db.QueryContext(ctx, `
		SELECT medication_id, slot_index, status, marked_at, marked_by
		FROM intake_statuses
		WHERE course_id = $1 AND day = $2
		ORDER BY slot_index ASC, medication_id ASC
	`, courseID, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]intakes.Record, 0)
	for rows.Next() {
		rec := intakes.Record{Key: intakes.Key{CourseID: courseID, Day: day}}
		var status string
		if err := rows.Scan(&rec.Key.MedicationID, &rec.Key.SlotIndex, &status, &rec.MarkedAt, &rec.MarkedBy); err != nil {
			return nil, err
		}
		rec.Status = intakes.Status(status)
		out = append(out, rec)
	}
	return out, rows.Err()
}
