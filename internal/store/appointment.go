package store

import (
	"context"

	"tutor-scheduling-api/internal/model"
)

const appointmentColumns = `id, tutor_id, name, start_time, end_time, place, mode,
	max_slot, current_slots, status, created_at, updated_at`

func (t pgTx) GetAppointment(ctx context.Context, id string) (model.Appointment, error) {
	row := t.q.QueryRow(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)
	a, err := scanAppointment(row)
	if err != nil {
		return model.Appointment{}, mapErr(err)
	}
	return a, nil
}

func (t pgTx) PutAppointment(ctx context.Context, a model.Appointment) error {
	slots := a.CurrentSlots
	if slots == nil {
		slots = []string{}
	}
	_, err := t.q.Exec(ctx,
		`INSERT INTO appointments (id, tutor_id, name, start_time, end_time, place, mode,
		                           max_slot, current_slots, status, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name,
		   start_time = EXCLUDED.start_time,
		   end_time = EXCLUDED.end_time,
		   place = EXCLUDED.place,
		   mode = EXCLUDED.mode,
		   max_slot = EXCLUDED.max_slot,
		   current_slots = EXCLUDED.current_slots,
		   status = EXCLUDED.status,
		   updated_at = EXCLUDED.updated_at`,
		a.ID, a.TutorID, a.Name, a.StartTime, a.EndTime, a.Place, a.Mode,
		a.MaxSlot, slots, string(a.Status), a.CreatedAt, a.UpdatedAt,
	)
	return mapErr(err)
}

func (t pgTx) ForEachAppointment(ctx context.Context, fn func(model.Appointment) bool) error {
	rows, err := t.q.Query(ctx,
		`SELECT `+appointmentColumns+` FROM appointments ORDER BY start_time, id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return err
		}
		if !fn(a) {
			return nil
		}
	}
	return rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row scanner) (model.Appointment, error) {
	var a model.Appointment
	var status string
	err := row.Scan(&a.ID, &a.TutorID, &a.Name, &a.StartTime, &a.EndTime, &a.Place, &a.Mode,
		&a.MaxSlot, &a.CurrentSlots, &status, &a.CreatedAt, &a.UpdatedAt)
	a.Status = model.Status(status)
	return a, err
}
