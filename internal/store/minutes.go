package store

import (
	"context"
	"encoding/json"
	"fmt"

	"tutor-scheduling-api/internal/model"
)

func (t pgTx) PutMinutes(ctx context.Context, m model.Minutes) error {
	results := m.StudentResults
	if results == nil {
		results = []model.StudentResult{}
	}
	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("encode student results: %w", err)
	}
	_, err = t.q.Exec(ctx,
		`INSERT INTO minutes (appointment_id, content, student_results, file_link, created_at)
		 VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT (appointment_id) DO UPDATE SET
		   content = EXCLUDED.content,
		   student_results = EXCLUDED.student_results,
		   file_link = EXCLUDED.file_link,
		   created_at = EXCLUDED.created_at`,
		m.AppointmentID, m.Content, raw, m.FileLink, m.CreatedAt,
	)
	return mapErr(err)
}

func (t pgTx) getMinutes(ctx context.Context, appointmentID string) (model.Minutes, error) {
	m := model.Minutes{}
	var raw []byte
	err := t.q.QueryRow(ctx,
		`SELECT appointment_id, content, student_results, file_link, created_at
		 FROM minutes WHERE appointment_id = $1`, appointmentID,
	).Scan(&m.AppointmentID, &m.Content, &raw, &m.FileLink, &m.CreatedAt)
	if err != nil {
		return model.Minutes{}, mapErr(err)
	}
	if err := json.Unmarshal(raw, &m.StudentResults); err != nil {
		return model.Minutes{}, fmt.Errorf("decode student results: %w", err)
	}
	return m, nil
}

func (t pgTx) PutFreeSchedule(ctx context.Context, fs model.FreeSchedule) error {
	cells := fs.Cells
	if cells == nil {
		cells = []string{}
	}
	_, err := t.q.Exec(ctx,
		`INSERT INTO free_schedules (tutor_id, week, cells, note)
		 VALUES ($1,$2,$3,$4)
		 ON CONFLICT (tutor_id, week) DO UPDATE SET
		   cells = EXCLUDED.cells,
		   note = EXCLUDED.note`,
		fs.TutorID, fs.Week, cells, fs.Note,
	)
	return mapErr(err)
}

func (t pgTx) getFreeSchedule(ctx context.Context, tutorID, week string) (model.FreeSchedule, error) {
	fs := model.FreeSchedule{}
	err := t.q.QueryRow(ctx,
		`SELECT tutor_id, week, cells, note FROM free_schedules
		 WHERE tutor_id = $1 AND week = $2`, tutorID, week,
	).Scan(&fs.TutorID, &fs.Week, &fs.Cells, &fs.Note)
	if err != nil {
		return model.FreeSchedule{}, mapErr(err)
	}
	return fs, nil
}
