package scheduling

import (
	"context"
	"errors"
	"slices"

	"tutor-scheduling-api/internal/model"
	"tutor-scheduling-api/internal/store"
)

// SaveMinutes replaces whatever was recorded for the appointment before.
// Cancelled sessions are accepted.
func (e *Engine) SaveMinutes(ctx context.Context, appointmentID, tutorID, content string, results []model.StudentResult, fileLink string) (model.Minutes, error) {
	var out model.Minutes
	err := e.write(ctx, func(ctx context.Context, tx store.Tx) error {
		a, err := loadAppointment(ctx, tx, appointmentID)
		if err != nil {
			return err
		}
		if a.TutorID != tutorID {
			return forbidden("not the tutor of this session")
		}
		out = model.Minutes{
			AppointmentID:  appointmentID,
			Content:        content,
			StudentResults: slices.Clone(results),
			FileLink:       fileLink,
			CreatedAt:      e.clock(),
		}
		return tx.PutMinutes(ctx, out)
	})
	if err != nil {
		return model.Minutes{}, err
	}
	return out, nil
}

func (e *Engine) GetMinutes(ctx context.Context, appointmentID string) (model.Minutes, error) {
	m, err := e.store.GetMinutes(ctx, appointmentID)
	if errors.Is(err, store.ErrNotFound) {
		return model.Minutes{}, notFound("no minutes recorded for this appointment")
	}
	return m, err
}
