package scheduling

import (
	"context"
	"slices"
	"time"

	"tutor-scheduling-api/internal/model"
	"tutor-scheduling-api/internal/store"
)

// Interval is half-open: [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func intervalOf(a model.Appointment) Interval {
	return Interval{Start: a.StartTime, End: a.EndTime}
}

// Overlaps reports whether i and o share any instant. Touching endpoints do
// not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && i.End.After(o.Start)
}

// FindConflict returns the first appointment in existing whose interval
// overlaps candidate.
func FindConflict(candidate Interval, existing []model.Appointment) (model.Appointment, bool) {
	for _, a := range existing {
		if candidate.Overlaps(intervalOf(a)) {
			return a, true
		}
	}
	return model.Appointment{}, false
}

// tutorSchedule collects the tutor's non-cancelled appointments, skipping
// excludeID.
func tutorSchedule(ctx context.Context, tx store.Tx, tutorID, excludeID string) ([]model.Appointment, error) {
	var out []model.Appointment
	err := tx.ForEachAppointment(ctx, func(a model.Appointment) bool {
		if a.ID != excludeID && a.TutorID == tutorID && a.Status != model.StatusCancelled {
			out = append(out, a)
		}
		return true
	})
	return out, err
}

// studentSchedule collects the open appointments the student currently holds.
func studentSchedule(ctx context.Context, tx store.Tx, studentID, excludeID string) ([]model.Appointment, error) {
	var out []model.Appointment
	err := tx.ForEachAppointment(ctx, func(a model.Appointment) bool {
		if a.ID != excludeID && a.Status == model.StatusOpen && slices.Contains(a.CurrentSlots, studentID) {
			out = append(out, a)
		}
		return true
	})
	return out, err
}
