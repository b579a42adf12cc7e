package scheduling

import (
	"slices"

	"tutor-scheduling-api/internal/model"
)

// CanBook reports whether studentID may take a seat on a.
func CanBook(a model.Appointment, studentID string) bool {
	return checkBookable(a, studentID) == nil
}

func checkBookable(a model.Appointment, studentID string) error {
	if a.Status != model.StatusOpen {
		return validationf("appointment %q is not open for booking", a.Name)
	}
	if slices.Contains(a.CurrentSlots, studentID) {
		return validationf("already booked on %q", a.Name)
	}
	if len(a.CurrentSlots) >= a.MaxSlot {
		return validationf("appointment %q is full", a.Name)
	}
	return nil
}

// addSlot and removeSlot assume the caller already ran checkBookable or the
// matching membership check.
func addSlot(a *model.Appointment, studentID string) {
	a.CurrentSlots = append(a.CurrentSlots, studentID)
}

func removeSlot(a *model.Appointment, studentID string) {
	a.CurrentSlots = slices.DeleteFunc(a.CurrentSlots, func(s string) bool { return s == studentID })
}

func addBooking(u *model.User, appointmentID string) {
	if !slices.Contains(u.BookedAppointments, appointmentID) {
		u.BookedAppointments = append(u.BookedAppointments, appointmentID)
	}
}

func removeBooking(u *model.User, appointmentID string) {
	u.BookedAppointments = slices.DeleteFunc(u.BookedAppointments, func(s string) bool { return s == appointmentID })
}
