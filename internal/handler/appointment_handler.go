package handler

import (
	"context"

	"tutor-scheduling-api/internal/model"
	"tutor-scheduling-api/internal/rpc"
	"tutor-scheduling-api/internal/scheduling"
)

func (h *Handler) CreateAppointment(ctx context.Context, req *rpc.CreateAppointmentRequest) (*rpc.AppointmentResponse, error) {
	tutorID, err := caller(ctx, model.RoleTutor)
	if err != nil {
		return nil, err
	}
	if err := h.check(req); err != nil {
		return nil, err
	}
	maxSlot := 1
	if req.MaxSlot != nil {
		maxSlot = int(*req.MaxSlot)
	}

	a, err := h.engine.CreateAppointment(ctx, tutorID, req.Name, req.StartTime, req.EndTime, req.Place, maxSlot)
	if err != nil {
		return nil, h.toStatus(err)
	}
	return &rpc.AppointmentResponse{Appointment: toProto(a)}, nil
}

func (h *Handler) CancelAppointment(ctx context.Context, req *rpc.AppointmentRequest) (*rpc.AppointmentResponse, error) {
	tutorID, err := caller(ctx, model.RoleTutor)
	if err != nil {
		return nil, err
	}
	if err := h.check(req); err != nil {
		return nil, err
	}

	a, err := h.engine.CancelAppointment(ctx, req.AppointmentId, tutorID)
	if err != nil {
		return nil, h.toStatus(err)
	}
	return &rpc.AppointmentResponse{Appointment: toProto(a)}, nil
}

func (h *Handler) BookAppointment(ctx context.Context, req *rpc.AppointmentRequest) (*rpc.AppointmentResponse, error) {
	studentID, err := caller(ctx, model.RoleStudent)
	if err != nil {
		return nil, err
	}
	if err := h.check(req); err != nil {
		return nil, err
	}

	a, err := h.engine.BookAppointment(ctx, req.AppointmentId, studentID)
	if err != nil {
		return nil, h.toStatus(err)
	}
	return &rpc.AppointmentResponse{Appointment: toProto(a)}, nil
}

func (h *Handler) CancelBooking(ctx context.Context, req *rpc.AppointmentRequest) (*rpc.AppointmentResponse, error) {
	studentID, err := caller(ctx, model.RoleStudent)
	if err != nil {
		return nil, err
	}
	if err := h.check(req); err != nil {
		return nil, err
	}

	a, err := h.engine.CancelStudentBooking(ctx, req.AppointmentId, studentID)
	if err != nil {
		return nil, h.toStatus(err)
	}
	return &rpc.AppointmentResponse{Appointment: toProto(a)}, nil
}

func (h *Handler) RescheduleAppointment(ctx context.Context, req *rpc.RescheduleAppointmentRequest) (*rpc.AppointmentResponse, error) {
	tutorID, err := caller(ctx, model.RoleTutor)
	if err != nil {
		return nil, err
	}
	if err := h.check(req); err != nil {
		return nil, err
	}

	r := scheduling.Reschedule{
		AppointmentID: req.AppointmentId,
		TutorID:       tutorID,
		Start:         req.StartTime,
		End:           req.EndTime,
		Place:         req.Place,
		Mode:          req.Mode,
	}
	if req.MaxSlot != nil {
		n := int(*req.MaxSlot)
		r.MaxSlot = &n
	}

	a, err := h.engine.RescheduleAppointment(ctx, r)
	if err != nil {
		return nil, h.toStatus(err)
	}
	return &rpc.AppointmentResponse{Appointment: toProto(a)}, nil
}

// ListAppointments is open to anonymous callers.
func (h *Handler) ListAppointments(ctx context.Context, req *rpc.ListAppointmentsRequest) (*rpc.ListAppointmentsResponse, error) {
	apts, err := h.engine.ListAppointments(ctx, req.TutorId)
	if err != nil {
		return nil, h.toStatus(err)
	}

	out := make([]*rpc.Appointment, len(apts))
	for i := range apts {
		out[i] = toProto(apts[i])
	}
	return &rpc.ListAppointmentsResponse{Appointments: out}, nil
}
