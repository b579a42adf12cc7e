package handler

import (
	"context"
	"slices"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tutor-scheduling-api/internal/middleware"
	"tutor-scheduling-api/internal/model"
	"tutor-scheduling-api/internal/rpc"
	"tutor-scheduling-api/internal/scheduling"
)

func (h *Handler) SaveMinutes(ctx context.Context, req *rpc.SaveMinutesRequest) (*rpc.MinutesResponse, error) {
	tutorID, err := caller(ctx, model.RoleTutor)
	if err != nil {
		return nil, err
	}
	if err := h.check(req); err != nil {
		return nil, err
	}

	results := make([]model.StudentResult, len(req.StudentResults))
	for i, r := range req.StudentResults {
		results[i] = model.StudentResult{StudentID: r.StudentId, Score: r.Score, Note: r.Note}
	}

	m, err := h.engine.SaveMinutes(ctx, req.AppointmentId, tutorID, req.Content, results, req.FileLink)
	if err != nil {
		return nil, h.toStatus(err)
	}
	return &rpc.MinutesResponse{Minutes: minutesToProto(m)}, nil
}

// GetMinutes is limited to the session's tutor, its booked students and
// admins.
func (h *Handler) GetMinutes(ctx context.Context, req *rpc.AppointmentRequest) (*rpc.MinutesResponse, error) {
	uid, err := caller(ctx, "")
	if err != nil {
		return nil, err
	}
	if err := h.check(req); err != nil {
		return nil, err
	}

	a, err := h.engine.GetAppointment(ctx, req.AppointmentId)
	if err != nil {
		return nil, h.toStatus(err)
	}
	if _, role := middleware.Caller(ctx); role != model.RoleAdmin && a.TutorID != uid && !slices.Contains(a.CurrentSlots, uid) {
		return nil, status.Error(codes.PermissionDenied, "not a participant of this session")
	}

	m, err := h.engine.GetMinutes(ctx, req.AppointmentId)
	if err != nil {
		return nil, h.toStatus(err)
	}
	return &rpc.MinutesResponse{Minutes: minutesToProto(m)}, nil
}

func (h *Handler) SaveFreeSchedule(ctx context.Context, req *rpc.SaveFreeScheduleRequest) (*rpc.FreeScheduleResponse, error) {
	tutorID, err := caller(ctx, model.RoleTutor)
	if err != nil {
		return nil, err
	}

	fs, err := h.engine.SaveFreeSchedule(ctx, tutorID, req.Week, req.Cells, req.Note)
	if err != nil {
		return nil, h.toStatus(err)
	}
	return &rpc.FreeScheduleResponse{Schedule: scheduleToProto(fs)}, nil
}

// GetFreeSchedule defaults to the caller's own grid.
func (h *Handler) GetFreeSchedule(ctx context.Context, req *rpc.GetFreeScheduleRequest) (*rpc.FreeScheduleResponse, error) {
	uid, err := caller(ctx, "")
	if err != nil {
		return nil, err
	}
	tutorID := req.TutorId
	if tutorID == "" {
		tutorID = uid
	}

	fs, err := h.engine.GetFreeSchedule(ctx, tutorID, req.Week)
	if err != nil {
		return nil, h.toStatus(err)
	}
	return &rpc.FreeScheduleResponse{Schedule: scheduleToProto(fs)}, nil
}

func minutesToProto(m model.Minutes) *rpc.Minutes {
	out := &rpc.Minutes{
		AppointmentId: m.AppointmentID,
		Content:       m.Content,
		FileLink:      m.FileLink,
		CreatedAt:     scheduling.FormatTime(m.CreatedAt),
	}
	for _, r := range m.StudentResults {
		out.StudentResults = append(out.StudentResults, &rpc.StudentResult{StudentId: r.StudentID, Score: r.Score, Note: r.Note})
	}
	return out
}

func scheduleToProto(fs model.FreeSchedule) *rpc.FreeSchedule {
	return &rpc.FreeSchedule{TutorId: fs.TutorID, Week: fs.Week, Cells: fs.Cells, Note: fs.Note}
}
