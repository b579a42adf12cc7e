package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tutor-scheduling-api/internal/model"
	"tutor-scheduling-api/internal/rpc"
	"tutor-scheduling-api/internal/scheduling"
)

// TriggerSync runs a data core sync now. A failed sync is still a
// successful call; the report says what went wrong.
func (h *Handler) TriggerSync(ctx context.Context, req *rpc.TriggerSyncRequest) (*rpc.TriggerSyncResponse, error) {
	if _, err := caller(ctx, model.RoleAdmin); err != nil {
		return nil, err
	}
	if err := h.check(req); err != nil {
		return nil, err
	}
	if h.sync == nil {
		return nil, status.Error(codes.FailedPrecondition, "data sync is not configured")
	}

	var rep model.SyncReport
	switch model.SyncType(req.Type) {
	case model.SyncRole:
		rep = h.sync.SyncRoles(ctx)
	default:
		rep = h.sync.SyncPersonal(ctx, req.UserId)
	}

	return &rpc.TriggerSyncResponse{Report: &rpc.SyncReport{
		Timestamp:        scheduling.FormatTime(rep.Timestamp),
		Status:           string(rep.Status),
		Message:          rep.Message,
		RecordsProcessed: int32(rep.RecordsProcessed),
		Errors:           rep.Errors,
	}}, nil
}
