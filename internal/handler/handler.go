package handler

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tutor-scheduling-api/internal/middleware"
	"tutor-scheduling-api/internal/model"
	"tutor-scheduling-api/internal/rpc"
	"tutor-scheduling-api/internal/scheduling"
)

// Users is the account side of the store the handler needs for
// register and login.
type Users interface {
	CreateUser(ctx context.Context, u model.User) error
	UserByEmail(ctx context.Context, email string) (model.User, error)
}

// Syncer runs data core synchronisation on demand.
type Syncer interface {
	SyncPersonal(ctx context.Context, userID string) model.SyncReport
	SyncRoles(ctx context.Context) model.SyncReport
}

type Handler struct {
	engine   *scheduling.Engine
	users    Users
	sync     Syncer
	secret   string
	validate *validator.Validate
	log      *log.Logger
}

var _ rpc.SchedulingServiceServer = (*Handler)(nil)

type Option func(*Handler)

// WithSyncer enables TriggerSync. Without it the call fails with
// FailedPrecondition.
func WithSyncer(s Syncer) Option {
	return func(h *Handler) { h.sync = s }
}

func WithLogger(l *log.Logger) Option {
	return func(h *Handler) { h.log = l }
}

func New(engine *scheduling.Engine, users Users, secret string, opts ...Option) *Handler {
	h := &Handler{
		engine:   engine,
		users:    users,
		secret:   secret,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// check runs the struct tags on req and reports the first failure.
func (h *Handler) check(req any) error {
	err := h.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			return status.Errorf(codes.InvalidArgument, "%s required", field)
		case "min":
			return status.Errorf(codes.InvalidArgument, "%s too short", field)
		default:
			return status.Errorf(codes.InvalidArgument, "invalid %s", field)
		}
	}
	return status.Error(codes.InvalidArgument, err.Error())
}

// caller returns the signed-in user id, enforcing role when it is set.
func caller(ctx context.Context, role string) (string, error) {
	uid, r := middleware.Caller(ctx)
	if uid == "" {
		return "", status.Error(codes.Unauthenticated, "sign in required")
	}
	if role != "" && r != role {
		return "", status.Errorf(codes.PermissionDenied, "requires the %s role", strings.ToLower(role))
	}
	return uid, nil
}

// toStatus maps engine errors to gRPC codes. Anything that is not a
// policy rejection is logged and hidden from the client.
func (h *Handler) toStatus(err error) error {
	var se *scheduling.Error
	if errors.As(err, &se) {
		switch se.Kind {
		case scheduling.KindValidation:
			return status.Error(codes.InvalidArgument, se.Message)
		case scheduling.KindConflict:
			return status.Error(codes.AlreadyExists, se.Message)
		case scheduling.KindNotFound:
			return status.Error(codes.NotFound, se.Message)
		case scheduling.KindForbidden:
			return status.Error(codes.PermissionDenied, se.Message)
		}
	}
	h.log.Printf("internal error: %v", err)
	return status.Error(codes.Internal, "internal error")
}

func toProto(a model.Appointment) *rpc.Appointment {
	return &rpc.Appointment{
		Id:           a.ID,
		TutorId:      a.TutorID,
		TutorName:    a.TutorName,
		Name:         a.Name,
		StartTime:    scheduling.FormatTime(a.StartTime),
		EndTime:      scheduling.FormatTime(a.EndTime),
		Place:        a.Place,
		Mode:         a.Mode,
		MaxSlot:      int32(a.MaxSlot),
		CurrentSlots: a.CurrentSlots,
		Status:       string(a.Status),
	}
}
