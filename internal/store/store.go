package store

import (
	"context"
	"errors"

	"tutor-scheduling-api/internal/model"
)

var (
	ErrNotFound  = errors.New("store: not found")
	ErrDuplicate = errors.New("store: duplicate")
)

// Tx is the write view handed to WithTx callbacks. Writes become visible to
// other readers only when the callback returns nil.
type Tx interface {
	GetAppointment(ctx context.Context, id string) (model.Appointment, error)
	PutAppointment(ctx context.Context, a model.Appointment) error
	ForEachAppointment(ctx context.Context, fn func(model.Appointment) bool) error
	GetUser(ctx context.Context, id string) (model.User, error)
	PutUser(ctx context.Context, u model.User) error
	PutMinutes(ctx context.Context, m model.Minutes) error
	PutFreeSchedule(ctx context.Context, fs model.FreeSchedule) error
}

// Store is the keyed record holder behind the scheduling engine. Values go
// in and out by copy; callers never see internal state.
type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	GetAppointment(ctx context.Context, id string) (model.Appointment, error)
	// ForEachAppointment visits appointments ordered by start time until fn
	// returns false.
	ForEachAppointment(ctx context.Context, fn func(model.Appointment) bool) error

	CreateUser(ctx context.Context, u model.User) error
	GetUser(ctx context.Context, id string) (model.User, error)
	UserByEmail(ctx context.Context, email string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)

	GetMinutes(ctx context.Context, appointmentID string) (model.Minutes, error)
	GetFreeSchedule(ctx context.Context, tutorID, week string) (model.FreeSchedule, error)
}
