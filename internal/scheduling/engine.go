package scheduling

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"tutor-scheduling-api/internal/model"
	"tutor-scheduling-api/internal/store"
)

const UnknownTutor = "Unknown Tutor"

// UserDirectory resolves display names for listings.
type UserDirectory interface {
	DisplayName(ctx context.Context, userID string) (string, error)
}

// Engine owns every write to the appointment store. One instance per
// process; hand it to whoever serves requests.
type Engine struct {
	mu    sync.Mutex // held across check and mutation of every write
	store store.Store
	users UserDirectory
	clock func() time.Time
	newID func() string
	log   *log.Logger
}

type Option func(*Engine)

func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

func New(st store.Store, users UserDirectory, opts ...Option) *Engine {
	e := &Engine{
		store: st,
		users: users,
		clock: time.Now,
		newID: func() string { return uuid.New().String() },
		log:   log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// write runs fn under the engine guard inside one store transaction.
func (e *Engine) write(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.WithTx(ctx, fn)
}

func loadAppointment(ctx context.Context, tx store.Tx, id string) (model.Appointment, error) {
	a, err := tx.GetAppointment(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return model.Appointment{}, notFound("appointment not found")
	}
	if err != nil {
		return model.Appointment{}, fmt.Errorf("load appointment %s: %w", id, err)
	}
	return a, nil
}

func (e *Engine) CreateAppointment(ctx context.Context, tutorID, name, start, end, place string, maxSlot int) (model.Appointment, error) {
	span, err := parseRange(start, end)
	if err != nil {
		return model.Appointment{}, err
	}
	if maxSlot <= 0 {
		return model.Appointment{}, validationf("max_slot must be a positive integer")
	}

	var created model.Appointment
	err = e.write(ctx, func(ctx context.Context, tx store.Tx) error {
		schedule, err := tutorSchedule(ctx, tx, tutorID, "")
		if err != nil {
			return fmt.Errorf("scan tutor schedule: %w", err)
		}
		if other, ok := FindConflict(span, schedule); ok {
			return conflictf("overlaps with appointment %q", other.Name)
		}

		now := e.clock()
		created = model.Appointment{
			ID:           e.newID(),
			TutorID:      tutorID,
			Name:         name,
			StartTime:    span.Start,
			EndTime:      span.End,
			Place:        place,
			MaxSlot:      maxSlot,
			CurrentSlots: []string{},
			Status:       model.StatusOpen,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return tx.PutAppointment(ctx, created)
	})
	if err != nil {
		return model.Appointment{}, err
	}
	e.log.Printf("appointment %s created by tutor %s", created.ID, tutorID)
	return created, nil
}

// CancelAppointment is terminal. Cancelling twice is not rejected.
func (e *Engine) CancelAppointment(ctx context.Context, appointmentID, tutorID string) (model.Appointment, error) {
	var out model.Appointment
	err := e.write(ctx, func(ctx context.Context, tx store.Tx) error {
		a, err := loadAppointment(ctx, tx, appointmentID)
		if err != nil {
			return err
		}
		if a.TutorID != tutorID {
			return forbidden("not allowed to cancel this appointment")
		}
		a.Status = model.StatusCancelled
		a.UpdatedAt = e.clock()
		out = a
		return tx.PutAppointment(ctx, a)
	})
	if err != nil {
		return model.Appointment{}, err
	}
	e.log.Printf("appointment %s cancelled by tutor %s", appointmentID, tutorID)
	return out, nil
}

func (e *Engine) BookAppointment(ctx context.Context, appointmentID, studentID string) (model.Appointment, error) {
	var out model.Appointment
	err := e.write(ctx, func(ctx context.Context, tx store.Tx) error {
		a, err := loadAppointment(ctx, tx, appointmentID)
		if err != nil {
			return err
		}
		if err := checkBookable(a, studentID); err != nil {
			return err
		}

		held, err := studentSchedule(ctx, tx, studentID, a.ID)
		if err != nil {
			return fmt.Errorf("scan student schedule: %w", err)
		}
		if other, ok := FindConflict(intervalOf(a), held); ok {
			return conflictf("overlaps with your booking %q", other.Name)
		}

		addSlot(&a, studentID)
		a.UpdatedAt = e.clock()
		if err := tx.PutAppointment(ctx, a); err != nil {
			return err
		}
		out = a
		return e.linkUser(ctx, tx, studentID, func(u *model.User) { addBooking(u, a.ID) })
	})
	if err != nil {
		return model.Appointment{}, err
	}
	return out, nil
}

// CancelStudentBooking frees the student's seat; refused once the session
// has started.
func (e *Engine) CancelStudentBooking(ctx context.Context, appointmentID, studentID string) (model.Appointment, error) {
	var out model.Appointment
	err := e.write(ctx, func(ctx context.Context, tx store.Tx) error {
		a, err := loadAppointment(ctx, tx, appointmentID)
		if err != nil {
			return err
		}
		if a.Status == model.StatusCancelled {
			return validationf("appointment was cancelled; booking cannot be withdrawn")
		}
		if !slices.Contains(a.CurrentSlots, studentID) {
			return validationf("not booked on %q", a.Name)
		}
		if !e.clock().Before(a.StartTime) {
			return validationf("cannot cancel after the session has started")
		}

		removeSlot(&a, studentID)
		a.UpdatedAt = e.clock()
		if err := tx.PutAppointment(ctx, a); err != nil {
			return err
		}
		out = a
		return e.linkUser(ctx, tx, studentID, func(u *model.User) { removeBooking(u, a.ID) })
	})
	if err != nil {
		return model.Appointment{}, err
	}
	return out, nil
}

// linkUser updates the user's side of the booking cross reference. Users
// unknown to the store are skipped.
func (e *Engine) linkUser(ctx context.Context, tx store.Tx, userID string, mutate func(*model.User)) error {
	u, err := tx.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load user %s: %w", userID, err)
	}
	mutate(&u)
	return tx.PutUser(ctx, u)
}

type Reschedule struct {
	AppointmentID string
	TutorID       string
	Start         string
	End           string
	Place         string
	Mode          string // empty keeps the current mode
	MaxSlot       *int   // nil keeps the current capacity
}

func (e *Engine) RescheduleAppointment(ctx context.Context, r Reschedule) (model.Appointment, error) {
	var out model.Appointment
	err := e.write(ctx, func(ctx context.Context, tx store.Tx) error {
		a, err := loadAppointment(ctx, tx, r.AppointmentID)
		if err != nil {
			return err
		}
		if a.TutorID != r.TutorID {
			return forbidden("not allowed to modify this appointment")
		}
		if a.Status == model.StatusCancelled {
			return validationf("cannot reschedule a cancelled appointment")
		}

		span, err := parseRange(r.Start, r.End)
		if err != nil {
			return err
		}
		if r.MaxSlot != nil {
			if *r.MaxSlot <= 0 {
				return validationf("max_slot must be a positive integer")
			}
			if *r.MaxSlot < len(a.CurrentSlots) {
				return validationf("max_slot %d is below the %d students already booked", *r.MaxSlot, len(a.CurrentSlots))
			}
		}

		schedule, err := tutorSchedule(ctx, tx, a.TutorID, a.ID)
		if err != nil {
			return fmt.Errorf("scan tutor schedule: %w", err)
		}
		if other, ok := FindConflict(span, schedule); ok {
			return conflictf("new time overlaps with appointment %q", other.Name)
		}
		if a.Status == model.StatusOpen {
			for _, studentID := range a.CurrentSlots {
				held, err := studentSchedule(ctx, tx, studentID, a.ID)
				if err != nil {
					return fmt.Errorf("scan student schedule: %w", err)
				}
				if other, ok := FindConflict(span, held); ok {
					return conflictf("new time overlaps with %q booked by student %s", other.Name, studentID)
				}
			}
		}

		a.StartTime = span.Start
		a.EndTime = span.End
		a.Place = r.Place
		if r.Mode != "" {
			a.Mode = r.Mode
		}
		if r.MaxSlot != nil {
			a.MaxSlot = *r.MaxSlot
		}
		a.UpdatedAt = e.clock()
		out = a
		return tx.PutAppointment(ctx, a)
	})
	if err != nil {
		return model.Appointment{}, err
	}
	e.log.Printf("appointment %s rescheduled to %s", out.ID, FormatTime(out.StartTime))
	return out, nil
}

func (e *Engine) GetAppointment(ctx context.Context, appointmentID string) (model.Appointment, error) {
	a, err := e.store.GetAppointment(ctx, appointmentID)
	if errors.Is(err, store.ErrNotFound) {
		return model.Appointment{}, notFound("appointment not found")
	}
	return a, err
}

// ListAppointments returns a snapshot of the non-cancelled appointments,
// optionally only tutorID's, with tutor names attached. It does not take the
// engine guard.
func (e *Engine) ListAppointments(ctx context.Context, tutorID string) ([]model.Appointment, error) {
	var out []model.Appointment
	err := e.store.ForEachAppointment(ctx, func(a model.Appointment) bool {
		if a.Status == model.StatusCancelled {
			return true
		}
		if tutorID != "" && a.TutorID != tutorID {
			return true
		}
		out = append(out, a)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	names := make(map[string]string)
	for i := range out {
		id := out[i].TutorID
		name, ok := names[id]
		if !ok {
			name = e.tutorName(ctx, id)
			names[id] = name
		}
		out[i].TutorName = name
	}
	return out, nil
}

func (e *Engine) tutorName(ctx context.Context, tutorID string) string {
	if e.users == nil {
		return UnknownTutor
	}
	name, err := e.users.DisplayName(ctx, tutorID)
	if err != nil || name == "" {
		return UnknownTutor
	}
	return name
}
