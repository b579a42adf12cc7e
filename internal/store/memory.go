package store

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"tutor-scheduling-api/internal/model"
)

type freeKey struct{ tutor, week string }

// Memory keeps everything in owned maps. A single writer at a time runs
// inside WithTx; readers take the read lock.
type Memory struct {
	mu           sync.RWMutex
	appointments map[string]model.Appointment
	users        map[string]model.User
	emails       map[string]string
	minutes      map[string]model.Minutes
	free         map[freeKey]model.FreeSchedule
}

func NewMemory() *Memory {
	return &Memory{
		appointments: make(map[string]model.Appointment),
		users:        make(map[string]model.User),
		emails:       make(map[string]string),
		minutes:      make(map[string]model.Minutes),
		free:         make(map[freeKey]model.FreeSchedule),
	}
}

func (m *Memory) WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{
		m:            m,
		appointments: make(map[string]model.Appointment),
		users:        make(map[string]model.User),
		minutes:      make(map[string]model.Minutes),
		free:         make(map[freeKey]model.FreeSchedule),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	// commit
	for id, a := range tx.appointments {
		m.appointments[id] = a
	}
	for id, u := range tx.users {
		if old, ok := m.users[id]; ok && old.Email != "" {
			delete(m.emails, normEmail(old.Email))
		}
		if u.Email != "" {
			m.emails[normEmail(u.Email)] = id
		}
		m.users[id] = u
	}
	for id, mn := range tx.minutes {
		m.minutes[id] = mn
	}
	for k, fs := range tx.free {
		m.free[k] = fs
	}
	return nil
}

func (m *Memory) GetAppointment(_ context.Context, id string) (model.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.appointments[id]
	if !ok {
		return model.Appointment{}, ErrNotFound
	}
	return a.Clone(), nil
}

func (m *Memory) ForEachAppointment(_ context.Context, fn func(model.Appointment) bool) error {
	m.mu.RLock()
	snapshot := make([]model.Appointment, 0, len(m.appointments))
	for _, a := range m.appointments {
		snapshot = append(snapshot, a.Clone())
	}
	m.mu.RUnlock()

	sortByStart(snapshot)
	for _, a := range snapshot {
		if !fn(a) {
			break
		}
	}
	return nil
}

func (m *Memory) CreateUser(_ context.Context, u model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; ok {
		return ErrDuplicate
	}
	if u.Email != "" {
		if _, ok := m.emails[normEmail(u.Email)]; ok {
			return ErrDuplicate
		}
		m.emails[normEmail(u.Email)] = u.ID
	}
	m.users[u.ID] = u.Clone()
	return nil
}

func (m *Memory) GetUser(_ context.Context, id string) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u.Clone(), nil
}

func (m *Memory) UserByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.emails[normEmail(email)]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return m.users[id].Clone(), nil
}

func (m *Memory) ListUsers(_ context.Context) ([]model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) GetMinutes(_ context.Context, appointmentID string) (model.Minutes, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mn, ok := m.minutes[appointmentID]
	if !ok {
		return model.Minutes{}, ErrNotFound
	}
	return mn.Clone(), nil
}

func (m *Memory) GetFreeSchedule(_ context.Context, tutorID, week string) (model.FreeSchedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fs, ok := m.free[freeKey{tutorID, week}]
	if !ok {
		return model.FreeSchedule{}, ErrNotFound
	}
	fs.Cells = slices.Clone(fs.Cells)
	return fs, nil
}

// memTx stages writes on top of the committed maps. The parent lock is held
// for the lifetime of the transaction.
type memTx struct {
	m            *Memory
	appointments map[string]model.Appointment
	users        map[string]model.User
	minutes      map[string]model.Minutes
	free         map[freeKey]model.FreeSchedule
}

func (t *memTx) GetAppointment(_ context.Context, id string) (model.Appointment, error) {
	if a, ok := t.appointments[id]; ok {
		return a.Clone(), nil
	}
	a, ok := t.m.appointments[id]
	if !ok {
		return model.Appointment{}, ErrNotFound
	}
	return a.Clone(), nil
}

func (t *memTx) PutAppointment(_ context.Context, a model.Appointment) error {
	t.appointments[a.ID] = a.Clone()
	return nil
}

func (t *memTx) ForEachAppointment(_ context.Context, fn func(model.Appointment) bool) error {
	all := make([]model.Appointment, 0, len(t.m.appointments)+len(t.appointments))
	for id, a := range t.m.appointments {
		if staged, ok := t.appointments[id]; ok {
			a = staged
		}
		all = append(all, a.Clone())
	}
	for id, a := range t.appointments {
		if _, ok := t.m.appointments[id]; !ok {
			all = append(all, a.Clone())
		}
	}

	sortByStart(all)
	for _, a := range all {
		if !fn(a) {
			break
		}
	}
	return nil
}

func (t *memTx) GetUser(_ context.Context, id string) (model.User, error) {
	if u, ok := t.users[id]; ok {
		return u.Clone(), nil
	}
	u, ok := t.m.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u.Clone(), nil
}

func (t *memTx) PutUser(_ context.Context, u model.User) error {
	if u.Email != "" {
		if owner, ok := t.m.emails[normEmail(u.Email)]; ok && owner != u.ID {
			return ErrDuplicate
		}
	}
	t.users[u.ID] = u.Clone()
	return nil
}

func (t *memTx) PutMinutes(_ context.Context, mn model.Minutes) error {
	t.minutes[mn.AppointmentID] = mn.Clone()
	return nil
}

func (t *memTx) PutFreeSchedule(_ context.Context, fs model.FreeSchedule) error {
	fs.Cells = slices.Clone(fs.Cells)
	t.free[freeKey{fs.TutorID, fs.Week}] = fs
	return nil
}

func sortByStart(apts []model.Appointment) {
	sort.Slice(apts, func(i, j int) bool {
		if !apts[i].StartTime.Equal(apts[j].StartTime) {
			return apts[i].StartTime.Before(apts[j].StartTime)
		}
		return apts[i].ID < apts[j].ID
	})
}

func normEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
