// Package datasync pulls user profiles and roles from the data core into
// the local user table.
package datasync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"tutor-scheduling-api/internal/model"
	"tutor-scheduling-api/internal/store"
)

const (
	maxAttempts    = 3
	defaultBackoff = time.Second
)

type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error
	ListUsers(ctx context.Context) ([]model.User, error)
}

// NameCache is told which users were renamed.
type NameCache interface {
	Forget(ctx context.Context, userIDs ...string) error
}

type Service struct {
	core    DataCore
	store   Store
	cache   NameCache
	log     *log.Logger
	backoff time.Duration
	now     func() time.Time

	mu      sync.Mutex
	history map[model.SyncType]model.SyncReport
}

type Option func(*Service)

// WithBackoff sets the fixed wait between attempts.
func WithBackoff(d time.Duration) Option {
	return func(s *Service) { s.backoff = d }
}

func WithNameCache(c NameCache) Option {
	return func(s *Service) { s.cache = c }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(core DataCore, st Store, opts ...Option) *Service {
	s := &Service{
		core:    core,
		store:   st,
		log:     log.Default(),
		backoff: defaultBackoff,
		now:     time.Now,
		history: make(map[model.SyncType]model.SyncReport),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SyncPersonal refreshes names and emails. An empty userID is the scheduled
// run over every known user and is recorded in the status history; a single
// user is a manual run and is not.
func (s *Service) SyncPersonal(ctx context.Context, userID string) model.SyncReport {
	rep := model.SyncReport{Timestamp: s.now(), Status: model.SyncSuccess}

	ids := []string{userID}
	if userID == "" {
		users, err := s.store.ListUsers(ctx)
		if err != nil {
			s.fail(&rep, fmt.Errorf("list users: %w", err))
			s.record(model.SyncPersonal, rep)
			return rep
		}
		ids = ids[:0]
		for _, u := range users {
			ids = append(ids, u.ID)
		}
	}

	var profiles []Profile
	err := s.retry(ctx, "personal", func() error {
		var err error
		profiles, err = s.core.FetchProfiles(ctx, ids)
		return err
	})
	if err == nil {
		rep.RecordsProcessed, rep.Errors, err = s.applyProfiles(ctx, profiles)
	}
	if err != nil {
		s.fail(&rep, err)
	} else {
		rep.Message = fmt.Sprintf("synced %d profiles", rep.RecordsProcessed)
	}

	if userID == "" {
		s.record(model.SyncPersonal, rep)
	}
	s.log.Printf("personal sync: %s: %s", rep.Status, rep.Message)
	return rep
}

// applyProfiles writes each profile in its own transaction so one bad
// record does not sink the batch. Unknown users are created as PENDING
// with no local password.
func (s *Service) applyProfiles(ctx context.Context, profiles []Profile) (int, []string, error) {
	var (
		n       int
		skipped []string
		renamed []string
	)
	for _, p := range profiles {
		if p.ID == "" {
			continue
		}
		var changed bool
		err := s.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
			u, err := tx.GetUser(ctx, p.ID)
			switch {
			case errors.Is(err, store.ErrNotFound):
				u = model.User{
					ID:                 p.ID,
					Role:               model.RolePending,
					BookedAppointments: []string{},
					CreatedAt:          s.now(),
				}
			case err != nil:
				return err
			}
			// empty profile fields leave the local value alone
			changed = u.Name != "" && p.Name != "" && u.Name != p.Name
			if p.Name != "" {
				u.Name = p.Name
			}
			if p.Email != "" {
				u.Email = p.Email
			}
			u.UpdatedAt = s.now()
			return tx.PutUser(ctx, u)
		})
		if errors.Is(err, store.ErrDuplicate) {
			skipped = append(skipped, fmt.Sprintf("user %s: email %s already in use", p.ID, p.Email))
			continue
		}
		if err != nil {
			return n, skipped, fmt.Errorf("update user %s: %w", p.ID, err)
		}
		n++
		if changed {
			renamed = append(renamed, p.ID)
		}
	}

	if s.cache != nil && len(renamed) > 0 {
		if err := s.cache.Forget(ctx, renamed...); err != nil {
			s.log.Printf("personal sync: %v", err)
		}
	}
	return n, skipped, nil
}

// SyncRoles pulls the role catalogue. Roles are fixed in this service, so
// the catalogue is only logged for audit.
func (s *Service) SyncRoles(ctx context.Context) model.SyncReport {
	rep := model.SyncReport{Timestamp: s.now(), Status: model.SyncSuccess}

	err := s.retry(ctx, "role", func() error {
		roles, err := s.core.FetchRoles(ctx)
		if err != nil {
			return err
		}
		for _, r := range roles {
			s.log.Printf("role %s synced with permissions %v", r.Name, r.Perms)
		}
		rep.RecordsProcessed = len(roles)
		return nil
	})
	if err != nil {
		s.fail(&rep, err)
	} else {
		rep.Message = fmt.Sprintf("synced %d roles", rep.RecordsProcessed)
	}

	s.record(model.SyncRole, rep)
	return rep
}

// LatestStatus summarises the last recorded run of typ.
func (s *Service) LatestStatus(typ model.SyncType) model.SyncStatus {
	s.mu.Lock()
	rep, ok := s.history[typ]
	s.mu.Unlock()
	if !ok {
		return model.SyncStatus{LastRun: s.now(), Status: model.SyncFailed, Details: "no sync has run yet"}
	}
	return model.SyncStatus{LastRun: rep.Timestamp, Status: rep.Status, Details: rep.Message}
}

func (s *Service) retry(ctx context.Context, what string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		s.log.Printf("%s sync attempt %d failed: %v", what, attempt, err)
		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.backoff):
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", maxAttempts, err)
}

func (s *Service) fail(rep *model.SyncReport, err error) {
	rep.Status = model.SyncFailed
	rep.Message = err.Error()
	rep.Errors = append(rep.Errors, err.Error())
}

func (s *Service) record(typ model.SyncType, rep model.SyncReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[typ] = rep
}
