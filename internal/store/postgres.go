package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"tutor-scheduling-api/internal/model"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Migrate applies a schema script; statements must be idempotent.
func (p *Postgres) Migrate(ctx context.Context, script string) error {
	_, err := p.pool.Exec(ctx, script)
	return err
}

func (p *Postgres) WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, pgTx{q: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (p *Postgres) reader() pgTx { return pgTx{q: p.pool} }

func (p *Postgres) GetAppointment(ctx context.Context, id string) (model.Appointment, error) {
	return p.reader().GetAppointment(ctx, id)
}

func (p *Postgres) ForEachAppointment(ctx context.Context, fn func(model.Appointment) bool) error {
	return p.reader().ForEachAppointment(ctx, fn)
}

func (p *Postgres) GetUser(ctx context.Context, id string) (model.User, error) {
	return p.reader().GetUser(ctx, id)
}

func (p *Postgres) GetMinutes(ctx context.Context, appointmentID string) (model.Minutes, error) {
	return p.reader().getMinutes(ctx, appointmentID)
}

func (p *Postgres) GetFreeSchedule(ctx context.Context, tutorID, week string) (model.FreeSchedule, error) {
	return p.reader().getFreeSchedule(ctx, tutorID, week)
}

type pgTx struct {
	q querier
}

func mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}
