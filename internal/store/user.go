package store

import (
	"context"

	"tutor-scheduling-api/internal/model"
)

const userColumns = `id, COALESCE(email, ''), password_hash, name, role,
	booked_appointments, created_at, updated_at`

func (p *Postgres) CreateUser(ctx context.Context, u model.User) error {
	booked := u.BookedAppointments
	if booked == nil {
		booked = []string{}
	}
	_, err := p.pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, name, role, booked_appointments)
		 VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6)`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Role, booked,
	)
	return mapErr(err)
}

func (p *Postgres) UserByEmail(ctx context.Context, email string) (model.User, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	u, err := scanUser(row)
	if err != nil {
		return model.User{}, mapErr(err)
	}
	return u, nil
}

func (p *Postgres) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (t pgTx) GetUser(ctx context.Context, id string) (model.User, error) {
	row := t.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		return model.User{}, mapErr(err)
	}
	return u, nil
}

func (t pgTx) PutUser(ctx context.Context, u model.User) error {
	booked := u.BookedAppointments
	if booked == nil {
		booked = []string{}
	}
	_, err := t.q.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, name, role, booked_appointments)
		 VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
		   email = EXCLUDED.email,
		   password_hash = EXCLUDED.password_hash,
		   name = EXCLUDED.name,
		   role = EXCLUDED.role,
		   booked_appointments = EXCLUDED.booked_appointments,
		   updated_at = NOW()`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Role, booked,
	)
	return mapErr(err)
}

func scanUser(row scanner) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role,
		&u.BookedAppointments, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
