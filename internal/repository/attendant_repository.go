package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-portal/internal/domain"
)

// AttendantRepository handles persistence for portal operators.
// ListActiveInQueue returns attendants ordered by creation time so the
// rotation order stays deterministic across rebuilds.
type AttendantRepository interface {
	Create(ctx context.Context, attendant *domain.Attendant) error
	GetByID(ctx context.Context, id string) (*domain.Attendant, error)
	GetByEmail(ctx context.Context, email string) (*domain.Attendant, error)
	List(ctx context.Context) ([]domain.Attendant, error)
	ListActiveInQueue(ctx context.Context) ([]domain.Attendant, error)
	SetQueueActive(ctx context.Context, id string, active bool) error
}

type attendantRepository struct {
	pool *pgxpool.Pool
}

// NewAttendantRepository instantiates the repository.
func NewAttendantRepository(pool *pgxpool.Pool) AttendantRepository {
	return &attendantRepository{pool: pool}
}

const attendantColumns = `id, name, email, password_hash, role, active_in_queue, created_at, updated_at`

func (r *attendantRepository) Create(ctx context.Context, attendant *domain.Attendant) error {
	const query = `
        INSERT INTO attendants (name, email, password_hash, role, active_in_queue)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		attendant.Name,
		attendant.Email,
		attendant.PasswordHash,
		attendant.Role,
		attendant.ActiveInQueue,
	).Scan(&attendant.ID, &attendant.CreatedAt, &attendant.UpdatedAt)
}

func (r *attendantRepository) GetByID(ctx context.Context, id string) (*domain.Attendant, error) {
	const query = `SELECT ` + attendantColumns + ` FROM attendants WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *attendantRepository) GetByEmail(ctx context.Context, email string) (*domain.Attendant, error) {
	const query = `SELECT ` + attendantColumns + ` FROM attendants WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *attendantRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Attendant, error) {
	var attendant domain.Attendant
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&attendant.ID,
		&attendant.Name,
		&attendant.Email,
		&attendant.PasswordHash,
		&attendant.Role,
		&attendant.ActiveInQueue,
		&attendant.CreatedAt,
		&attendant.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &attendant, nil
}

func (r *attendantRepository) List(ctx context.Context) ([]domain.Attendant, error) {
	const query = `SELECT ` + attendantColumns + ` FROM attendants ORDER BY created_at ASC`
	return r.list(ctx, query)
}

func (r *attendantRepository) ListActiveInQueue(ctx context.Context) ([]domain.Attendant, error) {
	const query = `SELECT ` + attendantColumns + ` FROM attendants WHERE active_in_queue=TRUE ORDER BY created_at ASC`
	return r.list(ctx, query)
}

func (r *attendantRepository) list(ctx context.Context, query string) ([]domain.Attendant, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Attendant
	for rows.Next() {
		var attendant domain.Attendant
		if err := rows.Scan(
			&attendant.ID,
			&attendant.Name,
			&attendant.Email,
			&attendant.PasswordHash,
			&attendant.Role,
			&attendant.ActiveInQueue,
			&attendant.CreatedAt,
			&attendant.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, attendant)
	}
	return result, rows.Err()
}

func (r *attendantRepository) SetQueueActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE attendants SET active_in_queue=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, active, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
