package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-portal/internal/domain"
)

// PostAwardTicketRepository encapsulates persistence for the post-award
// domain.
type PostAwardTicketRepository interface {
	Create(ctx context.Context, ticket *domain.PostAwardTicket) error
	GetByID(ctx context.Context, id string) (*domain.PostAwardTicket, error)
	List(ctx context.Context) ([]domain.PostAwardTicket, error)
	ListByCreator(ctx context.Context, creatorID string) ([]domain.PostAwardTicket, error)
	UpdateStatus(ctx context.Context, id string, status domain.PostAwardStatus) error
	UpdateAssignee(ctx context.Context, id string, attendantID *string) error
	MarkViewed(ctx context.Context, id string) error
}

type postAwardTicketRepository struct {
	pool *pgxpool.Pool
}

// NewPostAwardTicketRepository returns a Postgres-backed implementation.
func NewPostAwardTicketRepository(pool *pgxpool.Pool) PostAwardTicketRepository {
	return &postAwardTicketRepository{pool: pool}
}

const postAwardColumns = `id, protocol, creator_user_id, creator_email, reason, subject, description,
               status, assignee_attendant_id, viewed_by_creator, created_at, updated_at`

func (r *postAwardTicketRepository) Create(ctx context.Context, ticket *domain.PostAwardTicket) error {
	const query = `
        INSERT INTO postaward_tickets (creator_user_id, creator_email, reason, subject, description, status, assignee_attendant_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, protocol, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.CreatorID,
		ticket.CreatorEmail,
		ticket.Reason,
		ticket.Subject,
		ticket.Description,
		ticket.Status,
		ticket.AssigneeID,
	).Scan(&ticket.ID, &ticket.Protocol, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *postAwardTicketRepository) GetByID(ctx context.Context, id string) (*domain.PostAwardTicket, error) {
	const query = `SELECT ` + postAwardColumns + ` FROM postaward_tickets WHERE id=$1`
	var ticket domain.PostAwardTicket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Protocol,
		&ticket.CreatorID,
		&ticket.CreatorEmail,
		&ticket.Reason,
		&ticket.Subject,
		&ticket.Description,
		&ticket.Status,
		&ticket.AssigneeID,
		&ticket.ViewedByCreator,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *postAwardTicketRepository) List(ctx context.Context) ([]domain.PostAwardTicket, error) {
	const query = `SELECT ` + postAwardColumns + ` FROM postaward_tickets ORDER BY protocol DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPostAwardTickets(rows)
}

func (r *postAwardTicketRepository) ListByCreator(ctx context.Context, creatorID string) ([]domain.PostAwardTicket, error) {
	const query = `SELECT ` + postAwardColumns + ` FROM postaward_tickets WHERE creator_user_id=$1 ORDER BY protocol DESC`
	rows, err := r.pool.Query(ctx, query, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPostAwardTickets(rows)
}

func (r *postAwardTicketRepository) UpdateStatus(ctx context.Context, id string, status domain.PostAwardStatus) error {
	const query = `UPDATE postaward_tickets SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *postAwardTicketRepository) UpdateAssignee(ctx context.Context, id string, attendantID *string) error {
	const query = `UPDATE postaward_tickets SET assignee_attendant_id=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, attendantID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *postAwardTicketRepository) MarkViewed(ctx context.Context, id string) error {
	const query = `UPDATE postaward_tickets SET viewed_by_creator=TRUE, updated_at=NOW() WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanPostAwardTickets(rows pgx.Rows) ([]domain.PostAwardTicket, error) {
	var result []domain.PostAwardTicket
	for rows.Next() {
		var ticket domain.PostAwardTicket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Protocol,
			&ticket.CreatorID,
			&ticket.CreatorEmail,
			&ticket.Reason,
			&ticket.Subject,
			&ticket.Description,
			&ticket.Status,
			&ticket.AssigneeID,
			&ticket.ViewedByCreator,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
