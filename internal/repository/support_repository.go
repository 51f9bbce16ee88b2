package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-portal/internal/domain"
)

// SupportTicketRepository encapsulates persistence for the support domain.
// List returns a full snapshot; mutations are idempotent and callers
// re-fetch to observe their effect.
type SupportTicketRepository interface {
	Create(ctx context.Context, ticket *domain.SupportTicket) error
	GetByID(ctx context.Context, id string) (*domain.SupportTicket, error)
	List(ctx context.Context) ([]domain.SupportTicket, error)
	ListByCreator(ctx context.Context, creatorID string) ([]domain.SupportTicket, error)
	UpdateStatus(ctx context.Context, id string, status domain.SupportStatus) error
	UpdateAssignee(ctx context.Context, id string, attendantID *string) error
	MarkViewed(ctx context.Context, id string) error
}

type supportTicketRepository struct {
	pool *pgxpool.Pool
}

// NewSupportTicketRepository returns a Postgres-backed implementation.
func NewSupportTicketRepository(pool *pgxpool.Pool) SupportTicketRepository {
	return &supportTicketRepository{pool: pool}
}

const supportColumns = `id, protocol, creator_user_id, creator_email, reason, subject, description,
               status, assignee_attendant_id, viewed_by_creator, created_at, updated_at`

func (r *supportTicketRepository) Create(ctx context.Context, ticket *domain.SupportTicket) error {
	const query = `
        INSERT INTO support_tickets (creator_user_id, creator_email, reason, subject, description, status, assignee_attendant_id)
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

func (r *supportTicketRepository) GetByID(ctx context.Context, id string) (*domain.SupportTicket, error) {
	const query = `SELECT ` + supportColumns + ` FROM support_tickets WHERE id=$1`
	var ticket domain.SupportTicket
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

func (r *supportTicketRepository) List(ctx context.Context) ([]domain.SupportTicket, error) {
	const query = `SELECT ` + supportColumns + ` FROM support_tickets ORDER BY protocol DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSupportTickets(rows)
}

func (r *supportTicketRepository) ListByCreator(ctx context.Context, creatorID string) ([]domain.SupportTicket, error) {
	const query = `SELECT ` + supportColumns + ` FROM support_tickets WHERE creator_user_id=$1 ORDER BY protocol DESC`
	rows, err := r.pool.Query(ctx, query, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSupportTickets(rows)
}

func (r *supportTicketRepository) UpdateStatus(ctx context.Context, id string, status domain.SupportStatus) error {
	const query = `UPDATE support_tickets SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *supportTicketRepository) UpdateAssignee(ctx context.Context, id string, attendantID *string) error {
	const query = `UPDATE support_tickets SET assignee_attendant_id=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, attendantID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *supportTicketRepository) MarkViewed(ctx context.Context, id string) error {
	const query = `UPDATE support_tickets SET viewed_by_creator=TRUE, updated_at=NOW() WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanSupportTickets(rows pgx.Rows) ([]domain.SupportTicket, error) {
	var result []domain.SupportTicket
	for rows.Next() {
		var ticket domain.SupportTicket
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
