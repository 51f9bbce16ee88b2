package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-portal/internal/domain"
)

// CollectionsTicketRepository encapsulates persistence for the
// collections-support domain, including the return-status sub-workflow.
type CollectionsTicketRepository interface {
	Create(ctx context.Context, ticket *domain.CollectionsTicket) error
	GetByID(ctx context.Context, id string) (*domain.CollectionsTicket, error)
	List(ctx context.Context) ([]domain.CollectionsTicket, error)
	ListByCreator(ctx context.Context, creatorID string) ([]domain.CollectionsTicket, error)
	UpdateStatus(ctx context.Context, id string, status domain.CollectionsStatus) error
	UpdateAssignee(ctx context.Context, id string, attendantID *string) error
	UpdateReturn(ctx context.Context, id string, outcome domain.ReturnOutcome, note string) error
}

type collectionsTicketRepository struct {
	pool *pgxpool.Pool
}

// NewCollectionsTicketRepository returns a Postgres-backed implementation.
func NewCollectionsTicketRepository(pool *pgxpool.Pool) CollectionsTicketRepository {
	return &collectionsTicketRepository{pool: pool}
}

const collectionsColumns = `id, protocol, creator_user_id, creator_email, reason, subject, description,
               status, assignee_attendant_id, return_outcome, return_note, created_at, updated_at`

func (r *collectionsTicketRepository) Create(ctx context.Context, ticket *domain.CollectionsTicket) error {
	const query = `
        INSERT INTO collections_tickets (creator_user_id, creator_email, reason, subject, description, status, assignee_attendant_id, return_outcome, return_note)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, protocol, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.CreatorID,
		ticket.CreatorEmail,
		ticket.Reason,
		ticket.Subject,
		ticket.Description,
		ticket.Status,
		ticket.AssigneeID,
		ticket.ReturnOutcome,
		ticket.ReturnNote,
	).Scan(&ticket.ID, &ticket.Protocol, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *collectionsTicketRepository) GetByID(ctx context.Context, id string) (*domain.CollectionsTicket, error) {
	const query = `SELECT ` + collectionsColumns + ` FROM collections_tickets WHERE id=$1`
	var ticket domain.CollectionsTicket
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
		&ticket.ReturnOutcome,
		&ticket.ReturnNote,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *collectionsTicketRepository) List(ctx context.Context) ([]domain.CollectionsTicket, error) {
	const query = `SELECT ` + collectionsColumns + ` FROM collections_tickets ORDER BY protocol DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCollectionsTickets(rows)
}

func (r *collectionsTicketRepository) ListByCreator(ctx context.Context, creatorID string) ([]domain.CollectionsTicket, error) {
	const query = `SELECT ` + collectionsColumns + ` FROM collections_tickets WHERE creator_user_id=$1 ORDER BY protocol DESC`
	rows, err := r.pool.Query(ctx, query, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCollectionsTickets(rows)
}

func (r *collectionsTicketRepository) UpdateStatus(ctx context.Context, id string, status domain.CollectionsStatus) error {
	const query = `UPDATE collections_tickets SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *collectionsTicketRepository) UpdateAssignee(ctx context.Context, id string, attendantID *string) error {
	const query = `UPDATE collections_tickets SET assignee_attendant_id=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, attendantID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *collectionsTicketRepository) UpdateReturn(ctx context.Context, id string, outcome domain.ReturnOutcome, note string) error {
	const query = `UPDATE collections_tickets SET return_outcome=$1, return_note=$2, updated_at=NOW() WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, outcome, note, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanCollectionsTickets(rows pgx.Rows) ([]domain.CollectionsTicket, error) {
	var result []domain.CollectionsTicket
	for rows.Next() {
		var ticket domain.CollectionsTicket
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
			&ticket.ReturnOutcome,
			&ticket.ReturnNote,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
