package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-portal/internal/domain"
)

// ReasonAssignmentRepository stores the reason → attendant-set override
// table. Set replaces a reason's whole set; an empty set clears the
// override and the reason falls back to rotation.
type ReasonAssignmentRepository interface {
	GetAll(ctx context.Context) ([]domain.ReasonAssignment, error)
	Set(ctx context.Context, reason string, attendantIDs []string) error
}

type reasonAssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewReasonAssignmentRepository instantiates the repository.
func NewReasonAssignmentRepository(pool *pgxpool.Pool) ReasonAssignmentRepository {
	return &reasonAssignmentRepository{pool: pool}
}

func (r *reasonAssignmentRepository) GetAll(ctx context.Context) ([]domain.ReasonAssignment, error) {
	const query = `
        SELECT reason, attendant_id FROM reason_assignments
        ORDER BY reason ASC, position ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byReason := make(map[string]*domain.ReasonAssignment)
	var order []string
	for rows.Next() {
		var reason, attendantID string
		if err := rows.Scan(&reason, &attendantID); err != nil {
			return nil, err
		}
		ra, ok := byReason[reason]
		if !ok {
			ra = &domain.ReasonAssignment{Reason: reason}
			byReason[reason] = ra
			order = append(order, reason)
		}
		ra.AttendantIDs = append(ra.AttendantIDs, attendantID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]domain.ReasonAssignment, 0, len(order))
	for _, reason := range order {
		result = append(result, *byReason[reason])
	}
	return result, nil
}

func (r *reasonAssignmentRepository) Set(ctx context.Context, reason string, attendantIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM reason_assignments WHERE reason=$1`, reason); err != nil {
		return err
	}
	for pos, attendantID := range attendantIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO reason_assignments (reason, attendant_id, position) VALUES ($1,$2,$3)`,
			reason, attendantID, pos,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
