package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/support-portal/internal/assignment"
	"github.com/spec-kit/support-portal/internal/auth"
	"github.com/spec-kit/support-portal/internal/domain"
	"github.com/spec-kit/support-portal/internal/repository"
	apperrors "github.com/spec-kit/support-portal/pkg/util/errorutil"
)

// AttendantService manages attendants, their queue membership and the
// reason-assignment table. Every write that touches routing rebuilds the
// shared assignment engine so the next ticket sees the new order.
type AttendantService struct {
	attendants repository.AttendantRepository
	reasons    repository.ReasonAssignmentRepository
	engine     *assignment.Engine
	bcryptCost int
	logger     *zap.Logger
}

// AttendantDependencies bundles collaborators for the attendant service.
type AttendantDependencies struct {
	AttendantRepo repository.AttendantRepository
	ReasonRepo    repository.ReasonAssignmentRepository
	Engine        *assignment.Engine
	BcryptCost    int
	Logger        *zap.Logger
}

// NewAttendantService constructs the service.
func NewAttendantService(deps AttendantDependencies) *AttendantService {
	return &AttendantService{
		attendants: deps.AttendantRepo,
		reasons:    deps.ReasonRepo,
		engine:     deps.Engine,
		bcryptCost: deps.BcryptCost,
		logger:     deps.Logger,
	}
}

// CreateAttendant registers a new attendant account. New attendants join
// the rotation once their queue flag is switched on.
func (s *AttendantService) CreateAttendant(ctx context.Context, name, email, password string, role domain.AttendantRole) (*domain.Attendant, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.attendants.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if err != nil && err != pgx.ErrNoRows {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	attendant := &domain.Attendant{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.attendants.Create(ctx, attendant); err != nil {
		return nil, err
	}
	return attendant, nil
}

// ListAttendants returns all attendants.
func (s *AttendantService) ListAttendants(ctx context.Context) ([]domain.Attendant, error) {
	return s.attendants.List(ctx)
}

// ToggleQueue flips an attendant's queue membership and rebuilds the
// rotation. The rotation keeps its cursor when it still points at a live
// slot.
func (s *AttendantService) ToggleQueue(ctx context.Context, attendantID string, active bool) error {
	if err := s.attendants.SetQueueActive(ctx, attendantID, active); err != nil {
		return err
	}
	return s.RefreshEngine(ctx)
}

// SetReasonAssignment replaces the attendant set for one reason. An empty
// set removes the override and sends that reason back to the rotation.
func (s *AttendantService) SetReasonAssignment(ctx context.Context, reason string, attendantIDs []string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return apperrors.NewValidationError("reason is required", nil)
	}
	for _, id := range attendantIDs {
		if _, err := s.attendants.GetByID(ctx, id); err != nil {
			if err == pgx.ErrNoRows {
				return apperrors.NewNotFound("attendant", map[string]any{"id": id})
			}
			return err
		}
	}
	if err := s.reasons.Set(ctx, reason, attendantIDs); err != nil {
		return err
	}
	return s.RefreshEngine(ctx)
}

// ListReasonAssignments returns the full reason-assignment table.
func (s *AttendantService) ListReasonAssignments(ctx context.Context) ([]domain.ReasonAssignment, error) {
	return s.reasons.GetAll(ctx)
}

// RefreshEngine reloads the rotation order and the override table from
// storage. Called at startup and after each routing-relevant write.
func (s *AttendantService) RefreshEngine(ctx context.Context) error {
	if s.engine == nil {
		return errors.New("assignment engine not configured")
	}
	active, err := s.attendants.ListActiveInQueue(ctx)
	if err != nil {
		return err
	}
	overrides, err := s.reasons.GetAll(ctx)
	if err != nil {
		return err
	}
	s.engine.SetAttendants(active)
	s.engine.SetReasonAssignments(overrides)
	if s.logger != nil {
		s.logger.Info("assignment engine refreshed",
			zap.Int("active_attendants", len(active)),
			zap.Int("reason_overrides", len(overrides)))
	}
	return nil
}
