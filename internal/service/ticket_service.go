package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-portal/internal/assignment"
	"github.com/spec-kit/support-portal/internal/domain"
	"github.com/spec-kit/support-portal/internal/events"
	"github.com/spec-kit/support-portal/internal/observability"
	"github.com/spec-kit/support-portal/internal/repository"
	apperrors "github.com/spec-kit/support-portal/pkg/util/errorutil"
)

// TicketService coordinates ticket workflows across the three domains.
type TicketService struct {
	support     repository.SupportTicketRepository
	collections repository.CollectionsTicketRepository
	postAward   repository.PostAwardTicketRepository
	attendants  repository.AttendantRepository
	history     repository.TicketHistoryRepository
	engine      *assignment.Engine
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	SupportRepo     repository.SupportTicketRepository
	CollectionsRepo repository.CollectionsTicketRepository
	PostAwardRepo   repository.PostAwardTicketRepository
	AttendantRepo   repository.AttendantRepository
	HistoryRepo     repository.TicketHistoryRepository
	Engine          *assignment.Engine
	Dispatcher      events.Dispatcher
	Metrics         *observability.Metrics
	Logger          *zap.Logger
}

// TicketCreateInput describes ticket creation payload; all three domains
// share the same shape. AssigneeID is the form-selected attendant for the
// collections and post-award domains; support ignores it and routes
// through the assignment engine instead.
type TicketCreateInput struct {
	Reason      string
	Subject     string
	Description string
	AssigneeID  *string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		support:     deps.SupportRepo,
		collections: deps.CollectionsRepo,
		postAward:   deps.PostAwardRepo,
		attendants:  deps.AttendantRepo,
		history:     deps.HistoryRepo,
		engine:      deps.Engine,
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		logger:      deps.Logger,
	}
}

// CreateSupportTicket opens a support ticket and runs it through the
// assignment engine. A ticket with nobody available stays unassigned; that
// is not an error.
func (s *TicketService) CreateSupportTicket(ctx context.Context, user *domain.User, input TicketCreateInput) (*domain.SupportTicket, error) {
	ticket := &domain.SupportTicket{
		CreatorID:    user.ID,
		CreatorEmail: user.Email,
		Reason:       strings.TrimSpace(input.Reason),
		Subject:      strings.TrimSpace(input.Subject),
		Description:  strings.TrimSpace(input.Description),
		Status:       domain.SupportStatusNew,
	}

	outcome := "unassigned"
	if s.engine != nil {
		if assigneeID, ok := s.engine.Assign(ticket.Reason); ok {
			ticket.AssigneeID = &assigneeID
			outcome = "assigned"
		}
	}

	if err := s.support.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.countCreation(domain.DomainSupport, outcome)

	s.recordHistory(ctx, &domain.TicketHistory{
		Domain:        domain.DomainSupport,
		TicketID:      ticket.ID,
		ChangedByType: domain.SubjectTypeUser,
		ChangedByID:   &user.ID,
		ChangeType:    domain.ChangeTypeStatus,
		NewValue:      map[string]any{"status": string(ticket.Status)},
	})
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		Domain:   domain.DomainSupport,
		TicketID: ticket.ID,
		Actor:    userActor(user.ID),
		Payload: events.TicketCreatedPayload{
			Protocol:    ticket.Protocol,
			Reason:      ticket.Reason,
			Subject:     ticket.Subject,
			CreatorID:   ticket.CreatorID,
			AssigneeID:  ticket.AssigneeID,
			ViaRotation: ticket.AssigneeID != nil,
		},
	})
	if ticket.AssigneeID != nil {
		s.recordHistory(ctx, &domain.TicketHistory{
			Domain:        domain.DomainSupport,
			TicketID:      ticket.ID,
			ChangedByType: domain.SubjectTypeUser,
			ChangedByID:   &user.ID,
			ChangeType:    domain.ChangeTypeAssignee,
			NewValue:      map[string]any{"assignee_id": *ticket.AssigneeID},
		})
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			Domain:   domain.DomainSupport,
			TicketID: ticket.ID,
			Actor:    userActor(user.ID),
			Payload:  events.TicketAssignedPayload{AssigneeID: ticket.AssigneeID},
		})
	}
	return ticket, nil
}

// CreateCollectionsTicket opens a collections-support ticket. Collections
// work is routed by hand: the form may select an attendant, otherwise the
// ticket starts unassigned.
func (s *TicketService) CreateCollectionsTicket(ctx context.Context, user *domain.User, input TicketCreateInput) (*domain.CollectionsTicket, error) {
	if err := s.checkAssignee(ctx, input.AssigneeID); err != nil {
		return nil, err
	}
	ticket := &domain.CollectionsTicket{
		AssigneeID:    input.AssigneeID,
		CreatorID:     user.ID,
		CreatorEmail:  user.Email,
		Reason:        strings.TrimSpace(input.Reason),
		Subject:       strings.TrimSpace(input.Subject),
		Description:   strings.TrimSpace(input.Description),
		Status:        domain.CollectionsStatusOpen,
		ReturnOutcome: domain.ReturnOutcomeNone,
	}
	if err := s.collections.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.countCreation(domain.DomainCollections, "")

	s.recordHistory(ctx, &domain.TicketHistory{
		Domain:        domain.DomainCollections,
		TicketID:      ticket.ID,
		ChangedByType: domain.SubjectTypeUser,
		ChangedByID:   &user.ID,
		ChangeType:    domain.ChangeTypeStatus,
		NewValue:      map[string]any{"status": string(ticket.Status)},
	})
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		Domain:   domain.DomainCollections,
		TicketID: ticket.ID,
		Actor:    userActor(user.ID),
		Payload: events.TicketCreatedPayload{
			Protocol:   ticket.Protocol,
			Reason:     ticket.Reason,
			Subject:    ticket.Subject,
			CreatorID:  ticket.CreatorID,
			AssigneeID: ticket.AssigneeID,
		},
	})
	s.announceFormAssignee(ctx, domain.DomainCollections, ticket.ID, user.ID, ticket.AssigneeID)
	return ticket, nil
}

// CreatePostAwardTicket opens a post-award ticket. Like collections it takes
// the form-selected assignee rather than consulting the rotation.
func (s *TicketService) CreatePostAwardTicket(ctx context.Context, user *domain.User, input TicketCreateInput) (*domain.PostAwardTicket, error) {
	if err := s.checkAssignee(ctx, input.AssigneeID); err != nil {
		return nil, err
	}
	ticket := &domain.PostAwardTicket{
		AssigneeID:   input.AssigneeID,
		CreatorID:    user.ID,
		CreatorEmail: user.Email,
		Reason:       strings.TrimSpace(input.Reason),
		Subject:      strings.TrimSpace(input.Subject),
		Description:  strings.TrimSpace(input.Description),
		Status:       domain.PostAwardStatusOpen,
	}
	if err := s.postAward.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.countCreation(domain.DomainPostAward, "")

	s.recordHistory(ctx, &domain.TicketHistory{
		Domain:        domain.DomainPostAward,
		TicketID:      ticket.ID,
		ChangedByType: domain.SubjectTypeUser,
		ChangedByID:   &user.ID,
		ChangeType:    domain.ChangeTypeStatus,
		NewValue:      map[string]any{"status": string(ticket.Status)},
	})
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		Domain:   domain.DomainPostAward,
		TicketID: ticket.ID,
		Actor:    userActor(user.ID),
		Payload: events.TicketCreatedPayload{
			Protocol:   ticket.Protocol,
			Reason:     ticket.Reason,
			Subject:    ticket.Subject,
			CreatorID:  ticket.CreatorID,
			AssigneeID: ticket.AssigneeID,
		},
	})
	s.announceFormAssignee(ctx, domain.DomainPostAward, ticket.ID, user.ID, ticket.AssigneeID)
	return ticket, nil
}

// ChangeSupportStatus moves a support ticket to any member status. Only a
// value outside the domain's status set is rejected.
func (s *TicketService) ChangeSupportStatus(ctx context.Context, actor events.Actor, ticketID string, newStatus domain.SupportStatus) (*domain.SupportTicket, error) {
	ticket, err := s.support.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	oldStatus := ticket.Status
	if err := ticket.ApplyStatus(newStatus); err != nil {
		return nil, apperrors.NewInvalidTransition(string(domain.DomainSupport), string(newStatus))
	}
	if err := s.support.UpdateStatus(ctx, ticket.ID, newStatus); err != nil {
		return nil, err
	}
	s.afterStatusChange(ctx, domain.DomainSupport, ticket.ID, ticket.CreatorID, actor,
		string(oldStatus), string(newStatus), newStatus.Terminal())
	return s.support.GetByID(ctx, ticket.ID)
}

// ChangeCollectionsStatus moves a collections ticket to any member status.
func (s *TicketService) ChangeCollectionsStatus(ctx context.Context, actor events.Actor, ticketID string, newStatus domain.CollectionsStatus) (*domain.CollectionsTicket, error) {
	ticket, err := s.collections.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	oldStatus := ticket.Status
	if err := ticket.ApplyStatus(newStatus); err != nil {
		return nil, apperrors.NewInvalidTransition(string(domain.DomainCollections), string(newStatus))
	}
	if err := s.collections.UpdateStatus(ctx, ticket.ID, newStatus); err != nil {
		return nil, err
	}
	s.afterStatusChange(ctx, domain.DomainCollections, ticket.ID, ticket.CreatorID, actor,
		string(oldStatus), string(newStatus), newStatus.Terminal())
	return s.collections.GetByID(ctx, ticket.ID)
}

// ChangePostAwardStatus moves a post-award ticket to any member status.
func (s *TicketService) ChangePostAwardStatus(ctx context.Context, actor events.Actor, ticketID string, newStatus domain.PostAwardStatus) (*domain.PostAwardTicket, error) {
	ticket, err := s.postAward.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	oldStatus := ticket.Status
	if err := ticket.ApplyStatus(newStatus); err != nil {
		return nil, apperrors.NewInvalidTransition(string(domain.DomainPostAward), string(newStatus))
	}
	if err := s.postAward.UpdateStatus(ctx, ticket.ID, newStatus); err != nil {
		return nil, err
	}
	s.afterStatusChange(ctx, domain.DomainPostAward, ticket.ID, ticket.CreatorID, actor,
		string(oldStatus), string(newStatus), newStatus.Terminal())
	return s.postAward.GetByID(ctx, ticket.ID)
}

// Reassign points a ticket at another attendant, or clears the assignee
// when attendantID is nil. The target must be a known attendant.
func (s *TicketService) Reassign(ctx context.Context, actor events.Actor, dom domain.Domain, ticketID string, attendantID *string) error {
	if attendantID != nil {
		if _, err := s.attendants.GetByID(ctx, *attendantID); err != nil {
			return err
		}
	}

	var err error
	switch dom {
	case domain.DomainSupport:
		err = s.support.UpdateAssignee(ctx, ticketID, attendantID)
	case domain.DomainCollections:
		err = s.collections.UpdateAssignee(ctx, ticketID, attendantID)
	case domain.DomainPostAward:
		err = s.postAward.UpdateAssignee(ctx, ticketID, attendantID)
	default:
		return apperrors.NewValidationError("unknown ticket domain", map[string]any{"domain": string(dom)})
	}
	if err != nil {
		return err
	}

	newValue := map[string]any{"assignee_id": nil}
	if attendantID != nil {
		newValue["assignee_id"] = *attendantID
	}
	s.recordHistory(ctx, &domain.TicketHistory{
		Domain:        dom,
		TicketID:      ticketID,
		ChangedByType: actor.Type,
		ChangedByID:   actorID(actor),
		ChangeType:    domain.ChangeTypeAssignee,
		NewValue:      newValue,
	})
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		Domain:   dom,
		TicketID: ticketID,
		Actor:    actor,
		Payload:  events.TicketAssignedPayload{AssigneeID: attendantID},
	})
	return nil
}

// SetCollectionsReturn records the outcome of a return request on a
// collections ticket.
func (s *TicketService) SetCollectionsReturn(ctx context.Context, actor events.Actor, ticketID string, outcome domain.ReturnOutcome, note string) (*domain.CollectionsTicket, error) {
	if !outcome.Valid() {
		return nil, apperrors.NewValidationError("unknown return outcome", map[string]any{"outcome": string(outcome)})
	}
	ticket, err := s.collections.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.collections.UpdateReturn(ctx, ticket.ID, outcome, note); err != nil {
		return nil, err
	}
	s.recordHistory(ctx, &domain.TicketHistory{
		Domain:        domain.DomainCollections,
		TicketID:      ticket.ID,
		ChangedByType: actor.Type,
		ChangedByID:   actorID(actor),
		ChangeType:    domain.ChangeTypeReturn,
		OldValue:      map[string]any{"return_outcome": string(ticket.ReturnOutcome)},
		NewValue:      map[string]any{"return_outcome": string(outcome)},
	})
	return s.collections.GetByID(ctx, ticket.ID)
}

// GetSupportTicketForUser fetches a support ticket ensuring ownership.
func (s *TicketService) GetSupportTicketForUser(ctx context.Context, userID, ticketID string) (*domain.SupportTicket, error) {
	ticket, err := s.support.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.CreatorID != userID {
		return nil, apperrors.NewForbidden("ticket belongs to another user")
	}
	return ticket, nil
}

// GetCollectionsTicketForUser fetches a collections ticket ensuring
// ownership.
func (s *TicketService) GetCollectionsTicketForUser(ctx context.Context, userID, ticketID string) (*domain.CollectionsTicket, error) {
	ticket, err := s.collections.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.CreatorID != userID {
		return nil, apperrors.NewForbidden("ticket belongs to another user")
	}
	return ticket, nil
}

// GetPostAwardTicketForUser fetches a post-award ticket ensuring ownership.
func (s *TicketService) GetPostAwardTicketForUser(ctx context.Context, userID, ticketID string) (*domain.PostAwardTicket, error) {
	ticket, err := s.postAward.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.CreatorID != userID {
		return nil, apperrors.NewForbidden("ticket belongs to another user")
	}
	return ticket, nil
}

// ListSupportTickets returns the attendant view of the support queue.
func (s *TicketService) ListSupportTickets(ctx context.Context) ([]domain.SupportTicket, error) {
	return s.support.List(ctx)
}

// ListCollectionsTickets returns the attendant view of the collections
// queue.
func (s *TicketService) ListCollectionsTickets(ctx context.Context) ([]domain.CollectionsTicket, error) {
	return s.collections.List(ctx)
}

// ListPostAwardTickets returns the attendant view of the post-award queue.
func (s *TicketService) ListPostAwardTickets(ctx context.Context) ([]domain.PostAwardTicket, error) {
	return s.postAward.List(ctx)
}

// ListUserSupportTickets returns the creator's own support tickets.
func (s *TicketService) ListUserSupportTickets(ctx context.Context, userID string) ([]domain.SupportTicket, error) {
	return s.support.ListByCreator(ctx, userID)
}

// ListUserCollectionsTickets returns the creator's own collections tickets.
func (s *TicketService) ListUserCollectionsTickets(ctx context.Context, userID string) ([]domain.CollectionsTicket, error) {
	return s.collections.ListByCreator(ctx, userID)
}

// ListUserPostAwardTickets returns the creator's own post-award tickets.
func (s *TicketService) ListUserPostAwardTickets(ctx context.Context, userID string) ([]domain.PostAwardTicket, error) {
	return s.postAward.ListByCreator(ctx, userID)
}

// TicketHistory returns the audit trail for one ticket.
func (s *TicketService) TicketHistory(ctx context.Context, dom domain.Domain, ticketID string) ([]domain.TicketHistory, error) {
	return s.history.ListByTicket(ctx, dom, ticketID)
}

func (s *TicketService) afterStatusChange(ctx context.Context, dom domain.Domain, ticketID, creatorID string, actor events.Actor, oldStatus, newStatus string, terminal bool) {
	if s.metrics != nil {
		s.metrics.IncStatusChange(string(dom), newStatus)
	}
	s.recordHistory(ctx, &domain.TicketHistory{
		Domain:        dom,
		TicketID:      ticketID,
		ChangedByType: actor.Type,
		ChangedByID:   actorID(actor),
		ChangeType:    domain.ChangeTypeStatus,
		OldValue:      map[string]any{"status": oldStatus},
		NewValue:      map[string]any{"status": newStatus},
	})
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		Domain:   dom,
		TicketID: ticketID,
		Actor:    actor,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	if terminal {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketCompleted,
			Domain:   dom,
			TicketID: ticketID,
			Actor:    actor,
			Payload: events.TicketCompletedPayload{
				CreatorID: creatorID,
				Status:    newStatus,
			},
		})
	}
}

// checkAssignee verifies a form-selected assignee exists before the ticket is
// written. A nil pointer means the ticket starts unassigned.
func (s *TicketService) checkAssignee(ctx context.Context, assigneeID *string) error {
	if assigneeID == nil {
		return nil
	}
	_, err := s.attendants.GetByID(ctx, *assigneeID)
	return err
}

// announceFormAssignee records the assignee picked on the creation form, so
// manual routing leaves the same audit trail as the rotation.
func (s *TicketService) announceFormAssignee(ctx context.Context, dom domain.Domain, ticketID, creatorID string, assigneeID *string) {
	if assigneeID == nil {
		return
	}
	s.recordHistory(ctx, &domain.TicketHistory{
		Domain:        dom,
		TicketID:      ticketID,
		ChangedByType: domain.SubjectTypeUser,
		ChangedByID:   &creatorID,
		ChangeType:    domain.ChangeTypeAssignee,
		NewValue:      map[string]any{"assignee_id": *assigneeID},
	})
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		Domain:   dom,
		TicketID: ticketID,
		Actor:    userActor(creatorID),
		Payload:  events.TicketAssignedPayload{AssigneeID: assigneeID},
	})
}

func (s *TicketService) countCreation(dom domain.Domain, assignOutcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncTicketCreated(string(dom))
	if assignOutcome != "" {
		s.metrics.IncAssignment(assignOutcome)
	}
}

// recordHistory writes an audit entry; a failed write is logged and never
// blocks the workflow that produced it.
func (s *TicketService) recordHistory(ctx context.Context, entry *domain.TicketHistory) {
	if s.history == nil {
		return
	}
	if err := s.history.Create(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("history write failed",
			zap.String("ticket_id", entry.TicketID),
			zap.String("domain", string(entry.Domain)),
			zap.Error(err))
	}
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func userActor(userID string) events.Actor {
	return events.Actor{
		Type:   domain.SubjectTypeUser,
		UserID: &userID,
	}
}

// AttendantActor builds the actor record for an attendant-initiated change.
func AttendantActor(attendantID string) events.Actor {
	return events.Actor{
		Type:        domain.SubjectTypeAttendant,
		AttendantID: &attendantID,
	}
}

// UserActor builds the actor record for a user-initiated change.
func UserActor(userID string) events.Actor {
	return userActor(userID)
}

func actorID(actor events.Actor) *string {
	if actor.Type == domain.SubjectTypeAttendant {
		return actor.AttendantID
	}
	return actor.UserID
}
