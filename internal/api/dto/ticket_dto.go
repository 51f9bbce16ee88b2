package dto

import (
	"time"

	"github.com/spec-kit/support-portal/internal/domain"
	"github.com/spec-kit/support-portal/internal/sla"
)

// CreateTicketRequest payload; the three domains share it. AssigneeID is
// honored by the collections and post-award forms and ignored for support,
// where the rotation picks.
type CreateTicketRequest struct {
	Reason      string  `json:"reason" validate:"required,max=120"`
	Subject     string  `json:"subject" validate:"required,max=200"`
	Description string  `json:"description" validate:"max=5000"`
	AssigneeID  *string `json:"assignee_id" validate:"omitempty,uuid"`
}

// ChangeStatusRequest payload for status moves. The value is validated
// against the ticket's own domain downstream.
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ReassignRequest payload; a null assignee clears the assignment.
type ReassignRequest struct {
	AssigneeID *string `json:"assignee_id"`
}

// SetReturnRequest payload for the collections return outcome.
type SetReturnRequest struct {
	Outcome string `json:"outcome" validate:"required"`
	Note    string `json:"note" validate:"max=2000"`
}

// SupportTicketResponse is the wire form of a support ticket. Status is
// the stored value; display_status folds in the SLA overlay where a
// domain has one.
type SupportTicketResponse struct {
	ID              string               `json:"id"`
	Protocol        int64                `json:"protocol"`
	Domain          domain.Domain        `json:"domain"`
	Reason          string               `json:"reason"`
	Subject         string               `json:"subject"`
	Description     string               `json:"description"`
	Status          domain.SupportStatus `json:"status"`
	DisplayStatus   domain.DisplayStatus `json:"display_status"`
	StatusLabel     string               `json:"status_label"`
	StatusColor     string               `json:"status_color"`
	AssigneeID      *string              `json:"assignee_id"`
	ViewedByCreator bool                 `json:"viewed_by_creator"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// CollectionsTicketResponse is the wire form of a collections ticket.
type CollectionsTicketResponse struct {
	ID            string                   `json:"id"`
	Protocol      int64                    `json:"protocol"`
	Domain        domain.Domain            `json:"domain"`
	Reason        string                   `json:"reason"`
	Subject       string                   `json:"subject"`
	Description   string                   `json:"description"`
	Status        domain.CollectionsStatus `json:"status"`
	DisplayStatus domain.DisplayStatus     `json:"display_status"`
	StatusLabel   string                   `json:"status_label"`
	StatusColor   string                   `json:"status_color"`
	AssigneeID    *string                  `json:"assignee_id"`
	ReturnOutcome domain.ReturnOutcome     `json:"return_outcome"`
	ReturnNote    string                   `json:"return_note,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

// PostAwardTicketResponse is the wire form of a post-award ticket.
type PostAwardTicketResponse struct {
	ID              string                 `json:"id"`
	Protocol        int64                  `json:"protocol"`
	Domain          domain.Domain          `json:"domain"`
	Reason          string                 `json:"reason"`
	Subject         string                 `json:"subject"`
	Description     string                 `json:"description"`
	Status          domain.PostAwardStatus `json:"status"`
	DisplayStatus   domain.DisplayStatus   `json:"display_status"`
	StatusLabel     string                 `json:"status_label"`
	StatusColor     string                 `json:"status_color"`
	AssigneeID      *string                `json:"assignee_id"`
	ViewedByCreator bool                   `json:"viewed_by_creator"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// HistoryEntryResponse is one audit trail entry.
type HistoryEntryResponse struct {
	ID            string                  `json:"id"`
	ChangeType    domain.TicketChangeType `json:"change_type"`
	ChangedByType domain.SubjectType      `json:"changed_by_type"`
	ChangedByID   *string                 `json:"changed_by_id"`
	OldValue      map[string]any          `json:"old_value,omitempty"`
	NewValue      map[string]any          `json:"new_value,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
}

// NewSupportTicketResponse maps a support ticket for the wire.
func NewSupportTicketResponse(t domain.SupportTicket, clock *sla.Clock) SupportTicketResponse {
	return SupportTicketResponse{
		ID:              t.ID,
		Protocol:        t.Protocol,
		Domain:          domain.DomainSupport,
		Reason:          t.Reason,
		Subject:         t.Subject,
		Description:     t.Description,
		Status:          t.Status,
		DisplayStatus:   clock.EffectiveSupport(&t),
		StatusLabel:     t.Status.Label(),
		StatusColor:     t.Status.Color(),
		AssigneeID:      t.AssigneeID,
		ViewedByCreator: t.ViewedByCreator,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// NewCollectionsTicketResponse maps a collections ticket for the wire.
func NewCollectionsTicketResponse(t domain.CollectionsTicket, clock *sla.Clock, now time.Time) CollectionsTicketResponse {
	return CollectionsTicketResponse{
		ID:            t.ID,
		Protocol:      t.Protocol,
		Domain:        domain.DomainCollections,
		Reason:        t.Reason,
		Subject:       t.Subject,
		Description:   t.Description,
		Status:        t.Status,
		DisplayStatus: clock.EffectiveCollections(&t, now),
		StatusLabel:   t.Status.Label(),
		StatusColor:   t.Status.Color(),
		AssigneeID:    t.AssigneeID,
		ReturnOutcome: t.ReturnOutcome,
		ReturnNote:    t.ReturnNote,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

// NewPostAwardTicketResponse maps a post-award ticket for the wire.
func NewPostAwardTicketResponse(t domain.PostAwardTicket, clock *sla.Clock, now time.Time) PostAwardTicketResponse {
	return PostAwardTicketResponse{
		ID:              t.ID,
		Protocol:        t.Protocol,
		Domain:          domain.DomainPostAward,
		Reason:          t.Reason,
		Subject:         t.Subject,
		Description:     t.Description,
		Status:          t.Status,
		DisplayStatus:   clock.EffectivePostAward(&t, now),
		StatusLabel:     t.Status.Label(),
		StatusColor:     t.Status.Color(),
		AssigneeID:      t.AssigneeID,
		ViewedByCreator: t.ViewedByCreator,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// NewHistoryEntryResponse maps one history entry for the wire.
func NewHistoryEntryResponse(h domain.TicketHistory) HistoryEntryResponse {
	return HistoryEntryResponse{
		ID:            h.ID,
		ChangeType:    h.ChangeType,
		ChangedByType: h.ChangedByType,
		ChangedByID:   h.ChangedByID,
		OldValue:      h.OldValue,
		NewValue:      h.NewValue,
		CreatedAt:     h.CreatedAt,
	}
}
