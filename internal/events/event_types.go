package events

import (
	"time"

	"github.com/spec-kit/support-portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketAssigned      EventType = "ticket_assigned"
	// EventTicketCompleted fires on a transition into a domain's terminal
	// state; the notification layer watches it for creator-facing
	// "completed" notifications.
	EventTicketCompleted EventType = "ticket_completed"
	EventTicketDismissed EventType = "ticket_dismissed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type        domain.SubjectType `json:"type"`
	UserID      *string            `json:"user_id,omitempty"`
	AttendantID *string            `json:"attendant_id,omitempty"`
}

// Event represents a domain event emitted by services. Domain plus
// TicketID locates the row, since each domain keeps its own table.
type Event struct {
	ID        string        `json:"id"`
	Type      EventType     `json:"type"`
	Domain    domain.Domain `json:"domain"`
	TicketID  string        `json:"ticket_id"`
	Actor     Actor         `json:"actor"`
	Timestamp time.Time     `json:"timestamp"`
	Payload   interface{}   `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Protocol    int64   `json:"protocol"`
	Reason      string  `json:"reason"`
	Subject     string  `json:"subject"`
	CreatorID   string  `json:"creator_id"`
	AssigneeID  *string `json:"assignee_id,omitempty"`
	ViaRotation bool    `json:"via_rotation"`
}

// TicketStatusChangedPayload payload. Statuses travel as strings because
// each domain has its own enum.
type TicketStatusChangedPayload struct {
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssigneeID *string `json:"assignee_id,omitempty"`
}

// TicketCompletedPayload payload.
type TicketCompletedPayload struct {
	CreatorID string `json:"creator_id"`
	Status    string `json:"status"`
}

// TicketDismissedPayload payload.
type TicketDismissedPayload struct {
	CreatorID string `json:"creator_id"`
}
