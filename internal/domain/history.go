package domain

import "time"

// TicketChangeType captures what changed in a history entry.
type TicketChangeType string

const (
	ChangeTypeStatus   TicketChangeType = "STATUS_CHANGE"
	ChangeTypeAssignee TicketChangeType = "ASSIGNEE_CHANGE"
	ChangeTypeReturn   TicketChangeType = "RETURN_CHANGE"
	ChangeTypeViewed   TicketChangeType = "VIEWED"
)

// TicketHistory is an immutable audit trail entry. Tickets live in separate
// tables per domain, so entries carry the domain tag next to the ticket id.
type TicketHistory struct {
	ID            string
	Domain        Domain
	TicketID      string
	ChangedByType SubjectType
	ChangedByID   *string
	ChangeType    TicketChangeType
	OldValue      map[string]any
	NewValue      map[string]any
	CreatedAt     time.Time
}
