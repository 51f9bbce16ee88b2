package domain

import "time"

// CollectionsStatus enumerates lifecycle states for collections-support
// tickets. RESPONDED and REOPENED are transient states set when an operator
// replies or a creator pushes back; the main path runs OPEN through
// RESOLVED.
type CollectionsStatus string

const (
	CollectionsStatusOpen        CollectionsStatus = "OPEN"
	CollectionsStatusUnderReview CollectionsStatus = "UNDER_REVIEW"
	CollectionsStatusForwarded   CollectionsStatus = "FORWARDED"
	CollectionsStatusResponded   CollectionsStatus = "RESPONDED"
	CollectionsStatusReopened    CollectionsStatus = "REOPENED"
	CollectionsStatusResolved    CollectionsStatus = "RESOLVED"
)

// Valid reports whether the value belongs to the collections domain.
func (s CollectionsStatus) Valid() bool {
	switch s {
	case CollectionsStatusOpen, CollectionsStatusUnderReview, CollectionsStatusForwarded,
		CollectionsStatusResponded, CollectionsStatusReopened, CollectionsStatusResolved:
		return true
	}
	return false
}

// Terminal reports whether the status ends the ticket's lifecycle.
func (s CollectionsStatus) Terminal() bool {
	return s == CollectionsStatusResolved
}

// FreshlyOpened reports whether the status still counts against the SLA
// clock.
func (s CollectionsStatus) FreshlyOpened() bool {
	return s == CollectionsStatusOpen
}

// SuggestedNext returns the natural-order follow-up statuses for UI hints.
func (s CollectionsStatus) SuggestedNext() []CollectionsStatus {
	switch s {
	case CollectionsStatusOpen:
		return []CollectionsStatus{CollectionsStatusUnderReview}
	case CollectionsStatusUnderReview:
		return []CollectionsStatus{CollectionsStatusForwarded, CollectionsStatusResponded}
	case CollectionsStatusForwarded:
		return []CollectionsStatus{CollectionsStatusResolved}
	case CollectionsStatusResponded:
		return []CollectionsStatus{CollectionsStatusReopened, CollectionsStatusResolved}
	case CollectionsStatusReopened:
		return []CollectionsStatus{CollectionsStatusUnderReview}
	}
	return nil
}

// Label returns the human-readable form of the status.
func (s CollectionsStatus) Label() string {
	switch s {
	case CollectionsStatusOpen:
		return "Open"
	case CollectionsStatusUnderReview:
		return "Under review"
	case CollectionsStatusForwarded:
		return "Forwarded"
	case CollectionsStatusResponded:
		return "Responded"
	case CollectionsStatusReopened:
		return "Reopened"
	case CollectionsStatusResolved:
		return "Resolved"
	}
	return string(s)
}

// Color returns the badge color used by portal screens.
func (s CollectionsStatus) Color() string {
	switch s {
	case CollectionsStatusOpen:
		return "#2e7df6"
	case CollectionsStatusUnderReview:
		return "#f6a12e"
	case CollectionsStatusForwarded:
		return "#9c36b5"
	case CollectionsStatusResponded:
		return "#0ca678"
	case CollectionsStatusReopened:
		return "#e03131"
	case CollectionsStatusResolved:
		return "#2f9e44"
	}
	return "#868e96"
}

// ReturnOutcome is the back-office follow-up sub-workflow layered on top of
// a collections ticket. It is independent of the main status.
type ReturnOutcome string

const (
	ReturnOutcomeNone      ReturnOutcome = "NONE"
	ReturnOutcomePending   ReturnOutcome = "PENDING"
	ReturnOutcomeCompleted ReturnOutcome = "COMPLETED"
)

// Valid reports whether the value is a known return outcome.
func (o ReturnOutcome) Valid() bool {
	switch o {
	case ReturnOutcomeNone, ReturnOutcomePending, ReturnOutcomeCompleted:
		return true
	}
	return false
}

// CollectionsTicket is the aggregate for the collections-support domain.
// The assignee is the manager or director selected on the form; there is no
// auto-assignment here.
type CollectionsTicket struct {
	ID            string
	Protocol      int64
	CreatorID     string
	CreatorEmail  string
	Reason        string
	Subject       string
	Description   string
	Status        CollectionsStatus
	AssigneeID    *string
	ReturnOutcome ReturnOutcome
	ReturnNote    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ApplyStatus sets a new stored status, accepting any member of the
// collections enum.
func (t *CollectionsTicket) ApplyStatus(newStatus CollectionsStatus) error {
	if !newStatus.Valid() {
		return ErrInvalidStatus
	}
	t.Status = newStatus
	return nil
}
