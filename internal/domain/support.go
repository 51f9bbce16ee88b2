package domain

import "time"

// SupportStatus enumerates lifecycle states for support tickets. OVERDUE is
// a stored state set by operators or the background sweep, distinct from the
// OUT_OF_SLA display overlay of the other two domains.
type SupportStatus string

const (
	SupportStatusNew        SupportStatus = "NEW"
	SupportStatusInProgress SupportStatus = "IN_PROGRESS"
	SupportStatusOverdue    SupportStatus = "OVERDUE"
	SupportStatusDone       SupportStatus = "DONE"
)

// Valid reports whether the value belongs to the support domain.
func (s SupportStatus) Valid() bool {
	switch s {
	case SupportStatusNew, SupportStatusInProgress, SupportStatusOverdue, SupportStatusDone:
		return true
	}
	return false
}

// Terminal reports whether the status ends the ticket's lifecycle.
func (s SupportStatus) Terminal() bool {
	return s == SupportStatusDone
}

// SuggestedNext returns the natural-order follow-up statuses for UI hints.
// It is advisory only; ApplyStatus accepts any value of the domain.
func (s SupportStatus) SuggestedNext() []SupportStatus {
	switch s {
	case SupportStatusNew:
		return []SupportStatus{SupportStatusInProgress}
	case SupportStatusInProgress:
		return []SupportStatus{SupportStatusOverdue, SupportStatusDone}
	case SupportStatusOverdue:
		return []SupportStatus{SupportStatusDone}
	}
	return nil
}

// Label returns the human-readable form of the status.
func (s SupportStatus) Label() string {
	switch s {
	case SupportStatusNew:
		return "New"
	case SupportStatusInProgress:
		return "In progress"
	case SupportStatusOverdue:
		return "Overdue"
	case SupportStatusDone:
		return "Done"
	}
	return string(s)
}

// Color returns the badge color used by portal screens.
func (s SupportStatus) Color() string {
	switch s {
	case SupportStatusNew:
		return "#2e7df6"
	case SupportStatusInProgress:
		return "#f6a12e"
	case SupportStatusOverdue:
		return "#e03131"
	case SupportStatusDone:
		return "#2f9e44"
	}
	return "#868e96"
}

// SupportTicket is the aggregate for the support domain, the only domain
// that auto-assigns at creation through the rotation engine.
type SupportTicket struct {
	ID              string
	Protocol        int64
	CreatorID       string
	CreatorEmail    string
	Reason          string
	Subject         string
	Description     string
	Status          SupportStatus
	AssigneeID      *string
	ViewedByCreator bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ApplyStatus sets a new stored status. Any member of the support enum is
// accepted; foreign values fail with ErrInvalidStatus.
func (t *SupportTicket) ApplyStatus(newStatus SupportStatus) error {
	if !newStatus.Valid() {
		return ErrInvalidStatus
	}
	t.Status = newStatus
	return nil
}
