package domain

import "time"

// PostAwardStatus enumerates lifecycle states for post-award tickets.
// URGENT and RETURNED are side-states; a RETURNED ticket is treated as open
// again for notification purposes.
type PostAwardStatus string

const (
	PostAwardStatusOpen        PostAwardStatus = "OPEN"
	PostAwardStatusUnderReview PostAwardStatus = "UNDER_REVIEW"
	PostAwardStatusUrgent      PostAwardStatus = "URGENT"
	PostAwardStatusReturned    PostAwardStatus = "RETURNED"
	PostAwardStatusResolved    PostAwardStatus = "RESOLVED"
)

// Valid reports whether the value belongs to the post-award domain.
func (s PostAwardStatus) Valid() bool {
	switch s {
	case PostAwardStatusOpen, PostAwardStatusUnderReview, PostAwardStatusUrgent,
		PostAwardStatusReturned, PostAwardStatusResolved:
		return true
	}
	return false
}

// Terminal reports whether the status ends the ticket's lifecycle.
func (s PostAwardStatus) Terminal() bool {
	return s == PostAwardStatusResolved
}

// FreshlyOpened reports whether the status still counts against the SLA
// clock.
func (s PostAwardStatus) FreshlyOpened() bool {
	return s == PostAwardStatusOpen
}

// SuggestedNext returns the natural-order follow-up statuses for UI hints.
func (s PostAwardStatus) SuggestedNext() []PostAwardStatus {
	switch s {
	case PostAwardStatusOpen:
		return []PostAwardStatus{PostAwardStatusUnderReview, PostAwardStatusUrgent}
	case PostAwardStatusUnderReview:
		return []PostAwardStatus{PostAwardStatusReturned, PostAwardStatusResolved}
	case PostAwardStatusUrgent:
		return []PostAwardStatus{PostAwardStatusUnderReview, PostAwardStatusResolved}
	case PostAwardStatusReturned:
		return []PostAwardStatus{PostAwardStatusUnderReview}
	}
	return nil
}

// Label returns the human-readable form of the status.
func (s PostAwardStatus) Label() string {
	switch s {
	case PostAwardStatusOpen:
		return "Open"
	case PostAwardStatusUnderReview:
		return "Under review"
	case PostAwardStatusUrgent:
		return "Urgent"
	case PostAwardStatusReturned:
		return "Returned"
	case PostAwardStatusResolved:
		return "Resolved"
	}
	return string(s)
}

// Color returns the badge color used by portal screens.
func (s PostAwardStatus) Color() string {
	switch s {
	case PostAwardStatusOpen:
		return "#2e7df6"
	case PostAwardStatusUnderReview:
		return "#f6a12e"
	case PostAwardStatusUrgent:
		return "#e03131"
	case PostAwardStatusReturned:
		return "#9c36b5"
	case PostAwardStatusResolved:
		return "#2f9e44"
	}
	return "#868e96"
}

// PostAwardTicket is the aggregate for the post-award domain. The assignee
// is the responsible party selected on the form.
type PostAwardTicket struct {
	ID              string
	Protocol        int64
	CreatorID       string
	CreatorEmail    string
	Reason          string
	Subject         string
	Description     string
	Status          PostAwardStatus
	AssigneeID      *string
	ViewedByCreator bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ApplyStatus sets a new stored status, accepting any member of the
// post-award enum.
func (t *PostAwardTicket) ApplyStatus(newStatus PostAwardStatus) error {
	if !newStatus.Valid() {
		return ErrInvalidStatus
	}
	t.Status = newStatus
	return nil
}
