package notification

import (
	"time"

	"github.com/spec-kit/support-portal/internal/domain"
)

// Per-domain notification predicates. These match on the stored status —
// the OUT_OF_SLA overlay is display-only and an out-of-SLA OPEN ticket
// still needs its manager's attention — while the item carries the
// SLA-derived display status for presentation.

// supportItems: the assignee is notified while a ticket sits in NEW; the
// creator is notified once it is DONE and not yet dismissed.
func (a *Aggregator) supportItems(userID string, tickets []domain.SupportTicket) []Item {
	items := make([]Item, 0)
	for i := range tickets {
		t := &tickets[i]
		notify := false
		dismissible := false
		switch {
		case t.Status == domain.SupportStatusNew && matches(t.AssigneeID, userID):
			notify = true
		case t.Status == domain.SupportStatusDone && !t.ViewedByCreator && t.CreatorID == userID:
			notify = true
			dismissible = true
		}
		if !notify {
			continue
		}
		items = append(items, Item{
			TicketID:    t.ID,
			Protocol:    t.Protocol,
			Domain:      domain.DomainSupport,
			Subject:     t.Subject,
			Reason:      t.Reason,
			Status:      a.clock.EffectiveSupport(t),
			OccurredAt:  occurredAt(t.CreatedAt, t.UpdatedAt),
			Dismissible: dismissible,
		})
	}
	return items
}

// collectionsItems: the creator is notified on RESPONDED; the assigned
// manager or director on REOPENED and OPEN. Nothing here is dismissible —
// these notifications clear only when the underlying status moves on.
func (a *Aggregator) collectionsItems(userID string, tickets []domain.CollectionsTicket, now time.Time) []Item {
	items := make([]Item, 0)
	for i := range tickets {
		t := &tickets[i]
		notify := false
		switch {
		case t.Status == domain.CollectionsStatusResponded && t.CreatorID == userID:
			notify = true
		case (t.Status == domain.CollectionsStatusReopened || t.Status == domain.CollectionsStatusOpen) &&
			matches(t.AssigneeID, userID):
			notify = true
		}
		if !notify {
			continue
		}
		items = append(items, Item{
			TicketID:   t.ID,
			Protocol:   t.Protocol,
			Domain:     domain.DomainCollections,
			Subject:    t.Subject,
			Reason:     t.Reason,
			Status:     a.clock.EffectiveCollections(t, now),
			OccurredAt: occurredAt(t.CreatedAt, t.UpdatedAt),
		})
	}
	return items
}

// postAwardItems: the responsible party is notified on OPEN and URGENT; the
// reporter on RETURNED and on an undismissed RESOLVED.
func (a *Aggregator) postAwardItems(userID string, tickets []domain.PostAwardTicket, now time.Time) []Item {
	items := make([]Item, 0)
	for i := range tickets {
		t := &tickets[i]
		notify := false
		dismissible := false
		switch {
		case (t.Status == domain.PostAwardStatusOpen || t.Status == domain.PostAwardStatusUrgent) &&
			matches(t.AssigneeID, userID):
			notify = true
		case t.Status == domain.PostAwardStatusReturned && t.CreatorID == userID:
			notify = true
		case t.Status == domain.PostAwardStatusResolved && !t.ViewedByCreator && t.CreatorID == userID:
			notify = true
			dismissible = true
		}
		if !notify {
			continue
		}
		items = append(items, Item{
			TicketID:    t.ID,
			Protocol:    t.Protocol,
			Domain:      domain.DomainPostAward,
			Subject:     t.Subject,
			Reason:      t.Reason,
			Status:      a.clock.EffectivePostAward(t, now),
			OccurredAt:  occurredAt(t.CreatedAt, t.UpdatedAt),
			Dismissible: dismissible,
		})
	}
	return items
}

// SupportDismissible reports whether a support ticket in the given stored
// status supports the dismiss action for its creator.
func SupportDismissible(s domain.SupportStatus) bool {
	return s == domain.SupportStatusDone
}

// PostAwardDismissible reports whether a post-award ticket in the given
// stored status supports the dismiss action for its reporter.
func PostAwardDismissible(s domain.PostAwardStatus) bool {
	return s == domain.PostAwardStatusResolved
}
