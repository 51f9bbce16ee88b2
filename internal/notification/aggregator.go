// Package notification merges the three domain ticket streams into one
// deduplicated, time-sorted attention feed. Aggregation is a pure function
// over an immutable snapshot; dismiss state lives on the ticket row
// (viewedByCreator), never here.
package notification

import (
	"sort"
	"time"

	"github.com/spec-kit/support-portal/internal/domain"
	"github.com/spec-kit/support-portal/internal/sla"
)

// Item is one entry in a user's attention feed.
type Item struct {
	TicketID    string               `json:"ticket_id"`
	Protocol    int64                `json:"protocol"`
	Domain      domain.Domain        `json:"domain"`
	Subject     string               `json:"subject"`
	Reason      string               `json:"reason,omitempty"`
	Status      domain.DisplayStatus `json:"status"`
	OccurredAt  time.Time            `json:"occurred_at"`
	Dismissible bool                 `json:"dismissible"`
}

// Snapshot carries one immutable fetch of every domain's tickets. Domains a
// store fetch failed for are simply left empty by the caller; aggregation
// itself never errors.
type Snapshot struct {
	Support     []domain.SupportTicket
	Collections []domain.CollectionsTicket
	PostAward   []domain.PostAwardTicket
}

// Aggregator builds feeds from domain snapshots.
type Aggregator struct {
	clock *sla.Clock
}

// NewAggregator wires the SLA clock used for the display status carried on
// each item.
func NewAggregator(clock *sla.Clock) *Aggregator {
	return &Aggregator{clock: clock}
}

// BuildFeed scans every domain snapshot and returns the notifications for
// userID, newest first. The length of the result is the badge count.
// Domains are scanned in a fixed order (support, collections, post-award)
// and duplicate ticket ids keep the first occurrence; duplicate ids across
// domains are not expected but must not break the feed.
func (a *Aggregator) BuildFeed(userID string, snap Snapshot, now time.Time) []Item {
	items := make([]Item, 0)
	seen := make(map[string]struct{})

	add := func(candidates []Item) {
		for _, item := range candidates {
			if _, dup := seen[item.TicketID]; dup {
				continue
			}
			seen[item.TicketID] = struct{}{}
			items = append(items, item)
		}
	}

	add(a.supportItems(userID, snap.Support))
	add(a.collectionsItems(userID, snap.Collections, now))
	add(a.postAwardItems(userID, snap.PostAward, now))

	// Newest first; zero timestamps sort as oldest.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].OccurredAt.After(items[j].OccurredAt)
	})
	return items
}

// occurredAt prefers the last update over the creation time and tolerates
// rows with no usable timestamp at all.
func occurredAt(createdAt, updatedAt time.Time) time.Time {
	if !updatedAt.IsZero() {
		return updatedAt
	}
	return createdAt
}

func matches(ref *string, userID string) bool {
	return ref != nil && *ref == userID
}
