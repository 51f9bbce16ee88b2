package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-portal/internal/domain"
	"github.com/spec-kit/support-portal/internal/sla"
)

func newAggregator() *Aggregator {
	return NewAggregator(sla.NewClock(sla.DefaultThresholdHours))
}

func strPtr(s string) *string { return &s }

func at(day, hour int) time.Time {
	return time.Date(2025, time.March, day, hour, 0, 0, 0, time.UTC)
}

func TestSupportPredicates(t *testing.T) {
	agg := newAggregator()
	now := at(14, 12)

	snap := Snapshot{Support: []domain.SupportTicket{
		{ID: "t1", Status: domain.SupportStatusNew, AssigneeID: strPtr("att-1"), CreatorID: "u1", CreatedAt: at(14, 9)},
		{ID: "t2", Status: domain.SupportStatusInProgress, AssigneeID: strPtr("att-1"), CreatorID: "u1", CreatedAt: at(14, 9)},
		{ID: "t3", Status: domain.SupportStatusDone, CreatorID: "u1", CreatedAt: at(13, 9)},
		{ID: "t4", Status: domain.SupportStatusDone, CreatorID: "u1", ViewedByCreator: true, CreatedAt: at(13, 9)},
	}}

	assignee := agg.BuildFeed("att-1", snap, now)
	require.Len(t, assignee, 1)
	assert.Equal(t, "t1", assignee[0].TicketID)
	assert.False(t, assignee[0].Dismissible)

	creator := agg.BuildFeed("u1", snap, now)
	require.Len(t, creator, 1)
	assert.Equal(t, "t3", creator[0].TicketID)
	assert.True(t, creator[0].Dismissible)
}

func TestCollectionsPredicates(t *testing.T) {
	agg := newAggregator()
	now := at(14, 12)

	snap := Snapshot{Collections: []domain.CollectionsTicket{
		{ID: "c1", Status: domain.CollectionsStatusResponded, CreatorID: "u1", CreatedAt: at(14, 9)},
		{ID: "c2", Status: domain.CollectionsStatusOpen, AssigneeID: strPtr("mgr-1"), CreatorID: "u1", CreatedAt: at(14, 9)},
		{ID: "c3", Status: domain.CollectionsStatusReopened, AssigneeID: strPtr("mgr-1"), CreatorID: "u2", CreatedAt: at(14, 10)},
		{ID: "c4", Status: domain.CollectionsStatusResolved, AssigneeID: strPtr("mgr-1"), CreatorID: "u1", CreatedAt: at(14, 9)},
	}}

	creator := agg.BuildFeed("u1", snap, now)
	require.Len(t, creator, 1)
	assert.Equal(t, "c1", creator[0].TicketID)
	assert.False(t, creator[0].Dismissible, "collections notifications are never dismissible")

	manager := agg.BuildFeed("mgr-1", snap, now)
	require.Len(t, manager, 2)
}

func TestCollectionsItemCarriesOverlayStatus(t *testing.T) {
	agg := newAggregator()

	// Created Monday 2025-03-10 08:00, evaluated Wednesday: well past 24
	// business hours, still OPEN. The manager is still notified and the
	// item shows the overlay.
	snap := Snapshot{Collections: []domain.CollectionsTicket{
		{ID: "c1", Status: domain.CollectionsStatusOpen, AssigneeID: strPtr("mgr-1"), CreatedAt: at(10, 8)},
	}}
	feed := agg.BuildFeed("mgr-1", snap, at(12, 12))
	require.Len(t, feed, 1)
	assert.Equal(t, domain.DisplayOutOfSLA, feed[0].Status)
}

func TestPostAwardPredicates(t *testing.T) {
	agg := newAggregator()
	now := at(14, 12)

	snap := Snapshot{PostAward: []domain.PostAwardTicket{
		{ID: "p1", Status: domain.PostAwardStatusOpen, AssigneeID: strPtr("att-2"), CreatorID: "u1", CreatedAt: at(14, 9)},
		{ID: "p2", Status: domain.PostAwardStatusUrgent, AssigneeID: strPtr("att-2"), CreatorID: "u1", CreatedAt: at(14, 10)},
		{ID: "p3", Status: domain.PostAwardStatusReturned, CreatorID: "u1", CreatedAt: at(14, 11)},
		{ID: "p4", Status: domain.PostAwardStatusResolved, CreatorID: "u1", CreatedAt: at(13, 9)},
		{ID: "p5", Status: domain.PostAwardStatusResolved, CreatorID: "u1", ViewedByCreator: true, CreatedAt: at(13, 9)},
	}}

	responsible := agg.BuildFeed("att-2", snap, now)
	require.Len(t, responsible, 2)

	reporter := agg.BuildFeed("u1", snap, now)
	require.Len(t, reporter, 2)
	for _, item := range reporter {
		if item.TicketID == "p4" {
			assert.True(t, item.Dismissible)
		} else {
			assert.False(t, item.Dismissible)
		}
	}
}

func TestFeedSortsNewestFirstZeroTimestampsLast(t *testing.T) {
	agg := newAggregator()
	now := at(14, 12)

	snap := Snapshot{
		Support: []domain.SupportTicket{
			{ID: "t1", Status: domain.SupportStatusNew, AssigneeID: strPtr("a"), CreatedAt: at(14, 9)},
			{ID: "t2", Status: domain.SupportStatusNew, AssigneeID: strPtr("a")}, // no timestamp at all
		},
		PostAward: []domain.PostAwardTicket{
			{ID: "p1", Status: domain.PostAwardStatusUrgent, AssigneeID: strPtr("a"), CreatedAt: at(14, 11)},
		},
	}

	feed := agg.BuildFeed("a", snap, now)
	require.Len(t, feed, 3)
	assert.Equal(t, "p1", feed[0].TicketID)
	assert.Equal(t, "t1", feed[1].TicketID)
	assert.Equal(t, "t2", feed[2].TicketID, "undated rows sink to the bottom")
}

func TestFeedDeduplicatesByTicketID(t *testing.T) {
	agg := newAggregator()
	now := at(14, 12)

	// The same id in two domains keeps the first occurrence in domain
	// order (support first).
	snap := Snapshot{
		Support: []domain.SupportTicket{
			{ID: "dup", Status: domain.SupportStatusNew, AssigneeID: strPtr("a"), CreatedAt: at(14, 9)},
		},
		PostAward: []domain.PostAwardTicket{
			{ID: "dup", Status: domain.PostAwardStatusUrgent, AssigneeID: strPtr("a"), CreatedAt: at(14, 11)},
		},
	}

	feed := agg.BuildFeed("a", snap, now)
	require.Len(t, feed, 1)
	assert.Equal(t, domain.DomainSupport, feed[0].Domain)
}

func TestFeedIdempotent(t *testing.T) {
	agg := newAggregator()
	now := at(14, 12)

	snap := Snapshot{
		Support: []domain.SupportTicket{
			{ID: "t1", Status: domain.SupportStatusNew, AssigneeID: strPtr("a"), CreatedAt: at(14, 9)},
			{ID: "t2", Status: domain.SupportStatusDone, CreatorID: "a", CreatedAt: at(13, 9)},
		},
		Collections: []domain.CollectionsTicket{
			{ID: "c1", Status: domain.CollectionsStatusOpen, AssigneeID: strPtr("a"), CreatedAt: at(14, 8)},
		},
	}

	first := agg.BuildFeed("a", snap, now)
	second := agg.BuildFeed("a", snap, now)
	assert.Equal(t, first, second, "aggregation holds no hidden mutable state")
}

func TestEmptySnapshotYieldsEmptyFeed(t *testing.T) {
	agg := newAggregator()
	feed := agg.BuildFeed("anyone", Snapshot{}, at(14, 12))
	assert.Empty(t, feed)
	assert.NotNil(t, feed)
}
