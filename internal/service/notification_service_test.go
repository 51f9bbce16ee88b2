package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-portal/internal/config"
	"github.com/spec-kit/support-portal/internal/domain"
	"github.com/spec-kit/support-portal/internal/events"
	"github.com/spec-kit/support-portal/internal/notification"
	"github.com/spec-kit/support-portal/internal/sla"
)

func newNotificationFixture() (*NotificationService, *fakeSupportRepo, *fakeCollectionsRepo, *fakePostAwardRepo, *capturingDispatcher) {
	support := &fakeSupportRepo{}
	collections := &fakeCollectionsRepo{}
	postAward := &fakePostAwardRepo{}
	dispatcher := &capturingDispatcher{}

	svc := NewNotificationService(NotificationDependencies{
		SupportRepo:     support,
		CollectionsRepo: collections,
		PostAwardRepo:   postAward,
		Aggregator:      notification.NewAggregator(sla.NewClock(sla.DefaultThresholdHours)),
		Config:          config.NotificationConfig{FeedCacheTTLSeconds: 0},
		Dispatcher:      dispatcher,
	})
	return svc, support, collections, postAward, dispatcher
}

func TestFeedCollectsAcrossDomains(t *testing.T) {
	svc, support, collections, _, _ := newNotificationFixture()
	ctx := context.Background()

	require.NoError(t, support.Create(ctx, &domain.SupportTicket{
		CreatorID: "user-1",
		Subject:   "done ticket",
		Status:    domain.SupportStatusDone,
	}))
	require.NoError(t, collections.Create(ctx, &domain.CollectionsTicket{
		CreatorID: "user-1",
		Subject:   "responded ticket",
		Status:    domain.CollectionsStatusResponded,
	}))

	feed, err := svc.Feed(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, feed.Degraded)
	require.Len(t, feed.Items, 2)
}

func TestFeedDegradesSingleDomainOnly(t *testing.T) {
	svc, support, collections, _, _ := newNotificationFixture()
	ctx := context.Background()

	require.NoError(t, support.Create(ctx, &domain.SupportTicket{
		CreatorID: "user-1",
		Subject:   "done ticket",
		Status:    domain.SupportStatusDone,
	}))
	collections.listErr = errors.New("connection refused")

	feed, err := svc.Feed(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, feed.Degraded)
	require.Len(t, feed.Items, 1)
	assert.Equal(t, domain.DomainSupport, feed.Items[0].Domain)
}

func TestDismissMarksViewedAndIsOneWay(t *testing.T) {
	svc, support, _, _, dispatcher := newNotificationFixture()
	ctx := context.Background()

	ticket := &domain.SupportTicket{
		CreatorID: "user-1",
		Subject:   "done ticket",
		Status:    domain.SupportStatusDone,
	}
	require.NoError(t, support.Create(ctx, ticket))

	require.NoError(t, svc.Dismiss(ctx, "user-1", domain.DomainSupport, ticket.ID))
	stored, err := support.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.True(t, stored.ViewedByCreator)
	assert.Len(t, dispatcher.byType(events.EventTicketDismissed), 1)

	// Repeat dismissals are silent no-ops and emit nothing further.
	require.NoError(t, svc.Dismiss(ctx, "user-1", domain.DomainSupport, ticket.ID))
	assert.Len(t, dispatcher.byType(events.EventTicketDismissed), 1)

	feed, err := svc.Feed(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, feed.Items)
}

func TestDismissNonDismissibleStateIsNoOp(t *testing.T) {
	svc, support, _, _, dispatcher := newNotificationFixture()
	ctx := context.Background()

	ticket := &domain.SupportTicket{
		CreatorID: "user-1",
		Subject:   "open ticket",
		Status:    domain.SupportStatusInProgress,
	}
	require.NoError(t, support.Create(ctx, ticket))

	require.NoError(t, svc.Dismiss(ctx, "user-1", domain.DomainSupport, ticket.ID))
	stored, err := support.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.False(t, stored.ViewedByCreator)
	assert.Empty(t, dispatcher.byType(events.EventTicketDismissed))
}

func TestDismissOtherUsersTicketIsNoOp(t *testing.T) {
	svc, support, _, _, _ := newNotificationFixture()
	ctx := context.Background()

	ticket := &domain.SupportTicket{
		CreatorID: "user-1",
		Subject:   "done ticket",
		Status:    domain.SupportStatusDone,
	}
	require.NoError(t, support.Create(ctx, ticket))

	require.NoError(t, svc.Dismiss(ctx, "user-2", domain.DomainSupport, ticket.ID))
	stored, err := support.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.False(t, stored.ViewedByCreator)
}

func TestDismissCollectionsIsAlwaysNoOp(t *testing.T) {
	svc, _, collections, _, dispatcher := newNotificationFixture()
	ctx := context.Background()

	ticket := &domain.CollectionsTicket{
		CreatorID: "user-1",
		Subject:   "responded ticket",
		Status:    domain.CollectionsStatusResponded,
	}
	require.NoError(t, collections.Create(ctx, ticket))

	require.NoError(t, svc.Dismiss(ctx, "user-1", domain.DomainCollections, ticket.ID))
	assert.Empty(t, dispatcher.byType(events.EventTicketDismissed))

	// The responded notification keeps showing; collections items cannot
	// be cleared from the feed.
	feed, err := svc.Feed(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, feed.Items, 1)
	assert.False(t, feed.Items[0].Dismissible)
}

func TestDismissPostAwardResolved(t *testing.T) {
	svc, _, _, postAward, _ := newNotificationFixture()
	ctx := context.Background()

	ticket := &domain.PostAwardTicket{
		CreatorID: "user-1",
		Subject:   "resolved award",
		Status:    domain.PostAwardStatusResolved,
	}
	require.NoError(t, postAward.Create(ctx, ticket))

	require.NoError(t, svc.Dismiss(ctx, "user-1", domain.DomainPostAward, ticket.ID))
	stored, err := postAward.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.True(t, stored.ViewedByCreator)
}

func TestAffectedPrincipals(t *testing.T) {
	assignee := "att-1"
	ev := events.Event{
		Actor:   events.Actor{Type: domain.SubjectTypeUser, UserID: strPtr("user-1")},
		Payload: events.TicketCreatedPayload{CreatorID: "user-1", AssigneeID: &assignee},
	}
	ids := affectedPrincipals(ev)
	assert.Contains(t, ids, "user-1")
	assert.Contains(t, ids, "att-1")
}

func strPtr(s string) *string { return &s }
