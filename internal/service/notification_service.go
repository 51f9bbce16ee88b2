package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/support-portal/internal/config"
	"github.com/spec-kit/support-portal/internal/domain"
	"github.com/spec-kit/support-portal/internal/events"
	"github.com/spec-kit/support-portal/internal/notification"
	"github.com/spec-kit/support-portal/internal/observability"
	"github.com/spec-kit/support-portal/internal/repository"
)

const feedCacheKeyPrefix = "notify:feed:"

// Feed is the assembled notification list for one principal, with a flag
// marking whether any domain's snapshot could not be fetched.
type Feed struct {
	Items    []notification.Item `json:"items"`
	Degraded bool                `json:"degraded"`
}

// NotificationService assembles the cross-domain notification feed and
// handles dismissals. Each domain's snapshot is fetched independently: one
// store failing empties that domain's slice and flags the feed degraded,
// it never blanks the other two.
type NotificationService struct {
	support     repository.SupportTicketRepository
	collections repository.CollectionsTicketRepository
	postAward   repository.PostAwardTicketRepository
	aggregator  *notification.Aggregator
	cache       *redis.Client
	cacheTTL    time.Duration
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// NotificationDependencies bundles collaborators for the notification
// service.
type NotificationDependencies struct {
	SupportRepo     repository.SupportTicketRepository
	CollectionsRepo repository.CollectionsTicketRepository
	PostAwardRepo   repository.PostAwardTicketRepository
	Aggregator      *notification.Aggregator
	Cache           *redis.Client
	Config          config.NotificationConfig
	Dispatcher      events.Dispatcher
	Metrics         *observability.Metrics
	Logger          *zap.Logger
}

// NewNotificationService constructs the service. Cache may be nil; the
// feed is then rebuilt on every request.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	return &NotificationService{
		support:     deps.SupportRepo,
		collections: deps.CollectionsRepo,
		postAward:   deps.PostAwardRepo,
		aggregator:  deps.Aggregator,
		cache:       deps.Cache,
		cacheTTL:    deps.Config.FeedCacheTTL(),
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		logger:      deps.Logger,
	}
}

// RegisterHandlers subscribes cache invalidation to ticket events so a
// principal never waits a full TTL to see their own change.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, et := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketStatusChanged,
		events.EventTicketAssigned,
		events.EventTicketCompleted,
		events.EventTicketDismissed,
	} {
		n.dispatcher.Subscribe(et, n.handleInvalidate)
	}
}

// Feed returns the principal's notification feed, served from cache when
// fresh. Degraded feeds are never cached.
func (n *NotificationService) Feed(ctx context.Context, principalID string) (*Feed, error) {
	if cached := n.fromCache(ctx, principalID); cached != nil {
		return cached, nil
	}

	start := time.Now()
	snap, degraded := n.snapshot(ctx)
	feed := &Feed{
		Items:    n.aggregator.BuildFeed(principalID, snap, time.Now()),
		Degraded: degraded,
	}
	if n.metrics != nil {
		n.metrics.ObserveFeedBuild(time.Since(start))
	}

	if !degraded {
		n.toCache(ctx, principalID, feed)
	}
	return feed, nil
}

// Dismiss marks a completed ticket's notification as viewed by its
// creator. Dismissing a ticket that is not in a dismissible state, or not
// the caller's, is a silent no-op.
func (n *NotificationService) Dismiss(ctx context.Context, userID string, dom domain.Domain, ticketID string) error {
	switch dom {
	case domain.DomainSupport:
		ticket, err := n.support.GetByID(ctx, ticketID)
		if err != nil {
			return err
		}
		if ticket.CreatorID != userID || !notification.SupportDismissible(ticket.Status) || ticket.ViewedByCreator {
			return nil
		}
		if err := n.support.MarkViewed(ctx, ticket.ID); err != nil {
			return err
		}
	case domain.DomainPostAward:
		ticket, err := n.postAward.GetByID(ctx, ticketID)
		if err != nil {
			return err
		}
		if ticket.CreatorID != userID || !notification.PostAwardDismissible(ticket.Status) || ticket.ViewedByCreator {
			return nil
		}
		if err := n.postAward.MarkViewed(ctx, ticket.ID); err != nil {
			return err
		}
	default:
		// Collections notifications carry no viewed flag and cannot be
		// dismissed.
		return nil
	}

	if n.metrics != nil {
		n.metrics.IncDismissed()
	}
	if n.dispatcher != nil {
		_ = n.dispatcher.Publish(ctx, events.Event{
			Type:      events.EventTicketDismissed,
			Domain:    dom,
			TicketID:  ticketID,
			Actor:     userActor(userID),
			Timestamp: time.Now(),
			Payload:   events.TicketDismissedPayload{CreatorID: userID},
		})
	}
	n.invalidate(ctx, userID)
	return nil
}

// snapshot pulls all three domains concurrently. A failed domain comes
// back as an empty slice and trips the degraded flag.
func (n *NotificationService) snapshot(ctx context.Context) (notification.Snapshot, bool) {
	var (
		snap notification.Snapshot
		errs [3]error
		wg   sync.WaitGroup
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		snap.Support, errs[0] = n.support.List(ctx)
	}()
	go func() {
		defer wg.Done()
		snap.Collections, errs[1] = n.collections.List(ctx)
	}()
	go func() {
		defer wg.Done()
		snap.PostAward, errs[2] = n.postAward.List(ctx)
	}()
	wg.Wait()

	degraded := false
	for i, dom := range []domain.Domain{domain.DomainSupport, domain.DomainCollections, domain.DomainPostAward} {
		if errs[i] == nil {
			continue
		}
		degraded = true
		if n.metrics != nil {
			n.metrics.IncSnapshotError(string(dom))
		}
		if n.logger != nil {
			n.logger.Error("notification snapshot fetch failed",
				zap.String("domain", string(dom)),
				zap.Error(errs[i]))
		}
	}
	if errs[0] != nil {
		snap.Support = nil
	}
	if errs[1] != nil {
		snap.Collections = nil
	}
	if errs[2] != nil {
		snap.PostAward = nil
	}
	return snap, degraded
}

func (n *NotificationService) handleInvalidate(ctx context.Context, event events.Event) error {
	for _, id := range affectedPrincipals(event) {
		n.invalidate(ctx, id)
	}
	return nil
}

// affectedPrincipals lists the feed owners a given event can change. Not
// every payload names everyone involved; the cache TTL covers the rest.
func affectedPrincipals(event events.Event) []string {
	var ids []string
	switch p := event.Payload.(type) {
	case events.TicketCreatedPayload:
		ids = append(ids, p.CreatorID)
		if p.AssigneeID != nil {
			ids = append(ids, *p.AssigneeID)
		}
	case events.TicketAssignedPayload:
		if p.AssigneeID != nil {
			ids = append(ids, *p.AssigneeID)
		}
	case events.TicketCompletedPayload:
		ids = append(ids, p.CreatorID)
	case events.TicketDismissedPayload:
		ids = append(ids, p.CreatorID)
	}
	if event.Actor.UserID != nil {
		ids = append(ids, *event.Actor.UserID)
	}
	if event.Actor.AttendantID != nil {
		ids = append(ids, *event.Actor.AttendantID)
	}
	return ids
}

func (n *NotificationService) fromCache(ctx context.Context, principalID string) *Feed {
	if n.cache == nil || n.cacheTTL <= 0 {
		return nil
	}
	raw, err := n.cache.Get(ctx, feedCacheKey(principalID)).Bytes()
	if err != nil {
		return nil
	}
	var feed Feed
	if err := json.Unmarshal(raw, &feed); err != nil {
		return nil
	}
	return &feed
}

func (n *NotificationService) toCache(ctx context.Context, principalID string, feed *Feed) {
	if n.cache == nil || n.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(feed)
	if err != nil {
		return
	}
	if err := n.cache.Set(ctx, feedCacheKey(principalID), raw, n.cacheTTL).Err(); err != nil && n.logger != nil {
		n.logger.Debug("feed cache write failed", zap.Error(err))
	}
}

func (n *NotificationService) invalidate(ctx context.Context, principalID string) {
	if n.cache == nil {
		return
	}
	_ = n.cache.Del(ctx, feedCacheKey(principalID)).Err()
}

func feedCacheKey(principalID string) string {
	return fmt.Sprintf("%s%s", feedCacheKeyPrefix, principalID)
}
