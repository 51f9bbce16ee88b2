// Package sla computes elapsed business time for tickets and derives the
// OUT_OF_SLA display overlay. Everything here is a pure function of the
// ticket's creation time and the caller-supplied wall clock; the derived
// status is never persisted.
package sla

import (
	"time"

	"github.com/rickar/cal/v2"

	"github.com/spec-kit/support-portal/internal/domain"
)

// DefaultThresholdHours is the business-hours budget before a still-open
// ticket is displayed as OUT_OF_SLA.
const DefaultThresholdHours = 24

// workdayStart is where weekend-created tickets are re-anchored on Monday.
const workdayStart = 8 * time.Hour

// Clock measures business hours. A business hour is one hour of wall-clock
// time falling on a Monday through Friday; weekend days contribute zero.
type Clock struct {
	calendar  *cal.BusinessCalendar
	threshold float64
}

// NewClock builds a clock with the given threshold in business hours.
// Non-positive thresholds fall back to the default.
func NewClock(thresholdHours float64) *Clock {
	if thresholdHours <= 0 {
		thresholdHours = DefaultThresholdHours
	}
	c := cal.NewBusinessCalendar()
	c.SetWorkday(time.Saturday, false)
	c.SetWorkday(time.Sunday, false)
	// Whole weekdays count, not office hours.
	c.SetWorkHours(0, 24*time.Hour)
	return &Clock{calendar: c, threshold: thresholdHours}
}

// BusinessHours returns the working hours elapsed between createdAt and
// now. Tickets created on a Saturday or Sunday are anchored to the
// following Monday at 08:00 before accumulation starts. A zero createdAt
// yields zero rather than an error, so one malformed row never aborts a
// whole feed.
func (c *Clock) BusinessHours(createdAt, now time.Time) float64 {
	if createdAt.IsZero() {
		return 0
	}
	anchor := shiftWeekendAnchor(createdAt)
	if !now.After(anchor) {
		return 0
	}
	return c.calendar.WorkHoursInRange(anchor, now).Hours()
}

// OutOfSLA reports whether the elapsed business hours exceed the threshold.
func (c *Clock) OutOfSLA(createdAt, now time.Time) bool {
	return c.BusinessHours(createdAt, now) > c.threshold
}

// EffectiveSupport returns the display status for a support ticket. The
// support domain stores OVERDUE explicitly, so the stored status always
// passes through unchanged.
func (c *Clock) EffectiveSupport(t *domain.SupportTicket) domain.DisplayStatus {
	return domain.DisplayStatus(t.Status)
}

// EffectiveCollections returns the display status for a collections ticket:
// the stored status, overlaid with OUT_OF_SLA while it is still OPEN past
// the threshold.
func (c *Clock) EffectiveCollections(t *domain.CollectionsTicket, now time.Time) domain.DisplayStatus {
	if t.Status.FreshlyOpened() && c.OutOfSLA(t.CreatedAt, now) {
		return domain.DisplayOutOfSLA
	}
	return domain.DisplayStatus(t.Status)
}

// EffectivePostAward returns the display status for a post-award ticket,
// with the same OPEN-only overlay rule as collections. A ticket whose
// stored status has moved past OPEN never receives the overlay, however
// stale it is.
func (c *Clock) EffectivePostAward(t *domain.PostAwardTicket, now time.Time) domain.DisplayStatus {
	if t.Status.FreshlyOpened() && c.OutOfSLA(t.CreatedAt, now) {
		return domain.DisplayOutOfSLA
	}
	return domain.DisplayStatus(t.Status)
}

// shiftWeekendAnchor moves weekend creation times forward to Monday at the
// start of the working day. Weekday times, including Friday 23:00, are kept
// as-is so late-week tickets accumulate from the minute they were opened.
func shiftWeekendAnchor(t time.Time) time.Time {
	var monday time.Time
	switch t.Weekday() {
	case time.Saturday:
		monday = t.AddDate(0, 0, 2)
	case time.Sunday:
		monday = t.AddDate(0, 0, 1)
	default:
		return t
	}
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, monday.Location()).
		Add(workdayStart)
}
