package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-portal/internal/domain"
)

// 2025-01-10 is a Friday; 11/12 the weekend; 13 Monday; 14 Tuesday.
func jan2025(day, hour, min int) time.Time {
	return time.Date(2025, time.January, day, hour, min, 0, 0, time.UTC)
}

func TestBusinessHoursWeekdayOnly(t *testing.T) {
	clock := NewClock(DefaultThresholdHours)

	tests := []struct {
		name      string
		createdAt time.Time
		now       time.Time
		want      float64
	}{
		{
			name:      "same weekday partial hour",
			createdAt: jan2025(10, 23, 0), // Friday 23:00
			now:       jan2025(10, 23, 30),
			want:      0.5,
		},
		{
			name:      "friday evening across weekend",
			createdAt: jan2025(10, 22, 0), // Friday 22:00
			now:       jan2025(13, 1, 0),  // Monday 01:00
			want:      3,                  // 2h Friday + 0 weekend + 1h Monday
		},
		{
			name:      "friday evening to following tuesday",
			createdAt: jan2025(10, 22, 0), // Friday 22:00
			now:       jan2025(14, 23, 0), // Tuesday 23:00
			want:      49,                 // 2 + 24 + 23
		},
		{
			name:      "weekend evaluation contributes nothing",
			createdAt: jan2025(10, 22, 0), // Friday 22:00
			now:       jan2025(12, 12, 0), // Sunday noon
			want:      2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clock.BusinessHours(tt.createdAt, tt.now)
			assert.InDelta(t, tt.want, got, 0.01)
		})
	}
}

func TestBusinessHoursWeekendShift(t *testing.T) {
	clock := NewClock(DefaultThresholdHours)
	evaluatedAt := jan2025(13, 9, 0) // Monday 09:00

	saturday := clock.BusinessHours(jan2025(11, 10, 0), evaluatedAt)
	sunday := clock.BusinessHours(jan2025(12, 15, 0), evaluatedAt)
	mondayAnchor := clock.BusinessHours(jan2025(13, 8, 0), evaluatedAt)

	// Saturday and Sunday creations behave exactly like a Monday 08:00 one.
	assert.InDelta(t, 1, mondayAnchor, 0.01)
	assert.InDelta(t, mondayAnchor, saturday, 0.01)
	assert.InDelta(t, mondayAnchor, sunday, 0.01)
}

func TestBusinessHoursBeforeAnchorIsZero(t *testing.T) {
	clock := NewClock(DefaultThresholdHours)

	// Created Saturday, evaluated Sunday: the Monday anchor is still ahead.
	assert.Zero(t, clock.BusinessHours(jan2025(11, 10, 0), jan2025(12, 20, 0)))
	// Zero timestamps never error and never accumulate.
	assert.Zero(t, clock.BusinessHours(time.Time{}, jan2025(13, 9, 0)))
}

func TestOutOfSLAThreshold(t *testing.T) {
	clock := NewClock(DefaultThresholdHours)

	created := jan2025(13, 8, 0) // Monday 08:00
	require.False(t, clock.OutOfSLA(created, jan2025(14, 8, 0)))  // exactly 24h
	require.True(t, clock.OutOfSLA(created, jan2025(14, 8, 30))) // 24.5h
}

func TestEffectiveCollectionsOverlay(t *testing.T) {
	clock := NewClock(DefaultThresholdHours)
	now := jan2025(14, 23, 0) // 49 business hours after Friday 22:00

	open := &domain.CollectionsTicket{
		Status:    domain.CollectionsStatusOpen,
		CreatedAt: jan2025(10, 22, 0),
	}
	assert.Equal(t, domain.DisplayOutOfSLA, clock.EffectiveCollections(open, now))

	// A ticket whose stored status moved past OPEN never gets the overlay,
	// no matter how stale it is.
	reviewed := &domain.CollectionsTicket{
		Status:    domain.CollectionsStatusUnderReview,
		CreatedAt: jan2025(10, 22, 0),
	}
	assert.Equal(t,
		domain.DisplayStatus(domain.CollectionsStatusUnderReview),
		clock.EffectiveCollections(reviewed, now))

	fresh := &domain.CollectionsTicket{
		Status:    domain.CollectionsStatusOpen,
		CreatedAt: jan2025(10, 22, 0),
	}
	assert.Equal(t,
		domain.DisplayStatus(domain.CollectionsStatusOpen),
		clock.EffectiveCollections(fresh, jan2025(13, 1, 0))) // only 3h elapsed
}

func TestEffectivePostAwardOverlay(t *testing.T) {
	clock := NewClock(DefaultThresholdHours)
	now := jan2025(14, 23, 0)

	open := &domain.PostAwardTicket{
		Status:    domain.PostAwardStatusOpen,
		CreatedAt: jan2025(10, 22, 0),
	}
	assert.Equal(t, domain.DisplayOutOfSLA, clock.EffectivePostAward(open, now))

	urgent := &domain.PostAwardTicket{
		Status:    domain.PostAwardStatusUrgent,
		CreatedAt: jan2025(10, 22, 0),
	}
	assert.Equal(t,
		domain.DisplayStatus(domain.PostAwardStatusUrgent),
		clock.EffectivePostAward(urgent, now))
}

func TestEffectiveSupportPassesThrough(t *testing.T) {
	clock := NewClock(DefaultThresholdHours)

	ticket := &domain.SupportTicket{
		Status:    domain.SupportStatusNew,
		CreatedAt: jan2025(2, 9, 0), // long past the threshold
	}
	assert.Equal(t,
		domain.DisplayStatus(domain.SupportStatusNew),
		clock.EffectiveSupport(ticket))
}
