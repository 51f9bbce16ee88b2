package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSupportStatusMembership(t *testing.T) {
	for _, s := range []SupportStatus{SupportStatusNew, SupportStatusInProgress, SupportStatusOverdue, SupportStatusDone} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, SupportStatus("OPEN").Valid(), "no domain mixes another domain's statuses")
	assert.False(t, SupportStatus("").Valid())
	assert.True(t, SupportStatusDone.Terminal())
	assert.False(t, SupportStatusOverdue.Terminal())
}

func TestCollectionsStatusMembership(t *testing.T) {
	for _, s := range []CollectionsStatus{
		CollectionsStatusOpen, CollectionsStatusUnderReview, CollectionsStatusForwarded,
		CollectionsStatusResponded, CollectionsStatusReopened, CollectionsStatusResolved,
	} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, CollectionsStatus("NEW").Valid())
	assert.True(t, CollectionsStatusResolved.Terminal())
	assert.True(t, CollectionsStatusOpen.FreshlyOpened())
	assert.False(t, CollectionsStatusReopened.FreshlyOpened())
}

func TestPostAwardStatusMembership(t *testing.T) {
	for _, s := range []PostAwardStatus{
		PostAwardStatusOpen, PostAwardStatusUnderReview, PostAwardStatusUrgent,
		PostAwardStatusReturned, PostAwardStatusResolved,
	} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, PostAwardStatus("DONE").Valid())
	assert.True(t, PostAwardStatusResolved.Terminal())
	assert.False(t, PostAwardStatusReturned.Terminal())
}

func TestApplyStatusIsLenientWithinDomain(t *testing.T) {
	ticket := &SupportTicket{Status: SupportStatusDone}

	// Operators may move a ticket backwards; only foreign values fail.
	assert.NoError(t, ticket.ApplyStatus(SupportStatusNew))
	assert.Equal(t, SupportStatusNew, ticket.Status)

	err := ticket.ApplyStatus(SupportStatus("RESOLVED"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Equal(t, SupportStatusNew, ticket.Status, "stored status untouched on rejection")
}

func TestStatusLookupsCoverAllValues(t *testing.T) {
	for _, s := range []SupportStatus{SupportStatusNew, SupportStatusInProgress, SupportStatusOverdue, SupportStatusDone} {
		assert.NotEqual(t, string(s), s.Label())
		assert.NotEmpty(t, s.Color())
	}
	for _, s := range []CollectionsStatus{
		CollectionsStatusOpen, CollectionsStatusUnderReview, CollectionsStatusForwarded,
		CollectionsStatusResponded, CollectionsStatusReopened, CollectionsStatusResolved,
	} {
		assert.NotEmpty(t, s.Label())
		assert.NotEmpty(t, s.Color())
	}
	for _, s := range []PostAwardStatus{
		PostAwardStatusOpen, PostAwardStatusUnderReview, PostAwardStatusUrgent,
		PostAwardStatusReturned, PostAwardStatusResolved,
	} {
		assert.NotEmpty(t, s.Label())
		assert.NotEmpty(t, s.Color())
	}
}
