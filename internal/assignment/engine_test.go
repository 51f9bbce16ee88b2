package assignment

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-portal/internal/domain"
)

func activeAttendants(ids ...string) []domain.Attendant {
	out := make([]domain.Attendant, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Attendant{ID: id, ActiveInQueue: true})
	}
	return out
}

func TestRoundRobinEachAttendantOnce(t *testing.T) {
	engine := NewEngine()
	engine.SetAttendants(activeAttendants("a", "b", "c"))

	var got []string
	for i := 0; i < 3; i++ {
		id, ok := engine.Assign("General")
		require.True(t, ok)
		got = append(got, id)
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)

	// Cursor wraps after the Nth call.
	id, ok := engine.Assign("General")
	require.True(t, ok)
	assert.Equal(t, "a", id)
}

func TestAssignNoActiveAttendants(t *testing.T) {
	engine := NewEngine()

	_, ok := engine.Assign("General")
	assert.False(t, ok)

	engine.SetAttendants([]domain.Attendant{{ID: "a", ActiveInQueue: false}})
	_, ok = engine.Assign("General")
	assert.False(t, ok)
}

func TestReasonOverridePreemptsRotation(t *testing.T) {
	engine := NewEngine()
	engine.SetAttendants(activeAttendants("a", "b", "c"))
	engine.SetReasonAssignments([]domain.ReasonAssignment{
		{Reason: "Billing", AttendantIDs: []string{"b"}},
	})

	for i := 0; i < 5; i++ {
		id, ok := engine.Assign("Billing")
		require.True(t, ok)
		assert.Equal(t, "b", id)
	}

	// The global cursor never moved while the override was winning.
	id, ok := engine.Assign("General")
	require.True(t, ok)
	assert.Equal(t, "a", id)
}

func TestReasonOverrideRotatesWithinSubset(t *testing.T) {
	engine := NewEngine()
	engine.SetAttendants(activeAttendants("a", "b", "c", "d"))
	engine.SetReasonAssignments([]domain.ReasonAssignment{
		{Reason: "Billing", AttendantIDs: []string{"c", "d"}},
	})

	var got []string
	for i := 0; i < 4; i++ {
		id, ok := engine.Assign("Billing")
		require.True(t, ok)
		got = append(got, id)
	}
	assert.Equal(t, []string{"c", "d", "c", "d"}, got)
}

func TestEmptyOverrideFallsBackToRotation(t *testing.T) {
	engine := NewEngine()
	engine.SetAttendants(activeAttendants("a", "b"))
	engine.SetReasonAssignments([]domain.ReasonAssignment{
		{Reason: "Billing", AttendantIDs: nil},
	})

	id, ok := engine.Assign("Billing")
	require.True(t, ok)
	assert.Equal(t, "a", id)
}

func TestToggleClampsCursorInsteadOfResetting(t *testing.T) {
	rotation := NewRotation([]string{"a", "b", "c"})

	_, _ = rotation.Next() // consumes a; cursor at b
	rotation.SetOrder([]string{"a", "b", "c", "d"})

	id, ok := rotation.Next()
	require.True(t, ok)
	assert.Equal(t, "b", id, "cursor position survives a grow")

	// Shrink below the cursor: it wraps to the head rather than pointing
	// past the end.
	_, _ = rotation.Next() // consumes c; cursor at d
	rotation.SetOrder([]string{"a", "b"})
	id, ok = rotation.Next()
	require.True(t, ok)
	assert.Equal(t, "a", id)
}

func TestConcurrentAssignNeverDuplicatesSlot(t *testing.T) {
	engine := NewEngine()
	engine.SetAttendants(activeAttendants("a", "b", "c", "d", "e"))

	const rounds = 20 // 100 assignments, 20 per attendant
	results := make(chan string, 5*rounds)
	var wg sync.WaitGroup
	for i := 0; i < 5*rounds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, ok := engine.Assign("General")
			assert.True(t, ok)
			results <- id
		}()
	}
	wg.Wait()
	close(results)

	counts := make(map[string]int)
	for id := range results {
		counts[id]++
	}
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		assert.Equal(t, rounds, counts[id])
	}
}
