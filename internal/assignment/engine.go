package assignment

import (
	"sync"

	"github.com/spec-kit/support-portal/internal/domain"
)

// Engine chooses the assignee for a new support ticket. A ticket whose
// reason has a configured attendant set rotates within that subset on its
// own cursor; everything else goes through the global rotation. Assignment
// never fails hard: with nobody active the ticket is simply created
// unassigned.
type Engine struct {
	mu        sync.Mutex
	global    *Rotation
	overrides map[string]*Rotation
}

// NewEngine builds an empty engine; callers load attendants and reason
// assignments before the first ticket arrives.
func NewEngine() *Engine {
	return &Engine{
		global:    NewRotation(nil),
		overrides: make(map[string]*Rotation),
	}
}

// SetAttendants rebuilds the global rotation from the attendants whose
// queue flag is on, in the order given. Callers pass a deterministic order
// (the repository lists by creation time).
func (e *Engine) SetAttendants(attendants []domain.Attendant) {
	ids := make([]string, 0, len(attendants))
	for _, a := range attendants {
		if a.ActiveInQueue {
			ids = append(ids, a.ID)
		}
	}
	e.global.SetOrder(ids)
}

// SetReasonAssignments replaces the override table. Subset rotations for
// reasons that stay configured keep their cursor under the same clamp
// discipline as the global rotation; reasons with an empty set are removed
// and fall back to the rotation.
func (e *Engine) SetReasonAssignments(assignments []domain.ReasonAssignment) {
	e.mu.Lock()
	defer e.mu.Unlock()

	seen := make(map[string]struct{}, len(assignments))
	for _, ra := range assignments {
		if len(ra.AttendantIDs) == 0 {
			continue
		}
		seen[ra.Reason] = struct{}{}
		if sub, ok := e.overrides[ra.Reason]; ok {
			sub.SetOrder(ra.AttendantIDs)
		} else {
			e.overrides[ra.Reason] = NewRotation(ra.AttendantIDs)
		}
	}
	for reason := range e.overrides {
		if _, ok := seen[reason]; !ok {
			delete(e.overrides, reason)
		}
	}
}

// Assign picks the assignee for a ticket with the given reason. An override
// win never advances the global cursor. ok is false when the ticket should
// stay unassigned.
func (e *Engine) Assign(reason string) (string, bool) {
	e.mu.Lock()
	sub, ok := e.overrides[reason]
	e.mu.Unlock()
	if ok {
		if id, ok := sub.Next(); ok {
			return id, true
		}
	}
	return e.global.Next()
}

// ActiveCount reports how many attendants are in the global rotation.
func (e *Engine) ActiveCount() int {
	return e.global.Len()
}
