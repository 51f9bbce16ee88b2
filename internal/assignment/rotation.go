// Package assignment decides the assignee for newly created support
// tickets: a round-robin rotation over queue-active attendants, preempted
// by reason-based overrides.
package assignment

import "sync"

// Rotation is an ordered list of attendant ids with a cursor marking whose
// turn is next. It is the only process-wide mutable state of the engine and
// is mutex-guarded so two concurrent ticket creations never receive the
// same slot.
type Rotation struct {
	mu     sync.Mutex
	order  []string
	cursor int
}

// NewRotation builds a rotation over the given attendant ids, cursor at the
// head.
func NewRotation(attendantIDs []string) *Rotation {
	r := &Rotation{}
	r.SetOrder(attendantIDs)
	return r
}

// SetOrder rebuilds the list after an attendant toggle. The cursor keeps
// its position when still in range and wraps to the head only when past the
// new end, so a toggle does not hand the next ticket to the first attendant
// every time.
func (r *Rotation) SetOrder(attendantIDs []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append([]string(nil), attendantIDs...)
	if r.cursor >= len(r.order) {
		r.cursor = 0
	}
}

// Next returns the attendant at the cursor and advances it, wrapping past
// the end. ok is false when nobody is in the rotation.
func (r *Rotation) Next() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.order) == 0 {
		return "", false
	}
	id := r.order[r.cursor]
	r.cursor = (r.cursor + 1) % len(r.order)
	return id, true
}

// Peek returns the attendant at the cursor without consuming the turn.
func (r *Rotation) Peek() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.order) == 0 {
		return "", false
	}
	return r.order[r.cursor], true
}

// Len returns the number of attendants in the rotation.
func (r *Rotation) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}
