package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-portal/internal/domain"
	"github.com/spec-kit/support-portal/internal/events"
)

// In-memory repository fakes shared by the service tests. Each fake keeps
// insertion order so list results are deterministic, and exposes an err
// field to simulate a store outage.

type fakeSupportRepo struct {
	mu       sync.Mutex
	tickets  []*domain.SupportTicket
	protocol int64
	listErr  error
}

func (f *fakeSupportRepo) Create(_ context.Context, t *domain.SupportTicket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.protocol++
	t.ID = fmt.Sprintf("sup-%d", f.protocol)
	t.Protocol = f.protocol
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	copied := *t
	f.tickets = append(f.tickets, &copied)
	return nil
}

func (f *fakeSupportRepo) GetByID(_ context.Context, id string) (*domain.SupportTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tickets {
		if t.ID == id {
			copied := *t
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeSupportRepo) List(_ context.Context) ([]domain.SupportTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.SupportTicket, 0, len(f.tickets))
	for _, t := range f.tickets {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeSupportRepo) ListByCreator(ctx context.Context, creatorID string) ([]domain.SupportTicket, error) {
	all, err := f.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.SupportTicket, 0)
	for _, t := range all {
		if t.CreatorID == creatorID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeSupportRepo) UpdateStatus(_ context.Context, id string, status domain.SupportStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tickets {
		if t.ID == id {
			t.Status = status
			t.UpdatedAt = time.Now()
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeSupportRepo) UpdateAssignee(_ context.Context, id string, attendantID *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tickets {
		if t.ID == id {
			t.AssigneeID = attendantID
			t.UpdatedAt = time.Now()
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeSupportRepo) MarkViewed(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tickets {
		if t.ID == id {
			t.ViewedByCreator = true
			t.UpdatedAt = time.Now()
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeCollectionsRepo struct {
	mu       sync.Mutex
	tickets  []*domain.CollectionsTicket
	protocol int64
	listErr  error
}

func (f *fakeCollectionsRepo) Create(_ context.Context, t *domain.CollectionsTicket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.protocol++
	t.ID = fmt.Sprintf("col-%d", f.protocol)
	t.Protocol = f.protocol
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	copied := *t
	f.tickets = append(f.tickets, &copied)
	return nil
}

func (f *fakeCollectionsRepo) GetByID(_ context.Context, id string) (*domain.CollectionsTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tickets {
		if t.ID == id {
			copied := *t
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeCollectionsRepo) List(_ context.Context) ([]domain.CollectionsTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.CollectionsTicket, 0, len(f.tickets))
	for _, t := range f.tickets {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeCollectionsRepo) ListByCreator(ctx context.Context, creatorID string) ([]domain.CollectionsTicket, error) {
	all, err := f.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.CollectionsTicket, 0)
	for _, t := range all {
		if t.CreatorID == creatorID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeCollectionsRepo) UpdateStatus(_ context.Context, id string, status domain.CollectionsStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tickets {
		if t.ID == id {
			t.Status = status
			t.UpdatedAt = time.Now()
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeCollectionsRepo) UpdateAssignee(_ context.Context, id string, attendantID *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tickets {
		if t.ID == id {
			t.AssigneeID = attendantID
			t.UpdatedAt = time.Now()
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeCollectionsRepo) UpdateReturn(_ context.Context, id string, outcome domain.ReturnOutcome, note string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tickets {
		if t.ID == id {
			t.ReturnOutcome = outcome
			t.ReturnNote = note
			t.UpdatedAt = time.Now()
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakePostAwardRepo struct {
	mu       sync.Mutex
	tickets  []*domain.PostAwardTicket
	protocol int64
	listErr  error
}

func (f *fakePostAwardRepo) Create(_ context.Context, t *domain.PostAwardTicket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.protocol++
	t.ID = fmt.Sprintf("pa-%d", f.protocol)
	t.Protocol = f.protocol
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	copied := *t
	f.tickets = append(f.tickets, &copied)
	return nil
}

func (f *fakePostAwardRepo) GetByID(_ context.Context, id string) (*domain.PostAwardTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tickets {
		if t.ID == id {
			copied := *t
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakePostAwardRepo) List(_ context.Context) ([]domain.PostAwardTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.PostAwardTicket, 0, len(f.tickets))
	for _, t := range f.tickets {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakePostAwardRepo) ListByCreator(ctx context.Context, creatorID string) ([]domain.PostAwardTicket, error) {
	all, err := f.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PostAwardTicket, 0)
	for _, t := range all {
		if t.CreatorID == creatorID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakePostAwardRepo) UpdateStatus(_ context.Context, id string, status domain.PostAwardStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tickets {
		if t.ID == id {
			t.Status = status
			t.UpdatedAt = time.Now()
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakePostAwardRepo) UpdateAssignee(_ context.Context, id string, attendantID *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tickets {
		if t.ID == id {
			t.AssigneeID = attendantID
			t.UpdatedAt = time.Now()
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakePostAwardRepo) MarkViewed(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tickets {
		if t.ID == id {
			t.ViewedByCreator = true
			t.UpdatedAt = time.Now()
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeAttendantRepo struct {
	mu         sync.Mutex
	attendants []*domain.Attendant
}

func (f *fakeAttendantRepo) Create(_ context.Context, a *domain.Attendant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID == "" {
		a.ID = fmt.Sprintf("att-%d", len(f.attendants)+1)
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	copied := *a
	f.attendants = append(f.attendants, &copied)
	return nil
}

func (f *fakeAttendantRepo) GetByID(_ context.Context, id string) (*domain.Attendant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.attendants {
		if a.ID == id {
			copied := *a
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAttendantRepo) GetByEmail(_ context.Context, email string) (*domain.Attendant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.attendants {
		if a.Email == email {
			copied := *a
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAttendantRepo) List(_ context.Context) ([]domain.Attendant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Attendant, 0, len(f.attendants))
	for _, a := range f.attendants {
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeAttendantRepo) ListActiveInQueue(_ context.Context) ([]domain.Attendant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Attendant, 0, len(f.attendants))
	for _, a := range f.attendants {
		if a.ActiveInQueue {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAttendantRepo) SetQueueActive(_ context.Context, id string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.attendants {
		if a.ID == id {
			a.ActiveInQueue = active
			a.UpdatedAt = time.Now()
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeReasonRepo struct {
	mu          sync.Mutex
	assignments []domain.ReasonAssignment
}

func (f *fakeReasonRepo) GetAll(_ context.Context) ([]domain.ReasonAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.ReasonAssignment, len(f.assignments))
	copy(out, f.assignments)
	return out, nil
}

func (f *fakeReasonRepo) Set(_ context.Context, reason string, attendantIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, ra := range f.assignments {
		if ra.Reason == reason {
			if len(attendantIDs) == 0 {
				f.assignments = append(f.assignments[:i], f.assignments[i+1:]...)
				return nil
			}
			f.assignments[i].AttendantIDs = attendantIDs
			return nil
		}
	}
	if len(attendantIDs) > 0 {
		f.assignments = append(f.assignments, domain.ReasonAssignment{Reason: reason, AttendantIDs: attendantIDs})
	}
	return nil
}

type fakeHistoryRepo struct {
	mu      sync.Mutex
	entries []domain.TicketHistory
}

func (f *fakeHistoryRepo) Create(_ context.Context, h *domain.TicketHistory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	h.ID = fmt.Sprintf("hist-%d", len(f.entries)+1)
	h.CreatedAt = time.Now()
	f.entries = append(f.entries, *h)
	return nil
}

func (f *fakeHistoryRepo) ListByTicket(_ context.Context, dom domain.Domain, ticketID string) ([]domain.TicketHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.TicketHistory, 0)
	for _, h := range f.entries {
		if h.Domain == dom && h.TicketID == ticketID {
			out = append(out, h)
		}
	}
	return out, nil
}

// capturingDispatcher records published events for assertions.
type capturingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *capturingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *capturingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *capturingDispatcher) byType(t events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.Event, 0)
	for _, e := range d.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
