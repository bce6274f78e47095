package leave_test

import (
	"context"
	"sort"
	"sync"

	"github.com/frahmantamala/leave-approval/internal"
	leaveDatamodel "github.com/frahmantamala/leave-approval/internal/core/datamodel/leave"
	"github.com/frahmantamala/leave-approval/internal/core/events"
)

type mockRepository struct {
	mu      sync.Mutex
	nextID  int64
	records map[int64]*leaveDatamodel.Request
	failErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{records: map[int64]*leaveDatamodel.Request{}}
}

func (m *mockRepository) Create(ctx context.Context, req *leaveDatamodel.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.nextID++
	req.ID = m.nextID
	cp := *req
	m.records[req.ID] = &cp
	return nil
}

func (m *mockRepository) GetByID(ctx context.Context, id int64) (*leaveDatamodel.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, internal.ErrRequestNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *mockRepository) list(match func(*leaveDatamodel.Request) bool) []*leaveDatamodel.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*leaveDatamodel.Request
	for _, rec := range m.records {
		if match(rec) {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m *mockRepository) ListByEmployee(ctx context.Context, employeeID int64) ([]*leaveDatamodel.Request, error) {
	return m.list(func(r *leaveDatamodel.Request) bool { return r.EmployeeID == employeeID }), nil
}

func (m *mockRepository) ListByApprover(ctx context.Context, approverID int64, status string) ([]*leaveDatamodel.Request, error) {
	return m.list(func(r *leaveDatamodel.Request) bool { return r.ApproverID == approverID && r.Status == status }), nil
}

func (m *mockRepository) UpdateDecision(ctx context.Context, req *leaveDatamodel.Request, expectedVersion int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[req.ID]
	if !ok {
		return internal.ErrRequestNotFound
	}
	if rec.Version != expectedVersion {
		return internal.ErrStaleVersion
	}
	cp := *req
	m.records[req.ID] = &cp
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return internal.ErrRequestNotFound
	}
	delete(m.records, id)
	return nil
}

// bumpVersion simulates a concurrent writer.
func (m *mockRepository) bumpVersion(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[id].Version++
}

type mockDirectory struct {
	managers map[int64]*int64
	top      *int64
}

func (d *mockDirectory) ManagerOf(ctx context.Context, employeeID int64) (*int64, error) {
	m, ok := d.managers[employeeID]
	if !ok {
		return nil, internal.ErrEmployeeNotFound
	}
	return m, nil
}

func (d *mockDirectory) TopTierID(ctx context.Context) (*int64, error) {
	return d.top, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}
