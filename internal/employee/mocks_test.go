package employee_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/frahmantamala/leave-approval/internal"
	employeeDatamodel "github.com/frahmantamala/leave-approval/internal/core/datamodel/employee"
	"github.com/frahmantamala/leave-approval/internal/core/events"
)

type mockRepository struct {
	mu      sync.Mutex
	nextID  int64
	records map[int64]*employeeDatamodel.Employee
	// requests per employee id, counted by DeleteCascade
	requests map[int64]int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		records:  map[int64]*employeeDatamodel.Employee{},
		requests: map[int64]int64{},
	}
}

func (m *mockRepository) seed(e *employeeDatamodel.Employee) *employeeDatamodel.Employee {
	if err := m.Create(context.Background(), e); err != nil {
		panic(err)
	}
	return e
}

func (m *mockRepository) Create(ctx context.Context, e *employeeDatamodel.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records {
		if rec.Email == e.Email {
			return internal.ErrEmailTaken
		}
	}
	m.nextID++
	e.ID = m.nextID
	cp := *e
	m.records[e.ID] = &cp
	return nil
}

func (m *mockRepository) GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, internal.ErrEmployeeNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *mockRepository) GetByEmail(ctx context.Context, email string) (*employeeDatamodel.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records {
		if rec.Email == email {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, internal.ErrEmployeeNotFound
}

func (m *mockRepository) List(ctx context.Context) ([]*employeeDatamodel.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*employeeDatamodel.Employee, 0, len(m.records))
	for _, rec := range m.records {
		cp := *rec
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockRepository) FindTopTier(ctx context.Context) (*employeeDatamodel.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records {
		if rec.Role == "top" {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockRepository) DeleteCascade(ctx context.Context, id int64) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return 0, 0, internal.ErrEmployeeNotFound
	}
	var unlinked int64
	for _, rec := range m.records {
		if rec.ManagerID != nil && *rec.ManagerID == id {
			rec.ManagerID = nil
			unlinked++
		}
	}
	delete(m.records, id)
	removed := m.requests[id]
	delete(m.requests, id)
	return removed, unlinked, nil
}

type fakeHasher struct {
	err error
}

func (f fakeHasher) HashPassword(password string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "hashed:" + password, nil
}

var errHash = errors.New("hash failed")

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
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

// fieldCodes returns the per-field codes carried by a validation error.
func fieldCodes(err error) []string {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		return nil
	}
	details, ok := appErr.Details.(internal.ValidationErrors)
	if !ok {
		return nil
	}
	codes := make([]string, 0, len(details.Errors))
	for _, e := range details.Errors {
		codes = append(codes, e.Code)
	}
	return codes
}
