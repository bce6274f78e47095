package employee

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/frahmantamala/leave-approval/internal"
	employeeDatamodel "github.com/frahmantamala/leave-approval/internal/core/datamodel/employee"
	"github.com/frahmantamala/leave-approval/internal/core/events"
	"github.com/frahmantamala/leave-approval/internal/core/role"
)

// Repository is the identity store.
type Repository interface {
	Create(ctx context.Context, e *employeeDatamodel.Employee) error
	GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error)
	GetByEmail(ctx context.Context, email string) (*employeeDatamodel.Employee, error)
	List(ctx context.Context) ([]*employeeDatamodel.Employee, error)
	FindTopTier(ctx context.Context) (*employeeDatamodel.Employee, error)
	// DeleteCascade removes the employee, every request they authored or
	// are waiting on, and unlinks their subordinates, in one transaction.
	DeleteCascade(ctx context.Context, id int64) (removedRequests, unlinked int64, err error)
}

type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      Repository
	hasher    PasswordHasher
	publisher EventPublisher
	logger    *slog.Logger
}

func NewService(repo Repository, hasher PasswordHasher, publisher EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		hasher:    hasher,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

func (s *Service) Me(ctx context.Context, p *internal.Principal) (*Employee, error) {
	m, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return FromDataModel(m), nil
}

// List returns every employee ordered by id. Only the top and mid tiers see it.
func (s *Service) List(ctx context.Context, p *internal.Principal) ([]*Employee, error) {
	if !p.Is(role.Top) && !p.Is(role.Mid) {
		return nil, internal.ErrForbidden
	}
	ms, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, internal.NewInternalError("failed to list employees", err)
	}
	out := make([]*Employee, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromDataModel(m))
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, p *internal.Principal, dto CreateEmployeeDTO) (*Employee, error) {
	if !p.Is(role.Top) {
		return nil, internal.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	r, _ := role.Parse(dto.Role)
	email := NormalizeEmail(dto.Email)

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, internal.ErrEmailTaken
	} else if !errors.Is(err, internal.ErrEmployeeNotFound) {
		return nil, internal.NewInternalError("failed to check email", err)
	}

	if err := s.checkHierarchy(ctx, r, dto.ManagerID); err != nil {
		return nil, err
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	e := &Employee{
		Email:        email,
		Name:         strings.TrimSpace(dto.Name),
		Role:         r,
		ManagerID:    dto.ManagerID,
		PasswordHash: hash,
	}
	model := ToDataModel(e)
	if err := s.repo.Create(ctx, model); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.Error("failed to create employee", "error", err, "email", email)
		return nil, internal.NewInternalError("failed to create employee", err)
	}
	created := FromDataModel(model)

	s.logger.Info("employee created", "employee_id", created.ID, "role", created.Role, "created_by", p.ID)
	s.publish(ctx, events.NewEmployeeCreatedEvent(created.ID, string(created.Role), p.ID))
	return created, nil
}

// checkHierarchy enforces the reporting rules: the top tier has no manager
// and is unique; anyone else may only report to the tier directly above.
func (s *Service) checkHierarchy(ctx context.Context, r role.Role, managerID *int64) error {
	if r == role.Top {
		if managerID != nil {
			return internal.NewValidationFieldError("manager_id", "a top-tier employee cannot have a manager", internal.ErrCodeInvalidManager)
		}
		top, err := s.repo.FindTopTier(ctx)
		if err != nil {
			return internal.NewInternalError("failed to look up top tier", err)
		}
		if top != nil {
			return internal.ErrTopTierExists
		}
		return nil
	}

	if managerID == nil {
		return nil
	}
	manager, err := s.repo.GetByID(ctx, *managerID)
	if err != nil {
		if errors.Is(err, internal.ErrEmployeeNotFound) {
			return internal.NewValidationFieldError("manager_id", "manager does not exist", internal.ErrCodeInvalidManager)
		}
		return internal.NewInternalError("failed to look up manager", err)
	}
	want, _ := r.ManagerTier()
	if role.Role(manager.Role) != want {
		return internal.NewValidationFieldError("manager_id", "a "+string(r)+" employee must report to a "+string(want)+" employee", internal.ErrCodeInvalidManager)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, p *internal.Principal, id int64) error {
	if !p.Is(role.Top) {
		return internal.ErrForbidden
	}
	if id == p.ID {
		return internal.ErrCannotDeleteSelf
	}

	removed, unlinked, err := s.repo.DeleteCascade(ctx, id)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return appErr
		}
		s.logger.Error("failed to delete employee", "error", err, "employee_id", id)
		return internal.NewInternalError("failed to delete employee", err)
	}

	s.logger.Info("employee deleted",
		"employee_id", id,
		"deleted_by", p.ID,
		"removed_requests", removed,
		"unlinked_subordinates", unlinked)
	s.publish(ctx, events.NewEmployeeDeletedEvent(id, p.ID, removed, unlinked))
	return nil
}

// ManagerOf returns the direct manager of employeeID, nil if unassigned.
func (s *Service) ManagerOf(ctx context.Context, employeeID int64) (*int64, error) {
	m, err := s.repo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return m.ManagerID, nil
}

// TopTierID returns the id of the single top-tier employee, nil if missing.
func (s *Service) TopTierID(ctx context.Context) (*int64, error) {
	top, err := s.repo.FindTopTier(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to look up top tier", err)
	}
	if top == nil {
		return nil, nil
	}
	return &top.ID, nil
}
