package leave

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/leave-approval/internal"
	leaveDatamodel "github.com/frahmantamala/leave-approval/internal/core/datamodel/leave"
	"github.com/frahmantamala/leave-approval/internal/core/events"
)

// Repository is the request store.
type Repository interface {
	Create(ctx context.Context, req *leaveDatamodel.Request) error
	GetByID(ctx context.Context, id int64) (*leaveDatamodel.Request, error)
	ListByEmployee(ctx context.Context, employeeID int64) ([]*leaveDatamodel.Request, error)
	ListByApprover(ctx context.Context, approverID int64, status string) ([]*leaveDatamodel.Request, error)
	// UpdateDecision persists status, approver, period and version only if
	// the stored version still equals expectedVersion.
	UpdateDecision(ctx context.Context, req *leaveDatamodel.Request, expectedVersion int64) error
	Delete(ctx context.Context, id int64) error
}

// Directory answers the hierarchy questions routing depends on.
type Directory interface {
	ManagerOf(ctx context.Context, employeeID int64) (*int64, error)
	TopTierID(ctx context.Context) (*int64, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      Repository
	directory Directory
	publisher EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, directory Directory, publisher EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
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

func (s *Service) Create(ctx context.Context, p *internal.Principal, dto CreateRequestDTO) (*Request, error) {
	in, err := dto.Parse()
	if err != nil {
		s.logger.Warn("leave request validation failed", "error", err, "employee_id", p.ID)
		return nil, err
	}

	managerID, err := s.directory.ManagerOf(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	approverID, err := ResolveNextApprover(StatusPending, managerID, nil)
	if err != nil {
		s.logger.Warn("leave request has nobody to route to", "employee_id", p.ID)
		return nil, err
	}

	req := NewRequest(p.ID, approverID, in.Type, in.From, in.To, in.Comment, s.now())
	model := ToDataModel(req)
	if err := s.repo.Create(ctx, model); err != nil {
		s.logger.Error("failed to create leave request", "error", err, "employee_id", p.ID)
		return nil, internal.NewInternalError("failed to create leave request", err)
	}
	req.ID = model.ID

	s.logger.Info("leave request created",
		"request_id", req.ID,
		"employee_id", p.ID,
		"approver_id", approverID,
		"type", req.Type)
	s.publish(ctx, events.NewRequestCreatedEvent(req.ID, req.EmployeeID, req.ApproverID, string(req.Type)))

	return req, nil
}

func (s *Service) load(ctx context.Context, id int64) (*Request, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(m), nil
}

func (s *Service) Get(ctx context.Context, p *internal.Principal, id int64) (*Request, error) {
	req, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := CanView(p, req); err != nil {
		return nil, err
	}
	return req, nil
}

// Decide applies one approval-stage decision. Checks run in a fixed order:
// existence, approver identity, status, version.
func (s *Service) Decide(ctx context.Context, p *internal.Principal, id int64, stage Stage, d Decision) (*Request, error) {
	req, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := CanDecide(p, req, stage); err != nil {
		s.logger.Warn("decision rejected by policy",
			"request_id", id,
			"caller_id", p.ID,
			"approver_id", req.ApproverID,
			"status", req.Status,
			"stage", stage,
			"error", err)
		return nil, err
	}

	if d.Version != req.Version {
		return nil, internal.ErrStaleVersion
	}

	next, err := Transition(req.Status, stage, d.Approve)
	if err != nil {
		return nil, err
	}

	approverID := req.ApproverID
	if next == StatusApprovedByMid {
		topID, err := s.directory.TopTierID(ctx)
		if err != nil {
			return nil, err
		}
		if approverID, err = ResolveNextApprover(next, nil, topID); err != nil {
			s.logger.Error("no top-tier employee to route to", "request_id", id)
			return nil, err
		}
	}

	if next == StatusApprovedByTop {
		from, to, ok, err := d.Override()
		if err != nil {
			return nil, err
		}
		if ok {
			req.overridePeriod(from, to)
		}
	}

	expected := req.Version
	req.advance(next, approverID, s.now())
	if err := s.repo.UpdateDecision(ctx, ToDataModel(req), expected); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.Error("failed to persist decision", "error", err, "request_id", id)
		return nil, internal.NewInternalError("failed to persist decision", err)
	}

	s.logger.Info("leave request decided",
		"request_id", id,
		"decider_id", p.ID,
		"stage", stage,
		"approved", d.Approve,
		"status", next,
		"approver_id", approverID)
	s.publish(ctx, events.NewRequestDecidedEvent(req.ID, p.ID, string(stage), d.Approve, string(next), approverID))

	return req, nil
}

func (s *Service) DecideMid(ctx context.Context, p *internal.Principal, id int64, dto MidDecisionDTO) (*Request, error) {
	d, err := dto.Parse()
	if err != nil {
		return nil, err
	}
	return s.Decide(ctx, p, id, StageMid, d)
}

func (s *Service) DecideTop(ctx context.Context, p *internal.Principal, id int64, dto TopDecisionDTO) (*Request, error) {
	d, err := dto.Parse()
	if err != nil {
		return nil, err
	}
	return s.Decide(ctx, p, id, StageTop, d)
}

func (s *Service) ListMine(ctx context.Context, p *internal.Principal) ([]*Request, error) {
	ms, err := s.repo.ListByEmployee(ctx, p.ID)
	if err != nil {
		s.logger.Error("failed to list own leave requests", "error", err, "employee_id", p.ID)
		return nil, internal.NewInternalError("failed to list leave requests", err)
	}
	return FromDataModels(ms), nil
}

// Inbox lists requests waiting for the caller's decision at stage.
func (s *Service) Inbox(ctx context.Context, p *internal.Principal, stage Stage) ([]*Request, error) {
	if err := CanViewInbox(p, stage); err != nil {
		return nil, err
	}
	ms, err := s.repo.ListByApprover(ctx, p.ID, string(stage.Source()))
	if err != nil {
		s.logger.Error("failed to list inbox", "error", err, "approver_id", p.ID, "stage", stage)
		return nil, internal.NewInternalError("failed to list inbox", err)
	}
	return FromDataModels(ms), nil
}

func (s *Service) Delete(ctx context.Context, p *internal.Principal, id int64) error {
	req, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := CanDelete(p, req); err != nil {
		s.logger.Warn("delete rejected by policy", "request_id", id, "caller_id", p.ID, "status", req.Status, "error", err)
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return appErr
		}
		s.logger.Error("failed to delete leave request", "error", err, "request_id", id)
		return internal.NewInternalError("failed to delete leave request", err)
	}

	s.logger.Info("leave request deleted", "request_id", id, "deleted_by", p.ID)
	s.publish(ctx, events.NewRequestDeletedEvent(id, p.ID, string(req.Status)))
	return nil
}
