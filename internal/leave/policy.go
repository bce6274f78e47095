package leave

import (
	"github.com/frahmantamala/leave-approval/internal"
	"github.com/frahmantamala/leave-approval/internal/core/role"
)

// decisionStages is the permission table for decisions: the stage each role
// acts at. Roles absent from the table never decide.
var decisionStages = map[role.Role]Stage{
	role.Mid: StageMid,
	role.Top: StageTop,
}

// StageFor reports the approval stage a role acts at.
func StageFor(r role.Role) (Stage, bool) {
	s, ok := decisionStages[r]
	return s, ok
}

// MayDecide reports whether a role may act on a request in status s, given
// the caller is the request's current approver.
func MayDecide(r role.Role, s Status) bool {
	stage, ok := StageFor(r)
	return ok && stage.Source() == s
}

// CanDecide gates a decision at stage. Identity is checked before status so
// that a caller who is not the approver always sees Forbidden.
func CanDecide(p *internal.Principal, req *Request, stage Stage) error {
	if p == nil || p.ID != req.ApproverID {
		return internal.ErrForbidden
	}
	callerStage, ok := StageFor(p.Role)
	if !ok || callerStage != stage {
		return internal.ErrForbidden
	}
	if !MayDecide(p.Role, req.Status) {
		return internal.ErrInvalidRequestState
	}
	return nil
}

// CanViewInbox keys each inbox to exactly one role; there is no implicit
// hierarchy between tiers.
func CanViewInbox(p *internal.Principal, stage Stage) error {
	if p == nil {
		return internal.ErrForbidden
	}
	callerStage, ok := StageFor(p.Role)
	if !ok || callerStage != stage {
		return internal.ErrForbidden
	}
	return nil
}

func CanView(p *internal.Principal, req *Request) error {
	switch {
	case p == nil:
		return internal.ErrForbidden
	case p.Role == role.Top, p.ID == req.EmployeeID, p.ID == req.ApproverID:
		return nil
	}
	return internal.ErrForbidden
}

// CanDelete lets the top tier remove any request and the subject remove
// their own while it is still pending.
func CanDelete(p *internal.Principal, req *Request) error {
	switch {
	case p == nil:
		return internal.ErrForbidden
	case p.Role == role.Top:
		return nil
	case p.ID == req.EmployeeID:
		if req.Status != StatusPending {
			return internal.ErrInvalidRequestState
		}
		return nil
	}
	return internal.ErrForbidden
}
