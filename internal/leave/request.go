package leave

import (
	"fmt"
	"strings"
	"time"

	"github.com/frahmantamala/leave-approval/internal"
	leaveDatamodel "github.com/frahmantamala/leave-approval/internal/core/datamodel/leave"
)

type Status string

const (
	StatusPending       Status = "pending"
	StatusApprovedByMid Status = "approved_by_mid"
	StatusRejectedByMid Status = "rejected_by_mid"
	StatusApprovedByTop Status = "approved_by_top"
	StatusRejectedByTop Status = "rejected_by_top"
)

var AllStatuses = []Status{
	StatusPending,
	StatusApprovedByMid,
	StatusRejectedByMid,
	StatusApprovedByTop,
	StatusRejectedByTop,
}

func (s Status) Terminal() bool {
	switch s {
	case StatusRejectedByMid, StatusApprovedByTop, StatusRejectedByTop:
		return true
	}
	return false
}

type Type string

const (
	TypeAnnual Type = "annual"
	TypeSick   Type = "sick"
	TypeUnpaid Type = "unpaid"
	TypeStudy  Type = "study"
)

var AllTypes = []Type{TypeAnnual, TypeSick, TypeUnpaid, TypeStudy}

var typeLabels = map[Type]string{
	TypeAnnual: "Annual leave",
	TypeSick:   "Sick leave",
	TypeUnpaid: "Unpaid leave",
	TypeStudy:  "Study leave",
}

func (t Type) Label() string {
	return typeLabels[t]
}

// ParseType accepts the short names ("annual") as well as long forms such as
// "AnnualLeave", "annual_leave" or "Annual leave", case-insensitively.
func ParseType(s string) (Type, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(norm)
	norm = strings.TrimSuffix(norm, "leave")
	t := Type(norm)
	if _, ok := typeLabels[t]; !ok {
		return "", fmt.Errorf("unknown leave type %q", s)
	}
	return t, nil
}

// Stage names which tier's decision a request is waiting for.
type Stage string

const (
	StageMid Stage = "mid"
	StageTop Stage = "top"
)

// Source is the only status a decision at this stage may act on.
func (s Stage) Source() Status {
	switch s {
	case StageMid:
		return StatusPending
	case StageTop:
		return StatusApprovedByMid
	}
	return ""
}

// Transition returns the status reached when a decision is taken at stage
// on a request currently in from.
func Transition(from Status, stage Stage, approve bool) (Status, error) {
	if stage.Source() == "" || from != stage.Source() {
		return "", internal.ErrInvalidRequestState
	}
	switch {
	case stage == StageMid && approve:
		return StatusApprovedByMid, nil
	case stage == StageMid:
		return StatusRejectedByMid, nil
	case approve:
		return StatusApprovedByTop, nil
	default:
		return StatusRejectedByTop, nil
	}
}

// ResolveNextApprover picks who owns the request once it enters next.
// A pending request goes to the subject's manager; a mid-approved one goes to
// the top-tier employee. No other status routes anywhere.
func ResolveNextApprover(next Status, subjectManagerID, topTierID *int64) (int64, error) {
	switch next {
	case StatusPending:
		if subjectManagerID == nil {
			return 0, internal.ErrNoManagerAssigned
		}
		return *subjectManagerID, nil
	case StatusApprovedByMid:
		if topTierID == nil {
			return 0, internal.ErrNoTopTier
		}
		return *topTierID, nil
	}
	return 0, internal.ErrInvalidRequestState
}

type Request struct {
	ID         int64     `json:"id"`
	EmployeeID int64     `json:"employee_id"`
	ApproverID int64     `json:"approver_id"`
	Type       Type      `json:"type"`
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
	Comment    *string   `json:"comment,omitempty"`
	Status     Status    `json:"status"`
	Version    int64     `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewRequest(employeeID, approverID int64, t Type, from, to time.Time, comment *string, now time.Time) *Request {
	return &Request{
		EmployeeID: employeeID,
		ApproverID: approverID,
		Type:       t,
		From:       from,
		To:         to,
		Comment:    comment,
		Status:     StatusPending,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// advance records a committed transition on the in-memory copy.
func (r *Request) advance(next Status, approverID int64, now time.Time) {
	r.Status = next
	r.ApproverID = approverID
	r.UpdatedAt = now
	r.Version++
}

func (r *Request) overridePeriod(from, to time.Time) {
	r.From = from
	r.To = to
}

func ToDataModel(r *Request) *leaveDatamodel.Request {
	return &leaveDatamodel.Request{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		ApproverID: r.ApproverID,
		Type:       string(r.Type),
		FromDate:   r.From,
		ToDate:     r.To,
		Comment:    r.Comment,
		Status:     string(r.Status),
		Version:    r.Version,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func FromDataModel(m *leaveDatamodel.Request) *Request {
	return &Request{
		ID:         m.ID,
		EmployeeID: m.EmployeeID,
		ApproverID: m.ApproverID,
		Type:       Type(m.Type),
		From:       m.FromDate,
		To:         m.ToDate,
		Comment:    m.Comment,
		Status:     Status(m.Status),
		Version:    m.Version,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func FromDataModels(ms []*leaveDatamodel.Request) []*Request {
	out := make([]*Request, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromDataModel(m))
	}
	return out
}
