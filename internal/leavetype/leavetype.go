package leavetype

import (
	"github.com/frahmantamala/leave-approval/internal"
	"github.com/frahmantamala/leave-approval/internal/leave"
)

// LeaveType is one catalog entry.
type LeaveType struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type LeaveTypesResponse struct {
	LeaveTypes []LeaveType `json:"leave_types"`
}

func fromType(t leave.Type) LeaveType {
	return LeaveType{Code: string(t), Name: t.Label()}
}

// Catalog serves the fixed set of leave types.
type Catalog struct{}

func NewCatalog() *Catalog {
	return &Catalog{}
}

func (c *Catalog) List() []LeaveType {
	out := make([]LeaveType, 0, len(leave.AllTypes))
	for _, t := range leave.AllTypes {
		out = append(out, fromType(t))
	}
	return out
}

// Lookup accepts the same spellings as request creation ("Sick Leave", "sick").
func (c *Catalog) Lookup(code string) (LeaveType, error) {
	t, err := leave.ParseType(code)
	if err != nil {
		return LeaveType{}, internal.NewNotFoundError("Leave type not found", internal.ErrCodeInvalidLeaveType)
	}
	return fromType(t), nil
}
