package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeRequestCreated  = "leave.request.created"
	EventTypeRequestDecided  = "leave.request.decided"
	EventTypeRequestDeleted  = "leave.request.deleted"
	EventTypeEmployeeCreated = "employee.created"
	EventTypeEmployeeDeleted = "employee.deleted"
)

// AllEventTypes lists every event the service emits.
var AllEventTypes = []string{
	EventTypeRequestCreated,
	EventTypeRequestDecided,
	EventTypeRequestDeleted,
	EventTypeEmployeeCreated,
	EventTypeEmployeeDeleted,
}

func newBase(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

type RequestCreatedEvent struct {
	BaseEvent
	RequestID  int64  `json:"request_id"`
	EmployeeID int64  `json:"employee_id"`
	ApproverID int64  `json:"approver_id"`
	LeaveType  string `json:"leave_type"`
}

func NewRequestCreatedEvent(requestID, employeeID, approverID int64, leaveType string) *RequestCreatedEvent {
	return &RequestCreatedEvent{
		BaseEvent: newBase(EventTypeRequestCreated, map[string]interface{}{
			"request_id":  requestID,
			"employee_id": employeeID,
			"approver_id": approverID,
			"leave_type":  leaveType,
		}),
		RequestID:  requestID,
		EmployeeID: employeeID,
		ApproverID: approverID,
		LeaveType:  leaveType,
	}
}

type RequestDecidedEvent struct {
	BaseEvent
	RequestID  int64  `json:"request_id"`
	DeciderID  int64  `json:"decider_id"`
	Stage      string `json:"stage"`
	Approved   bool   `json:"approved"`
	Status     string `json:"status"`
	ApproverID int64  `json:"approver_id"`
}

func NewRequestDecidedEvent(requestID, deciderID int64, stage string, approved bool, status string, approverID int64) *RequestDecidedEvent {
	return &RequestDecidedEvent{
		BaseEvent: newBase(EventTypeRequestDecided, map[string]interface{}{
			"request_id":  requestID,
			"decider_id":  deciderID,
			"stage":       stage,
			"approved":    approved,
			"status":      status,
			"approver_id": approverID,
		}),
		RequestID:  requestID,
		DeciderID:  deciderID,
		Stage:      stage,
		Approved:   approved,
		Status:     status,
		ApproverID: approverID,
	}
}

type RequestDeletedEvent struct {
	BaseEvent
	RequestID int64  `json:"request_id"`
	DeletedBy int64  `json:"deleted_by"`
	Status    string `json:"status"`
}

func NewRequestDeletedEvent(requestID, deletedBy int64, status string) *RequestDeletedEvent {
	return &RequestDeletedEvent{
		BaseEvent: newBase(EventTypeRequestDeleted, map[string]interface{}{
			"request_id": requestID,
			"deleted_by": deletedBy,
			"status":     status,
		}),
		RequestID: requestID,
		DeletedBy: deletedBy,
		Status:    status,
	}
}

type EmployeeCreatedEvent struct {
	BaseEvent
	EmployeeID int64  `json:"employee_id"`
	Role       string `json:"role"`
	CreatedBy  int64  `json:"created_by"`
}

func NewEmployeeCreatedEvent(employeeID int64, role string, createdBy int64) *EmployeeCreatedEvent {
	return &EmployeeCreatedEvent{
		BaseEvent: newBase(EventTypeEmployeeCreated, map[string]interface{}{
			"employee_id": employeeID,
			"role":        role,
			"created_by":  createdBy,
		}),
		EmployeeID: employeeID,
		Role:       role,
		CreatedBy:  createdBy,
	}
}

type EmployeeDeletedEvent struct {
	BaseEvent
	EmployeeID      int64 `json:"employee_id"`
	DeletedBy       int64 `json:"deleted_by"`
	RemovedRequests int64 `json:"removed_requests"`
	Unlinked        int64 `json:"unlinked_subordinates"`
}

func NewEmployeeDeletedEvent(employeeID, deletedBy, removedRequests, unlinked int64) *EmployeeDeletedEvent {
	return &EmployeeDeletedEvent{
		BaseEvent: newBase(EventTypeEmployeeDeleted, map[string]interface{}{
			"employee_id":           employeeID,
			"deleted_by":            deletedBy,
			"removed_requests":      removedRequests,
			"unlinked_subordinates": unlinked,
		}),
		EmployeeID:      employeeID,
		DeletedBy:       deletedBy,
		RemovedRequests: removedRequests,
		Unlinked:        unlinked,
	}
}
