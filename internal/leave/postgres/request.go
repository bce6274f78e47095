package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/leave-approval/internal"
	leaveDatamodel "github.com/frahmantamala/leave-approval/internal/core/datamodel/leave"
	"gorm.io/gorm"
)

// RequestRepository is the gorm-backed request store.
type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(ctx context.Context, req *leaveDatamodel.Request) error {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return fmt.Errorf("insert leave request: %w", err)
	}
	return nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*leaveDatamodel.Request, error) {
	var req leaveDatamodel.Request
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrRequestNotFound
		}
		return nil, fmt.Errorf("get leave request %d: %w", id, err)
	}
	return &req, nil
}

// ListByEmployee returns every request authored by employeeID, newest first.
func (r *RequestRepository) ListByEmployee(ctx context.Context, employeeID int64) ([]*leaveDatamodel.Request, error) {
	var reqs []*leaveDatamodel.Request
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("id DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *RequestRepository) ListByApprover(ctx context.Context, approverID int64, status string) ([]*leaveDatamodel.Request, error) {
	var reqs []*leaveDatamodel.Request
	err := r.db.WithContext(ctx).
		Where("approver_id = ? AND status = ?", approverID, status).
		Order("id DESC").
		Find(&reqs).Error
	return reqs, err
}

// UpdateDecision is a compare-and-swap on the version column.
func (r *RequestRepository) UpdateDecision(ctx context.Context, req *leaveDatamodel.Request, expectedVersion int64) error {
	res := r.db.WithContext(ctx).
		Model(&leaveDatamodel.Request{}).
		Where("id = ? AND version = ?", req.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":      req.Status,
			"approver_id": req.ApproverID,
			"from_date":   req.FromDate,
			"to_date":     req.ToDate,
			"version":     req.Version,
			"updated_at":  req.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("update leave request %d: %w", req.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&leaveDatamodel.Request{}).Where("id = ?", req.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("recheck leave request %d: %w", req.ID, err)
		}
		if count == 0 {
			return internal.ErrRequestNotFound
		}
		return internal.ErrStaleVersion
	}
	return nil
}

func (r *RequestRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&leaveDatamodel.Request{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete leave request %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return internal.ErrRequestNotFound
	}
	return nil
}
