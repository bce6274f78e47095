package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/frahmantamala/leave-approval/internal"
	employeeDatamodel "github.com/frahmantamala/leave-approval/internal/core/datamodel/employee"
	leaveDatamodel "github.com/frahmantamala/leave-approval/internal/core/datamodel/leave"
	"github.com/frahmantamala/leave-approval/internal/core/role"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(ctx context.Context, e *employeeDatamodel.Employee) error {
	err := r.db.WithContext(ctx).Create(e).Error
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		if e.Role == string(role.Top) {
			if top, _ := r.FindTopTier(ctx); top != nil {
				return internal.ErrTopTierExists
			}
		}
		return internal.ErrEmailTaken
	}
	return fmt.Errorf("insert employee: %w", err)
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error) {
	var e employeeDatamodel.Employee
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("get employee %d: %w", id, err)
	}
	return &e, nil
}

func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*employeeDatamodel.Employee, error) {
	var e employeeDatamodel.Employee
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("get employee by email: %w", err)
	}
	return &e, nil
}

func (r *EmployeeRepository) List(ctx context.Context) ([]*employeeDatamodel.Employee, error) {
	var list []*employeeDatamodel.Employee
	err := r.db.WithContext(ctx).Order("id ASC").Find(&list).Error
	return list, err
}

// FindTopTier returns nil, nil when no top-tier employee exists.
func (r *EmployeeRepository) FindTopTier(ctx context.Context) (*employeeDatamodel.Employee, error) {
	var list []*employeeDatamodel.Employee
	err := r.db.WithContext(ctx).
		Where("role = ?", string(role.Top)).
		Order("id ASC").
		Limit(1).
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("find top tier: %w", err)
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r *EmployeeRepository) DeleteCascade(ctx context.Context, id int64) (removedRequests, unlinked int64, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("employee_id = ? OR approver_id = ?", id, id).Delete(&leaveDatamodel.Request{})
		if res.Error != nil {
			return fmt.Errorf("delete requests: %w", res.Error)
		}
		removedRequests = res.RowsAffected

		res = tx.Model(&employeeDatamodel.Employee{}).
			Where("manager_id = ?", id).
			Update("manager_id", nil)
		if res.Error != nil {
			return fmt.Errorf("unlink subordinates: %w", res.Error)
		}
		unlinked = res.RowsAffected

		res = tx.Where("id = ?", id).Delete(&employeeDatamodel.Employee{})
		if res.Error != nil {
			return fmt.Errorf("delete employee: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return internal.ErrEmployeeNotFound
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return removedRequests, unlinked, nil
}
