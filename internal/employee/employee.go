package employee

import (
	"time"

	employeeDatamodel "github.com/frahmantamala/leave-approval/internal/core/datamodel/employee"
	"github.com/frahmantamala/leave-approval/internal/core/role"
)

type Employee struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         role.Role `json:"role"`
	ManagerID    *int64    `json:"manager_id"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (e *Employee) IsTopTier() bool {
	return e.Role == role.Top
}

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		ID:           e.ID,
		Email:        e.Email,
		FullName:     e.Name,
		PasswordHash: e.PasswordHash,
		Role:         string(e.Role),
		ManagerID:    e.ManagerID,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	return &Employee{
		ID:           e.ID,
		Email:        e.Email,
		Name:         e.FullName,
		Role:         role.Role(e.Role),
		ManagerID:    e.ManagerID,
		PasswordHash: e.PasswordHash,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
