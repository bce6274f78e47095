package employee

import (
	"strings"

	"github.com/frahmantamala/leave-approval/internal"
	"github.com/frahmantamala/leave-approval/internal/core/common/validation"
	"github.com/frahmantamala/leave-approval/internal/core/role"
)

const minPasswordLength = 6

type CreateEmployeeDTO struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	ManagerID *int64 `json:"manager_id,omitempty"`
}

// NormalizeEmail is the canonical form used for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (d CreateEmployeeDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", strings.TrimSpace(d.Name)).Required().MaxLength(200)
	v.Field("email", NormalizeEmail(d.Email)).Required().Email().MaxLength(320)
	v.Field("password", d.Password).Required().MinLength(minPasswordLength).MaxLength(72)
	v.Field("role", d.Role).Required().Custom(func(value interface{}) *internal.AppError {
		if _, err := role.Parse(value.(string)); err != nil {
			return internal.NewValidationFieldError("role", "role must be one of top, mid, base", internal.ErrCodeInvalidRole)
		}
		return nil
	})
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type EmployeesResponse struct {
	Employees []*Employee `json:"employees"`
}

type DeleteEmployeeResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}
