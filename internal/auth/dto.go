package auth

import (
	"strings"

	"github.com/frahmantamala/leave-approval/internal/core/common/validation"
)

// LoginDTO is the body of POST /auth/login.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", strings.TrimSpace(d.Email)).Required()
	v.Field("password", d.Password).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
