package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/frahmantamala/leave-approval/internal"
	"github.com/frahmantamala/leave-approval/internal/auth"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetCredentialsByEmail(ctx context.Context, email string) (*auth.Credentials, error) {
	var c auth.Credentials
	query := `SELECT id, full_name, email, role, password_hash FROM employees WHERE email = ?`

	row := r.db.WithContext(ctx).Raw(query, email).Row()
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Role, &c.PasswordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	return &c, nil
}
