// Package seed bootstraps a demo hierarchy of one employee per tier.
package seed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/frahmantamala/leave-approval/internal/core/role"
)

type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// Account describes one seeded employee.
type Account struct {
	ID    int64     `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  role.Role `json:"role"`
}

type Result struct {
	Seeded   bool      `json:"seeded"`
	Message  string    `json:"message"`
	Accounts []Account `json:"accounts,omitempty"`
}

// DefaultAccounts is the seeded hierarchy, top first. Each entry reports to
// the one before it.
var DefaultAccounts = []Account{
	{Name: "Director", Email: "director@company.local", Role: role.Top},
	{Name: "Team Lead", Email: "lead@company.local", Role: role.Mid},
	{Name: "Staff Member", Email: "staff@company.local", Role: role.Base},
}

type Seeder struct {
	db       *sqlx.DB
	hasher   PasswordHasher
	password string
	logger   *slog.Logger
}

func NewSeeder(db *sqlx.DB, hasher PasswordHasher, password string, logger *slog.Logger) *Seeder {
	return &Seeder{
		db:       db,
		hasher:   hasher,
		password: password,
		logger:   logger,
	}
}

// Seed inserts DefaultAccounts unless any employee already exists.
func (s *Seeder) Seed(ctx context.Context) (*Result, error) {
	var result *Result
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var count int
		if err := tx.GetContext(ctx, &count, "SELECT COUNT(*) FROM employees"); err != nil {
			return fmt.Errorf("count employees: %w", err)
		}
		if count > 0 {
			result = &Result{Seeded: false, Message: "seed skipped: employees already exist"}
			return nil
		}

		accounts, err := s.insertAccounts(ctx, tx)
		if err != nil {
			return err
		}
		result = &Result{Seeded: true, Message: "seed done", Accounts: accounts}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("seed finished", "seeded", result.Seeded, "accounts", len(result.Accounts))
	return result, nil
}

// Reset wipes requests and employees, then seeds again.
func (s *Seeder) Reset(ctx context.Context) (*Result, error) {
	var result *Result
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.truncate(ctx, tx); err != nil {
			return err
		}
		accounts, err := s.insertAccounts(ctx, tx)
		if err != nil {
			return err
		}
		result = &Result{Seeded: true, Message: "reset done", Accounts: accounts}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Warn("database reset", "accounts", len(result.Accounts))
	return result, nil
}

func (s *Seeder) truncate(ctx context.Context, tx *sqlx.Tx) error {
	if s.db.DriverName() == "pgx" || s.db.DriverName() == "postgres" {
		if _, err := tx.ExecContext(ctx, "TRUNCATE leave_requests, employees RESTART IDENTITY CASCADE"); err != nil {
			return fmt.Errorf("truncate: %w", err)
		}
		return nil
	}
	for _, table := range []string{"leave_requests", "employees"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func (s *Seeder) insertAccounts(ctx context.Context, tx *sqlx.Tx) ([]Account, error) {
	hash, err := s.hasher.HashPassword(s.password)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	insert := tx.Rebind(`INSERT INTO employees (email, full_name, password_hash, role, manager_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`)

	now := time.Now().UTC()
	out := make([]Account, 0, len(DefaultAccounts))
	var managerID sql.NullInt64
	for _, a := range DefaultAccounts {
		if err := tx.QueryRowxContext(ctx, insert, a.Email, a.Name, hash, string(a.Role), managerID, now, now).Scan(&a.ID); err != nil {
			return nil, fmt.Errorf("insert %s: %w", a.Email, err)
		}
		out = append(out, a)
		managerID = sql.NullInt64{Int64: a.ID, Valid: true}
	}
	return out, nil
}

func (s *Seeder) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
