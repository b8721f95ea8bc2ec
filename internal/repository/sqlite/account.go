package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alphagrade/alphagrade-backend/internal/model"
	"github.com/alphagrade/alphagrade-backend/internal/repository"
	"github.com/google/uuid"
)

// AccountStore persists faculty and student accounts.
type AccountStore struct {
	db *sql.DB
}

// NewAccountStore creates a new AccountStore.
func NewAccountStore(db *sql.DB) *AccountStore {
	return &AccountStore{db: db}
}

// Create inserts a new account. a.ID must be set by the caller.
func (s *AccountStore) Create(ctx context.Context, a *model.Account) error {
	now := clock()
	var err error
	switch a.Role {
	case model.RoleFaculty:
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO faculties (id, name, email, password_hash, department, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			a.ID.String(), a.Name, a.Email, a.PasswordHash, a.Department, toUnix(now))
	case model.RoleStudent:
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO students (id, name, roll_number, email, password_hash, class, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			a.ID.String(), a.Name, a.RollNumber, a.Email, a.PasswordHash, a.Class, toUnix(now))
	default:
		return fmt.Errorf("create account: unknown role %q", a.Role)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	a.CreatedAt = now
	return nil
}

// GetByEmail retrieves an account of the given role by email.
func (s *AccountStore) GetByEmail(ctx context.Context, role model.Role, email string) (*model.Account, error) {
	return s.getOne(ctx, role, "email", email)
}

// GetByID retrieves an account of the given role by ID.
func (s *AccountStore) GetByID(ctx context.Context, role model.Role, id uuid.UUID) (*model.Account, error) {
	return s.getOne(ctx, role, "id", id.String())
}

// Count returns the number of accounts of a role.
func (s *AccountStore) Count(ctx context.Context, role model.Role) (int, error) {
	table, err := tableFor(role)
	if err != nil {
		return 0, err
	}
	var n int
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n)
	return n, err
}

func (s *AccountStore) getOne(ctx context.Context, role model.Role, column, value string) (*model.Account, error) {
	var (
		a       = &model.Account{Role: role}
		id      string
		created int64
		err     error
	)
	switch role {
	case model.RoleFaculty:
		err = s.db.QueryRowContext(ctx,
			`SELECT id, name, email, password_hash, department, created_at
			 FROM faculties WHERE `+column+` = ?`, value,
		).Scan(&id, &a.Name, &a.Email, &a.PasswordHash, &a.Department, &created)
	case model.RoleStudent:
		err = s.db.QueryRowContext(ctx,
			`SELECT id, name, roll_number, email, password_hash, class, created_at
			 FROM students WHERE `+column+` = ?`, value,
		).Scan(&id, &a.Name, &a.RollNumber, &a.Email, &a.PasswordHash, &a.Class, &created)
	default:
		return nil, fmt.Errorf("get account: unknown role %q", role)
	}
	if err != nil {
		return nil, notFound(err)
	}
	if a.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse account id: %w", err)
	}
	a.CreatedAt = fromUnix(created)
	return a, nil
}

func tableFor(role model.Role) (string, error) {
	switch role {
	case model.RoleFaculty:
		return "faculties", nil
	case model.RoleStudent:
		return "students", nil
	}
	return "", fmt.Errorf("unknown role %q", role)
}
