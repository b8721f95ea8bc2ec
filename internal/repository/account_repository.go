package repository

import (
	"context"
	"fmt"

	"github.com/alphagrade/alphagrade-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AccountRepository handles faculty and student account data access.
// Each role has its own table, so email uniqueness is per role.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create inserts a new account. a.ID must be set by the caller.
func (r *AccountRepository) Create(ctx context.Context, a *model.Account) error {
	var err error
	switch a.Role {
	case model.RoleFaculty:
		err = r.pool.QueryRow(ctx,
			`INSERT INTO faculties (id, name, email, password_hash, department)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING created_at`,
			a.ID, a.Name, a.Email, a.PasswordHash, a.Department,
		).Scan(&a.CreatedAt)
	case model.RoleStudent:
		err = r.pool.QueryRow(ctx,
			`INSERT INTO students (id, name, roll_number, email, password_hash, class)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING created_at`,
			a.ID, a.Name, a.RollNumber, a.Email, a.PasswordHash, a.Class,
		).Scan(&a.CreatedAt)
	default:
		return fmt.Errorf("create account: unknown role %q", a.Role)
	}

	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// GetByEmail retrieves an account of the given role by email.
func (r *AccountRepository) GetByEmail(ctx context.Context, role model.Role, email string) (*model.Account, error) {
	return r.getOne(ctx, role, "email", email)
}

// GetByID retrieves an account of the given role by ID.
func (r *AccountRepository) GetByID(ctx context.Context, role model.Role, id uuid.UUID) (*model.Account, error) {
	return r.getOne(ctx, role, "id", id)
}

func (r *AccountRepository) getOne(ctx context.Context, role model.Role, column string, value any) (*model.Account, error) {
	a := &model.Account{Role: role}
	var err error
	switch role {
	case model.RoleFaculty:
		err = r.pool.QueryRow(ctx,
			`SELECT id, name, email, password_hash, department, created_at
			 FROM faculties WHERE `+column+` = $1`, value,
		).Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Department, &a.CreatedAt)
	case model.RoleStudent:
		err = r.pool.QueryRow(ctx,
			`SELECT id, name, roll_number, email, password_hash, class, created_at
			 FROM students WHERE `+column+` = $1`, value,
		).Scan(&a.ID, &a.Name, &a.RollNumber, &a.Email, &a.PasswordHash, &a.Class, &a.CreatedAt)
	default:
		return nil, fmt.Errorf("get account: unknown role %q", role)
	}
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

// Count returns the number of accounts of a role.
func (r *AccountRepository) Count(ctx context.Context, role model.Role) (int, error) {
	var n int
	var err error
	switch role {
	case model.RoleFaculty:
		err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM faculties`).Scan(&n)
	case model.RoleStudent:
		err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&n)
	default:
		return 0, fmt.Errorf("count accounts: unknown role %q", role)
	}
	return n, err
}
