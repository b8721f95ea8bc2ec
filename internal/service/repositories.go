package service

import (
	"context"

	"github.com/alphagrade/alphagrade-backend/internal/model"
	"github.com/google/uuid"
)

// AccountRepository is the credential store. Implemented by
// repository.AccountRepository (PostgreSQL) and sqlite.AccountStore.
type AccountRepository interface {
	Create(ctx context.Context, a *model.Account) error
	GetByEmail(ctx context.Context, role model.Role, email string) (*model.Account, error)
	GetByID(ctx context.Context, role model.Role, id uuid.UUID) (*model.Account, error)
}

// ExamRepository stores exams. Create must be a single atomic write, and both
// list methods return exams newest first with insertion order breaking ties.
type ExamRepository interface {
	Create(ctx context.Context, e *model.Exam) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error)
	ListByFaculty(ctx context.Context, facultyID uuid.UUID) ([]model.Exam, error)
	ListAll(ctx context.Context) ([]model.Exam, error)
}
