package service

import (
	"context"
	"sync"

	"github.com/alphagrade/alphagrade-backend/internal/model"
	"github.com/alphagrade/alphagrade-backend/internal/questionsource"
	"github.com/alphagrade/alphagrade-backend/internal/repository"
	"github.com/google/uuid"
)

type fakeAccountRepo struct {
	mu        sync.Mutex
	accounts  map[model.Role]map[string]*model.Account
	createErr error
	getErr    error
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[model.Role]map[string]*model.Account{}}
}

func (f *fakeAccountRepo) Create(_ context.Context, a *model.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	byEmail := f.accounts[a.Role]
	if byEmail == nil {
		byEmail = map[string]*model.Account{}
		f.accounts[a.Role] = byEmail
	}
	if _, ok := byEmail[a.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	cp := *a
	byEmail[a.Email] = &cp
	return nil
}

func (f *fakeAccountRepo) GetByEmail(_ context.Context, role model.Role, email string) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	a, ok := f.accounts[role][email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAccountRepo) GetByID(_ context.Context, role model.Role, id uuid.UUID) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts[role] {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

// fakeExamRepo keeps exams in insertion order and lists newest first.
type fakeExamRepo struct {
	mu        sync.Mutex
	exams     []model.Exam
	createErr error
}

func (f *fakeExamRepo) Create(_ context.Context, e *model.Exam) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.exams = append(f.exams, *e)
	return nil
}

func (f *fakeExamRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Exam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.exams {
		if f.exams[i].ID == id {
			e := f.exams[i]
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeExamRepo) ListByFaculty(_ context.Context, facultyID uuid.UUID) ([]model.Exam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Exam{}
	for i := len(f.exams) - 1; i >= 0; i-- {
		if f.exams[i].FacultyID == facultyID {
			out = append(out, f.exams[i])
		}
	}
	return out, nil
}

func (f *fakeExamRepo) ListAll(_ context.Context) ([]model.Exam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Exam{}
	for i := len(f.exams) - 1; i >= 0; i-- {
		out = append(out, f.exams[i])
	}
	return out, nil
}

func (f *fakeExamRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.exams)
}

type fakeSource struct {
	mu       sync.Mutex
	calls    int
	requests []questionsource.Request
	items    []model.QuestionItem
	err      error
}

func (f *fakeSource) Generate(ctx context.Context, req questionsource.Request) ([]model.QuestionItem, error) {
	f.mu.Lock()
	f.calls++
	f.requests = append(f.requests, req)
	items, err := f.items, f.err
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if items != nil {
		return items, nil
	}
	return questionsource.NewTemplateSource().Generate(ctx, req)
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
