package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alphagrade/alphagrade-backend/internal/model"
	"github.com/alphagrade/alphagrade-backend/internal/questionsource"
	"github.com/alphagrade/alphagrade-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ExamService handles exam creation, listing and submission intake.
type ExamService struct {
	exams   ExamRepository
	source  questionsource.Source
	metrics *MetricsService
	log     zerolog.Logger
	now     func() time.Time
}

// NewExamService creates a new ExamService. metrics may be nil.
func NewExamService(exams ExamRepository, source questionsource.Source, metrics *MetricsService, log zerolog.Logger) *ExamService {
	return &ExamService{
		exams:   exams,
		source:  source,
		metrics: metrics,
		log:     log.With().Str("component", "exam_service").Logger(),
		now:     time.Now,
	}
}

// CreateExam fetches questions from the question source and stores a new exam
// owned by facultyID. Nothing is stored unless the source call succeeds.
func (s *ExamService) CreateExam(ctx context.Context, facultyID uuid.UUID, req model.CreateExamRequest) (*model.Exam, error) {
	title := strings.TrimSpace(req.Title)
	subject := strings.TrimSpace(req.Subject)
	difficulty := strings.TrimSpace(req.Difficulty)

	switch {
	case title == "":
		return nil, fmt.Errorf("%w: title is required", ErrInvalidExamRequest)
	case subject == "":
		return nil, fmt.Errorf("%w: subject is required", ErrInvalidExamRequest)
	case req.NumQuestions < model.MinQuestions || req.NumQuestions > model.MaxQuestions:
		return nil, fmt.Errorf("%w: numQuestions must be between %d and %d",
			ErrInvalidExamRequest, model.MinQuestions, model.MaxQuestions)
	}
	if difficulty == "" {
		difficulty = model.DifficultyEasy
	}

	questions, err := s.fetchQuestions(ctx, questionsource.Request{
		Subject:      subject,
		Difficulty:   difficulty,
		NumQuestions: req.NumQuestions,
	})
	if err != nil {
		return nil, err
	}

	exam := &model.Exam{
		ID:        uuid.New(),
		Title:     title,
		FacultyID: facultyID,
		Questions: questions,
	}
	if err := s.exams.Create(ctx, exam); err != nil {
		return nil, fmt.Errorf("create exam: %w", err)
	}

	s.metrics.RecordExamCreated()
	s.log.Info().
		Str("exam_id", exam.ID.String()).
		Str("faculty_id", facultyID.String()).
		Int("questions", len(questions)).
		Msg("Exam created")
	return exam, nil
}

func (s *ExamService) fetchQuestions(ctx context.Context, req questionsource.Request) ([]model.QuestionItem, error) {
	start := s.now()
	items, err := s.source.Generate(ctx, req)
	duration := s.now().Sub(start)

	if err == nil {
		err = checkQuestions(items)
	}
	if err != nil {
		s.metrics.ObserveQuestionSource(false, duration)
		s.log.Warn().Err(err).Str("subject", req.Subject).Msg("Question source failed")
		return nil, fmt.Errorf("%w: %v", ErrQuestionSourceUnavailable, err)
	}
	s.metrics.ObserveQuestionSource(true, duration)

	if len(items) > req.NumQuestions {
		items = items[:req.NumQuestions]
	}
	return items, nil
}

func checkQuestions(items []model.QuestionItem) error {
	if len(items) == 0 {
		return questionsource.ErrEmptyResponse
	}
	for i, q := range items {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}
	return nil
}

// ListExamsForFaculty returns exams owned by facultyID, newest first.
func (s *ExamService) ListExamsForFaculty(ctx context.Context, facultyID uuid.UUID) ([]model.Exam, error) {
	exams, err := s.exams.ListByFaculty(ctx, facultyID)
	if err != nil {
		return nil, fmt.Errorf("list faculty exams: %w", err)
	}
	if exams == nil {
		exams = []model.Exam{}
	}
	return exams, nil
}

// ListExamsForStudent returns every exam without answers, newest first.
func (s *ExamService) ListExamsForStudent(ctx context.Context) ([]model.ExamForStudent, error) {
	exams, err := s.exams.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}

	out := make([]model.ExamForStudent, 0, len(exams))
	for i := range exams {
		out = append(out, exams[i].ForStudent())
	}
	return out, nil
}

// GetExam retrieves an exam by id.
func (s *ExamService) GetExam(ctx context.Context, examID uuid.UUID) (*model.Exam, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}
	return exam, nil
}

// SubmitExam acknowledges a student's answers for an existing exam. The
// submission is logged only; it is neither scored nor stored, and repeated
// submissions are all accepted. Answers keyed outside the exam's question
// indices are dropped.
func (s *ExamService) SubmitExam(ctx context.Context, examID, studentID uuid.UUID, answers model.Answers) (*model.Submission, error) {
	exam, err := s.GetExam(ctx, examID)
	if err != nil {
		return nil, err
	}

	kept := make(model.Answers, len(answers))
	for idx, option := range answers {
		if idx >= 0 && idx < len(exam.Questions) {
			kept[idx] = option
		}
	}
	if dropped := len(answers) - len(kept); dropped > 0 {
		s.log.Warn().
			Str("exam_id", examID.String()).
			Int("dropped", dropped).
			Msg("Ignoring answers for unknown question indices")
	}
	answers = kept

	sub := &model.Submission{
		ExamID:     examID,
		StudentID:  studentID,
		Answers:    answers,
		ReceivedAt: s.now().UTC(),
	}

	s.metrics.RecordSubmission()
	s.log.Info().
		Str("exam_id", examID.String()).
		Str("student_id", studentID.String()).
		Int("answered", len(answers)).
		Interface("answers", answers).
		Msg("Exam submitted")
	return sub, nil
}

// ListResults returns the graded results for a student. Grading does not
// exist yet, so the list is always empty.
func (s *ExamService) ListResults(_ context.Context, _ uuid.UUID) ([]model.Result, error) {
	return []model.Result{}, nil
}
