package examclient

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync/atomic"
	"time"

	"github.com/alphagrade/alphagrade-backend/internal/model"
	"github.com/google/uuid"
)

// DefaultDuration is the time allowed for one attempt.
const DefaultDuration = 3600 * time.Second

var (
	ErrSessionClosed  = errors.New("exam session is not running")
	ErrAlreadyRunning = errors.New("exam session already started")
	ErrCannotSubmit   = errors.New("exam can only be submitted from the last question")
	ErrInvalidOption  = errors.New("option does not belong to the current question")
	ErrSubmitFailed   = errors.New("exam submission failed")
)

// State is the lifecycle position of a Session.
type State int

const (
	StateLoading State = iota
	StateInProgress
	StateSubmitting
	StateSubmitted
	StateSubmitFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateInProgress:
		return "in_progress"
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	case StateSubmitFailed:
		return "submit_failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ExamAPI is the server surface a Session needs. *Client implements it.
type ExamAPI interface {
	GetExam(ctx context.Context, examID uuid.UUID) (*model.ExamForStudent, error)
	SubmitExam(ctx context.Context, examID uuid.UUID, answers model.Answers) error
}

// Ticker delivers countdown ticks.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

func newTimeTicker(d time.Duration) Ticker { return timeTicker{t: time.NewTicker(d)} }

// Snapshot is an immutable view of a Session.
type Snapshot struct {
	State         State
	Exam          *model.ExamForStudent
	Current       int
	Answers       model.Answers
	TimeLeft      time.Duration
	AutoSubmitted bool
	Err           error
}

// CanSubmit reports whether a manual submit is allowed right now.
func (s Snapshot) CanSubmit() bool {
	return s.State == StateInProgress && s.Exam != nil && s.Current == len(s.Exam.Questions)-1
}

// Option configures a Session.
type Option func(*Session)

// WithDuration overrides the attempt length. It is rounded down to whole ticks.
func WithDuration(d time.Duration) Option {
	return func(s *Session) { s.duration = d }
}

// WithTicker replaces the one-second wall-clock ticker.
func WithTicker(newTicker func(interval time.Duration) Ticker) Option {
	return func(s *Session) { s.newTicker = newTicker }
}

// WithOnChange registers a callback run on the session goroutine after every
// state change.
func WithOnChange(fn func(Snapshot)) Option {
	return func(s *Session) { s.onChange = fn }
}

type commandKind int

const (
	cmdNext commandKind = iota
	cmdPrev
	cmdGoTo
	cmdSelect
	cmdSubmit
)

type command struct {
	kind   commandKind
	index  int
	option string
	reply  chan error
}

// Session is one timed attempt at an exam. All state is owned by the
// goroutine running Run; the exported command methods hand work to it and
// wait for the outcome.
type Session struct {
	api       ExamAPI
	examID    uuid.UUID
	duration  time.Duration
	newTicker func(time.Duration) Ticker
	onChange  func(Snapshot)

	cmds    chan command
	done    chan struct{}
	started atomic.Bool
	snap    atomic.Pointer[Snapshot]
}

// NewSession creates a session in the Loading state. Call Run to start it.
func NewSession(api ExamAPI, examID uuid.UUID, opts ...Option) *Session {
	s := &Session{
		api:       api,
		examID:    examID,
		duration:  DefaultDuration,
		newTicker: newTimeTicker,
		cmds:      make(chan command),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.snap.Store(&Snapshot{State: StateLoading, TimeLeft: s.duration})
	return s
}

// Snapshot returns the latest published state. Safe from any goroutine.
func (s *Session) Snapshot() Snapshot {
	return *s.snap.Load()
}

// Done is closed when Run returns.
func (s *Session) Done() <-chan struct{} { return s.done }

// attempt is the mutable state owned by Run.
type attempt struct {
	exam          *model.ExamForStudent
	current       int
	answers       model.Answers
	secondsLeft   int
	autoSubmitted bool
}

// Run loads the exam and drives the attempt until it is submitted or ctx is
// cancelled. A load failure leaves the session in Loading. Cancelling ctx
// abandons the attempt without submitting.
func (s *Session) Run(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(s.done)

	exam, err := s.api.GetExam(ctx, s.examID)
	if err != nil {
		err = fmt.Errorf("load exam: %w", err)
		s.publish(&Snapshot{State: StateLoading, TimeLeft: s.duration, Err: err})
		return err
	}

	a := &attempt{
		exam:        exam,
		answers:     model.Answers{},
		secondsLeft: int(s.duration / time.Second),
	}
	s.publishAttempt(a, StateInProgress, nil)
	if a.secondsLeft <= 0 {
		a.autoSubmitted = true
		return s.submit(ctx, a)
	}

	ticker := s.newTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C():
			a.secondsLeft--
			if a.secondsLeft <= 0 {
				a.secondsLeft = 0
				a.autoSubmitted = true
				return s.submit(ctx, a)
			}
			s.publishAttempt(a, StateInProgress, nil)

		case cmd := <-s.cmds:
			if cmd.kind == cmdSubmit {
				if a.current != len(a.exam.Questions)-1 {
					cmd.reply <- ErrCannotSubmit
					continue
				}
				err := s.submit(ctx, a)
				cmd.reply <- err
				return err
			}
			cmd.reply <- s.apply(a, cmd)
			s.publishAttempt(a, StateInProgress, nil)
		}
	}
}

func (s *Session) apply(a *attempt, cmd command) error {
	last := len(a.exam.Questions) - 1
	switch cmd.kind {
	case cmdNext:
		a.current = min(a.current+1, max(last, 0))
	case cmdPrev:
		a.current = max(a.current-1, 0)
	case cmdGoTo:
		a.current = min(max(cmd.index, 0), max(last, 0))
	case cmdSelect:
		if last < 0 || !slices.Contains(a.exam.Questions[a.current].Options, cmd.option) {
			return ErrInvalidOption
		}
		a.answers[a.current] = cmd.option
	}
	return nil
}

func (s *Session) submit(ctx context.Context, a *attempt) error {
	s.publishAttempt(a, StateSubmitting, nil)

	if err := s.api.SubmitExam(ctx, s.examID, maps.Clone(a.answers)); err != nil {
		err = fmt.Errorf("%w: %w", ErrSubmitFailed, err)
		s.publishAttempt(a, StateSubmitFailed, err)
		return err
	}
	s.publishAttempt(a, StateSubmitted, nil)
	return nil
}

func (s *Session) publishAttempt(a *attempt, state State, err error) {
	s.publish(&Snapshot{
		State:         state,
		Exam:          a.exam,
		Current:       a.current,
		Answers:       maps.Clone(a.answers),
		TimeLeft:      time.Duration(a.secondsLeft) * time.Second,
		AutoSubmitted: a.autoSubmitted,
		Err:           err,
	})
}

func (s *Session) publish(snap *Snapshot) {
	s.snap.Store(snap)
	if s.onChange != nil {
		s.onChange(*snap)
	}
}

// Next moves to the following question, stopping at the last one.
func (s *Session) Next() error { return s.send(command{kind: cmdNext}) }

// Prev moves to the preceding question, stopping at the first one.
func (s *Session) Prev() error { return s.send(command{kind: cmdPrev}) }

// GoTo jumps to question i, clamped to the exam.
func (s *Session) GoTo(i int) error { return s.send(command{kind: cmdGoTo, index: i}) }

// Select records option as the answer to the current question, replacing
// any earlier choice.
func (s *Session) Select(option string) error {
	return s.send(command{kind: cmdSelect, option: option})
}

// Submit sends the answers. It is only accepted on the last question and
// returns once the server has answered.
func (s *Session) Submit() error { return s.send(command{kind: cmdSubmit}) }

func (s *Session) send(cmd command) error {
	cmd.reply = make(chan error, 1)
	select {
	case s.cmds <- cmd:
	case <-s.done:
		return ErrSessionClosed
	}

	select {
	case err := <-cmd.reply:
		return err
	case <-s.done:
		// Run replies before it returns, so a reply may already be waiting.
		select {
		case err := <-cmd.reply:
			return err
		default:
			return ErrSessionClosed
		}
	}
}

// FormatTimeLeft renders d as HH:MM:SS.
func FormatTimeLeft(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
