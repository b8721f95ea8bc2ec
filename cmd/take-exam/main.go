package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/alphagrade/alphagrade-backend/internal/examclient"
	"github.com/alphagrade/alphagrade-backend/internal/model"
	"github.com/google/uuid"
	"golang.org/x/term"
)

const help = `Commands:
  n          next question
  p          previous question
  g <num>    go to question <num>
  <letter>   choose option (a, b, c, ...)
  s          submit (last question only)
  q          quit without submitting`

func main() {
	var (
		server string
		email  string
		examID string
	)
	flag.StringVar(&server, "server", "http://localhost:5000", "AlphaGrade server URL")
	flag.StringVar(&email, "email", "", "student email")
	flag.StringVar(&examID, "exam", "", "exam ID (omit to pick from the list)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	in := bufio.NewReader(os.Stdin)
	if email == "" {
		email = prompt(in, "Email: ")
	}
	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fail("read password: %v", err)
	}

	client := examclient.NewClient(server, nil)
	if err := client.Login(ctx, model.RoleStudent, email, string(password)); err != nil {
		fail("login: %v", err)
	}

	id, err := chooseExam(ctx, client, in, examID)
	if err != nil {
		fail("%v", err)
	}

	session, err := client.NewSession(id, examclient.WithOnChange(new(announcer).onChange))
	if err != nil {
		fail("%v", err)
	}

	result := make(chan error, 1)
	go func() { result <- session.Run(ctx) }()

	lines := make(chan string)
	go func() {
		for {
			line, err := in.ReadString('\n')
			if err != nil {
				close(lines)
				return
			}
			lines <- strings.TrimSpace(line)
		}
	}()

	for {
		select {
		case err := <-result:
			finish(session.Snapshot(), err)
			return
		case line, ok := <-lines:
			if !ok {
				stop()
				continue
			}
			if line == "q" {
				stop()
				continue
			}
			if err := dispatch(session, line); err != nil {
				fmt.Println("!", err)
			}
			if snap := session.Snapshot(); snap.State == examclient.StateInProgress {
				render(snap)
			}
		}
	}
}

func chooseExam(ctx context.Context, client *examclient.Client, in *bufio.Reader, raw string) (uuid.UUID, error) {
	if raw != "" {
		return uuid.Parse(raw)
	}
	exams, err := client.ListExams(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("list exams: %w", err)
	}
	if len(exams) == 0 {
		return uuid.Nil, errors.New("no exams available")
	}
	for i, e := range exams {
		fmt.Printf("%2d) %s (%d questions)\n", i+1, e.Title, e.QuestionCount)
	}
	n, err := strconv.Atoi(prompt(in, "Exam number: "))
	if err != nil || n < 1 || n > len(exams) {
		return uuid.Nil, errors.New("invalid exam number")
	}
	return exams[n-1].ID, nil
}

func dispatch(s *examclient.Session, line string) error {
	switch {
	case line == "":
		return nil
	case line == "n":
		return s.Next()
	case line == "p":
		return s.Prev()
	case line == "s":
		return s.Submit()
	case line == "?" || line == "h":
		fmt.Println(help)
		return nil
	case strings.HasPrefix(line, "g "):
		n, err := strconv.Atoi(strings.TrimSpace(line[2:]))
		if err != nil {
			return fmt.Errorf("not a question number: %q", line[2:])
		}
		return s.GoTo(n - 1)
	case len(line) == 1 && line[0] >= 'a' && line[0] <= 'z':
		snap := s.Snapshot()
		if snap.Exam == nil || len(snap.Exam.Questions) == 0 {
			return examclient.ErrInvalidOption
		}
		options := snap.Exam.Questions[snap.Current].Options
		i := int(line[0] - 'a')
		if i >= len(options) {
			return examclient.ErrInvalidOption
		}
		return s.Select(options[i])
	}
	return fmt.Errorf("unknown command %q (? for help)", line)
}

// announcer prints state transitions. It runs on the session goroutine.
type announcer struct {
	started bool
}

func (a *announcer) onChange(snap examclient.Snapshot) {
	switch snap.State {
	case examclient.StateInProgress:
		if !a.started {
			a.started = true
			fmt.Printf("\n%s: %d questions, %s allowed\n%s\n", snap.Exam.Title, len(snap.Exam.Questions),
				examclient.FormatTimeLeft(snap.TimeLeft), help)
			render(snap)
		}
	case examclient.StateSubmitting:
		if snap.AutoSubmitted {
			fmt.Println("\nTime is up, submitting your answers...")
		} else {
			fmt.Println("Submitting...")
		}
	}
}

func render(snap examclient.Snapshot) {
	if snap.Exam == nil || len(snap.Exam.Questions) == 0 {
		return
	}
	q := snap.Exam.Questions[snap.Current]
	fmt.Printf("\n[%s left] Question %d/%d (%d answered)\n%s\n",
		examclient.FormatTimeLeft(snap.TimeLeft), snap.Current+1, len(snap.Exam.Questions), len(snap.Answers), q.Question)
	for i, opt := range q.Options {
		mark := " "
		if snap.Answers[snap.Current] == opt {
			mark = "*"
		}
		fmt.Printf(" %s %c) %s\n", mark, 'a'+i, opt)
	}
	if snap.CanSubmit() {
		fmt.Println("Last question: type s to submit.")
	}
}

func finish(snap examclient.Snapshot, err error) {
	switch {
	case snap.State == examclient.StateSubmitted:
		fmt.Printf("Exam submitted successfully (%d answered).\n", len(snap.Answers))
	case snap.State == examclient.StateSubmitFailed:
		fail("submission failed: %v", snap.Err)
	case errors.Is(err, context.Canceled):
		fmt.Println("Exam abandoned, nothing was submitted.")
	case err != nil:
		fail("%v", err)
	}
}

func prompt(in *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "take-exam: "+format+"\n", args...)
	os.Exit(1)
}
