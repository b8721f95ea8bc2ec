package service

import "errors"

// Domain errors returned to handlers. Handlers map them to HTTP statuses.
var (
	ErrDuplicateAccount          = errors.New("account with this email already exists")
	ErrInvalidCredentials        = errors.New("invalid credentials")
	ErrUnauthenticated           = errors.New("authentication required")
	ErrInvalidToken              = errors.New("invalid or expired token")
	ErrForbidden                 = errors.New("access denied for this role")
	ErrExamNotFound              = errors.New("exam not found")
	ErrQuestionSourceUnavailable = errors.New("question source unavailable")
	ErrInvalidExamRequest        = errors.New("invalid exam request")
	ErrPasswordTooLong           = errors.New("password must be at most 72 bytes")
)
