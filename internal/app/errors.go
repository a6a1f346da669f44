package app

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput covers missing or malformed required input.
	ErrInvalidInput     = errors.New("invalid input")
	ErrSessionNotFound  = errors.New("session not found")
	ErrQuestionNotFound = errors.New("question not found")
	// ErrForbidden means the requester is authenticated but does not own the
	// resource. It is never folded into a not-found error.
	ErrForbidden = errors.New("not authorized to access this resource")

	ErrAIResponseParse = errors.New("failed to parse AI response")
	ErrAIUnavailable   = errors.New("AI service unavailable")
	ErrAINotConfigured = fmt.Errorf("%w: not configured", ErrAIUnavailable)

	ErrEmailExists       = errors.New("email already registered")
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrUserNotFound      = errors.New("user not found")
)
