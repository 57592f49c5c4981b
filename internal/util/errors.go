package util

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an application error for HTTP mapping and for callers
// that branch on the failure class rather than the exact sentinel.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1 // malformed or missing input
	KindState                          // operation invalid for the current status
	KindIntegrity                      // cross-entity mismatch or duplicate
	KindTimeout                        // time limit exceeded
	KindNotFound                       // unknown id
)

type AppError struct {
	Kind    ErrorKind
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func Validation(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func StateError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindState, Message: fmt.Sprintf(format, args...)}
}

func Integrity(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindIntegrity, Message: fmt.Sprintf(format, args...)}
}

func Timeout(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindTimeout, Message: fmt.Sprintf(format, args...)}
}

func NotFoundError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

var (
	ErrUserNotFound          = NotFoundError("user not found")
	ErrTraineeNotFound       = NotFoundError("trainee not found")
	ErrQuestionnaireNotFound = NotFoundError("questionnaire not found")
	ErrQuestionNotFound      = NotFoundError("question not found")
	ErrParcoursNotFound      = NotFoundError("parcours not found")

	ErrEmailRegistered   = Validation("email already registered")
	ErrLoginRegistered   = Validation("login already registered")
	ErrInvalidCredential = Validation("invalid login or password")
	ErrAccountDisabled   = StateError("account is disabled")

	ErrParcoursNotInProgress = StateError("parcours is no longer in progress")
	ErrParcoursInProgress    = StateError("a parcours is already in progress for this questionnaire")
	ErrAllQuestionsAnswered  = StateError("all questions have been answered; finish the parcours")

	ErrAlreadyAnswered  = Integrity("question already answered in this parcours")
	ErrForeignQuestion  = Integrity("question does not belong to the parcours questionnaire")
	ErrInvalidSelection = Integrity("selected answer does not belong to the question")

	ErrTimeLimitExceeded = Timeout("time limit exceeded; parcours abandoned")
)
