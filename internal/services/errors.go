package services

import (
	"errors"
	"fmt"
	"net/http"
)

// Error carries the HTTP status a service failure should surface as.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("service error (%d)", e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

func NewError(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

const (
	CodeValidation          = "validation_error"
	CodeNotFound            = "not_found"
	CodeForbidden           = "forbidden"
	CodeConflict            = "conflict"
	CodeInsufficientCredits = "insufficient_credits"
	CodeGeneration          = "generation_failed"
	CodeDeployment          = "deployment_failed"
	CodeInternal            = "internal_error"
)

const insufficientCreditsMessage = "Insufficient tokens. Please upgrade your plan."

var ErrBuildInProgress = errors.New("build already in progress")

func ValidationError(msg string) *Error {
	return NewError(http.StatusBadRequest, CodeValidation, errors.New(msg))
}

func NotFoundError(msg string) *Error {
	return NewError(http.StatusNotFound, CodeNotFound, errors.New(msg))
}

func ForbiddenError(msg string) *Error {
	return NewError(http.StatusForbidden, CodeForbidden, errors.New(msg))
}

func ConflictError(err error) *Error {
	return NewError(http.StatusConflict, CodeConflict, err)
}

func InsufficientCreditsError() *Error {
	return NewError(http.StatusPaymentRequired, CodeInsufficientCredits, errors.New(insufficientCreditsMessage))
}

func GenerationError(err error) *Error {
	return NewError(http.StatusInternalServerError, CodeGeneration, err)
}

func DeploymentError(msg string) *Error {
	return NewError(http.StatusInternalServerError, CodeDeployment, errors.New(msg))
}

func InternalError(err error) *Error {
	return NewError(http.StatusInternalServerError, CodeInternal, err)
}

// StatusOf returns the HTTP status for err, defaulting to 500.
func StatusOf(err error) int {
	var svcErr *Error
	if errors.As(err, &svcErr) && svcErr.Status != 0 {
		return svcErr.Status
	}
	return http.StatusInternalServerError
}
