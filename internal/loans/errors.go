package loans

import (
	"errors"
	"fmt"
	"net/http"

	"labloan-backend/internal/directory"
	"labloan-backend/internal/platform/logger"
)

// -------------- Error model & mapping --------------

type Code string

const (
	CodeInvalidArgument      Code = "INVALID_ARGUMENT"
	CodeUnauthenticated      Code = "UNAUTHENTICATED"
	CodeForbidden            Code = "FORBIDDEN"
	CodeNotFound             Code = "NOT_FOUND"
	CodeWrongLab             Code = "WRONG_LAB"
	CodeNotAvailable         Code = "NOT_AVAILABLE"
	CodeDuplicateRequest     Code = "DUPLICATE_REQUEST"
	CodeAlreadyResolved      Code = "ALREADY_RESOLVED"
	CodeConstraintViolation  Code = "CONSTRAINT_VIOLATION" // race lost on an unexpected key
	CodeDirectoryUnavailable Code = "DIRECTORY_UNAVAILABLE"
	CodeInternal             Code = "INTERNAL"
)

type APIError struct {
	Code    Code
	Message string
	// AllowedLab is set for CodeWrongLab.
	AllowedLab string
}

func (e *APIError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func ErrInvalid(msg string) *APIError         { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrUnauthenticated(msg string) *APIError { return &APIError{Code: CodeUnauthenticated, Message: msg} }
func ErrForbidden(msg string) *APIError       { return &APIError{Code: CodeForbidden, Message: msg} }
func ErrNotFound(msg string) *APIError        { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrNotAvailable(msg string) *APIError    { return &APIError{Code: CodeNotAvailable, Message: msg} }
func ErrDuplicate(msg string) *APIError       { return &APIError{Code: CodeDuplicateRequest, Message: msg} }
func ErrAlreadyResolved(msg string) *APIError { return &APIError{Code: CodeAlreadyResolved, Message: msg} }
func ErrConstraint(msg string) *APIError      { return &APIError{Code: CodeConstraintViolation, Message: msg} }
func ErrUnavailable(msg string) *APIError     { return &APIError{Code: CodeDirectoryUnavailable, Message: msg} }
func ErrInternal(msg string) *APIError        { return &APIError{Code: CodeInternal, Message: msg} }

func ErrWrongLab(allowed string) *APIError {
	return &APIError{
		Code:       CodeWrongLab,
		Message:    fmt.Sprintf("your program may only book computers in %s", allowed),
		AllowedLab: allowed,
	}
}

func ToHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return http.StatusBadRequest
		case CodeUnauthenticated:
			return http.StatusUnauthorized
		case CodeForbidden, CodeWrongLab:
			return http.StatusForbidden
		case CodeNotFound:
			return http.StatusNotFound
		case CodeNotAvailable, CodeDuplicateRequest, CodeAlreadyResolved, CodeConstraintViolation:
			return http.StatusConflict
		case CodeDirectoryUnavailable:
			return http.StatusServiceUnavailable
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}

// directoryErr turns an unexpected directory failure into an APIError.
// Expected outcomes (not found, no match, constraint) are mapped at the call site.
func directoryErr(op string, err error) *APIError {
	var api *APIError
	if errors.As(err, &api) {
		return api
	}
	if errors.Is(err, directory.ErrUnavailable) {
		logger.Warn().Err(err).Str("op", op).Msg("directory unavailable")
		return ErrUnavailable("directory service unavailable, try again")
	}
	logger.Error().Err(err).Str("op", op).Msg("directory call failed")
	return ErrInternal(op + " failed")
}
