// Package errors defines the application error taxonomy shared by the
// session core and the backend API client.
//
// Validation failures are handled locally by the command that detected them
// and surfaced as inline feedback; unexpected failures are logged and shown
// as a non-fatal notice. No error in this taxonomy should ever crash a session.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the base error carried across the UI boundary.
// Code is a stable machine-readable identifier, StatusCode the HTTP status
// the (future) backend would answer with.
type AppError struct {
	Message    string
	Code       string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

func NewAppError(message, code string, statusCode int) *AppError {
	return &AppError{Message: message, Code: code, StatusCode: statusCode}
}

// ValidationError reports malformed or out-of-bounds input:
// empty message, room name outside 3-50 chars, user limit outside 2-50.
type ValidationError struct {
	AppError
	Field string
}

func NewValidation(message string) *ValidationError {
	return &ValidationError{
		AppError: AppError{Message: message, Code: "VALIDATION_ERROR", StatusCode: http.StatusBadRequest},
	}
}

func NewFieldValidation(field, message string) *ValidationError {
	err := NewValidation(message)
	err.Field = field
	return err
}

// NotFoundError reports a reference to a nonexistent message, room or user.
type NotFoundError struct {
	AppError
}

func NewNotFound(message string) *NotFoundError {
	if message == "" {
		message = "Resource not found"
	}
	return &NotFoundError{
		AppError: AppError{Message: message, Code: "NOT_FOUND", StatusCode: http.StatusNotFound},
	}
}

// UnauthorizedError reports that authentication is required or has failed.
type UnauthorizedError struct {
	AppError
}

func NewUnauthorized(message string) *UnauthorizedError {
	if message == "" {
		message = "Authentication required"
	}
	return &UnauthorizedError{
		AppError: AppError{Message: message, Code: "UNAUTHORIZED", StatusCode: http.StatusUnauthorized},
	}
}

// ForbiddenError reports a disallowed action on a privileged entity,
// e.g. kicking the local viewer out of their own room.
type ForbiddenError struct {
	AppError
}

func NewForbidden(message string) *ForbiddenError {
	if message == "" {
		message = "Action not allowed"
	}
	return &ForbiddenError{
		AppError: AppError{Message: message, Code: "FORBIDDEN", StatusCode: http.StatusForbidden},
	}
}

// FromStatus maps an HTTP status and payload to the taxonomy.
// The mapping mirrors the backend contract: 400 -> ValidationError,
// 401 -> UnauthorizedError, 404 -> NotFoundError, anything else -> AppError.
func FromStatus(statusCode int, message, code string) error {
	switch statusCode {
	case http.StatusBadRequest:
		if message == "" {
			message = "Invalid request"
		}
		return NewValidation(message)
	case http.StatusUnauthorized:
		return NewUnauthorized(message)
	case http.StatusNotFound:
		return NewNotFound(message)
	default:
		if message == "" {
			message = "An error occurred"
		}
		if code == "" {
			code = "UNKNOWN_ERROR"
		}
		return NewAppError(message, code, statusCode)
	}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return stderrors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return stderrors.As(err, &target)
}

func IsUnauthorized(err error) bool {
	var target *UnauthorizedError
	return stderrors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target *ForbiddenError
	return stderrors.As(err, &target)
}
