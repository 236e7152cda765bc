// Package server provides the HTTP REST API for the career platform.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Service errors carry their own HTTP status so handlers can translate
// them without enumerating types.
type statusCoder interface {
	httpStatus() int
}

// ErrEmailAlreadyExists indicates the email is already registered.
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

func (e *ErrEmailAlreadyExists) httpStatus() int { return http.StatusConflict }

// ErrInvalidCredentials covers every login failure with one message, so
// responses do not reveal whether an account exists.
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string { return "invalid email or password" }

func (e *ErrInvalidCredentials) httpStatus() int { return http.StatusUnauthorized }

// ErrUserNotFound indicates no account exists for the ID.
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

func (e *ErrUserNotFound) httpStatus() int { return http.StatusNotFound }

// ErrPasswordMismatch indicates the current password check failed.
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string { return "current password is incorrect" }

func (e *ErrPasswordMismatch) httpStatus() int { return http.StatusUnauthorized }

// ErrValidation indicates a request field failed validation.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

func (e *ErrValidation) httpStatus() int { return http.StatusBadRequest }

// HTTPStatus maps a service error to its response status. Unknown errors
// are internal.
func HTTPStatus(err error) int {
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.httpStatus()
	}
	return http.StatusInternalServerError
}
