// Package apperr carries coded errors from the stores and services up to the
// HTTP layer, which maps each code to a status and a JSON envelope.
package apperr

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Code string

const (
	CodeValidation   Code = "validation"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeEmailInUse   Code = "email_in_use"
	CodePermission   Code = "permission_denied"
	CodeRateLimited  Code = "rate_limited"
	CodeUnavailable  Code = "unavailable"
	CodeInternal     Code = "internal"
)

// PermissionMessage replaces the raw "permission denied for table" text from
// PostgreSQL with something an operator can act on.
const PermissionMessage = "Missing or insufficient permissions. Grant the service's database role " +
	"SELECT, INSERT, UPDATE and DELETE on the users, jobs and applications tables, then retry."

type Error struct {
	Code    Code
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Validation builds a validation error with optional per-field messages.
func Validation(message string, fields map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: message, Fields: fields}
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

// CodeOf returns CodeInternal for errors that carry no code.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

func Is(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// FromStore classifies an error coming back from gorm/PostgreSQL. prefix
// describes the operation ("Failed to submit application") and is kept in the
// message so the caller can tell which write failed.
func FromStore(prefix string, err error) error {
	if err == nil {
		return nil
	}
	var coded *Error
	if errors.As(err, &coded) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return New(CodeNotFound, prefix+": record not found", err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "42501": // insufficient_privilege
			return New(CodePermission, PermissionMessage, err)
		case "23505": // unique_violation
			return New(CodeConflict, prefix+": already exists", err)
		case "22P02": // invalid_text_representation, e.g. a malformed uuid
			return New(CodeNotFound, prefix+": record not found", err)
		}
	}
	return New(CodeInternal, prefix, err)
}

// Message is what a client gets to see. Internal errors keep the wrapped
// store message behind their prefix.
func Message(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Code == CodeInternal {
		return e.Error()
	}
	return e.Message
}

// Status maps a code to its HTTP status.
func Status(code Code) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden, CodePermission:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeEmailInUse:
		return http.StatusConflict
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
