// Package apperr defines the application error taxonomy.
// Every layer fails with the most specific kind; the HTTP error
// middleware is the single place that maps kinds to responses.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindValidation Kind = iota // malformed or missing input
	KindAuth                   // missing/invalid/expired credential
	KindForbidden              // authenticated but not authorized
	KindNotFound               // resource absent
	KindDatabase               // storage failure
	KindInternal               // programming error, fail loudly
)

// Error is a typed application error carrying an HTTP-mappable kind.
type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.err
}

func (e *Error) Kind() Kind {
	return e.kind
}

// Status maps the kind to its HTTP status code.
func (e *Error) Status() int {
	switch e.kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...any) *Error {
	return newf(KindValidation, format, args...)
}

func Authf(format string, args ...any) *Error {
	return newf(KindAuth, format, args...)
}

func Forbiddenf(format string, args ...any) *Error {
	return newf(KindForbidden, format, args...)
}

func NotFoundf(format string, args ...any) *Error {
	return newf(KindNotFound, format, args...)
}

func Databasef(format string, args ...any) *Error {
	return newf(KindDatabase, format, args...)
}

// Internalf marks a programming-error condition, such as a malformed
// entity reaching the authorization rules. Distinct from a denial.
func Internalf(format string, args ...any) *Error {
	return newf(KindInternal, format, args...)
}

// Wrap attaches a cause while keeping the kind and message.
func (e *Error) Wrap(err error) *Error {
	e.err = err
	return e
}

// IsKind reports whether err is an application error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.kind == kind
}

// StatusOf returns the HTTP status for any error, 500 when untyped.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status()
	}
	return http.StatusInternalServerError
}
