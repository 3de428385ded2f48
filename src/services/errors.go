package services

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindNotFound Kind = iota + 1
	KindBadRequest
	KindValidation
	KindBusinessRule
	KindUnauthorized
	KindForbidden
)

// Error is a failure the caller can act on. Anything that is not an *Error is
// an internal failure.
type Error struct {
	Kind    Kind
	Message string
	Details []string
}

func (e *Error) Error() string {
	return e.Message
}

func NotFound(resource, field string, value any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found with %s: %v", resource, field, value)}
}

func BadRequest(format string, args ...any) *Error {
	return &Error{Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

func Validation(details ...string) *Error {
	return &Error{Kind: KindValidation, Message: "Invalid input data", Details: details}
}

func BusinessRule(format string, args ...any) *Error {
	return &Error{Kind: KindBusinessRule, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// KindOf returns the kind of err, or 0 for internal errors.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return 0
}
