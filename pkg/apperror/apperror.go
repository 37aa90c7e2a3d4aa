package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an application error. Handlers map it to an HTTP status.
type Kind string

const (
	KindInvalidIdentifier  Kind = "invalid_identifier"
	KindNotFound           Kind = "not_found"
	KindValidation         Kind = "validation_error"
	KindForbidden          Kind = "forbidden"
	KindUnauthenticated    Kind = "unauthenticated"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindAlreadyVoted       Kind = "already_voted"
	KindVoteNotFound       Kind = "vote_not_found"
	KindQuery              Kind = "query_error"
	KindUnavailable        Kind = "unavailable"
	KindRateLimited        Kind = "rate_limited"
	KindInternal           Kind = "internal"
)

// Error carries a kind, a human readable detail and an optional cause.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports kind equality so that errors.Is(err, apperror.ErrNotFound) works
// for any detail.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrInvalidIdentifier  = &Error{Kind: KindInvalidIdentifier}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrValidation         = &Error{Kind: KindValidation}
	ErrForbidden          = &Error{Kind: KindForbidden}
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials}
	ErrAlreadyVoted       = &Error{Kind: KindAlreadyVoted}
	ErrVoteNotFound       = &Error{Kind: KindVoteNotFound}
	ErrQuery              = &Error{Kind: KindQuery}
	ErrUnavailable        = &Error{Kind: KindUnavailable}
	ErrInternal           = &Error{Kind: KindInternal}
)

func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

func Wrap(kind Kind, detail string, err error) *Error {
	return &Error{Kind: kind, Detail: detail, Err: err}
}

func InvalidIdentifier(detail string) *Error { return New(KindInvalidIdentifier, detail) }
func NotFound(detail string) *Error          { return New(KindNotFound, detail) }
func Validation(detail string) *Error        { return New(KindValidation, detail) }
func Forbidden(detail string) *Error         { return New(KindForbidden, detail) }
func Unauthenticated(detail string) *Error   { return New(KindUnauthenticated, detail) }
func Query(detail string) *Error             { return New(KindQuery, detail) }
func Unavailable(detail string) *Error       { return New(KindUnavailable, detail) }

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps err to the status class surfaced to API callers.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidIdentifier, KindValidation, KindAlreadyVoted, KindQuery:
		return http.StatusBadRequest
	case KindUnauthenticated, KindInvalidCredentials:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound, KindVoteNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the detail safe to show to callers. Internal errors never
// leak their cause.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Error()
	}
	return "internal server error"
}
