// Package apperr defines the error taxonomy shared by the service layer and
// HTTP handlers. Every public operation returns one of these kinds so the
// handlers can map failures to status codes without string matching.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies an error for status mapping and logging.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindGateway
	KindSignature
	KindNotFound
	KindPrecondition
	KindConflict
	KindNotification
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindGateway:
		return "gateway"
	case KindSignature:
		return "signature"
	case KindNotFound:
		return "not_found"
	case KindPrecondition:
		return "precondition"
	case KindConflict:
		return "conflict"
	case KindNotification:
		return "notification"
	default:
		return "internal"
	}
}

// Error carries a kind, a caller-safe message, and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches another *Error by kind, so errors.Is(err, apperr.NotFound("x"))
// and the sentinel helpers below both work.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

func newErr(k Kind, msg string, cause error) *Error {
	return &Error{Kind: k, Message: msg, cause: cause}
}

func Validation(msg string) *Error              { return newErr(KindValidation, msg, nil) }
func Validationf(f string, a ...any) *Error     { return newErr(KindValidation, fmt.Sprintf(f, a...), nil) }
func Gateway(msg string, cause error) *Error    { return newErr(KindGateway, msg, cause) }
func Signature(msg string) *Error               { return newErr(KindSignature, msg, nil) }
func NotFound(msg string) *Error                { return newErr(KindNotFound, msg, nil) }
func Precondition(msg string) *Error            { return newErr(KindPrecondition, msg, nil) }
func Conflict(msg string) *Error                { return newErr(KindConflict, msg, nil) }
func Notification(msg string, cause error) *Error { return newErr(KindNotification, msg, cause) }
func Internal(msg string, cause error) *Error   { return newErr(KindInternal, msg, cause) }

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error kind to the response status.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindSignature:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindPrecondition, KindConflict:
		return http.StatusConflict
	case KindGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the caller-safe message for err. Foreign errors get
// a generic message so internals never leak.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

// Scrub removes any occurrence of the given secrets from s. Used before
// echoing upstream error text into logs or responses.
func Scrub(s string, secrets ...string) string {
	for _, sec := range secrets {
		if sec == "" {
			continue
		}
		s = strings.ReplaceAll(s, sec, "[redacted]")
	}
	return s
}
