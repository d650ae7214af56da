package catalog

import (
	"errors"

	"github.com/sundayezeilo/brandcatalog/internal/errx"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrInvalidAction = errors.New("invalid action")
	ErrNotFound      = errors.New("brand not found")
	ErrFetch         = errors.New("fetch catalog")
	ErrPublish       = errors.New("publish catalog")
	ErrConflict      = errors.New("catalog version conflict") // matches ErrPublish too
	ErrNoDeploys     = errors.New("no deploys")
	ErrDeployTrigger = errors.New("trigger deploy")
)

const defaultMessage = "Failed to update catalog"

// Error is a workflow failure. Message is safe to return to callers; Err
// holds the upstream cause for logs.
type Error struct {
	Code    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	if target == e.Code {
		return true
	}
	return e.Code == ErrConflict && target == ErrPublish
}

// E builds a *Error and tags it with op and the errx kind matching code.
func E(op string, code error, message string, cause error) error {
	return errx.E(op, KindFor(code), &Error{Code: code, Message: message, Err: cause})
}

// KindFor maps a taxonomy sentinel to an errx kind.
func KindFor(code error) errx.Kind {
	switch code {
	case ErrValidation, ErrInvalidAction:
		return errx.Invalid
	case ErrNotFound:
		return errx.NotFound
	case ErrConflict:
		return errx.Conflict
	case ErrFetch, ErrPublish, ErrNoDeploys, ErrDeployTrigger:
		return errx.Unavailable
	default:
		return errx.Internal
	}
}

// MessageOf returns the caller-facing message carried by err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return defaultMessage
}
