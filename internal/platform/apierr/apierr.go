package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrConfiguration         = errors.New("configuration error")
	ErrMissingCredential     = errors.New("missing credential")
	ErrInvalidCredential     = errors.New("invalid credential")
	ErrConflict              = errors.New("conflict")
	ErrValidation            = errors.New("validation error")
	ErrSuggestionUnavailable = errors.New("suggestion unavailable")
	ErrNotFound              = errors.New("not found")
)

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
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Validation wraps ErrValidation with a human readable reason.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// From maps any error onto the HTTP status and code the API exposes. Missing
// and invalid credentials collapse into the same outcome. Unknown errors are
// reported as internal errors and their text is not meant for clients.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae
	}
	switch {
	case errors.Is(err, ErrMissingCredential), errors.Is(err, ErrInvalidCredential):
		return New(http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, ErrValidation):
		return New(http.StatusBadRequest, "validation_error", err)
	case errors.Is(err, ErrConflict):
		return New(http.StatusConflict, "conflict", err)
	case errors.Is(err, ErrNotFound):
		return New(http.StatusNotFound, "not_found", err)
	case errors.Is(err, ErrSuggestionUnavailable):
		return New(http.StatusBadGateway, "suggestion_unavailable", err)
	case errors.Is(err, ErrConfiguration):
		return New(http.StatusInternalServerError, "configuration_error", err)
	default:
		return New(http.StatusInternalServerError, "internal_error", err)
	}
}

// Public reports whether the wrapped message may be shown to clients.
func (e *Error) Public() bool {
	if e == nil {
		return false
	}
	return e.Status < http.StatusInternalServerError || e.Status == http.StatusBadGateway
}
