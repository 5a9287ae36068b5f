package errs

import (
	"errors"
	"fmt"
)

// RequestError is a non-2xx, non-401 backend reply. It matches ErrRequestFailed.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Message
}

// Unwrap lets errors.Is(err, ErrRequestFailed) match.
func (e *RequestError) Unwrap() error { return ErrRequestFailed }

// Kind names the taxonomy bucket of err, or "" when err is not one of ours.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrMissingParameter):
		return "missing_parameter"
	case errors.Is(err, ErrValidation):
		return "validation_failed"
	case errors.Is(err, ErrRequestFailed):
		return "request_failed"
	case errors.Is(err, ErrAdminRequired):
		return "admin_required"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return ""
	}
}
