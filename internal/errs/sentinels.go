// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across client/store layers.
var (
	// ErrNotFound indicates the requested key or entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates the backend rejected the bearer credential (HTTP 401).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRequestFailed indicates any other non-success backend response.
	ErrRequestFailed = errors.New("request failed")

	// ErrMissingParameter indicates a client-side precondition failed before any request was sent.
	ErrMissingParameter = errors.New("missing parameter")

	// ErrValidation indicates a required-field, email or image URL check failed.
	ErrValidation = errors.New("validation failed")

	// ErrAdminRequired indicates a destructive action was attempted outside admin mode.
	ErrAdminRequired = errors.New("admin access required")
)
