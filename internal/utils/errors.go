package utils

import "errors"

// Common application errors used across services. Callers wrap them with
// fmt.Errorf("...: %w", ...) and handlers map them to HTTP status codes.
var (
	ErrNotFound       = errors.New("NOT_FOUND")
	ErrUnauthorized   = errors.New("UNAUTHORIZED")
	ErrForbidden      = errors.New("FORBIDDEN")
	ErrInvalidRequest = errors.New("INVALID_REQUEST")
	ErrUpstream       = errors.New("UPSTREAM_FAILURE")
)
