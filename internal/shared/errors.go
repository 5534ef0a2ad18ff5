package shared

import "errors"

var ErrNotImplemented = errors.New("not implemented")

var ErrInvalidConfig = errors.New("invalid configuration")

// Session errors. The api client maps a 401 to ErrNotAuthenticated.
var (
	ErrAuthFailed       = errors.New("authentication failed")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrRefreshFailed    = errors.New("token refresh failed")
	ErrNoRefreshToken   = errors.New("no refresh token available")
)

// Backend errors. Every non-2xx response wraps ErrAPIRequest plus the status-specific sentinel.
var (
	ErrAPIRequest         = errors.New("API request failed")
	ErrForbidden          = errors.New("permission denied")
	ErrNotFound           = errors.New("resource not found")
	ErrConflict           = errors.New("resource conflict")
	ErrRateLimited        = errors.New("rate limited")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timed out")
)

// ErrKeyNotFound is returned by platform storage for absent keys.
var ErrKeyNotFound = errors.New("storage key not found")

// Input errors
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingArgument = errors.New("missing required argument")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrValidation      = errors.New("validation failed")
	ErrAlreadySubmit   = errors.New("wizard already submitted")
)
