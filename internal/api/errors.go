package api

import (
	"fmt"
	"net/http"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
	"github.com/tidwall/gjson"
)

// Error is a non-2xx backend response.
//
// It matches [shared.ErrAPIRequest] and a status-specific sentinel with [errors.Is].
type Error struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
	Body       []byte
}

func newError(req *Request, status int, body []byte) *Error {
	return &Error{
		StatusCode: status,
		Method:     req.Method,
		Path:       req.Path,
		Message:    errorMessage(body),
		Body:       body,
	}
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *Error) Unwrap() []error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return []error{shared.ErrNotAuthenticated, shared.ErrAPIRequest}
	case http.StatusForbidden:
		return []error{shared.ErrForbidden, shared.ErrAPIRequest}
	case http.StatusNotFound:
		return []error{shared.ErrNotFound, shared.ErrAPIRequest}
	case http.StatusConflict:
		return []error{shared.ErrConflict, shared.ErrAPIRequest}
	case http.StatusTooManyRequests:
		return []error{shared.ErrRateLimited, shared.ErrAPIRequest}
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return []error{shared.ErrServiceUnavailable, shared.ErrAPIRequest}
	default:
		return []error{shared.ErrAPIRequest}
	}
}

// errorMessage extracts the backend's human-readable error text.
func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	for _, path := range []string{"message", "error.message", "error", "detail"} {
		if r := gjson.GetBytes(body, path); r.Type == gjson.String && r.Str != "" {
			return r.Str
		}
	}
	return ""
}
