package restapi

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError carries the HTTP status so callers can branch on the code
// (401 vs 409 and so on) instead of matching message text.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Code, e.Message)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Code == code
}

// IsAuthError reports whether err is the benign "not logged in" pair.
func IsAuthError(err error) bool {
	return IsStatus(err, http.StatusUnauthorized) || IsStatus(err, http.StatusForbidden)
}

func IsConflict(err error) bool {
	return IsStatus(err, http.StatusConflict)
}

// ErrorMessage extracts the server-provided message, or a generic fallback
// for transport-level failures.
func ErrorMessage(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Message != "" {
		return statusErr.Message
	}
	return "connection error"
}
