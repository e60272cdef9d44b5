// Package apperr defines the structured error raised by the data-access and
// auth layers. Handlers let it propagate; the HTTP boundary converts it to the
// fail envelope using its status code and payload.
package apperr

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

type Error struct {
	Code    int
	Payload map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Payload))
	for k := range e.Payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Payload[k]))
	}
	return fmt.Sprintf("%d %s", e.Code, strings.Join(parts, "; "))
}

func New(code int, payload map[string]string) *Error {
	return &Error{Code: code, Payload: payload}
}

// BadRequest reports a business-rule failure such as bad credentials.
func BadRequest(msg string) *Error {
	return New(http.StatusBadRequest, map[string]string{"error": msg})
}

// Conflict reports a database constraint violation. msg is the first line of
// the underlying driver error.
func Conflict(msg string) *Error {
	return New(http.StatusBadRequest, map[string]string{"error": msg})
}

// NotFound reports a row lookup by id that matched nothing.
func NotFound() *Error {
	return New(http.StatusNotFound, map[string]string{"error": "object does not exist"})
}

// Unauthorized reports a missing, expired or revoked access token.
func Unauthorized(reason string) *Error {
	return New(http.StatusUnauthorized, map[string]string{"token": reason})
}
