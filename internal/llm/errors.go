package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable indicates the completion API could not be reached.
	ErrUnavailable = errors.New("completion api unavailable")

	// ErrTimeout indicates the request exceeded its task timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the response could not be parsed into the
	// expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")
)

// maxErrorBody bounds how much of a failed response body is kept.
const maxErrorBody = 2048

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("completion api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("completion api returned status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the status is worth another attempt.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

func newStatusError(code int, body []byte) *StatusError {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &StatusError{StatusCode: code, Body: string(body)}
}
