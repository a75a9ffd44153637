package pipeline

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/pathway/internal/intelligence"
	"github.com/alexanderramin/pathway/internal/llm"
)

// ErrOutlineCardinality marks an outline with the wrong number of chapters.
var ErrOutlineCardinality = errors.New("outline chapter count mismatch")

const retryHint = "Please try again in a moment."

// OutlineError is the only failure a run reports to its caller. Message is
// meant for the learner.
type OutlineError struct {
	Message string
	Cause   error
}

func (e *OutlineError) Error() string { return e.Message }

func (e *OutlineError) Unwrap() error { return e.Cause }

// Hint suggests what the learner can do next.
func (e *OutlineError) Hint() string { return retryHint }

func newOutlineError(cause error) *OutlineError {
	var se *llm.StatusError
	var msg string
	switch {
	case errors.Is(cause, llm.ErrTimeout):
		msg = "Creating your course outline took too long."
	case errors.Is(cause, ErrOutlineCardinality):
		msg = "The course outline came back incomplete."
	case intelligence.IsMalformed(cause):
		msg = "The course outline came back in a form we could not read."
	case errors.As(cause, &se):
		msg = fmt.Sprintf("The AI service rejected the outline request (status %d).", se.StatusCode)
	default:
		msg = "The AI service could not be reached to create your course outline."
	}
	return &OutlineError{Message: msg, Cause: cause}
}
