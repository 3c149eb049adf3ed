package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable indicates the completion service is unreachable.
	ErrUnavailable = errors.New("completion service unavailable")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the LLM response could not be parsed
	// into the expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")

	// ErrMissingAPIKey indicates a hosted backend was selected without credentials.
	ErrMissingAPIKey = errors.New("llm api key is not configured")
)

// ParseFailure reports that no usable JSON object could be located in a
// completion. Raw carries the full response text for diagnostics.
type ParseFailure struct {
	Reason string
	Raw    string
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidOutput, e.Reason)
}

func (e *ParseFailure) Unwrap() error { return ErrInvalidOutput }

// ErrorPayload is the structured error object handed back to callers that
// have no behavioral fallback of their own.
type ErrorPayload struct {
	Message     string `json:"error"`
	RawResponse string `json:"raw_response"`
}

// NewErrorPayload builds an ErrorPayload from a message and the raw text.
func NewErrorPayload(msg, raw string) *ErrorPayload {
	return &ErrorPayload{Message: msg, RawResponse: raw}
}

func (e *ErrorPayload) Error() string { return e.Message }

// AsMap renders the payload in the same shape a successful JSON result
// would have, so it can be embedded where a parsed object is expected.
func (e *ErrorPayload) AsMap() map[string]any {
	return map[string]any{
		"error":        e.Message,
		"raw_response": e.RawResponse,
	}
}
