package generation

import (
	"errors"
	"fmt"

	"github.com/bizmatters/agent-builder/testcase-generator/internal/ratelimit"
)

// ValidationError rejects a request before any work is done.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// CompletionError wraps any failure of the completion call.
type CompletionError struct {
	Kind string
	Err  error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("%s completion failed: %v", e.Kind, e.Err)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

// ParseError reports model output that could not be decoded into the expected shape.
type ParseError struct {
	Reason string
	Raw    string
}

func (e *ParseError) Error() string {
	return "unparseable completion: " + e.Reason
}

// reasonOf names the error kind for logs, metrics and outcomes.
func reasonOf(err error) string {
	var rateErr *ratelimit.ExceededError
	var parseErr *ParseError
	var complErr *CompletionError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &rateErr):
		return "rate_limited"
	case errors.As(err, &parseErr):
		return "parse_error"
	case errors.As(err, &complErr):
		return "completion_error"
	default:
		return "unknown"
	}
}
