package executor

import "fmt"

// Error codes attached to step errors.
const (
	CodeUnsupported = "unsupported"
	CodeConfig      = "invalid_config"
	CodeHTTP        = "http_error"
	CodeDatabase    = "database_error"
	CodeScript      = "script_error"
	CodeAssertion   = "assertion_failed"
)

// StepError is a structured step failure with a machine-readable code.
type StepError struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *StepError) Unwrap() error {
	return e.Cause
}

func stepErrorf(code, format string, v ...any) *StepError {
	return &StepError{Code: code, Message: fmt.Sprintf(format, v...)}
}
