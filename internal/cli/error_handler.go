package cli

import (
	stderrors "errors"
	"fmt"

	"todo/internal/errors"
	"todo/internal/validation"
)

// Process exit codes reported by ExitCode.
const (
	ExitFailure  = 1
	ExitUsage    = 2
	ExitNotFound = 3
)

// CommandError is a failed command with a message fit for the terminal.
// The underlying error stays reachable through Unwrap.
type CommandError struct {
	Operation string
	Message   string
	Err       error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("failed to %s: %s", e.Operation, e.Message)
}

func (e *CommandError) Unwrap() error { return e.Err }

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle provides user-friendly error messages for validation and other errors
func (eh *ErrorHandler) Handle(operation string, err error) error {
	msg := err.Error()
	var validationErr *validation.ValidationError
	if stderrors.As(err, &validationErr) {
		msg = validationErr.GetUserFriendlyMessage()
	} else if _, ok := errors.AsAppError(err); ok {
		msg = errors.GetUserMessage(err)
	}
	return &CommandError{Operation: operation, Message: msg, Err: err}
}

// IsValidationError checks if an error is a validation error
func (eh *ErrorHandler) IsValidationError(err error) bool {
	var validationErr *validation.ValidationError
	if stderrors.As(err, &validationErr) {
		return true
	}
	return errors.IsErrorType(err, errors.ErrorTypeValidation)
}

// IsNotFoundError checks if an error is a not found error
func (eh *ErrorHandler) IsNotFoundError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeNotFound)
}

// GetErrorCode returns the error code for structured errors
func (eh *ErrorHandler) GetErrorCode(err error) string {
	return errors.GetErrorCode(err)
}

// ExitCode maps a command error to the process exit status: rejected input
// is a usage error, a missing record is not-found, anything else a failure.
func (eh *ErrorHandler) ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case eh.IsValidationError(err), eh.GetErrorCode(err) == "INVALID_INPUT":
		return ExitUsage
	case eh.IsNotFoundError(err):
		return ExitNotFound
	default:
		return ExitFailure
	}
}
