// Package apperrors provides the common internal error type wrapped by the
// typed errors each usecase exposes.
package apperrors

import (
	"fmt"
	"runtime"
)

// InternalError carries the origin of a failure alongside a message that is
// safe to show to a user.
type InternalError struct {
	file          string
	Function      string
	Call          string
	Message       string
	OriginalError error
}

// CreateAppError creates a new InternalError tagged with the calling file and
// the given function name.
func CreateAppError(function string) InternalError {
	_, file, _, _ := runtime.Caller(1)

	return InternalError{
		file:     file,
		Function: function,
	}
}

func (e InternalError) Error() string {
	if e.OriginalError == nil {
		return fmt.Sprintf("%s - %s - %s", e.file, e.Function, e.Call)
	}

	return fmt.Sprintf("%s - %s - %s: %s", e.file, e.Function, e.Call, e.OriginalError)
}

func (e InternalError) Unwrap() error {
	return e.OriginalError
}

// Wrap records the failing call and the underlying error.
func (e *InternalError) Wrap(call, function string, err error) error {
	e.Call = call
	e.Function = function
	e.OriginalError = err

	return e
}

// FriendlyMessage returns the user-facing message for this error.
func (e InternalError) FriendlyMessage() string {
	if e.Message == "" {
		return "an unexpected error occurred"
	}

	return e.Message
}
