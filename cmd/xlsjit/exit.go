package main

import (
	stderrors "errors"
	"fmt"

	"github.com/shaunstanislauslau/xls/errors"
)

// Exit codes.
const (
	ExitSuccess      = 0 // command succeeded
	ExitFailure      = 1 // property falsified or replay still failing
	ExitCommandError = 2 // bad input, parse or compile failure
)

// ExitError carries the process exit code of a failed command.
type ExitError struct {
	Err     error
	Message string
	Code    int
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps err with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// exitCode maps err to a process exit code. Structured errors of the
// library are command errors; anything else is a plain failure.
func exitCode(err error) int {
	var exitErr *ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.Code
	}
	var xlsErr *errors.Error
	if stderrors.As(err, &xlsErr) {
		return ExitCommandError
	}
	return ExitFailure
}
