package rip

import (
	"errors"
	"fmt"
)

// ExitCodeRipFailure is the exit code carried by every execution failure.
const ExitCodeRipFailure = 2

// ErrNoRipTool is returned by planning when neither dvdbackup nor ffmpeg
// resolves. It happens before any plan exists and is never retried.
var ErrNoRipTool = errors.New("no supported ripping tools found on PATH")

// ErrDestinationExists marks overwrite-guard rejections: the destination was
// already present before any tool ran. Callers distinguish guarded plans from
// genuine failures with errors.Is.
var ErrDestinationExists = errors.New("destination already exists")

// ExecutionError reports a failed rip execution. The message is safe to print
// to users directly; internal detail stays in the structured log.
type ExecutionError struct {
	Message  string
	ExitCode int

	err error
}

func (e *ExecutionError) Error() string {
	return e.Message
}

func (e *ExecutionError) Unwrap() error {
	return e.err
}

func executionErrorf(format string, args ...any) *ExecutionError {
	return &ExecutionError{Message: fmt.Sprintf(format, args...), ExitCode: ExitCodeRipFailure}
}

func guardError(destination string) *ExecutionError {
	return &ExecutionError{
		Message:  fmt.Sprintf("destination already exists: %s", destination),
		ExitCode: ExitCodeRipFailure,
		err:      ErrDestinationExists,
	}
}
