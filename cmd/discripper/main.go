package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"discripper/internal/rip"
)

// Exit codes mirror the scripting contract: 1 when no usable disc was
// detected, 2 for rip execution failures, 3 for everything unexpected
// (configuration, planning, missing tools).
const (
	exitOK              = 0
	exitDiscNotDetected = 1
	exitRipFailure      = 2
	exitUnexpected      = 3
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	var execErr *rip.ExecutionError
	if errors.As(err, &execErr) {
		return execErr.ExitCode
	}
	var discErr *discNotDetectedError
	if errors.As(err, &discErr) {
		return exitDiscNotDetected
	}
	return exitUnexpected
}

// discNotDetectedError marks failures that mean no usable disc: a missing or
// unreadable device, an unreadable fixture, or inspection falling over.
type discNotDetectedError struct {
	err error
}

func (e *discNotDetectedError) Error() string { return e.err.Error() }

func (e *discNotDetectedError) Unwrap() error { return e.err }

func discNotDetectedf(format string, args ...any) error {
	return &discNotDetectedError{err: fmt.Errorf(format, args...)}
}
