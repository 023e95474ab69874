package cli

import (
	"fmt"

	clierrors "github.com/ariel-frischer/scriv/internal/errors"
)

// Exit codes for the scriv CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure
	ExitFailure = 1

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitMissingPrerequisite indicates a missing fragment directory or nothing to collect
	ExitMissingPrerequisite = 4

	// ExitConfigError indicates settings could not be read, resolved or validated
	ExitConfigError = 6
)

// ExitError carries an exit code for an error that has already been reported.
type ExitError struct {
	Code int
}

// NewExitError returns an ExitError with the given code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// exitCodeFor maps an error category to its exit code.
func exitCodeFor(category clierrors.ErrorCategory) int {
	switch category {
	case clierrors.Argument:
		return ExitInvalidArguments
	case clierrors.Configuration:
		return ExitConfigError
	case clierrors.Prerequisite:
		return ExitMissingPrerequisite
	default:
		return ExitFailure
	}
}
