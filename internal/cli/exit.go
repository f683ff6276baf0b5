package cli

import (
	"errors"

	"kuantokusta/internal/domain"
)

// Process exit codes
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitCode maps a command error to the process exit code
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, domain.ErrInvalidArgument):
		return ExitUsage
	default:
		return ExitFailure
	}
}
