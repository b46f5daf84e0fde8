package main

import (
	"context"
	"errors"

	"github.com/bft-labs/docship/internal/domain"
)

// Exit codes by failure class.
const (
	exitFailure       = 1
	exitInvalidConfig = 2
	exitLocked        = 3
	exitStartup       = 4
	exitLedger        = 5
	exitInterrupted   = 130
)

func exitCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidConfig):
		return exitInvalidConfig
	case errors.Is(err, domain.ErrLocked):
		return exitLocked
	case errors.Is(err, domain.ErrFatalStartup):
		return exitStartup
	case errors.Is(err, domain.ErrFatalLedger):
		return exitLedger
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	default:
		return exitFailure
	}
}
