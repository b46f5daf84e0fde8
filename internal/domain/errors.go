package domain

import "errors"

// Domain errors represent error conditions in the docship domain.
// These errors are returned wrapped and can be checked with errors.Is.
var (
	// ErrFatalStartup is returned when credentials, a token or the signing
	// key cannot be obtained. No batch work is possible.
	ErrFatalStartup = errors.New("docship: fatal startup error")

	// ErrFatalLedger is returned when the failure ledger cannot be reset or
	// written. The current batch is aborted.
	ErrFatalLedger = errors.New("docship: failure ledger unavailable")

	// ErrLocked is returned when another process holds the ledger directory.
	ErrLocked = errors.New("docship: ledger is locked by another run")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("docship: invalid configuration")
)
