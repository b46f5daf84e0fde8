package ports

import "context"

// FailureLedger is the durable record of documents that failed in the current pass.
// Implementations must leave a complete, re-readable snapshot after every call.
type FailureLedger interface {
	// Reset truncates the ledger to its header. Called once at the start of every pass.
	Reset(ctx context.Context) error

	// Record appends one failure. It returns only after the entry is durable.
	Record(ctx context.Context, id, errMsg string) error

	// LoadAll returns the recorded identifiers in the order they were recorded.
	LoadAll(ctx context.Context) ([]string, error)
}
