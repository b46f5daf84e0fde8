package ports

import "github.com/bft-labs/docship/internal/domain"

// ProgressObserver receives progress of a batch pass. It is a pure sink.
type ProgressObserver interface {
	// OnStart is called once before the first attempt.
	OnStart(p domain.Progress)

	// OnProgress is called after every attempt with the updated tallies.
	OnProgress(p domain.Progress, doc domain.DocumentRef, outcome domain.Outcome)

	// OnFinish is called once when the pass ends.
	OnFinish(p domain.Progress)
}
