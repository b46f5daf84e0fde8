package domain

import "fmt"

// Progress holds the running tallies of one batch pass.
// Counters only grow during a pass and are reset at the start of the next one.
type Progress struct {
	Attempted int
	Succeeded int
	Total     int
}

// NewProgress returns zeroed tallies for a pass over total documents.
func NewProgress(total int) Progress {
	return Progress{Total: total}
}

// Failed returns the number of attempts that did not succeed.
func (p Progress) Failed() int {
	return p.Attempted - p.Succeeded
}

// Complete reports whether every document of the pass was loaded.
func (p Progress) Complete() bool {
	return p.Succeeded == p.Total
}

// Tally renders the running counter shown after every success.
func (p Progress) Tally() string {
	return fmt.Sprintf("Loaded: %d out of %d", p.Succeeded, p.Total)
}

// Summary renders the final line shown once a pass ends.
func (p Progress) Summary() string {
	if p.Complete() {
		return fmt.Sprintf("All %d documents are loaded", p.Total)
	}
	return fmt.Sprintf("%d failed loads out of %d, retry to load them again", p.Total-p.Succeeded, p.Total)
}
