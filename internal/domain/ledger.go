package domain

// Ledger column names, in file order.
const (
	LedgerFieldFilename = "filename"
	LedgerFieldError    = "error"
)

// LedgerEntry is one failed document recorded in the failure ledger.
type LedgerEntry struct {
	Filename string
	Error    string
}

// DedupEntries collapses repeated filenames.
// The first occurrence keeps its position, the last occurrence wins the error text.
func DedupEntries(entries []LedgerEntry) []LedgerEntry {
	index := make(map[string]int, len(entries))
	out := make([]LedgerEntry, 0, len(entries))
	for _, e := range entries {
		if i, ok := index[e.Filename]; ok {
			out[i].Error = e.Error
			continue
		}
		index[e.Filename] = len(out)
		out = append(out, e)
	}
	return out
}
