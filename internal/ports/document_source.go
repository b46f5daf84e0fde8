package ports

import "github.com/bft-labs/docship/internal/domain"

// DocumentSource produces the ordered, finite sequence of documents of one pass.
type DocumentSource interface {
	// Len returns the number of documents Items will yield.
	// It is known before iteration and drives the progress total.
	Len() int

	// Items returns the documents in submission order.
	Items() []domain.DocumentRef
}
