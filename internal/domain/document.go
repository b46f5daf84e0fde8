package domain

// DocumentRef identifies one document to submit.
// It is created per batch pass and discarded after the attempt.
type DocumentRef struct {
	// ID is the document identifier recorded in the ledger (the file name).
	ID string

	// Path is the resolvable location of the document content.
	Path string
}

// Token is the session token returned by the authorization handshake.
type Token struct {
	Value string

	// LifetimeMinutes is the token lifetime reported by the service.
	LifetimeMinutes int
}
