package ports

import "github.com/bft-labs/docship/internal/domain"

// BatchContext carries the collaborators acquired once at startup and shared
// read-only by every submit of a run. The token is never refreshed mid-run.
type BatchContext struct {
	// Client is the pre-configured HTTP session (CA bundle, timeouts).
	Client HTTPClient

	// Signer produces the detached signature for every document.
	Signer Signer

	// Token authorizes document submissions.
	Token domain.Token

	// BaseURL is the API root, without trailing slash.
	BaseURL string
}
