package ports

import (
	"context"

	"github.com/bft-labs/docship/internal/domain"
)

// Signer produces detached signatures.
type Signer interface {
	// Sign returns the base64 detached signature over content.
	Sign(ctx context.Context, content string) (string, error)
}

// Authenticator performs the two-step handshake that yields a session token.
type Authenticator interface {
	// Authenticate requests a one-time exchange code.
	Authenticate(ctx context.Context) (string, error)

	// Authorize trades the exchange code and its signature for a token.
	Authorize(ctx context.Context, code, signature string) (domain.Token, error)
}
