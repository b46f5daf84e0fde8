package ports

import (
	"context"

	"github.com/bft-labs/docship/internal/domain"
)

// UploadClient submits documents to the remote service.
type UploadClient interface {
	// Submit sends one document and classifies the result.
	// It never retries internally and never returns a raw transport error:
	// every failure is folded into the returned Outcome.
	Submit(ctx context.Context, doc domain.DocumentRef) domain.Outcome
}
