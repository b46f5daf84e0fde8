package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/google/uuid"

	"github.com/bft-labs/docship/internal/domain"
	"github.com/bft-labs/docship/internal/ports"
)

const documentsEndpoint = "/documents/send"

type sendDocumentRequest struct {
	Document       string `json:"document"`
	Sign           string `json:"sign"`
	RequestID      string `json:"request_id"`
	BulkProcessing string `json:"bulk_processing"`
}

// DocumentUploader implements ports.UploadClient over HTTP.
type DocumentUploader struct {
	bc           ports.BatchContext
	logger       ports.Logger
	newRequestID func() string
}

// NewDocumentUploader creates an uploader bound to an authorized batch context.
func NewDocumentUploader(bc ports.BatchContext, logger ports.Logger) *DocumentUploader {
	return &DocumentUploader{
		bc:           bc,
		logger:       logger,
		newRequestID: func() string { return uuid.New().String() },
	}
}

// Submit reads, signs and sends one document. It makes exactly one request.
func (u *DocumentUploader) Submit(ctx context.Context, doc domain.DocumentRef) domain.Outcome {
	content, err := os.ReadFile(doc.Path)
	if err != nil {
		return domain.Failure(domain.KindOther, fmt.Sprintf("read document: %v", err))
	}

	// the signature covers the raw text, not its base64 form
	signature, err := u.bc.Signer.Sign(ctx, string(content))
	if err != nil {
		return domain.Failure(domain.KindOther, fmt.Sprintf("sign document: %v", err))
	}

	requestID := u.newRequestID()
	payload, err := json.Marshal(sendDocumentRequest{
		Document:       base64.StdEncoding.EncodeToString(content),
		Sign:           signature,
		RequestID:      requestID,
		BulkProcessing: "false",
	})
	if err != nil {
		return domain.Failure(domain.KindOther, fmt.Sprintf("marshal request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.bc.BaseURL+documentsEndpoint, bytes.NewReader(payload))
	if err != nil {
		return domain.Failure(domain.KindOther, fmt.Sprintf("create request: %v", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "token "+u.bc.Token.Value)

	resp, err := u.bc.Client.Do(req)
	if err != nil {
		return classifyTransport(err).Outcome()
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if rerr := classifyStatus(resp); rerr != nil {
		return rerr.Outcome()
	}

	u.logger.Debug("document accepted",
		ports.String("document", doc.ID),
		ports.String("request_id", requestID),
		ports.Int("status", resp.StatusCode),
	)
	return domain.Success()
}
