package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"

	"github.com/bft-labs/docship/internal/domain"
)

const maxErrorBodyBytes = 512

// RequestError is a classified failure of a single request.
type RequestError struct {
	Kind    domain.FailureKind
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// Outcome converts the error into a failed upload outcome.
func (e *RequestError) Outcome() domain.Outcome {
	return domain.Failure(e.Kind, e.Message)
}

// classifyTransport maps a transport error from Client.Do onto the failure taxonomy.
func classifyTransport(err error) *RequestError {
	msg := err.Error()

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return &RequestError{Kind: domain.KindTimeout, Message: msg}
	case isConnectionError(err):
		return &RequestError{Kind: domain.KindConnectionError, Message: msg}
	default:
		return &RequestError{Kind: domain.KindOther, Message: msg}
	}
}

func isConnectionError(err error) bool {
	var opErr *net.OpError
	var dnsErr *net.DNSError
	return errors.As(err, &opErr) ||
		errors.As(err, &dnsErr) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}

// classifyStatus returns nil for 2xx responses and an HTTPError otherwise.
// The message mirrors "<code> Client Error: <text> for url: <url>" and carries
// the start of the response body.
func classifyStatus(resp *http.Response) *RequestError {
	if resp.StatusCode/100 == 2 {
		return nil
	}

	side := "Server"
	if resp.StatusCode/100 == 4 {
		side = "Client"
	}
	msg := fmt.Sprintf("%d %s Error: %s", resp.StatusCode, side, http.StatusText(resp.StatusCode))
	if resp.Request != nil && resp.Request.URL != nil {
		msg += " for url: " + resp.Request.URL.String()
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if b := strings.TrimSpace(string(body)); b != "" {
		msg += ": " + b
	}
	return &RequestError{Kind: domain.KindHTTPError, Message: msg}
}
