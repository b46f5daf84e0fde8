package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/bft-labs/docship/internal/domain"
	"github.com/bft-labs/docship/internal/ports"
)

const (
	authEndpoint  = "/auth"
	tokenEndpoint = "/token"

	// authTypeSignedCode selects the resident flow where the exchange code is signed.
	authTypeSignedCode = "SIGNED_CODE"
)

// Credentials identify the accounting system and the signing user.
type Credentials struct {
	ClientID     string
	ClientSecret string
	// UserID is the thumbprint of the user's certificate.
	UserID string
}

type authRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	UserID       string `json:"user_id"`
	AuthType     string `json:"auth_type"`
}

type authResponse struct {
	Code string `json:"code"`
}

type tokenRequest struct {
	Code      string `json:"code"`
	Signature string `json:"signature"`
}

type tokenResponse struct {
	Token    string `json:"token"`
	LifeTime int    `json:"life_time"`
}

// Authenticator implements ports.Authenticator over HTTP.
// Transient failures (connection errors, 5xx, 429) are retried up to the
// configured count; the handshake is idempotent.
type Authenticator struct {
	client  *retryablehttp.Client
	baseURL string
	creds   Credentials
}

// AuthOption customizes an Authenticator.
type AuthOption func(*retryablehttp.Client)

// WithMinRetryWait makes every retry wait at least d after the failed attempt,
// even when the server asks for less via Retry-After. Pass the request
// interval so retries never outpace regular requests.
func WithMinRetryWait(d time.Duration) AuthOption {
	return func(c *retryablehttp.Client) {
		if d <= 0 {
			return
		}
		if c.RetryWaitMin < d {
			c.RetryWaitMin = d
		}
		if c.RetryWaitMax < c.RetryWaitMin {
			c.RetryWaitMax = c.RetryWaitMin
		}
		backoff := c.Backoff
		c.Backoff = func(lo, hi time.Duration, attempt int, resp *http.Response) time.Duration {
			if wait := backoff(lo, hi, attempt, resp); wait > d {
				return wait
			}
			return d
		}
	}
}

// NewAuthenticator creates an authenticator on top of the shared HTTP session.
func NewAuthenticator(httpClient *http.Client, baseURL string, creds Credentials, retries int, logger ports.Logger, opts ...AuthOption) *Authenticator {
	c := retryablehttp.NewClient()
	c.HTTPClient = httpClient
	c.RetryMax = retries
	c.RetryWaitMin = 500 * time.Millisecond
	c.RetryWaitMax = 5 * time.Second
	c.Logger = leveledLogger{logger: logger}
	// hand back the last response or error instead of a generic "giving up" error
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler

	for _, opt := range opts {
		opt(c)
	}

	return &Authenticator{
		client:  c,
		baseURL: baseURL,
		creds:   creds,
	}
}

// Authenticate requests a one-time exchange code.
func (a *Authenticator) Authenticate(ctx context.Context) (string, error) {
	var resp authResponse
	err := a.postJSON(ctx, authEndpoint, authRequest{
		ClientID:     a.creds.ClientID,
		ClientSecret: a.creds.ClientSecret,
		UserID:       a.creds.UserID,
		AuthType:     authTypeSignedCode,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Code == "" {
		return "", &RequestError{Kind: domain.KindOther, Message: "auth response has no code"}
	}
	return resp.Code, nil
}

// Authorize trades the signed exchange code for a session token.
func (a *Authenticator) Authorize(ctx context.Context, code, signature string) (domain.Token, error) {
	var resp tokenResponse
	if err := a.postJSON(ctx, tokenEndpoint, tokenRequest{Code: code, Signature: signature}, &resp); err != nil {
		return domain.Token{}, err
	}
	return domain.Token{Value: resp.Token, LifetimeMinutes: resp.LifeTime}, nil
}

func (a *Authenticator) postJSON(ctx context.Context, endpoint string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := retryablehttp.NewRequest(http.MethodPost, a.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req = req.WithContext(ctx)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return classifyTransport(err)
	}
	defer resp.Body.Close()

	if rerr := classifyStatus(resp); rerr != nil {
		return rerr
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransport(err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &RequestError{Kind: domain.KindOther, Message: fmt.Sprintf("decode %s response: %v", endpoint, err)}
	}
	return nil
}

// leveledLogger adapts ports.Logger to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger ports.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, fields(keysAndValues)...)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, fields(keysAndValues)...)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, fields(keysAndValues)...)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, fields(keysAndValues)...)
}

func fields(keysAndValues []interface{}) []ports.Field {
	out := make([]ports.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		switch v := keysAndValues[i+1].(type) {
		case *http.Request:
			out = append(out, ports.String(key, v.Method+" "+v.URL.String()))
		case *http.Response:
			out = append(out, ports.Int(key, v.StatusCode))
		default:
			out = append(out, ports.Any(key, v))
		}
	}
	return out
}
