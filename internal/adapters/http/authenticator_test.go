package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logAdapter "github.com/bft-labs/docship/internal/adapters/log"
	"github.com/bft-labs/docship/internal/domain"
)

func TestAuthenticator_Handshake(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth":
			var req authRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, authRequest{ClientID: "cid", ClientSecret: "secret", UserID: "thumb", AuthType: "SIGNED_CODE"}, req)
			_, _ = w.Write([]byte(`{"code":"d41c2054-8c95-4367-adec-41d16d20888c"}`))
		case "/token":
			var req tokenRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, tokenRequest{Code: "d41c2054-8c95-4367-adec-41d16d20888c", Signature: "c2ln"}, req)
			_, _ = w.Write([]byte(`{"token":"cb33fd3a-1104-48de-88b2-1a64434f1eb5","life_time":30}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	a := NewAuthenticator(srv.Client(), srv.URL, Credentials{ClientID: "cid", ClientSecret: "secret", UserID: "thumb"}, 0, logAdapter.NewNoopLogger())

	code, err := a.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "d41c2054-8c95-4367-adec-41d16d20888c", code)

	token, err := a.Authorize(context.Background(), code, "c2ln")
	require.NoError(t, err)
	assert.Equal(t, domain.Token{Value: "cb33fd3a-1104-48de-88b2-1a64434f1eb5", LifetimeMinutes: 30}, token)
}

func TestAuthenticator_RetriesTransientFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"code":"abc"}`))
	}))
	defer srv.Close()

	a := NewAuthenticator(srv.Client(), srv.URL, Credentials{}, 2, logAdapter.NewNoopLogger())
	a.client.RetryWaitMin = 0
	a.client.RetryWaitMax = 0

	code, err := a.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", code)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestAuthenticator_ClassifiesFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	a := NewAuthenticator(srv.Client(), srv.URL, Credentials{}, 0, logAdapter.NewNoopLogger())

	_, err := a.Authenticate(context.Background())
	var rerr *RequestError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, domain.KindHTTPError, rerr.Kind)
	assert.Contains(t, rerr.Message, "401 Client Error: Unauthorized")

	_, err = a.Authorize(context.Background(), "code", "sig")
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, domain.KindOther, rerr.Kind)
}

func TestWithMinRetryWait(t *testing.T) {
	a := NewAuthenticator(http.DefaultClient, "http://example.invalid", Credentials{}, 2,
		logAdapter.NewNoopLogger(), WithMinRetryWait(2*time.Second))

	assert.Equal(t, 2*time.Second, a.client.RetryWaitMin)
	assert.Equal(t, 5*time.Second, a.client.RetryWaitMax)

	// a server asking to retry immediately still gets the full pause
	resp := &http.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{"Retry-After": []string{"0"}}}
	assert.Equal(t, 2*time.Second, a.client.Backoff(a.client.RetryWaitMin, a.client.RetryWaitMax, 0, resp))
}

func TestWithMinRetryWait_NeverShortensDefaults(t *testing.T) {
	a := NewAuthenticator(http.DefaultClient, "http://example.invalid", Credentials{}, 2,
		logAdapter.NewNoopLogger(), WithMinRetryWait(10*time.Millisecond))

	assert.Equal(t, 500*time.Millisecond, a.client.RetryWaitMin)
	assert.GreaterOrEqual(t, a.client.Backoff(a.client.RetryWaitMin, a.client.RetryWaitMax, 0, nil), 500*time.Millisecond)
}

func TestWithMinRetryWait_RaisesCeiling(t *testing.T) {
	a := NewAuthenticator(http.DefaultClient, "http://example.invalid", Credentials{}, 2,
		logAdapter.NewNoopLogger(), WithMinRetryWait(8*time.Second))

	assert.Equal(t, 8*time.Second, a.client.RetryWaitMin)
	assert.Equal(t, 8*time.Second, a.client.RetryWaitMax)
}
