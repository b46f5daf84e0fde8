package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/docship/internal/domain"
)

type stubAuthenticator struct {
	code      string
	token     domain.Token
	authErr   error
	authzErr  error
	gotCode   string
	gotSigned string
}

func (a *stubAuthenticator) Authenticate(ctx context.Context) (string, error) {
	return a.code, a.authErr
}

func (a *stubAuthenticator) Authorize(ctx context.Context, code, signature string) (domain.Token, error) {
	a.gotCode, a.gotSigned = code, signature
	return a.token, a.authzErr
}

type stubSigner struct {
	err error
}

func (s stubSigner) Sign(ctx context.Context, content string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "sig(" + content + ")", nil
}

func TestLogin(t *testing.T) {
	auth := &stubAuthenticator{
		code:  "d41c2054-8c95-4367-adec-41d16d20888c",
		token: domain.Token{Value: "cb33fd3a", LifetimeMinutes: 30},
	}
	clock := newFakeClock()

	token, err := Login(context.Background(), auth, stubSigner{}, NewPacer(500*time.Millisecond, clock), mockLogger{})
	require.NoError(t, err)

	assert.Equal(t, auth.token, token)
	assert.Equal(t, auth.code, auth.gotCode)
	assert.Equal(t, "sig("+auth.code+")", auth.gotSigned)
	assert.Equal(t, []time.Duration{500 * time.Millisecond}, clock.Sleeps())
}

func TestLogin_FailuresAreFatal(t *testing.T) {
	tests := []struct {
		name   string
		auth   *stubAuthenticator
		signer stubSigner
	}{
		{"authenticate fails", &stubAuthenticator{authErr: errors.New("401 Client Error")}, stubSigner{}},
		{"signing fails", &stubAuthenticator{code: "c"}, stubSigner{err: errors.New("no private key")}},
		{"authorize fails", &stubAuthenticator{code: "c", authzErr: errors.New("timeout")}, stubSigner{}},
		{"empty token", &stubAuthenticator{code: "c"}, stubSigner{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Login(context.Background(), tt.auth, tt.signer, &noWait{}, mockLogger{})
			assert.ErrorIs(t, err, domain.ErrFatalStartup)
		})
	}
}

func TestLogin_PausesAfterEachResponse(t *testing.T) {
	limiter := &noWait{}
	auth := &stubAuthenticator{code: "c", token: domain.Token{Value: "t"}}

	_, err := Login(context.Background(), auth, stubSigner{}, limiter, mockLogger{})
	require.NoError(t, err)

	assert.Equal(t, 2, limiter.waits)
	assert.Equal(t, 2, limiter.dones)
}
