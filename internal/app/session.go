package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/bft-labs/docship/internal/domain"
	"github.com/bft-labs/docship/internal/ports"
)

// Login performs the authenticate / sign / authorize handshake and returns
// the session token. Both requests go through limiter so they count against
// the same pacing budget as the uploads that follow.
// Any failure is fatal and wrapped in domain.ErrFatalStartup.
func Login(
	ctx context.Context,
	auth ports.Authenticator,
	signer ports.Signer,
	limiter ports.RateLimiter,
	logger ports.Logger,
) (domain.Token, error) {
	if err := limiter.Wait(ctx); err != nil {
		return domain.Token{}, err
	}
	code, err := auth.Authenticate(ctx)
	limiter.Done()
	if err != nil {
		return domain.Token{}, fatalStartup("authenticate", err)
	}

	signature, err := signer.Sign(ctx, code)
	if err != nil {
		return domain.Token{}, fatalStartup("sign exchange code", err)
	}

	if err := limiter.Wait(ctx); err != nil {
		return domain.Token{}, err
	}
	token, err := auth.Authorize(ctx, code, signature)
	limiter.Done()
	if err != nil {
		return domain.Token{}, fatalStartup("authorize", err)
	}
	if token.Value == "" {
		return domain.Token{}, fatalStartup("authorize", errors.New("empty token in response"))
	}

	logger.Info("session authorized", ports.Int("lifetime_minutes", token.LifetimeMinutes))
	return token, nil
}

func fatalStartup(op string, err error) error {
	if errors.Is(err, domain.ErrFatalStartup) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrFatalStartup, err)
}
