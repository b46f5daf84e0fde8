package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	fsAdapter "github.com/bft-labs/docship/internal/adapters/fs"
	httpAdapter "github.com/bft-labs/docship/internal/adapters/http"
	logAdapter "github.com/bft-labs/docship/internal/adapters/log"
	"github.com/bft-labs/docship/internal/adapters/observer"
	"github.com/bft-labs/docship/internal/adapters/signer"
	"github.com/bft-labs/docship/internal/app"
	"github.com/bft-labs/docship/internal/cliconfig"
	"github.com/bft-labs/docship/internal/domain"
	"github.com/bft-labs/docship/internal/ports"
)

// logFileName receives the logs while the terminal UI owns the screen.
const logFileName = "docship.log"

// session is everything a pass needs once the handshake has succeeded.
type session struct {
	runner *app.Runner
	ledger *fsAdapter.CSVLedger
}

// withSession validates the configuration, locks the ledger directory, logs in
// and hands a ready runner to fn.
func withSession(cmd *cobra.Command, cfg *cliconfig.Config, title string, fn func(context.Context, *session) error) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, err := cliconfig.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("%w: log level: %w", domain.ErrInvalidConfig, err)
	}

	lock, err := fsAdapter.AcquireRunLock(cfg.LedgerDir)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	var logOut io.Writer = os.Stderr
	if cfg.TUI {
		f, err := os.OpenFile(filepath.Join(cfg.LedgerDir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	zl := cliconfig.NewLogger(logOut, level)
	logger := logAdapter.NewZerologAdapterWithLogger(zl)

	logConfig(zl, *cfg)

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	httpClient, err := httpAdapter.NewClient(httpAdapter.ClientConfig{
		CAFile:         cfg.CAFile,
		ConnectTimeout: cfg.ConnectTimeout,
		ReadTimeout:    cfg.ReadTimeout,
	})
	if err != nil {
		return fmt.Errorf("%w: http client: %w", domain.ErrFatalStartup, err)
	}

	sig, err := signer.NewCommandSigner(cfg.SignCommand, cfg.SignArgs, logger)
	if err != nil {
		return err
	}

	pacer := app.NewPacer(cfg.RequestInterval, app.SystemClock())
	auth := httpAdapter.NewAuthenticator(httpClient, cfg.BaseURL, httpAdapter.Credentials{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		UserID:       cfg.UserID,
	}, cfg.AuthRetries, logger, httpAdapter.WithMinRetryWait(cfg.RequestInterval))

	token, err := app.Login(ctx, auth, sig, pacer, logger)
	if err != nil {
		return err
	}

	bc := ports.BatchContext{
		Client:  httpClient,
		Signer:  sig,
		Token:   token,
		BaseURL: cfg.BaseURL,
	}

	var (
		obs    ports.ProgressObserver
		series *observer.TUISeries
	)
	if cfg.TUI {
		series = observer.NewTUISeries(title, cancel)
		obs = series
	} else {
		obs = observer.NewConsoleObserver(cmd.OutOrStdout())
	}

	ledger := fsAdapter.NewCSVLedger(cfg.LedgerDir)
	runner := app.NewRunner(httpAdapter.NewDocumentUploader(bc, logger), ledger, pacer, obs, logger)

	err = fn(ctx, &session{runner: runner, ledger: ledger})
	if series != nil && series.Err() != nil {
		logger.Warn("terminal UI failed", ports.Err(series.Err()))
	}
	return err
}

// logConfig logs the effective configuration with secrets masked.
func logConfig(log zerolog.Logger, cfg cliconfig.Config) {
	if len(cfg.ClientSecret) > 0 {
		cfg.ClientSecret = "*****"
	}
	log.Info().Interface("config", cfg).Msg("configuration")
}
