package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	fsAdapter "github.com/bft-labs/docship/internal/adapters/fs"
	"github.com/bft-labs/docship/internal/cliconfig"
	"github.com/bft-labs/docship/internal/domain"
	"github.com/bft-labs/docship/internal/ports"
)

func newLoadCommand(cfg *cliconfig.Config, resolve func(*cobra.Command) error) *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Upload every matching document in documents-dir",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := resolve(cmd); err != nil {
				return err
			}
			return withSession(cmd, cfg, "Loading documents", func(ctx context.Context, s *session) error {
				source, err := fsAdapter.NewDirectorySource(cfg.DocumentsDir, cfg.Pattern)
				if err != nil {
					return err
				}
				_, err = s.runner.RunBatch(ctx, source)
				return err
			})
		},
	}
}

func newRetryCommand(cfg *cliconfig.Config, resolve func(*cobra.Command) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retry",
		Short: "Upload again the documents listed in the failure ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := resolve(cmd); err != nil {
				return err
			}
			return withSession(cmd, cfg, "Retrying documents", func(ctx context.Context, s *session) error {
				_, err := s.runner.RunUntilClean(ctx, func() (ports.DocumentSource, error) {
					return fsAdapter.NewLedgerSource(ctx, s.ledger, cfg.DocumentsDir)
				}, cfg.MaxPasses)
				return err
			})
		},
	}
	cmd.Flags().IntVar(&cfg.MaxPasses, "until-clean", cfg.MaxPasses, "repeat retry passes while failures remain, at most this many times")
	return cmd
}

func newStatusCommand(cfg *cliconfig.Config, resolve func(*cobra.Command) error) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List the documents recorded in the failure ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := resolve(cmd); err != nil {
				return err
			}
			ledger := fsAdapter.NewCSVLedger(cfg.LedgerDir)
			entries, err := ledger.Entries(cmd.Context())
			if err != nil {
				return fmt.Errorf("%w: %w", domain.ErrFatalLedger, err)
			}
			return printStatus(cmd.OutOrStdout(), ledger.Path(), entries)
		},
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
