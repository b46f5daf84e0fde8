package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/docship/internal/cliconfig"
	"github.com/bft-labs/docship/internal/domain"
)

const helpDescription = `
Upload signed documents to the document service, one at a time and paced.

Every run authenticates once with a signed one-time code, then submits each
document with a detached signature. Documents that fail are written to
<ledger-dir>/unloaded.csv; "docship retry" submits exactly those again.
`

var exampleUsage = strings.TrimSpace(`
  docship load --documents-dir ./documents --credentials-file ./info.csv --sign-command cryptcp --sign-arg -sign
  docship retry --until-clean 3
  docship status
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:           "docship",
		Short:         "Upload signed documents in a paced batch and retry the failures",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	resolve := func(cmd *cobra.Command) error {
		return resolveConfig(cmd, &cfg, cfgPath)
	}

	root.AddCommand(
		newLoadCommand(&cfg, resolve),
		newRetryCommand(&cfg, resolve),
		newStatusCommand(&cfg, resolve),
	)

	flags := root.PersistentFlags()
	flags.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.docship/config.toml)")
	flags.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "API root of the document service")
	flags.StringVar(&cfg.ClientID, "client-id", cfg.ClientID, "API client identifier")
	flags.StringVar(&cfg.ClientSecret, "client-secret", cfg.ClientSecret, "API client secret")
	flags.StringVar(&cfg.UserID, "user-id", cfg.UserID, "certificate thumbprint of the signing user")
	flags.StringVar(&cfg.CredentialsFile, "credentials-file", cfg.CredentialsFile, "CSV file with client_id,client_secret,user_id")
	flags.StringVar(&cfg.DocumentsDir, "documents-dir", cfg.DocumentsDir, "directory holding the documents to upload")
	flags.StringVar(&cfg.Pattern, "pattern", cfg.Pattern, "glob selecting documents inside documents-dir")
	flags.StringVar(&cfg.LedgerDir, "ledger-dir", cfg.LedgerDir, "directory holding unloaded.csv")
	flags.StringVar(&cfg.CAFile, "ca-file", cfg.CAFile, "PEM bundle trusted for the service TLS certificate")
	flags.StringVar(&cfg.SignCommand, "sign-command", cfg.SignCommand, "external command producing a detached signature from stdin")
	flags.StringArrayVar(&cfg.SignArgs, "sign-arg", cfg.SignArgs, "argument passed to sign-command (repeatable)")
	flags.DurationVar(&cfg.RequestInterval, "interval", cfg.RequestInterval, "minimum spacing between requests")
	flags.DurationVar(&cfg.ConnectTimeout, "connect-timeout", cfg.ConnectTimeout, "TCP connect timeout")
	flags.DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "response timeout")
	flags.IntVar(&cfg.AuthRetries, "auth-retries", cfg.AuthRetries, "retries for the authentication requests")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flags.BoolVar(&cfg.TUI, "tui", cfg.TUI, "show an interactive progress bar")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("docship")
		os.Exit(exitCode(err))
	}
}

// resolveConfig layers the config file, environment and credentials file under
// the flags the user set explicitly.
func resolveConfig(cmd *cobra.Command, cfg *cliconfig.Config, cfgPath string) error {
	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("%w: load config %s: %w", domain.ErrInvalidConfig, cfgFile, err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return fmt.Errorf("%w: config file %s: %w", domain.ErrInvalidConfig, cfgFile, err)
		}
	}

	if err := cliconfig.ApplyEnvConfig(cfg, changed); err != nil {
		return fmt.Errorf("%w: environment: %w", domain.ErrInvalidConfig, err)
	}
	if err := cliconfig.ApplyCredentialsFile(cfg); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)
	}
	return nil
}
