package cliconfig

import (
	"os"
	"strings"
)

// ApplyEnvConfig applies configuration from environment variables (DOCSHIP_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("base-url", os.Getenv("DOCSHIP_BASE_URL"), &cfg.BaseURL)
	s.setString("client-id", os.Getenv("DOCSHIP_CLIENT_ID"), &cfg.ClientID)
	s.setString("client-secret", os.Getenv("DOCSHIP_CLIENT_SECRET"), &cfg.ClientSecret)
	s.setString("user-id", os.Getenv("DOCSHIP_USER_ID"), &cfg.UserID)
	s.setString("credentials-file", os.Getenv("DOCSHIP_CREDENTIALS_FILE"), &cfg.CredentialsFile)
	s.setString("documents-dir", os.Getenv("DOCSHIP_DOCUMENTS_DIR"), &cfg.DocumentsDir)
	s.setString("pattern", os.Getenv("DOCSHIP_PATTERN"), &cfg.Pattern)
	s.setString("ledger-dir", os.Getenv("DOCSHIP_LEDGER_DIR"), &cfg.LedgerDir)
	s.setString("ca-file", os.Getenv("DOCSHIP_CA_FILE"), &cfg.CAFile)
	s.setString("sign-command", os.Getenv("DOCSHIP_SIGN_COMMAND"), &cfg.SignCommand)
	s.setStrings("sign-arg", strings.Fields(os.Getenv("DOCSHIP_SIGN_ARGS")), &cfg.SignArgs)
	s.setString("log-level", os.Getenv("DOCSHIP_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("interval", os.Getenv("DOCSHIP_REQUEST_INTERVAL"), &cfg.RequestInterval); err != nil {
		return err
	}
	if err := s.setDuration("connect-timeout", os.Getenv("DOCSHIP_CONNECT_TIMEOUT"), &cfg.ConnectTimeout); err != nil {
		return err
	}
	if err := s.setDuration("read-timeout", os.Getenv("DOCSHIP_READ_TIMEOUT"), &cfg.ReadTimeout); err != nil {
		return err
	}

	if err := s.setIntFromString("auth-retries", os.Getenv("DOCSHIP_AUTH_RETRIES"), &cfg.AuthRetries); err != nil {
		return err
	}
	if err := s.setIntFromString("until-clean", os.Getenv("DOCSHIP_MAX_PASSES"), &cfg.MaxPasses); err != nil {
		return err
	}

	s.setBoolFromString("tui", os.Getenv("DOCSHIP_TUI"), &cfg.TUI)

	return nil
}
