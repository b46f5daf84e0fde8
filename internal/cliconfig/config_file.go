package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	BaseURL         string   `toml:"base_url"`
	ClientID        string   `toml:"client_id"`
	ClientSecret    string   `toml:"client_secret"`
	UserID          string   `toml:"user_id"`
	CredentialsFile string   `toml:"credentials_file"`
	DocumentsDir    string   `toml:"documents_dir"`
	Pattern         string   `toml:"pattern"`
	LedgerDir       string   `toml:"ledger_dir"`
	CAFile          string   `toml:"ca_file"`
	SignCommand     string   `toml:"sign_command"`
	SignArgs        []string `toml:"sign_args"`
	RequestInterval string   `toml:"request_interval"`
	ConnectTimeout  string   `toml:"connect_timeout"`
	ReadTimeout     string   `toml:"read_timeout"`
	AuthRetries     *int     `toml:"auth_retries"`
	MaxPasses       *int     `toml:"max_passes"`
	LogLevel        string   `toml:"log_level"`
	TUI             *bool    `toml:"tui"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.docship/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".docship", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("base-url", fc.BaseURL, &cfg.BaseURL)
	s.setString("client-id", fc.ClientID, &cfg.ClientID)
	s.setString("client-secret", fc.ClientSecret, &cfg.ClientSecret)
	s.setString("user-id", fc.UserID, &cfg.UserID)
	s.setString("credentials-file", fc.CredentialsFile, &cfg.CredentialsFile)
	s.setString("documents-dir", fc.DocumentsDir, &cfg.DocumentsDir)
	s.setString("pattern", fc.Pattern, &cfg.Pattern)
	s.setString("ledger-dir", fc.LedgerDir, &cfg.LedgerDir)
	s.setString("ca-file", fc.CAFile, &cfg.CAFile)
	s.setString("sign-command", fc.SignCommand, &cfg.SignCommand)
	s.setStrings("sign-arg", fc.SignArgs, &cfg.SignArgs)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("interval", fc.RequestInterval, &cfg.RequestInterval); err != nil {
		return err
	}
	if err := s.setDuration("connect-timeout", fc.ConnectTimeout, &cfg.ConnectTimeout); err != nil {
		return err
	}
	if err := s.setDuration("read-timeout", fc.ReadTimeout, &cfg.ReadTimeout); err != nil {
		return err
	}

	s.setInt("auth-retries", fc.AuthRetries, &cfg.AuthRetries)
	s.setInt("until-clean", fc.MaxPasses, &cfg.MaxPasses)

	s.setBool("tui", fc.TUI, &cfg.TUI)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
