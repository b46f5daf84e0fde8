package cliconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bft-labs/docship/internal/domain"
)

// DefaultBaseURL is the API root of the document service.
const DefaultBaseURL = "https://api.mdlp.crpt.ru/api/v1"

// Config holds CLI configuration for docship.
type Config struct {
	BaseURL string

	ClientID        string
	ClientSecret    string
	UserID          string
	CredentialsFile string

	DocumentsDir string
	Pattern      string
	LedgerDir    string

	CAFile      string
	SignCommand string
	SignArgs    []string

	RequestInterval time.Duration
	ConnectTimeout  time.Duration
	ReadTimeout     time.Duration
	AuthRetries     int
	MaxPasses       int

	LogLevel string
	TUI      bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		BaseURL:         DefaultBaseURL,
		Pattern:         "*.xml",
		LedgerDir:       "info",
		RequestInterval: 500 * time.Millisecond,
		ConnectTimeout:  10 * time.Second,
		ReadTimeout:     10 * time.Second,
		AuthRetries:     2,
		MaxPasses:       1,
		LogLevel:        "info",
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.DocumentsDir == "" {
		return invalid("documents-dir is required")
	}
	if c.LedgerDir == "" {
		return invalid("ledger-dir is required")
	}

	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")

	if c.ClientID == "" || c.ClientSecret == "" || c.UserID == "" {
		return invalid("client-id, client-secret and user-id are required (or credentials-file)")
	}
	if c.SignCommand == "" {
		return invalid("sign-command is required")
	}

	if c.RequestInterval < 0 {
		return invalid("request interval must not be negative")
	}
	if c.ConnectTimeout <= 0 || c.ReadTimeout <= 0 {
		return invalid("timeouts must be positive")
	}
	if c.AuthRetries < 0 {
		return invalid("auth retries must not be negative")
	}
	if c.MaxPasses < 1 {
		c.MaxPasses = 1
	}

	return nil
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, msg)
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setStrings sets a list value if not empty and flag not changed.
func (s *configSetter) setStrings(flag string, value []string, dst *[]string) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if present and flag not changed.
// Zero and negative values are applied as given; Validate rejects the invalid ones.
func (s *configSetter) setInt(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
