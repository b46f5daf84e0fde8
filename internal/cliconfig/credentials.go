package cliconfig

import (
	"encoding/csv"
	"fmt"
	"os"
)

// ApplyCredentialsFile fills missing credentials from a CSV file with a
// "client_id,client_secret,user_id" header and one data row.
// Values already set (by flag, env or config file) are kept.
func ApplyCredentialsFile(cfg *Config) error {
	if cfg.CredentialsFile == "" {
		return nil
	}

	f, err := os.Open(cfg.CredentialsFile)
	if err != nil {
		return fmt.Errorf("open credentials file: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return fmt.Errorf("parse credentials file: %w", err)
	}
	if len(rows) < 2 {
		return fmt.Errorf("credentials file %s has no data row", cfg.CredentialsFile)
	}

	row := make(map[string]string, len(rows[0]))
	for i, name := range rows[0] {
		if i < len(rows[1]) {
			row[name] = rows[1][i]
		}
	}

	fill := func(dst *string, key string) {
		if *dst == "" {
			*dst = row[key]
		}
	}
	fill(&cfg.ClientID, "client_id")
	fill(&cfg.ClientSecret, "client_secret")
	fill(&cfg.UserID, "user_id")
	return nil
}
