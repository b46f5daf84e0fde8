package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bft-labs/docship/internal/domain"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

// printStatus renders the ledger entries as a table.
func printStatus(w io.Writer, path string, entries []domain.LedgerEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintf(w, "No failed documents recorded in %s\n", path)
		return err
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Filename, e.Error})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("FILENAME", "ERROR").
		Rows(rows...)

	_, err := fmt.Fprintf(w, "%s\n%d failed documents in %s\n", t.Render(), len(entries), path)
	return err
}
