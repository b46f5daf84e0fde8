// Package observer renders batch progress for people watching a run.
package observer

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/bft-labs/docship/internal/domain"
)

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// ConsoleObserver prints a running tally after every loaded document and a
// summary line at the end of the pass.
type ConsoleObserver struct {
	out io.Writer
}

// NewConsoleObserver writes progress lines to out.
func NewConsoleObserver(out io.Writer) *ConsoleObserver {
	return &ConsoleObserver{out: out}
}

// OnStart prints the number of documents in the pass.
func (c *ConsoleObserver) OnStart(p domain.Progress) {
	fmt.Fprintln(c.out, mutedStyle.Render(fmt.Sprintf("Documents to load: %d", p.Total)))
}

// OnProgress prints the tally after a success and the reason after a failure.
func (c *ConsoleObserver) OnProgress(p domain.Progress, doc domain.DocumentRef, outcome domain.Outcome) {
	if outcome.OK() {
		fmt.Fprintln(c.out, p.Tally())
		return
	}
	fmt.Fprintln(c.out, errorStyle.Render(fmt.Sprintf("%s: %s", outcome.Kind, doc.ID)), mutedStyle.Render(outcome.Message))
}

// OnFinish prints the summary line.
func (c *ConsoleObserver) OnFinish(p domain.Progress) {
	style := okStyle
	if !p.Complete() {
		style = errorStyle
	}
	fmt.Fprintln(c.out, style.Render(p.Summary()))
}
