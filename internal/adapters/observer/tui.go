package observer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bft-labs/docship/internal/domain"
)

const maxRecentFailures = 5

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
)

type startMsg domain.Progress

type progressMsg struct {
	progress domain.Progress
	doc      domain.DocumentRef
	outcome  domain.Outcome
}

type finishMsg domain.Progress

// tuiModel is the bubbletea model of a batch pass.
type tuiModel struct {
	title    string
	bar      progress.Model
	progress domain.Progress
	recent   []string
	summary  string
	done     bool
	onQuit   func()
}

func newTUIModel(title string, onQuit func()) tuiModel {
	return tuiModel{
		title:  title,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(50)),
		onQuit: onQuit,
	}
}

func (m tuiModel) Init() tea.Cmd {
	return nil
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.onQuit != nil {
				m.onQuit()
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		w := msg.Width - 4
		if w > 80 {
			w = 80
		}
		if w > 10 {
			m.bar.Width = w
		}
	case startMsg:
		m.progress = domain.Progress(msg)
		m.recent = nil
		m.summary = ""
		m.done = false
	case progressMsg:
		m.progress = msg.progress
		if !msg.outcome.OK() {
			line := fmt.Sprintf("%s %s: %s", msg.outcome.Kind, msg.doc.ID, msg.outcome.Message)
			m.recent = append(m.recent, line)
			if len(m.recent) > maxRecentFailures {
				m.recent = m.recent[len(m.recent)-maxRecentFailures:]
			}
		}
	case finishMsg:
		m.progress = domain.Progress(msg)
		m.summary = m.progress.Summary()
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m tuiModel) percent() float64 {
	if m.progress.Total == 0 {
		return 1
	}
	return float64(m.progress.Attempted) / float64(m.progress.Total)
}

func (m tuiModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(m.bar.ViewAs(m.percent()))
	b.WriteString("\n")
	b.WriteString(m.progress.Tally())
	if failed := m.progress.Failed(); failed > 0 {
		b.WriteString(errorStyle.Render(fmt.Sprintf("  failed: %d", failed)))
	}
	b.WriteString("\n")

	for _, line := range m.recent {
		b.WriteString(mutedStyle.Render(line))
		b.WriteString("\n")
	}

	if m.done {
		style := okStyle
		if !m.progress.Complete() {
			style = errorStyle
		}
		b.WriteString("\n")
		b.WriteString(style.Render(m.summary))
		b.WriteString("\n")
	} else {
		b.WriteString(hintStyle.Render("q: stop the pass"))
		b.WriteString("\n")
	}
	return b.String()
}

// TUIObserver renders a pass as a terminal progress bar.
// Call Start before the pass and Wait after it.
type TUIObserver struct {
	program *tea.Program
	done    chan struct{}
	err     error
}

// NewTUIObserver creates a terminal UI. onQuit is invoked when the user asks to
// stop; it should cancel the pass context.
func NewTUIObserver(title string, onQuit func(), opts ...tea.ProgramOption) *TUIObserver {
	return &TUIObserver{
		program: tea.NewProgram(newTUIModel(title, onQuit), opts...),
		done:    make(chan struct{}),
	}
}

// Start runs the UI in the background.
func (o *TUIObserver) Start() {
	go func() {
		defer close(o.done)
		_, o.err = o.program.Run()
	}()
}

// Wait blocks until the UI has exited.
func (o *TUIObserver) Wait() error {
	<-o.done
	return o.err
}

// OnStart forwards the pass size to the UI.
func (o *TUIObserver) OnStart(p domain.Progress) {
	o.program.Send(startMsg(p))
}

// OnProgress forwards one attempt to the UI.
func (o *TUIObserver) OnProgress(p domain.Progress, doc domain.DocumentRef, outcome domain.Outcome) {
	o.program.Send(progressMsg{progress: p, doc: doc, outcome: outcome})
}

// OnFinish renders the summary and closes the UI.
func (o *TUIObserver) OnFinish(p domain.Progress) {
	o.program.Send(finishMsg(p))
}

// TUISeries opens a fresh terminal UI for every pass of a multi-pass run.
// Each UI stays on screen until its pass has finished.
type TUISeries struct {
	title   string
	onQuit  func()
	opts    []tea.ProgramOption
	pass    int
	current *TUIObserver
	err     error
}

// NewTUISeries creates a per-pass terminal UI. onQuit is shared by every pass.
func NewTUISeries(title string, onQuit func(), opts ...tea.ProgramOption) *TUISeries {
	return &TUISeries{title: title, onQuit: onQuit, opts: opts}
}

// Err returns the first UI failure seen across passes.
func (s *TUISeries) Err() error {
	return s.err
}

// OnStart opens the UI for the next pass.
func (s *TUISeries) OnStart(p domain.Progress) {
	s.pass++
	title := s.title
	if s.pass > 1 {
		title = fmt.Sprintf("%s (pass %d)", s.title, s.pass)
	}
	s.current = NewTUIObserver(title, s.onQuit, s.opts...)
	s.current.Start()
	s.current.OnStart(p)
}

// OnProgress forwards one attempt to the current pass UI.
func (s *TUISeries) OnProgress(p domain.Progress, doc domain.DocumentRef, outcome domain.Outcome) {
	if s.current != nil {
		s.current.OnProgress(p, doc, outcome)
	}
}

// OnFinish renders the pass summary and waits for its UI to exit.
func (s *TUISeries) OnFinish(p domain.Progress) {
	if s.current == nil {
		return
	}
	s.current.OnFinish(p)
	if err := s.current.Wait(); err != nil && s.err == nil {
		s.err = err
	}
	s.current = nil
}
