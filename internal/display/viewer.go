package display

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/logger"
)

// keyMap is the viewer's bindings. It satisfies help.KeyMap.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultKeys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "space", "x", "enter"),
		key.WithHelp("space", "done"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Viewer is an interactive timeline. Moving the cursor highlights a step;
// toggling marks it completed. The schedule is the viewer's own copy.
type Viewer struct {
	sched    *domain.Schedule
	log      *logger.Logger
	onToggle func(domain.Step)
}

// ViewerOption configures the Viewer.
type ViewerOption func(*Viewer)

// WithToggleHook is called after a step's completed flag changes.
func WithToggleHook(fn func(domain.Step)) ViewerOption {
	return func(v *Viewer) { v.onToggle = fn }
}

// NewViewer creates a viewer over a copy of sched.
func NewViewer(sched *domain.Schedule, log *logger.Logger, opts ...ViewerOption) *Viewer {
	v := &Viewer{sched: sched.Clone(), log: log}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Run starts the Bubble Tea event loop and blocks until the user quits or
// ctx is cancelled. It returns the schedule with the user's completed marks.
func (v *Viewer) Run(ctx context.Context) (*domain.Schedule, error) {
	m := newModel(v.sched, v.onToggle)
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("display: viewer: %w", err)
	}
	out := final.(model).sched
	done := 0
	for _, s := range out.Steps() {
		if s.Completed {
			done++
		}
	}
	v.log.Debug("viewer closed: %d/%d steps done", done, len(out.Steps()))
	return out, nil
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	sched    *domain.Schedule
	order    []string // step IDs in start order
	cursor   int
	width    int
	keys     keyMap
	help     help.Model
	onToggle func(domain.Step)
}

func newModel(sched *domain.Schedule, onToggle func(domain.Step)) model {
	var order []string
	for _, s := range ordered(sched) {
		order = append(order, s.ID)
	}
	return model{
		sched:    sched,
		order:    order,
		width:    TermWidth(),
		keys:     defaultKeys,
		help:     help.New(),
		onToggle: onToggle,
	}
}

func (m model) Init() tea.Cmd {
	return tea.SetWindowTitle("ottoplan: " + ansi.Strip(header(m.sched)))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.order)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Toggle):
			m.toggle()
		}
	}
	return m, nil
}

func (m model) toggle() {
	if len(m.order) == 0 {
		return
	}
	s, ok := m.sched.Step(m.order[m.cursor])
	if !ok {
		return
	}
	s.Completed = !s.Completed
	if m.onToggle != nil {
		m.onToggle(*s)
	}
}

func (m model) selected() string {
	if len(m.order) == 0 {
		return ""
	}
	return m.order[m.cursor]
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(render(m.sched, m.width, m.selected()))
	b.WriteByte('\n')
	b.WriteString(renderList(m.sched, m.selected()))
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
