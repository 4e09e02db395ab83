// Package walk is the interactive training walk: a bubbletea model that lists
// modules, fetches the chosen scenario and steps through it.
package walk

import (
	"context"

	"servertrain/cmd/servertrain/ui"
	"servertrain/internal/config"
	"servertrain/internal/engine"
	"servertrain/internal/logging"
	"servertrain/internal/scenario"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// Model is the walk controller.
type Model struct {
	client Client
	cfg    config.UIConfig
	styles ui.Styles
	keys   keyMap
	help   help.Model

	phase  Phase
	engine *engine.Engine
	module scenario.Module
	title  string

	// token identifies the newest fetch; cancel aborts it.
	token  uint64
	cancel context.CancelFunc
	first  tea.Cmd

	// retry re-issues the fetch that failed.
	retry    func(*Model) tea.Cmd
	err      error
	errTitle string

	list     list.Model
	spinner  spinner.Model
	input    textarea.Model
	detail   viewport.Model
	renderer *glamour.TermRenderer

	width  int
	height int
}

// NewModel creates the walk and queues the first module list fetch.
func NewModel(c Client, cfg config.UIConfig, styles ui.Styles) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(styles.Theme.Primary).
		BorderForeground(styles.Theme.Accent)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(styles.Theme.Muted).
		BorderForeground(styles.Theme.Accent)

	l := list.New(nil, delegate, 80, 20)
	l.Title = pickerTitle
	l.Styles.Title = styles.Header
	l.SetShowHelp(false)
	l.SetStatusBarItemName("module", "modules")

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.SetHeight(ui.ReflectionInputHeight)
	ta.SetWidth(60)

	m := Model{
		client:  c,
		cfg:     cfg,
		styles:  styles,
		keys:    defaultKeyMap(),
		help:    help.New(),
		engine:  engine.New(),
		list:    l,
		spinner: sp,
		input:   ta,
		detail:  viewport.New(60, ui.MinDetailHeight),
	}
	m.renderer = newMarkdownRenderer(cfg, styles.Theme, 0)
	m.first = m.loadModules()
	return m
}

// Init starts the spinner and the first fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.first)
}

// Phase returns the current phase.
func (m Model) Phase() Phase {
	return m.phase
}

// Err returns the error shown in PhaseError.
func (m Model) Err() error {
	return m.err
}

func newMarkdownRenderer(cfg config.UIConfig, theme ui.Theme, width int) *glamour.TermRenderer {
	if !cfg.Markdown {
		return nil
	}
	wrap := cfg.WordWrap
	if width > 0 && (wrap <= 0 || width < wrap) {
		wrap = width
	}
	if wrap <= 0 {
		wrap = 80
	}
	style := "light"
	if theme.IsDark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		logging.UI("markdown renderer unavailable, using plain text: %v", err)
		return nil
	}
	return r
}

// beginFetch supersedes any fetch in flight and returns the context and
// token for a new one.
func (m *Model) beginFetch() (context.Context, uint64) {
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.token++
	return ctx, m.token
}

func (m *Model) stopFetch() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// loadModules switches to the module-list spinner and returns the fetch.
func (m *Model) loadModules() tea.Cmd {
	ctx, token := m.beginFetch()
	m.phase = PhasePickingLoad
	m.err = nil
	logging.UIDebug("fetching modules (token %d)", token)

	c := m.client
	return func() tea.Msg {
		modules, err := c.ListModules(ctx)
		return modulesLoadedMsg{token: token, modules: modules, err: err}
	}
}

// loadScenario clears the engine, shows the loading view and returns the
// fetch for the module's default scenario.
func (m *Model) loadScenario(mod scenario.Module) tea.Cmd {
	ctx, token := m.beginFetch()
	m.phase = PhaseLoading
	m.module = mod
	m.title = mod.Title
	m.err = nil
	m.engine.Reset(nil)
	m.input.Reset()
	logging.UIDebug("fetching scenario %s/%s (token %d)", mod.ID, mod.DefaultScenarioID, token)

	c := m.client
	return func() tea.Msg {
		env, err := c.GetScenario(ctx, mod.ID, mod.DefaultScenarioID)
		return scenarioLoadedMsg{token: token, module: mod, env: env, err: err}
	}
}
