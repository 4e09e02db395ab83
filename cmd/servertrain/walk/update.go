package walk

import (
	"servertrain/cmd/servertrain/ui"
	"servertrain/internal/logging"
	"servertrain/internal/render"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update routes messages by phase.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg.Width, msg.Height), nil

	case spinner.TickMsg:
		if m.phase != PhasePickingLoad && m.phase != PhaseLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case modulesLoadedMsg:
		return m.handleModules(msg)

	case scenarioLoadedMsg:
		return m.handleScenario(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Anything else (cursor blink etc.) goes to the focused component.
	return m.forward(msg)
}

func (m Model) resize(width, height int) Model {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	m.width, m.height = width, height
	layout := ui.NewLayoutConfig(width, height)

	m.list.SetSize(width, layout.BodyHeight())
	m.input.SetWidth(layout.ContentWidth())
	m.detail.Width = layout.ContentWidth()
	m.detail.Height = layout.DetailHeight()
	m.help.Width = width
	m.renderer = newMarkdownRenderer(m.cfg, m.styles.Theme, layout.ContentWidth())
	return m
}

func (m Model) handleModules(msg modulesLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.token != m.token || m.phase != PhasePickingLoad {
		logging.UIDebug("dropping stale module list (token %d, current %d)", msg.token, m.token)
		return m, nil
	}
	m.cancel = nil

	if msg.err != nil {
		logging.UI("module list failed: %v", msg.err)
		m.phase = PhaseError
		m.errTitle = modulesErrorTitle
		m.err = msg.err
		m.retry = (*Model).loadModules
		// Never show a partial picker.
		m.list.SetItems(nil)
		return m, nil
	}

	items := make([]list.Item, len(msg.modules))
	for i, mod := range msg.modules {
		items[i] = moduleItem{module: mod}
	}
	cmd := m.list.SetItems(items)
	m.list.ResetSelected()
	m.phase = PhasePicking
	logging.UIDebug("module list ready: %d modules", len(items))
	return m, cmd
}

func (m Model) handleScenario(msg scenarioLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.token != m.token || m.phase != PhaseLoading {
		logging.UIDebug("dropping stale scenario %s (token %d, current %d)", msg.module.ID, msg.token, m.token)
		return m, nil
	}
	m.cancel = nil

	if msg.err != nil {
		logging.UI("scenario %s failed: %v", msg.module.ID, msg.err)
		m.phase = PhaseError
		m.errTitle = scenarioErrorTitle
		m.err = msg.err
		mod := msg.module
		m.retry = func(m *Model) tea.Cmd { return m.loadScenario(mod) }
		return m, nil
	}

	if msg.env.Title != "" {
		m.title = msg.env.Title
	}
	m.engine.Reset(msg.env.Scenario)
	m.phase = PhaseWalking
	logging.EngineDebug("reset to %s/%s: %d steps", msg.module.ID, m.engine.Scenario().ID, m.engine.Scenario().Len())
	cmd := m.enterStep()
	return m, cmd
}

// enterStep prepares the components the current step needs.
func (m *Model) enterStep() tea.Cmd {
	vm := render.Render(m.engine.Current())
	m.input.Reset()
	m.input.Blur()
	m.detail.SetContent("")

	if vm.Detail != "" {
		m.detail.SetContent(vm.Detail)
		m.detail.GotoTop()
	}
	if vm.Input {
		m.input.Placeholder = vm.Placeholder
		return m.input.Focus()
	}
	return nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		m.stopFetch()
		return m, tea.Quit
	}

	switch m.phase {
	case PhasePicking:
		return m.handlePickerKey(msg)
	case PhaseWalking:
		return m.handleWalkingKey(msg)
	case PhaseError:
		switch {
		case key.Matches(msg, m.keys.Retry) && m.retry != nil:
			cmd := m.retry(&m)
			return m, cmd
		case key.Matches(msg, m.keys.Pick):
			cmd := m.loadModules()
			return m, cmd
		}
	case PhasePickingLoad, PhaseLoading:
		if m.phase == PhaseLoading && key.Matches(msg, m.keys.Pick) {
			cmd := m.loadModules()
			return m, cmd
		}
	}

	if key.Matches(msg, m.keys.Quit) {
		m.stopFetch()
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While filtering, every key belongs to the list.
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(moduleItem)
		if !ok {
			return m, nil
		}
		logging.UI("module picked: %s", item.module.ID)
		cmd := m.loadScenario(item.module)
		return m, cmd
	case key.Matches(msg, m.keys.Quit):
		m.stopFetch()
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleWalkingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	vm := render.Render(m.engine.Current())

	if vm.Input && m.input.Focused() {
		switch {
		case key.Matches(msg, m.keys.NextTyping):
			return m.activate(vm.Primary)
		case msg.Type == tea.KeyEsc:
			cmd := m.loadModules()
			return m, cmd
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Next), key.Matches(msg, m.keys.NextTyping):
		return m.activate(vm.Primary)
	case key.Matches(msg, m.keys.Pick):
		cmd := m.loadModules()
		return m, cmd
	case key.Matches(msg, m.keys.Quit):
		m.stopFetch()
		return m, tea.Quit
	case vm.Detail != "" && key.Matches(msg, m.keys.Scroll):
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}
	return m, nil
}

// activate performs the action of the view's primary affordance. Views
// without one ignore the key.
func (m Model) activate(a *render.Affordance) (tea.Model, tea.Cmd) {
	if a == nil {
		return m, nil
	}
	switch a.Action {
	case render.ActionAdvance:
		// Reflection text is not kept.
		m.engine.Advance()
		idx, total := m.engine.Progress()
		logging.EngineDebug("advanced to %d/%d", idx, total)
		cmd := m.enterStep()
		return m, cmd
	case render.ActionPickModule:
		cmd := m.loadModules()
		return m, cmd
	default:
		logging.UIDebug("ignoring affordance %q with action %v", a.Label, a.Action)
		return m, nil
	}
}

func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.phase {
	case PhasePicking:
		m.list, cmd = m.list.Update(msg)
	case PhaseWalking:
		if m.input.Focused() {
			m.input, cmd = m.input.Update(msg)
		}
	}
	return m, cmd
}
