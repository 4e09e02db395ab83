package walk

import (
	"fmt"
	"strings"

	"servertrain/cmd/servertrain/ui"
	"servertrain/internal/render"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// View renders the current phase.
func (m Model) View() string {
	var body string
	switch m.phase {
	case PhasePickingLoad:
		body = m.styles.Content.Render(m.spinner.View() + " " + loadingModulesText)
	case PhasePicking:
		return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), m.footer())
	case PhaseLoading:
		// The engine is cleared while loading, so this is the not-loaded view.
		vm := render.Render(m.engine.Current())
		body = m.styles.Content.Render(m.spinner.View() + " " + vm.Body)
	case PhaseWalking:
		body = m.viewStep(render.Render(m.engine.Current()))
	case PhaseError:
		body = m.viewError()
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.header(), body, m.footer())
}

func (m Model) header() string {
	title := appTitle
	if m.title != "" && m.phase != PhasePickingLoad {
		title = appTitle + " · " + m.title
	}
	line := m.styles.Header.Render(title)

	if m.phase == PhaseWalking {
		idx, total := m.engine.Progress()
		progress := fmt.Sprintf("step %d of %d", min(idx+1, total), total)
		if idx >= total {
			progress = "complete"
		}
		line = lipgloss.JoinHorizontal(lipgloss.Top, line, " ", m.styles.Badge.Render(progress))
	}
	return line
}

func (m Model) contentWidth() int {
	return ui.NewLayoutConfig(m.width, m.height).ContentWidth()
}

func (m Model) viewStep(vm render.ViewModel) string {
	var parts []string

	if vm.Heading != "" {
		parts = append(parts, m.styles.Title.Render(vm.Heading))
	}

	switch vm.Kind {
	case render.KindUnknown:
		parts = append(parts, m.styles.Error.Render(vm.Body))
	case render.KindText, render.KindReflection:
		parts = append(parts, m.renderMarkdown(vm.Body))
	default:
		if vm.Body != "" {
			parts = append(parts, m.styles.Body.Width(m.contentWidth()).Render(vm.Body))
		}
	}

	if vm.Question != "" {
		parts = append(parts, m.styles.Question.Render(vm.Question))
	}
	if vm.Note != "" {
		parts = append(parts, m.styles.Note.Render(vm.Note))
	}
	if vm.Detail != "" {
		parts = append(parts, m.styles.Detail.Render(m.detail.View()))
	}
	if vm.Input {
		parts = append(parts, m.input.View())
	}
	if vm.Primary != nil {
		parts = append(parts, m.styles.Button.Render(vm.Primary.Label))
	}

	return m.styles.Content.Render(strings.Join(parts, "\n\n"))
}

func (m Model) renderMarkdown(text string) string {
	if m.renderer != nil {
		if out, err := m.renderer.Render(text); err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return m.styles.Body.Width(m.contentWidth()).Render(text)
}

func (m Model) viewError() string {
	parts := []string{
		m.styles.Error.Render(m.errTitle),
	}
	if m.err != nil {
		parts = append(parts, m.styles.Muted.Width(m.contentWidth()).Render(m.err.Error()))
	}
	return m.styles.Content.Render(strings.Join(parts, "\n\n"))
}

func (m Model) footer() string {
	return m.styles.Footer.Render(m.help.ShortHelpView(m.helpKeys()))
}

// helpKeys lists only the bindings that do something in the current phase.
func (m Model) helpKeys() []key.Binding {
	switch m.phase {
	case PhasePicking:
		return []key.Binding{m.keys.Select, m.keys.Quit}
	case PhaseWalking:
		vm := render.Render(m.engine.Current())
		keys := make([]key.Binding, 0, 4)
		if vm.Primary != nil {
			next := m.keys.Next
			if vm.Input {
				next = m.keys.NextTyping
			}
			next.SetHelp(next.Help().Key, strings.ToLower(vm.Primary.Label))
			keys = append(keys, next)
		}
		if vm.Detail != "" {
			keys = append(keys, m.keys.Scroll)
		}
		if vm.Input {
			return append(keys, m.keys.ForceQuit)
		}
		return append(keys, m.keys.Pick, m.keys.Quit)
	case PhaseError:
		if m.errTitle == modulesErrorTitle {
			return []key.Binding{m.keys.Retry, m.keys.Quit}
		}
		return []key.Binding{m.keys.Pick, m.keys.Retry, m.keys.Quit}
	case PhaseLoading:
		return []key.Binding{m.keys.Pick, m.keys.Quit}
	default:
		return []key.Binding{m.keys.Quit}
	}
}
