package walk

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"servertrain/cmd/servertrain/ui"
	"servertrain/internal/config"
	"servertrain/internal/scenario"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// FAKE CLIENT
// =============================================================================

type fakeClient struct {
	mu          sync.Mutex
	modules     []scenario.Module
	listErr     error
	scenarios   map[string]string // module id -> envelope JSON
	scenarioErr error
	listCalls   int
	calls       []string
	lastCtx     context.Context
}

func (f *fakeClient) ListModules(ctx context.Context) ([]scenario.Module, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	f.lastCtx = ctx
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.modules, nil
}

func (f *fakeClient) GetScenario(ctx context.Context, moduleID, scenarioID string) (*scenario.Envelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, moduleID+"/"+scenarioID)
	f.lastCtx = ctx
	if f.scenarioErr != nil {
		return nil, f.scenarioErr
	}
	var env scenario.Envelope
	if err := json.Unmarshal([]byte(f.scenarios[moduleID]), &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// =============================================================================
// FIXTURES
// =============================================================================

var testModules = []scenario.Module{
	{ID: "orientation", Title: "Orientation", EstimatedMinutes: 5, DefaultScenarioID: "first_5_minutes"},
	{ID: "oddities", Title: "Oddities", EstimatedMinutes: 1, DefaultScenarioID: "strange"},
}

const orientationEnvelope = `{
  "module_id": "orientation",
  "title": "Orientation",
  "scenario": {
    "id": "first_5_minutes",
    "title": "Your first five minutes",
    "steps": [
      {"type": "text", "text": "Welcome to the floor."},
      {"type": "quiz", "question": "Which table is seated first?", "quiz_id": "q1"},
      {"type": "reflection", "prompt": "What do guests notice first?"},
      {"type": "quiz_result", "correct_text": "Spot on.", "incorrect_text": "Not quite."}
    ]
  }
}`

const odditiesEnvelope = `{
  "module_id": "oddities",
  "title": "Oddities",
  "scenario": {"id": "strange", "title": "Strange", "steps": [{"type": "mystery"}, {"type": "text", "text": "unreachable"}]}
}`

func newFakeClient() *fakeClient {
	return &fakeClient{
		modules: testModules,
		scenarios: map[string]string{
			"orientation": orientationEnvelope,
			"oddities":    odditiesEnvelope,
		},
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// NewTestModel returns a sized model with markdown off so views are plain text.
func NewTestModel(c Client) Model {
	cfg := config.UIConfig{Theme: config.ThemeLight, Markdown: false, WordWrap: 80}
	m := NewModel(c, cfg, ui.NewStyles(ui.LightTheme()))
	m, _ = update(m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	nm, cmd := m.Update(msg)
	return nm.(Model), cmd
}

// run executes a fetch command and feeds its result back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	m, _ = update(m, cmd())
	return m
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// pickerModel returns a model showing the module list.
func pickerModel(t *testing.T, c *fakeClient) Model {
	t.Helper()
	m := NewTestModel(c)
	m = run(t, m, m.first)
	require.Equal(t, PhasePicking, m.Phase())
	return m
}

// walkingModel picks the module at index and loads its scenario.
func walkingModel(t *testing.T, c *fakeClient, index int) Model {
	t.Helper()
	m := pickerModel(t, c)
	m.list.Select(index)
	m, cmd := update(m, keyPress("enter"))
	require.Equal(t, PhaseLoading, m.Phase())
	m = run(t, m, cmd)
	require.Equal(t, PhaseWalking, m.Phase())
	return m
}
