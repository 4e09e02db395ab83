package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"servertrain/cmd/servertrain/ui"
	"servertrain/internal/config"
	"servertrain/internal/content"
	"servertrain/internal/engine"
	"servertrain/internal/render"
	"servertrain/internal/scenario"
	"servertrain/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

const cliCatalog = `
- id: orientation
  title: Orientation
  estimated_minutes: 5
  default_scenario_id: first_5_minutes
- id: oddities
  title: Oddities
  estimated_minutes: 2
  default_scenario_id: strange
- id: ghost
  title: Ghost Module
  estimated_minutes: 1
  default_scenario_id: nowhere
`

const cliOrientation = `{
  "module_id": "orientation",
  "title": "Orientation",
  "scenarios": [
    {"id": "first_5_minutes", "title": "Your first five minutes", "steps": [
      {"type": "text", "text": "Welcome to the floor."},
      {"type": "quiz", "question": "Which table is seated first?", "quiz_id": "q1"},
      {"type": "reflection", "prompt": "What do guests notice first?"}
    ]}
  ]
}`

const cliOddities = `{
  "module_id": "oddities",
  "title": "Oddities",
  "scenarios": [
    {"id": "strange", "title": "Strange", "steps": [
      {"type": "text", "text": "Before the mystery."},
      {"type": "mystery"},
      {"type": "text", "text": "unreachable"}
    ]}
  ]
}`

// newBackend serves a temp content dir through the real content server.
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(newBackendHandler(t))
	t.Cleanup(srv.Close)
	return srv
}

func newBackendHandler(t *testing.T) http.Handler {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, content.ModulesDir), 0755))
	files := map[string]string{
		content.CatalogFile: cliCatalog,
		filepath.Join(content.ModulesDir, "orientation.json"): cliOrientation,
		filepath.Join(content.ModulesDir, "oddities.json"):    cliOddities,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
	}

	store, err := content.Open(dir)
	require.NoError(t, err)
	return server.New(store, config.ServeConfig{}, zap.NewNop()).Handler()
}

func newTestStyles() ui.Styles {
	return ui.NewStyles(ui.LightTheme())
}

// execute runs the root command with a throwaway config file and returns
// what the command wrote.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, key := range []string{"SERVERTRAIN_BASE_URL", "SERVERTRAIN_TIMEOUT", "SERVERTRAIN_CONTENT_DIR", "SERVERTRAIN_LOG_LEVEL", "SERVERTRAIN_DARK_MODE"} {
		t.Setenv(key, "")
	}

	verbose, baseURL, timeout = false, "", 0
	showRaw, checkConcurrency = false, 0
	cfg, logger = nil, nil

	path := filepath.Join(t.TempDir(), "config.yaml")
	c := config.DefaultConfig()
	c.Logging.Level = "error"
	require.NoError(t, c.Save(path))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", path}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

// =============================================================================
// MODULES
// =============================================================================

func TestModulesCommand(t *testing.T) {
	backend := newBackend(t)

	out, err := execute(t, "modules", "--base-url", backend.URL)
	require.NoError(t, err)

	assert.Contains(t, out, "Training modules")
	assert.Contains(t, out, "Default scenario")
	assert.Contains(t, out, "orientation")
	assert.Contains(t, out, "first_5_minutes")
	assert.Contains(t, out, "Ghost Module")
	assert.Less(t, bytes.Index([]byte(out), []byte("orientation")), bytes.Index([]byte(out), []byte("oddities")))
}

func TestModulesCommand_BackendDown(t *testing.T) {
	backend := newBackend(t)
	url := backend.URL
	backend.Close()

	_, err := execute(t, "modules", "--base-url", url, "--timeout", "2s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load modules")
}

// =============================================================================
// SHOW
// =============================================================================

func TestShowCommand_WalksToCompletion(t *testing.T) {
	backend := newBackend(t)

	out, err := execute(t, "show", "orientation", "--base-url", backend.URL)
	require.NoError(t, err)

	assert.Contains(t, out, "Orientation / first_5_minutes")
	assert.Contains(t, out, "Welcome to the floor.")
	assert.Contains(t, out, "Which table is seated first?")
	assert.Contains(t, out, "What do guests notice first?")
	assert.Contains(t, out, "Nice work.")
	assert.Contains(t, out, "-> Choose another module")
}

func TestShowCommand_ExplicitScenario(t *testing.T) {
	backend := newBackend(t)

	out, err := execute(t, "show", "orientation", "first_5_minutes", "--base-url", backend.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome to the floor.")
}

func TestShowCommand_StopsAtUnknownStep(t *testing.T) {
	backend := newBackend(t)

	out, err := execute(t, "show", "oddities", "--base-url", backend.URL)
	require.Error(t, err)

	var unknown *render.UnknownStepTypeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "mystery", unknown.Tag)

	assert.Contains(t, out, "Before the mystery.")
	assert.Contains(t, out, "Unknown step type: mystery")
	assert.NotContains(t, out, "unreachable")
}

func TestShowCommand_Errors(t *testing.T) {
	backend := newBackend(t)

	t.Run("module not in catalog", func(t *testing.T) {
		_, err := execute(t, "show", "nope", "--base-url", backend.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"nope" is not in the catalog`)
	})

	t.Run("scenario not found", func(t *testing.T) {
		_, err := execute(t, "show", "orientation", "missing", "--base-url", backend.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 404")
	})

	t.Run("too many args", func(t *testing.T) {
		_, err := execute(t, "show", "a", "b", "c", "--base-url", backend.URL)
		assert.Error(t, err)
	})
}

func TestShowCommand_EachRequestGetsFullTimeout(t *testing.T) {
	h := newBackendHandler(t)
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(600 * time.Millisecond)
		h.ServeHTTP(w, r)
	}))
	t.Cleanup(slow.Close)

	// Catalog lookup plus scenario fetch take longer than one timeout together.
	out, err := execute(t, "show", "orientation", "--base-url", slow.URL, "--timeout", "1s")
	require.NoError(t, err)
	assert.Contains(t, out, "Nice work.")
}

func TestShowCommand_Raw(t *testing.T) {
	backend := newBackend(t)

	out, err := execute(t, "show", "oddities", "--raw", "--base-url", backend.URL)
	require.NoError(t, err)
	assert.Contains(t, out, `"module_id": "oddities"`)
	assert.Contains(t, out, `"unreachable"`)
}

func TestPrintWalk_NotLoaded(t *testing.T) {
	var out bytes.Buffer
	err := printWalk(&out, engine.New(), newTestStyles())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Loading training...")
}

func TestPrintWalk_EmptyScenario(t *testing.T) {
	e := engine.New()
	e.Reset(&scenario.Scenario{ID: "empty"})

	var out bytes.Buffer
	require.NoError(t, printWalk(&out, e, newTestStyles()))
	assert.Contains(t, out.String(), "Nice work.")
}

// =============================================================================
// HEALTH
// =============================================================================

func TestHealthCommand(t *testing.T) {
	backend := newBackend(t)

	out, err := execute(t, "health", "--base-url", backend.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "ok: "+server.HealthMessage)
	assert.Contains(t, out, backend.URL)
}

func TestHealthCommand_BackendDown(t *testing.T) {
	backend := newBackend(t)
	url := backend.URL
	backend.Close()

	_, err := execute(t, "health", "--base-url", url, "--timeout", "2s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not healthy")
}

// =============================================================================
// CHECK
// =============================================================================

func TestCheckCommand_ReportsFindings(t *testing.T) {
	backend := newBackend(t)

	out, err := execute(t, "check", "--concurrency", "2", "--base-url", backend.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 3 modules have problems")

	assert.Contains(t, out, "ok   orientation/first_5_minutes (3 steps)")
	assert.Contains(t, out, "FAIL oddities/strange (3 steps)")
	assert.Contains(t, out, "FAIL ghost/nowhere")
	assert.Contains(t, out, "3 modules checked")
}

// =============================================================================
// CONFIG
// =============================================================================

func TestSetup_InvalidBaseURL(t *testing.T) {
	_, err := execute(t, "health", "--base-url", "ftp://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheme must be http or https")
}

func TestSetup_FlagsOverrideConfig(t *testing.T) {
	backend := newBackend(t)

	_, err := execute(t, "health", "--base-url", backend.URL, "--timeout", "3s", "-v")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, backend.URL, cfg.Server.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.GetTimeout())
	assert.Equal(t, "debug", cfg.Logging.Level)
}
