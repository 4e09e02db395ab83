// Package content loads training modules from a content directory and serves
// them to the dev server. The directory holds catalog.yaml (the picker order)
// and one modules/<module_id>.json file per module.
package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"servertrain/internal/logging"
	"servertrain/internal/scenario"

	"gopkg.in/yaml.v3"
)

var (
	// ErrModuleNotFound is returned when no module file exists for an id.
	ErrModuleNotFound = errors.New("module not found")
	// ErrScenarioNotFound is returned when a module has no scenario with an id.
	ErrScenarioNotFound = errors.New("scenario not found")
)

const (
	// CatalogFile is the catalog's name inside the content directory.
	CatalogFile = "catalog.yaml"
	// ModulesDir holds the module JSON files.
	ModulesDir = "modules"
)

// Payload is the body of the scenario endpoint. Scenario is passed through
// exactly as stored so unknown step types and extra fields reach the client.
type Payload struct {
	ModuleID string          `json:"module_id"`
	Title    string          `json:"title"`
	Scenario json.RawMessage `json:"scenario"`
}

type moduleFile struct {
	raw       json.RawMessage
	moduleID  string
	title     string
	scenarios []storedScenario
}

type storedScenario struct {
	id  string
	raw json.RawMessage
}

// Store is an in-memory snapshot of a content directory. Reload swaps the
// snapshot atomically; readers never observe a half-loaded directory.
type Store struct {
	dir string

	mu         sync.RWMutex
	catalog    []scenario.Module
	modules    map[string]*moduleFile
	generation uint64
	loadedAt   time.Time
}

// NewStore creates an empty store for dir. Call Reload to populate it.
func NewStore(dir string) *Store {
	return &Store{
		dir:     dir,
		modules: make(map[string]*moduleFile),
	}
}

// Open creates a store for dir and loads it.
func Open(dir string) (*Store, error) {
	s := NewStore(dir)
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Dir returns the content directory.
func (s *Store) Dir() string {
	return s.dir
}

// Reload reads the content directory again. On error the previous snapshot
// stays in place.
func (s *Store) Reload() error {
	catalog, err := loadCatalog(filepath.Join(s.dir, CatalogFile))
	if err != nil {
		return err
	}
	modules, err := loadModules(filepath.Join(s.dir, ModulesDir))
	if err != nil {
		return err
	}

	for _, m := range catalog {
		if _, ok := modules[m.ID]; !ok {
			logging.ContentWarn("catalog lists %q but %s/%s.json is missing", m.ID, ModulesDir, m.ID)
		}
	}

	s.mu.Lock()
	s.catalog = catalog
	s.modules = modules
	s.generation++
	s.loadedAt = time.Now()
	gen := s.generation
	s.mu.Unlock()

	logging.Content("loaded %d catalog entries, %d module files from %s (generation %d)", len(catalog), len(modules), s.dir, gen)
	return nil
}

// Generation counts successful loads.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// LoadedAt is the time of the last successful load.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// ListModules returns the catalog in file order.
func (s *Store) ListModules() []scenario.Module {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]scenario.Module, len(s.catalog))
	copy(out, s.catalog)
	return out
}

// RawModule returns a module file exactly as it is on disk.
func (s *Store) RawModule(moduleID string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mf, ok := s.modules[moduleID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, moduleID)
	}
	return mf.raw, nil
}

// Scenario returns one scenario of a module. The payload's module_id is the
// file's module_id field, falling back to the requested id.
func (s *Store) Scenario(moduleID, scenarioID string) (*Payload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mf, ok := s.modules[moduleID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, moduleID)
	}
	for _, sc := range mf.scenarios {
		if sc.id == scenarioID {
			id := mf.moduleID
			if id == "" {
				id = moduleID
			}
			return &Payload{ModuleID: id, Title: mf.title, Scenario: sc.raw}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s/%s", ErrScenarioNotFound, moduleID, scenarioID)
}

func loadCatalog(path string) ([]scenario.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	var catalog []scenario.Module
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}

	seen := make(map[string]bool, len(catalog))
	for i, m := range catalog {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		if seen[m.ID] {
			return nil, fmt.Errorf("catalog entry %d: duplicate module id %q", i, m.ID)
		}
		seen[m.ID] = true
	}
	if catalog == nil {
		catalog = []scenario.Module{}
	}
	return catalog, nil
}

func loadModules(dir string) (map[string]*moduleFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read modules directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	modules := make(map[string]*moduleFile, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		mf, err := parseModule(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		modules[strings.TrimSuffix(name, ".json")] = mf
	}
	return modules, nil
}

func parseModule(data []byte) (*moduleFile, error) {
	var doc struct {
		ModuleID  string            `json:"module_id"`
		Title     string            `json:"title"`
		Scenarios []json.RawMessage `json:"scenarios"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	mf := &moduleFile{
		raw:       json.RawMessage(data),
		moduleID:  doc.ModuleID,
		title:     doc.Title,
		scenarios: make([]storedScenario, 0, len(doc.Scenarios)),
	}
	for i, raw := range doc.Scenarios {
		var head struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			return nil, fmt.Errorf("scenario %d: %w", i, err)
		}
		mf.scenarios = append(mf.scenarios, storedScenario{id: head.ID, raw: raw})
	}
	return mf, nil
}
