// Package scenario defines the training content model delivered by the
// scenario service: modules, scenarios and the tagged union of steps.
package scenario

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Module is one entry of the module catalog shown in the picker.
type Module struct {
	ID                string  `json:"id" yaml:"id"`
	Title             string  `json:"title" yaml:"title"`
	EstimatedMinutes  float64 `json:"estimated_minutes" yaml:"estimated_minutes"`
	DefaultScenarioID string  `json:"default_scenario_id" yaml:"default_scenario_id"`
}

// Label is the picker text for a module, e.g. "Orientation (~5 min)".
func (m Module) Label() string {
	return fmt.Sprintf("%s (~%s min)", m.Title, m.Minutes())
}

// Minutes formats EstimatedMinutes without trailing zeros: 5, 7.5.
func (m Module) Minutes() string {
	return strconv.FormatFloat(m.EstimatedMinutes, 'f', -1, 64)
}

// Validate checks the fields a client needs to load the module's scenario.
func (m Module) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("module missing id")
	}
	if m.DefaultScenarioID == "" {
		return fmt.Errorf("module %q missing default_scenario_id", m.ID)
	}
	return nil
}

// Scenario is an ordered sequence of steps for one module.
type Scenario struct {
	ID       string `json:"id,omitempty"`
	ModuleID string `json:"module_id,omitempty"`
	Title    string `json:"title"`
	Steps    Steps  `json:"steps"`
}

// Len returns the number of steps.
func (s *Scenario) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Steps)
}

// UnmarshalJSON requires a steps array so a payload missing it is not
// mistaken for an empty (immediately completed) scenario.
func (s *Scenario) UnmarshalJSON(data []byte) error {
	type plain Scenario
	var probe struct {
		Steps json.RawMessage `json:"steps"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if len(probe.Steps) == 0 || string(probe.Steps) == "null" {
		return fmt.Errorf("scenario missing steps")
	}
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Scenario(p)
	return nil
}

// Envelope is the body of GET /modules/{module_id}/scenario/{scenario_id}.
type Envelope struct {
	ModuleID string    `json:"module_id"`
	Title    string    `json:"title"`
	Scenario *Scenario `json:"scenario"`
}

// Validate checks that the envelope carries a scenario.
func (e *Envelope) Validate() error {
	if e.Scenario == nil {
		return fmt.Errorf("response missing scenario")
	}
	return nil
}
