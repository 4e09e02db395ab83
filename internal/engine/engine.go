// Package engine owns scenario progression: which scenario is loaded and
// which step the learner is on. It performs no I/O.
package engine

import (
	"servertrain/internal/scenario"
)

// State is the position of the walk within a scenario.
type State int

const (
	// NotLoaded means Reset has not been called with a scenario.
	NotLoaded State = iota
	// AtStep means Index addresses a step of the scenario.
	AtStep
	// Completed means every step has been advanced past.
	Completed
)

func (s State) String() string {
	switch s {
	case NotLoaded:
		return "not_loaded"
	case AtStep:
		return "at_step"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// StepView is a snapshot of the engine. Step is only set when State is AtStep.
type StepView struct {
	State State
	Step  scenario.Step
	Index int
	Total int
}

// Engine holds the progression state. The zero value is NotLoaded and ready to use.
type Engine struct {
	scenario *scenario.Scenario
	index    int
}

// New returns an engine with no scenario loaded.
func New() *Engine {
	return &Engine{}
}

// Reset replaces the scenario and rewinds to the first step.
// Reset(nil) returns the engine to NotLoaded.
func (e *Engine) Reset(sc *scenario.Scenario) {
	e.scenario = sc
	e.index = 0
}

// Loaded reports whether a scenario is set.
func (e *Engine) Loaded() bool {
	return e.scenario != nil
}

// Scenario returns the loaded scenario, or nil.
func (e *Engine) Scenario() *scenario.Scenario {
	return e.scenario
}

// Current returns the view for the current position.
func (e *Engine) Current() StepView {
	if e.scenario == nil {
		return StepView{State: NotLoaded}
	}
	total := e.scenario.Len()
	if e.index >= total {
		return StepView{State: Completed, Index: total, Total: total}
	}
	return StepView{
		State: AtStep,
		Step:  e.scenario.Steps[e.index],
		Index: e.index,
		Total: total,
	}
}

// Advance moves to the next step. It is a no-op when nothing is loaded or the
// scenario is already completed, so the index never passes len(steps).
func (e *Engine) Advance() {
	if e.scenario == nil {
		return
	}
	if e.index < e.scenario.Len() {
		e.index++
	}
}

// Progress returns the current index and the number of steps.
func (e *Engine) Progress() (index, total int) {
	return e.index, e.scenario.Len()
}
