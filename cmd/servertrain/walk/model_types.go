package walk

import (
	"context"

	"servertrain/internal/scenario"
)

// Client is the part of the scenario client the walk needs.
type Client interface {
	ListModules(ctx context.Context) ([]scenario.Module, error)
	GetScenario(ctx context.Context, moduleID, scenarioID string) (*scenario.Envelope, error)
}

// Phase is the controller's top-level state.
type Phase int

const (
	PhasePickingLoad Phase = iota // fetching the module list
	PhasePicking                  // module list shown
	PhaseLoading                  // fetching a scenario
	PhaseWalking                  // stepping through a scenario
	PhaseError                    // a fetch failed
)

func (p Phase) String() string {
	switch p {
	case PhasePickingLoad:
		return "picking_load"
	case PhasePicking:
		return "picking"
	case PhaseLoading:
		return "loading"
	case PhaseWalking:
		return "walking"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Messages carry the token of the fetch that produced them. The controller
// drops any whose token is not the latest.
type modulesLoadedMsg struct {
	token   uint64
	modules []scenario.Module
	err     error
}

type scenarioLoadedMsg struct {
	token  uint64
	module scenario.Module
	env    *scenario.Envelope
	err    error
}

// moduleItem adapts a Module to bubbles/list.
type moduleItem struct {
	module scenario.Module
}

func (i moduleItem) Title() string       { return i.module.Label() }
func (i moduleItem) Description() string { return i.module.ID }
func (i moduleItem) FilterValue() string { return i.module.Title }

const (
	pickerTitle         = "Choose a training module"
	loadingModulesText  = "Loading modules..."
	loadingTrainingText = "Loading training..."
	modulesErrorTitle   = "Error loading modules."
	scenarioErrorTitle  = "Error loading scenario."
	appTitle            = "Server Training"
)
