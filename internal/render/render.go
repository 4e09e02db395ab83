// Package render converts engine snapshots into view models for the
// presentation layer. Rendering is pure: it never touches the network and
// never changes progression. Navigation is declared through an Affordance
// that the controller maps to a key.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"

	"servertrain/internal/engine"
	"servertrain/internal/scenario"
)

// Kind identifies the shape of a ViewModel. For steps it equals the step tag.
type Kind string

const (
	KindNotLoaded  Kind = "not_loaded"
	KindText       Kind = scenario.TypeText
	KindQuiz       Kind = scenario.TypeQuiz
	KindReflection Kind = scenario.TypeReflection
	KindQuizResult Kind = scenario.TypeQuizResult
	KindUnknown    Kind = "unknown"
	KindCompleted  Kind = "completed"
)

// Action is what the controller should do when an affordance is triggered.
type Action int

const (
	ActionNone Action = iota
	ActionAdvance
	ActionPickModule
)

func (a Action) String() string {
	switch a {
	case ActionAdvance:
		return "advance"
	case ActionPickModule:
		return "pick_module"
	default:
		return "none"
	}
}

// Affordance is a labelled control offered by a view.
type Affordance struct {
	Label  string
	Action Action
}

// ViewModel is everything the presentation layer needs to draw one screen.
type ViewModel struct {
	Kind     Kind
	Heading  string
	Body     string
	Question string
	Note     string
	// Detail is preformatted text, e.g. the indented JSON of a quiz step.
	Detail string
	// Input requests a free-text field with the given Placeholder.
	Input       bool
	Placeholder string
	// Tag and Err are set for unknown steps.
	Tag     string
	Err     error
	Primary *Affordance
	Index   int
	Total   int
}

// UnknownStepTypeError reports a step tag that has no renderer.
type UnknownStepTypeError struct {
	Tag string
}

func (e *UnknownStepTypeError) Error() string {
	return fmt.Sprintf("unknown step type: %s", e.Tag)
}

const (
	completedHeading    = "Nice work."
	completedBody       = "You’ve completed this training scenario."
	loadingTrainingBody = "Loading training..."
	quizNote            = "(Quiz UI coming next — placeholder for now)"
	reflectionHint      = "Write your thoughts here..."
)

func next() *Affordance {
	return &Affordance{Label: "Next", Action: ActionAdvance}
}

func pickModule() *Affordance {
	return &Affordance{Label: "Choose another module", Action: ActionPickModule}
}

// Render maps a StepView to its ViewModel.
func Render(view engine.StepView) ViewModel {
	switch view.State {
	case engine.NotLoaded:
		return ViewModel{Kind: KindNotLoaded, Body: loadingTrainingBody}
	case engine.Completed:
		return ViewModel{
			Kind:    KindCompleted,
			Heading: completedHeading,
			Body:    completedBody,
			Primary: pickModule(),
			Index:   view.Index,
			Total:   view.Total,
		}
	}

	vm := Step(view.Step)
	vm.Index = view.Index
	vm.Total = view.Total
	return vm
}

// Step renders a single step, independent of its position.
func Step(st scenario.Step) ViewModel {
	switch s := st.(type) {
	case scenario.TextStep:
		return ViewModel{Kind: KindText, Heading: "Lesson", Body: s.Text, Primary: next()}

	case scenario.QuizStep:
		return ViewModel{
			Kind:     KindQuiz,
			Heading:  "Quiz",
			Question: s.Question,
			Note:     quizNote,
			Detail:   indentJSON(s.Raw()),
			Primary:  &Affordance{Label: "Next (placeholder)", Action: ActionAdvance},
		}

	case scenario.ReflectionStep:
		return ViewModel{
			Kind:        KindReflection,
			Heading:     "Reflection",
			Body:        s.Prompt,
			Input:       true,
			Placeholder: reflectionHint,
			Primary:     next(),
		}

	case scenario.QuizResultStep:
		return ViewModel{Kind: KindQuizResult, Heading: "Results", Body: s.Text(), Primary: next()}

	case scenario.UnknownStep:
		return unknown(s.Tag)

	case nil:
		return unknown("")

	default:
		return unknown(st.Type())
	}
}

func unknown(tag string) ViewModel {
	err := &UnknownStepTypeError{Tag: tag}
	return ViewModel{
		Kind:    KindUnknown,
		Body:    fmt.Sprintf("Unknown step type: %s", tag),
		Tag:     tag,
		Err:     err,
		Primary: pickModule(),
	}
}

func indentJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
