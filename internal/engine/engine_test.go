package engine

import (
	"testing"

	"servertrain/internal/scenario"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func welcomeScenario() *scenario.Scenario {
	return &scenario.Scenario{
		Title: "Welcome",
		Steps: scenario.Steps{
			scenario.NewTextStep("Welcome"),
			scenario.NewReflectionStep("Think"),
		},
	}
}

func scenarioOf(n int) *scenario.Scenario {
	sc := &scenario.Scenario{}
	for i := 0; i < n; i++ {
		sc.Steps = append(sc.Steps, scenario.NewTextStep("step"))
	}
	return sc
}

func TestCurrent_BeforeReset(t *testing.T) {
	e := New()
	assert.Equal(t, StepView{State: NotLoaded}, e.Current())
	assert.False(t, e.Loaded())

	e.Advance()
	assert.Equal(t, NotLoaded, e.Current().State)

	var zero Engine
	assert.Equal(t, NotLoaded, zero.Current().State)
}

func TestAdvance_ReachesCompletedWithoutOverrun(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7} {
		e := New()
		e.Reset(scenarioOf(n))

		for i := 0; i < n; i++ {
			require.Equal(t, AtStep, e.Current().State, "n=%d i=%d", n, i)
			e.Advance()
		}
		assert.Equal(t, Completed, e.Current().State, "n=%d", n)

		for i := 0; i < 5; i++ {
			e.Advance()
		}
		view := e.Current()
		assert.Equal(t, Completed, view.State, "n=%d", n)
		assert.Equal(t, n, view.Index)
		idx, total := e.Progress()
		assert.Equal(t, n, idx)
		assert.Equal(t, n, total)
	}
}

func TestCurrent_IsPure(t *testing.T) {
	e := New()
	e.Reset(welcomeScenario())
	e.Advance()

	first := e.Current()
	second := e.Current()
	assert.Equal(t, first, second)
	assert.Equal(t, 1, first.Index)
}

func TestReset_AlwaysRewinds(t *testing.T) {
	e := New()
	sc := welcomeScenario()
	e.Reset(sc)
	e.Advance()
	e.Advance()
	require.Equal(t, Completed, e.Current().State)

	e.Reset(sc)
	view := e.Current()
	assert.Equal(t, AtStep, view.State)
	assert.Equal(t, 0, view.Index)

	other := scenarioOf(3)
	e.Advance()
	e.Reset(other)
	assert.Equal(t, 0, e.Current().Index)
	assert.Same(t, other, e.Scenario())

	e.Reset(nil)
	assert.Equal(t, NotLoaded, e.Current().State)
}

func TestWalk_TextThenReflection(t *testing.T) {
	e := New()
	e.Reset(welcomeScenario())

	view := e.Current()
	require.Equal(t, AtStep, view.State)
	assert.Equal(t, scenario.TypeText, view.Step.Type())
	assert.Equal(t, 0, view.Index)
	assert.Equal(t, 2, view.Total)

	e.Advance()
	view = e.Current()
	require.Equal(t, AtStep, view.State)
	assert.Equal(t, scenario.TypeReflection, view.Step.Type())
	assert.Equal(t, 1, view.Index)

	e.Advance()
	assert.Equal(t, Completed, e.Current().State)

	e.Advance()
	assert.Equal(t, Completed, e.Current().State)
}

func TestDeterminism(t *testing.T) {
	sc := scenarioOf(4)
	a, b := New(), New()
	a.Reset(sc)
	b.Reset(sc)
	for i := 0; i < 6; i++ {
		assert.Equal(t, a.Current(), b.Current(), "after %d advances", i)
		a.Advance()
		b.Advance()
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "not_loaded", NotLoaded.String())
	assert.Equal(t, "at_step", AtStep.String())
	assert.Equal(t, "completed", Completed.String())
	assert.Equal(t, "unknown", State(99).String())
}
