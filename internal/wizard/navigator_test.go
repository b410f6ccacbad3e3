package wizard

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStep is a scriptable step for navigator tests.
type stubStep struct {
	StepBase

	title    string
	errors   []string
	warnings []string

	setupCalls    int
	populateCalls int
	hideCalls     int
}

func (s *stubStep) SetupUI()      { s.setupCalls++ }
func (s *stubStep) PopulateData() { s.populateCalls++ }
func (s *stubStep) OnHide()       { s.hideCalls++ }
func (s *stubStep) Title() string { return s.title }

func (s *stubStep) Validate() *ValidationResult {
	result := NewValidationResult()
	for _, e := range s.errors {
		result.AddError(e)
	}
	for _, w := range s.warnings {
		result.AddWarning(w)
	}
	return result
}

func (s *stubStep) CollectData() map[string]any {
	return map[string]any{"step": s.title}
}

// hookStep adds a NextHook to stubStep.
type hookStep struct {
	stubStep
	nextErr   error
	nextCalls int
}

func (s *hookStep) OnNext() error {
	s.nextCalls++
	return s.nextErr
}

func newNavigator(n int) (*Navigator, *Context, []*stubStep) {
	ctx := NewContext("SRV")
	steps := make([]*stubStep, n)
	wsteps := make([]Step, n)
	for i := range steps {
		steps[i] = &stubStep{title: fmt.Sprintf("step-%d", i)}
		wsteps[i] = steps[i]
	}
	return NewNavigator(&ctx, wsteps), &ctx, steps
}

func TestActivateShowsFirstStepOnce(t *testing.T) {
	nav, _, steps := newNavigator(3)

	nav.Activate()
	assert.Equal(t, 1, steps[0].setupCalls)
	assert.Equal(t, 1, steps[0].populateCalls)

	// Activating again re-populates but never rebuilds.
	nav.Activate()
	assert.Equal(t, 1, steps[0].setupCalls)
	assert.Equal(t, 2, steps[0].populateCalls)
}

func TestNextAdvancesAndMarksCompleted(t *testing.T) {
	nav, ctx, steps := newNavigator(3)
	nav.Activate()

	require.True(t, nav.Next(false))
	assert.Equal(t, 1, nav.CurrentIndex())
	assert.Equal(t, 1, ctx.CurrentStepIndex)
	assert.True(t, ctx.IsStepCompleted(0))
	assert.Equal(t, 1, steps[0].hideCalls)
	assert.Equal(t, 1, steps[1].setupCalls)
	assert.Equal(t, 1, steps[1].populateCalls)
}

func TestNextBlockedByValidation(t *testing.T) {
	nav, ctx, steps := newNavigator(3)
	steps[0].errors = []string{"missing data"}

	var failed *ValidationResult
	nav.ValidationFailed = func(r *ValidationResult) { failed = r }

	assert.False(t, nav.Next(false))
	assert.Equal(t, 0, nav.CurrentIndex())
	assert.False(t, ctx.IsStepCompleted(0))
	require.NotNil(t, failed)
	assert.Equal(t, []string{"missing data"}, failed.Errors)
}

func TestNextWithWarningsPasses(t *testing.T) {
	nav, _, steps := newNavigator(3)
	steps[0].warnings = []string{"heads up"}

	assert.True(t, nav.Next(false))
	assert.Equal(t, 1, nav.CurrentIndex())
}

func TestNextSkipValidation(t *testing.T) {
	nav, ctx, steps := newNavigator(3)
	steps[0].errors = []string{"missing data"}

	assert.True(t, nav.Next(true))
	assert.Equal(t, 1, nav.CurrentIndex())
	assert.False(t, ctx.IsStepCompleted(0), "skipped validation never marks completion")
}

func TestNextAtEndFails(t *testing.T) {
	nav, _, _ := newNavigator(2)
	require.True(t, nav.Next(false))
	assert.False(t, nav.Next(false))
	assert.Equal(t, 1, nav.CurrentIndex())
}

func TestNextHookRunsAfterValidation(t *testing.T) {
	ctx := NewContext("SRV")
	hooked := &hookStep{stubStep: stubStep{title: "hooked"}}
	plain := &stubStep{title: "plain"}
	nav := NewNavigator(&ctx, []Step{hooked, plain})

	require.True(t, nav.Next(false))
	assert.Equal(t, 1, hooked.nextCalls)
}

func TestNextHookErrorAbortsTransition(t *testing.T) {
	ctx := NewContext("SRV")
	hooked := &hookStep{stubStep: stubStep{title: "hooked"}, nextErr: errors.New("db unavailable")}
	plain := &stubStep{title: "plain"}
	nav := NewNavigator(&ctx, []Step{hooked, plain})

	var failed *ValidationResult
	nav.ValidationFailed = func(r *ValidationResult) { failed = r }

	assert.False(t, nav.Next(false))
	assert.Equal(t, 0, nav.CurrentIndex())
	require.NotNil(t, failed)
	assert.Equal(t, []string{"db unavailable"}, failed.Errors)
	// The data itself validated, so the completion mark stays.
	assert.True(t, ctx.IsStepCompleted(0))
}

func TestPreviousNeverValidates(t *testing.T) {
	nav, _, steps := newNavigator(3)
	require.True(t, nav.Next(false))

	// Make the current step invalid; backing up must still work.
	steps[1].errors = []string{"bad"}
	assert.True(t, nav.Previous())
	assert.Equal(t, 0, nav.CurrentIndex())

	assert.False(t, nav.Previous(), "cannot retreat past the first step")
}

func TestGoto(t *testing.T) {
	nav, ctx, steps := newNavigator(5)

	// Out of range.
	assert.False(t, nav.Goto(-1, false))
	assert.False(t, nav.Goto(5, false))

	// Same index is a no-op success.
	assert.True(t, nav.Goto(0, false))
	assert.Equal(t, 0, steps[0].hideCalls)

	// Forward validates, but only Next records completion.
	require.True(t, nav.Goto(3, false))
	assert.Equal(t, 3, nav.CurrentIndex())
	assert.False(t, ctx.IsStepCompleted(0))

	// Backward never validates.
	steps[3].errors = []string{"bad"}
	assert.True(t, nav.Goto(1, false))
	assert.Equal(t, 1, nav.CurrentIndex())

	// Forward blocked by invalid current step.
	steps[1].errors = []string{"bad"}
	assert.False(t, nav.Goto(2, false))
	assert.Equal(t, 1, nav.CurrentIndex())

	// skipValidation overrides.
	assert.True(t, nav.Goto(2, true))
	assert.Equal(t, 2, nav.CurrentIndex())
}

func TestCallbackOrder(t *testing.T) {
	nav, _, _ := newNavigator(3)

	var order []string
	nav.StepChanged = func(oldIdx, newIdx int) {
		order = append(order, fmt.Sprintf("changed:%d->%d", oldIdx, newIdx))
	}
	nav.CanGoNextChanged = func(v bool) {
		order = append(order, fmt.Sprintf("next:%v", v))
	}
	nav.CanGoPreviousChanged = func(v bool) {
		order = append(order, fmt.Sprintf("prev:%v", v))
	}

	require.True(t, nav.Next(false))
	assert.Equal(t, []string{"changed:0->1", "next:true", "prev:true"}, order)

	order = nil
	require.True(t, nav.Next(false))
	assert.Equal(t, []string{"changed:1->2", "next:false", "prev:true"}, order)
}

func TestProgressPercent(t *testing.T) {
	nav, _, _ := newNavigator(5)
	assert.Equal(t, 0.0, nav.ProgressPercent())

	require.True(t, nav.Next(false))
	assert.Equal(t, 25.0, nav.ProgressPercent())

	require.True(t, nav.Goto(4, true))
	assert.Equal(t, 100.0, nav.ProgressPercent())

	// Degenerate flows report zero instead of dividing by zero.
	single, _, _ := newNavigator(1)
	assert.Equal(t, 0.0, single.ProgressPercent())
}

func TestReset(t *testing.T) {
	nav, ctx, steps := newNavigator(4)
	require.True(t, nav.Goto(2, true))

	assert.True(t, nav.Reset())
	assert.Equal(t, 0, nav.CurrentIndex())
	assert.Equal(t, 0, ctx.CurrentStepIndex)
	assert.Equal(t, 1, steps[2].hideCalls)

	// Reset while already at the start re-activates.
	assert.True(t, nav.Reset())
	assert.Equal(t, 0, nav.CurrentIndex())
}

func TestEmptyNavigator(t *testing.T) {
	ctx := NewContext("SRV")
	nav := NewNavigator(&ctx, nil)

	assert.Nil(t, nav.CurrentStep())
	assert.False(t, nav.CanGoNext())
	assert.False(t, nav.CanGoPrevious())
	assert.False(t, nav.Next(false))
	assert.Equal(t, 0.0, nav.ProgressPercent())
	nav.Activate() // must not panic
}
