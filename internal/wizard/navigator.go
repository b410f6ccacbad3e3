package wizard

// Navigator is the wizard state machine. It holds the ordered step list and
// the shared context, performs validated transitions, and reports changes
// through its callbacks.
//
// All transitions run synchronously on the caller's goroutine; the engine
// relies on the host event loop serializing user actions, so no transition
// can be observed partway through.
type Navigator struct {
	context *Context
	steps   []Step
	current int

	// Callbacks fire on every successful transition, in this order:
	// StepChanged, CanGoNextChanged, CanGoPreviousChanged. ValidationFailed
	// fires instead when a forward transition is blocked. Nil callbacks are
	// skipped.
	StepChanged          func(oldIndex, newIndex int)
	CanGoNextChanged     func(bool)
	CanGoPreviousChanged func(bool)
	ValidationFailed     func(*ValidationResult)
}

// NewNavigator creates a navigator over the given context and steps.
// Navigation starts at index 0; call Activate to show the first step.
func NewNavigator(ctx *Context, steps []Step) *Navigator {
	return &Navigator{
		context: ctx,
		steps:   steps,
	}
}

// CurrentIndex returns the active step index.
func (n *Navigator) CurrentIndex() int { return n.current }

// StepCount returns the number of steps.
func (n *Navigator) StepCount() int { return len(n.steps) }

// CurrentStep returns the active step, or nil when the navigator holds no
// steps.
func (n *Navigator) CurrentStep() Step {
	if n.current < 0 || n.current >= len(n.steps) {
		return nil
	}
	return n.steps[n.current]
}

// CanGoNext reports whether a forward transition is possible.
func (n *Navigator) CanGoNext() bool { return n.current < len(n.steps)-1 }

// CanGoPrevious reports whether a backward transition is possible.
func (n *Navigator) CanGoPrevious() bool { return n.current > 0 }

// Next validates the active step and advances on success. On validation
// failure the ValidationFailed callback receives the full result and the
// index is unchanged. With skipValidation the step is neither validated nor
// marked completed.
//
// When the step implements NextHook, OnNext runs after validation and
// before the index advances; an error aborts the transition and is
// surfaced through ValidationFailed as a single-error result. The step
// stays marked completed in that case since its data did validate.
func (n *Navigator) Next(skipValidation bool) bool {
	if !n.CanGoNext() {
		return false
	}

	if !skipValidation {
		step := n.CurrentStep()
		if step != nil {
			result := step.Validate()
			if !result.Valid {
				n.emitValidationFailed(result)
				return false
			}
			n.context.MarkStepCompleted(n.current)

			if hook, ok := step.(NextHook); ok {
				if err := hook.OnNext(); err != nil {
					result := NewValidationResult()
					result.AddError(err.Error())
					n.emitValidationFailed(result)
					return false
				}
			}
		}
	}

	return n.navigateTo(n.current + 1)
}

// Previous moves back one step without validating. Users must always be
// able to retreat to fix earlier data, so nothing blocks this.
func (n *Navigator) Previous() bool {
	if !n.CanGoPrevious() {
		return false
	}
	return n.navigateTo(n.current - 1)
}

// Goto jumps to an arbitrary step. Jumping to the current index is a no-op
// success. Forward jumps validate the active step but, unlike Next, never
// mark it completed: only Next records completion. Backward jumps never
// validate. Out-of-range requests return false with no state change.
func (n *Navigator) Goto(index int, skipValidation bool) bool {
	if index < 0 || index >= len(n.steps) {
		return false
	}
	if index == n.current {
		return true
	}

	if index > n.current && !skipValidation {
		step := n.CurrentStep()
		if step != nil {
			result := step.Validate()
			if !result.Valid {
				n.emitValidationFailed(result)
				return false
			}
		}
	}

	return n.navigateTo(index)
}

// Reset returns to the first step unconditionally.
func (n *Navigator) Reset() bool {
	if n.current == 0 {
		n.Activate()
		return true
	}
	return n.navigateTo(0)
}

// Activate shows the current step without a transition: it runs the
// one-shot setup and populate lifecycle and emits the button-state
// callbacks. Wizards call it once after construction so step 0 appears
// regardless of whether it would validate with empty data.
func (n *Navigator) Activate() {
	if step := n.CurrentStep(); step != nil {
		showStep(step)
	}
	n.emitNavState()
}

// ProgressPercent returns progress through the flow as 0..100. A
// single-step flow reports 0 rather than dividing by zero.
func (n *Navigator) ProgressPercent() float64 {
	if len(n.steps) <= 1 {
		return 0
	}
	return float64(n.current) / float64(len(n.steps)-1) * 100
}

// CompletedCount returns how many steps have passed validation.
func (n *Navigator) CompletedCount() int { return n.context.CompletedCount() }

// navigateTo is the single transition primitive. On every successful move
// the old step hides, the index updates in both navigator and context, the
// new step shows, and the three change callbacks fire in their documented
// order.
func (n *Navigator) navigateTo(newIndex int) bool {
	if newIndex < 0 || newIndex >= len(n.steps) {
		return false
	}

	oldIndex := n.current

	if step := n.CurrentStep(); step != nil {
		step.OnHide()
	}

	n.current = newIndex
	n.context.CurrentStepIndex = newIndex
	n.context.touch()

	if step := n.CurrentStep(); step != nil {
		showStep(step)
	}

	if n.StepChanged != nil {
		n.StepChanged(oldIndex, newIndex)
	}
	n.emitNavState()

	return true
}

func (n *Navigator) emitNavState() {
	if n.CanGoNextChanged != nil {
		n.CanGoNextChanged(n.CanGoNext())
	}
	if n.CanGoPreviousChanged != nil {
		n.CanGoPreviousChanged(n.CanGoPrevious())
	}
}

func (n *Navigator) emitValidationFailed(result *ValidationResult) {
	if n.ValidationFailed != nil {
		n.ValidationFailed(result)
	}
}

// showStep runs the on-show lifecycle: one-shot setup, then populate.
func showStep(s Step) {
	if !s.Initialized() {
		s.SetupUI()
		s.MarkInitialized()
	}
	s.PopulateData()
}
