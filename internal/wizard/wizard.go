package wizard

import "github.com/hussien-988/habitat-desktop-sub004/internal/logger"

// Hooks is what a concrete wizard must implement. CreateContext runs before
// CreateSteps, so a hook implementation can hand its concrete context to
// the steps it builds.
type Hooks interface {
	// CreateContext creates the context for this run.
	CreateContext() SessionContext

	// CreateSteps creates the ordered step list.
	CreateSteps() []Step

	// OnSubmit performs the final submission. It is responsible for
	// catching and surfacing its own failures; a false return keeps the
	// wizard open with no framework-dictated error content.
	OnSubmit() bool
}

// Canceler is an optional hook: return false to veto cancellation (for
// "are you sure?" confirmation). Without it, cancellation always proceeds.
type Canceler interface {
	OnCancel() bool
}

// DraftSaver is an optional hook for persisting the context snapshot.
// It returns the draft identifier, or an empty id when nothing was saved.
type DraftSaver interface {
	OnSaveDraft() (string, error)
}

// Titler optionally supplies the wizard title shown by the host.
type Titler interface {
	WizardTitle() string
}

// SubmitLabeler optionally supplies the label for the final-step button.
type SubmitLabeler interface {
	SubmitLabel() string
}

// Wizard orchestrates one run: it owns the context and navigator, binds
// navigation and submission to the hook implementation, and reports
// terminal outcomes through its callbacks.
type Wizard struct {
	hooks Hooks
	ctx   SessionContext
	nav   *Navigator

	// Completed receives the serialized context after a successful
	// submission. Cancelled fires after a confirmed cancel. DraftSaved
	// fires with the draft id after a successful draft save. Nil callbacks
	// are skipped.
	Completed  func(snapshot []byte)
	Cancelled  func()
	DraftSaved func(draftID string)
}

// New constructs a wizard from its hooks. Call Start (or Resume) before
// handling user actions.
func New(hooks Hooks) *Wizard {
	ctx := hooks.CreateContext()
	steps := hooks.CreateSteps()
	return &Wizard{
		hooks: hooks,
		ctx:   ctx,
		nav:   NewNavigator(ctx.Base(), steps),
	}
}

// Start activates the first step with validation skipped. A wizard always
// begins at step 0 even if that step would not validate with empty data.
func (w *Wizard) Start() {
	w.ctx.Base().Status = StatusInProgress
	w.nav.Activate()
}

// Resume activates the step index stored in the context, used after the
// context has been rehydrated from a draft. Validation is skipped for the
// jump since the draft's earlier steps already passed it when saved.
func (w *Wizard) Resume() {
	w.ctx.Base().Status = StatusInProgress
	idx := w.ctx.Base().CurrentStepIndex
	if idx <= 0 {
		w.nav.Activate()
		return
	}
	if !w.nav.Goto(idx, true) {
		logger.Warn("Draft step index %d out of range, starting at first step", idx)
		w.nav.Activate()
	}
}

// Navigator exposes the state machine so hosts can bind its callbacks and
// query progress.
func (w *Wizard) Navigator() *Navigator { return w.nav }

// Context returns the session context for this run.
func (w *Wizard) Context() SessionContext { return w.ctx }

// Title returns the hook-supplied wizard title, or a generic default.
func (w *Wizard) Title() string {
	if t, ok := w.hooks.(Titler); ok {
		return t.WizardTitle()
	}
	return "Wizard"
}

// SubmitButtonText returns the hook-supplied final-step label.
func (w *Wizard) SubmitButtonText() string {
	if s, ok := w.hooks.(SubmitLabeler); ok {
		return s.SubmitLabel()
	}
	return "Finish"
}

// OnLastStep reports whether the active step is the final one.
func (w *Wizard) OnLastStep() bool {
	return w.nav.CurrentIndex() == w.nav.StepCount()-1
}

// HandleNext advances to the next step, or submits when already on the
// last step.
func (w *Wizard) HandleNext() bool {
	if w.OnLastStep() {
		return w.HandleSubmit()
	}
	return w.nav.Next(false)
}

// HandlePrevious moves back one step.
func (w *Wizard) HandlePrevious() bool {
	return w.nav.Previous()
}

// HandleSubmit re-validates the final step, then runs the submission hook.
// On success the Completed callback receives the serialized context. On
// hook failure nothing closes; the hook has already surfaced its error.
func (w *Wizard) HandleSubmit() bool {
	step := w.nav.CurrentStep()
	if step != nil {
		result := step.Validate()
		if !result.Valid {
			w.nav.emitValidationFailed(result)
			return false
		}
	}

	if !w.hooks.OnSubmit() {
		return false
	}

	snapshot, err := w.ctx.MarshalSnapshot()
	if err != nil {
		logger.Error("Failed to serialize context after submit: %v", err)
		snapshot = nil
	}
	if w.Completed != nil {
		w.Completed(snapshot)
	}
	return true
}

// HandleCancel runs the cancellation hook and, when it allows, reports the
// run as cancelled.
func (w *Wizard) HandleCancel() bool {
	if c, ok := w.hooks.(Canceler); ok && !c.OnCancel() {
		return false
	}
	w.ctx.Base().Status = StatusCancelled
	if w.Cancelled != nil {
		w.Cancelled()
	}
	return true
}

// HandleSaveDraft runs the draft hook and reports the saved draft id.
// A hook error or empty id means nothing was saved; the hook surfaces its
// own failure details.
func (w *Wizard) HandleSaveDraft() (string, bool) {
	saver, ok := w.hooks.(DraftSaver)
	if !ok {
		return "", false
	}
	id, err := saver.OnSaveDraft()
	if err != nil {
		logger.Error("Draft save failed: %v", err)
		return "", false
	}
	if id == "" {
		return "", false
	}
	if w.DraftSaved != nil {
		w.DraftSaved(id)
	}
	return id, true
}
