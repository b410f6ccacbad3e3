package wizard

// ValidationResult is the structured outcome of a step's self-check.
// Errors block forward navigation; warnings never do. It is passed by
// pointer so a step can build it incrementally.
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// NewValidationResult returns a result that is valid until the first error.
func NewValidationResult() *ValidationResult {
	return &ValidationResult{Valid: true}
}

// AddError appends an error and flips Valid to false.
func (r *ValidationResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Valid = false
}

// AddWarning appends a non-blocking warning.
func (r *ValidationResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// HasErrors reports whether any error was recorded.
func (r *ValidationResult) HasErrors() bool { return len(r.Errors) > 0 }

// HasWarnings reports whether any warning was recorded.
func (r *ValidationResult) HasWarnings() bool { return len(r.Warnings) > 0 }

// Summary joins errors and warnings into bulleted plain text for display.
// Failures surface to users as text, never as stack traces.
func (r *ValidationResult) Summary() string {
	var out string
	for _, e := range r.Errors {
		if out != "" {
			out += "\n"
		}
		out += "• " + e
	}
	for _, w := range r.Warnings {
		if out != "" {
			out += "\n"
		}
		out += "• " + w
	}
	return out
}

// Step is a single page of a wizard, responsible for collecting and
// validating one coherent slice of data. A step is any type implementing
// this capability set; StepBase supplies the lifecycle bookkeeping.
//
// Steps are created once when the wizard is constructed and live for its
// entire lifetime; they are shown and hidden, never destroyed between
// navigations.
type Step interface {
	// SetupUI builds the step's presentation. The navigator invokes it
	// lazily, at most once, before the step is first shown.
	SetupUI()

	// Validate checks the step's current data. A result with errors keeps
	// the user on the step.
	Validate() *ValidationResult

	// CollectData returns the step's contribution to the overall
	// submission. Steps conventionally also write into the shared context.
	CollectData() map[string]any

	// PopulateData restores the step's UI from the context. It runs every
	// time the step becomes visible, including re-visits, because prior UI
	// state may be stale relative to context mutations made by other steps.
	PopulateData()

	// OnHide runs immediately before the step stops being active. Cleanup
	// only; data persistence must already have happened via Validate or
	// CollectData.
	OnHide()

	// Initialized and MarkInitialized guard the one-shot SetupUI call.
	Initialized() bool
	MarkInitialized()

	Title() string
	Description() string

	// CanSkip and Optional are reserved extension points for conditional
	// flows; the base Navigator does not implement skip logic itself.
	CanSkip() bool
	Optional() bool
}

// NextHook is an optional capability: a step implementing it performs a
// side effect after successful validation and before the index advances.
// A returned error aborts the transition.
type NextHook interface {
	OnNext() error
}

// StepBase provides default behavior for the optional parts of the Step
// contract. Embed it and implement SetupUI, Validate, and CollectData.
type StepBase struct {
	initialized bool
}

// Initialized reports whether SetupUI has run.
func (b *StepBase) Initialized() bool { return b.initialized }

// MarkInitialized records that SetupUI has run.
func (b *StepBase) MarkInitialized() { b.initialized = true }

// PopulateData is a no-op by default.
func (b *StepBase) PopulateData() {}

// OnHide is a no-op by default.
func (b *StepBase) OnHide() {}

// Description is empty by default.
func (b *StepBase) Description() string { return "" }

// CanSkip is false by default.
func (b *StepBase) CanSkip() bool { return false }

// Optional is false by default.
func (b *StepBase) Optional() bool { return false }
