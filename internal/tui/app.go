// Package tui hosts the survey wizard in the terminal: a centered modal
// with a header, progress bar, the active step's form, and a banner for
// validation feedback.
package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/hussien-988/habitat-desktop-sub004/internal/logger"
	"github.com/hussien-988/habitat-desktop-sub004/internal/survey"
	"github.com/hussien-988/habitat-desktop-sub004/internal/wizard"
)

const (
	modalWidth        = 78
	modalPadding      = 2
	modalBorderWidth  = 1
	modalContentWidth = modalWidth - (modalPadding * 2) - (modalBorderWidth * 2)
)

// stepView is the render capability the survey steps implement on top of
// the wizard step contract.
type stepView interface {
	Update(msg tea.Msg) tea.Cmd
	View() string
}

// Options configures one survey run.
type Options struct {
	// Resume continues at the step stored in the restored context instead
	// of starting at step 0.
	Resume bool

	// SkipCancelPrompt cancels immediately without the confirmation
	// modal, for clerks running with auto_confirm.
	SkipCancelPrompt bool
}

// App is the BubbleTea model driving one survey run.
type App struct {
	hooks *survey.Wizard
	wiz   *wizard.Wizard
	opts  Options

	width  int
	height int

	progress progress.Model

	validation *wizard.ValidationResult
	toast      string

	confirmCancel bool
	submitted     bool
	cancelled     bool
}

// NewApp builds the host model around the survey hooks.
func NewApp(hooks *survey.Wizard, opts Options) *App {
	a := &App{
		hooks: hooks,
		wiz:   wizard.New(hooks),
		opts:  opts,
		progress: progress.New(
			progress.WithDefaultBlend(),
			progress.WithWidth(modalContentWidth-14),
			progress.WithoutPercentage(),
		),
	}

	nav := a.wiz.Navigator()
	nav.ValidationFailed = func(r *wizard.ValidationResult) {
		a.validation = r
	}
	nav.StepChanged = func(oldIdx, newIdx int) {
		a.validation = nil
		a.toast = ""
		logger.Debug("Survey step %d -> %d", oldIdx, newIdx)
	}
	a.wiz.DraftSaved = func(id string) {
		a.toast = "Draft saved: " + id
	}
	return a
}

// Run starts the program and blocks until the survey is submitted or
// cancelled. Cancellation is reported as an error so the CLI exits
// non-zero.
func Run(hooks *survey.Wizard, opts Options) error {
	a := NewApp(hooks, opts)

	final, err := tea.NewProgram(a).Run()
	if err != nil {
		return fmt.Errorf("survey ui failed: %w", err)
	}
	app, ok := final.(*App)
	if !ok {
		return fmt.Errorf("unexpected model type")
	}
	if app.cancelled {
		return fmt.Errorf("survey cancelled")
	}
	return nil
}

// Cancelled reports whether the run ended without a submission.
func (a *App) Cancelled() bool { return a.cancelled }

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	if a.opts.Resume {
		a.wiz.Resume()
	} else {
		a.wiz.Start()
	}
	return nil
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyPressMsg:
		if a.confirmCancel {
			switch msg.String() {
			case "y", "Y":
				a.confirmCancel = false
				if a.wiz.HandleCancel() {
					a.cancelled = true
					return a, tea.Quit
				}
				return a, nil
			case "n", "N", "esc":
				a.confirmCancel = false
				return a, nil
			}
			return a, nil
		}

		if a.submitted {
			switch msg.String() {
			case "enter", "q", "esc", "ctrl+c":
				return a, tea.Quit
			}
			return a, nil
		}

		switch msg.String() {
		case "ctrl+c":
			return a.requestCancel()
		case "esc":
			if a.wiz.Navigator().CanGoPrevious() {
				a.wiz.HandlePrevious()
				return a, nil
			}
			return a.requestCancel()
		case "pgdown":
			a.advance()
			return a, nil
		case "pgup":
			a.wiz.HandlePrevious()
			return a, nil
		case "ctrl+s":
			if _, ok := a.wiz.HandleSaveDraft(); !ok {
				a.toast = "Draft save failed, see log"
			}
			return a, nil
		}
	}

	// Everything else goes to the active step.
	if view, ok := a.wiz.Navigator().CurrentStep().(stepView); ok {
		return a, view.Update(msg)
	}
	return a, nil
}

// advance moves forward, submitting on the last step. Validation failures
// reach the banner through the navigator callback; a submission failure
// produces no validation result, so it is surfaced here instead of leaving
// the clerk staring at a review step that will not budge.
func (a *App) advance() {
	if a.wiz.HandleNext() {
		if a.wiz.OnLastStep() && a.hooks.Claim() != nil {
			a.submitted = true
		}
		return
	}
	if err := a.hooks.LastError(); err != nil && a.validation == nil {
		r := wizard.NewValidationResult()
		r.AddError("Submission failed: " + err.Error())
		a.validation = r
	}
}

// requestCancel opens the confirmation modal, or cancels outright when the
// clerk runs with auto_confirm.
func (a *App) requestCancel() (tea.Model, tea.Cmd) {
	if !a.opts.SkipCancelPrompt {
		a.confirmCancel = true
		return a, nil
	}
	if a.wiz.HandleCancel() {
		a.cancelled = true
		return a, tea.Quit
	}
	return a, nil
}

// View implements tea.Model.
func (a *App) View() tea.View {
	var view tea.View
	view.AltScreen = true

	if a.width == 0 || a.height == 0 {
		view.Content = lipgloss.NewLayer("")
		return view
	}

	var content string
	switch {
	case a.submitted:
		content = a.renderCompletion()
	case a.confirmCancel:
		content = a.renderConfirmCancel()
	default:
		content = a.renderStep()
	}

	centered := lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)

	canvas := uv.NewScreenBuffer(a.width, a.height)
	uv.NewStyledString(centered).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: a.width, Y: a.height},
	})
	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

func (a *App) renderStep() string {
	nav := a.wiz.Navigator()
	step := nav.CurrentStep()

	header := styleHeader.Render(a.wiz.Title())
	stepLine := styleStepLine.Render(fmt.Sprintf("Step %d of %d: %s",
		nav.CurrentIndex()+1, nav.StepCount(), step.Title()))

	var desc string
	if d := step.Description(); d != "" {
		desc = styleMuted.Render(d)
	}

	bar := a.progress.ViewAs(nav.ProgressPercent() / 100)
	progressLine := lipgloss.JoinHorizontal(lipgloss.Center, bar,
		styleMuted.Render(fmt.Sprintf("  %d/%d done", nav.CompletedCount(), nav.StepCount())))

	var body string
	if view, ok := step.(stepView); ok {
		body = view.View()
	}

	nextHint := "pgdn next"
	if a.wiz.OnLastStep() {
		nextHint = "pgdn " + strings.ToLower(a.wiz.SubmitButtonText())
	}
	hint := styleMuted.Render(nextHint + " • esc back • ctrl+s save draft • ctrl+c cancel")

	parts := []string{header, stepLine}
	if desc != "" {
		parts = append(parts, desc)
	}
	parts = append(parts, progressLine, "", body)

	if banner := a.renderBanner(); banner != "" {
		parts = append(parts, "", banner)
	}
	if a.toast != "" {
		parts = append(parts, "", styleToast.Render(a.toast))
	}
	parts = append(parts, "", hint)

	return styleModal.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// renderBanner shows the most recent validation outcome: errors block, so
// they render loud; warnings render softer and do not block.
func (a *App) renderBanner() string {
	v := a.validation
	if v == nil || (!v.HasErrors() && !v.HasWarnings()) {
		return ""
	}
	var b strings.Builder
	for _, e := range v.Errors {
		b.WriteString(styleErrorText.Render("✗ " + e))
		b.WriteString("\n")
	}
	for _, w := range v.Warnings {
		b.WriteString(styleWarningText.Render("⚠ " + w))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *App) renderConfirmCancel() string {
	title := styleErrorText.Render("Cancel survey?")
	body := styleText.Render("Unsaved data will be lost. Save a draft first with ctrl+s.")
	hint := styleMuted.Render("y cancel • n keep working")
	return styleConfirmModal.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", hint))
}

func (a *App) renderCompletion() string {
	ctx := a.hooks.SurveyContext()
	claim := a.hooks.Claim()

	title := styleSuccessText.Render("✓ Survey submitted")
	ref := styleText.Render("Reference: " + ctx.ReferenceNumber)
	var caseLine string
	if claim != nil {
		caseLine = styleText.Render("Claim case: " + claim.CaseNumber)
	}
	hint := styleMuted.Render("enter exit")
	return styleModal.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", ref, caseLine, "", hint))
}
