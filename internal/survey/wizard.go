package survey

import (
	"context"
	"fmt"
	"time"

	"github.com/hussien-988/habitat-desktop-sub004/internal/domain"
	"github.com/hussien-988/habitat-desktop-sub004/internal/logger"
	"github.com/hussien-988/habitat-desktop-sub004/internal/wizard"
)

// DraftStore is the slice of the draft store the wizard needs.
// *drafts.Store satisfies it.
type DraftStore interface {
	Save(ctx context.Context, snapshot []byte) (string, error)
	RecordSurveyEvent(ctx context.Context, reference, action, data string)
}

// Wizard is the office survey flow: the hook implementation the generic
// wizard engine drives through seven steps from building selection to
// claim submission.
type Wizard struct {
	ctx      *SurveyContext
	registry Registry
	drafts   DraftStore

	// ConfirmCancel, when set, is asked before a cancel proceeds. The TUI
	// host wires it to a confirmation modal; nil means cancel freely.
	ConfirmCancel func() bool

	claim   *domain.Claim
	lastErr error
}

// NewWizard creates the hooks for a fresh survey run by the given clerk.
func NewWizard(clerkID string, registry Registry, drafts DraftStore) *Wizard {
	return &Wizard{
		ctx:      NewSurveyContext(clerkID),
		registry: registry,
		drafts:   drafts,
	}
}

// ResumeWizard creates the hooks over a context restored from a draft
// snapshot. The caller then calls wizard.New(...).Resume() instead of
// Start().
func ResumeWizard(snapshot []byte, registry Registry, drafts DraftStore) (*Wizard, error) {
	ctx, err := RestoreContext(snapshot)
	if err != nil {
		return nil, err
	}
	logger.Info("Resuming survey %s at step %d", ctx.ReferenceNumber, ctx.CurrentStepIndex)
	return &Wizard{
		ctx:      ctx,
		registry: registry,
		drafts:   drafts,
	}, nil
}

// SurveyContext exposes the typed context for the host.
func (w *Wizard) SurveyContext() *SurveyContext { return w.ctx }

// Claim returns the claim created by a successful submission, or nil.
func (w *Wizard) Claim() *domain.Claim { return w.claim }

// LastError returns the most recent submission failure, or nil.
func (w *Wizard) LastError() error { return w.lastErr }

// CreateContext implements wizard.Hooks.
func (w *Wizard) CreateContext() wizard.SessionContext { return w.ctx }

// CreateSteps implements wizard.Hooks.
func (w *Wizard) CreateSteps() []wizard.Step {
	return []wizard.Step{
		NewBuildingStep(w.ctx, w.registry),
		NewUnitStep(w.ctx, w.registry),
		NewHouseholdStep(w.ctx),
		NewPersonsStep(w.ctx),
		NewRelationsStep(w.ctx),
		NewClaimStep(w.ctx),
		NewReviewStep(w.ctx),
	}
}

// OnSubmit assembles the claim, stores the completed survey in the
// registry, and records the submission in the audit trail. A false return
// keeps the wizard open; the failure is available via LastError.
func (w *Wizard) OnSubmit() bool {
	seq, err := w.registry.NextClaimSequence(time.Now().Year())
	if err != nil {
		w.fail(fmt.Errorf("reserving claim number: %w", err))
		return false
	}

	claim := domain.NewClaim(w.ctx.ClaimType, w.ctx.Unit.UnitID, seq)
	claim.CreatedBy = w.ctx.UserID
	claim.Notes = w.ctx.ClaimNotes
	for _, p := range w.ctx.Persons {
		claim.PersonIDs = append(claim.PersonIDs, p.PersonID)
	}
	for _, r := range w.ctx.Relations {
		claim.RelationIDs = append(claim.RelationIDs, r.RelationID)
	}

	w.ctx.Status = wizard.StatusCompleted
	w.ctx.UpdateData("case_number", claim.CaseNumber)

	snapshot, err := w.ctx.MarshalSnapshot()
	if err != nil {
		w.fail(fmt.Errorf("serializing survey: %w", err))
		return false
	}

	if err := w.registry.SaveSurvey(w.ctx.ReferenceNumber, w.ctx.WizardID, w.ctx.UserID, claim.CaseNumber, snapshot); err != nil {
		w.fail(fmt.Errorf("storing survey: %w", err))
		return false
	}
	if err := w.registry.AppendAudit(w.ctx.UserID, "submit", "survey", w.ctx.ReferenceNumber,
		map[string]any{"case_number": claim.CaseNumber, "claim_type": claim.ClaimType}); err != nil {
		logger.Warn("Audit append failed for survey %s: %v", w.ctx.ReferenceNumber, err)
	}
	if w.drafts != nil {
		w.drafts.RecordSurveyEvent(context.Background(), w.ctx.ReferenceNumber, "submitted",
			"claim "+claim.CaseNumber)
	}

	w.claim = claim
	w.lastErr = nil
	logger.Info("Survey %s submitted as claim %s", w.ctx.ReferenceNumber, claim.CaseNumber)
	return true
}

func (w *Wizard) fail(err error) {
	w.lastErr = err
	w.ctx.Status = wizard.StatusInProgress
	logger.Error("Survey submission failed: %v", err)
}

// OnCancel implements the optional cancel confirmation. A confirmed cancel
// leaves its trace in the audit trail.
func (w *Wizard) OnCancel() bool {
	if w.ConfirmCancel != nil && !w.ConfirmCancel() {
		return false
	}
	if w.drafts != nil {
		w.drafts.RecordSurveyEvent(context.Background(), w.ctx.ReferenceNumber, "cancelled", "")
	}
	return true
}

// OnSaveDraft serializes the context into the draft store.
func (w *Wizard) OnSaveDraft() (string, error) {
	if w.drafts == nil {
		return "", fmt.Errorf("no draft store configured")
	}
	snapshot, err := w.ctx.MarshalSnapshot()
	if err != nil {
		return "", fmt.Errorf("serializing survey: %w", err)
	}
	return w.drafts.Save(context.Background(), snapshot)
}

// WizardTitle implements wizard.Titler.
func (w *Wizard) WizardTitle() string { return "Office Survey — Tenure Claim Registration" }

// SubmitLabel implements wizard.SubmitLabeler.
func (w *Wizard) SubmitLabel() string { return "Submit Claim" }
